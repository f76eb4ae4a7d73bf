package model

import "tctui/coach"

// Bubbletea messages produced by model commands. The ui package aliases
// the ones it routes in its Update loop.

// ChatReplyMsg carries a successful assistant reply.
type ChatReplyMsg struct {
	Response string
	Videos   []coach.Video
}

// ChatErrorMsg signals that a chat request failed.
type ChatErrorMsg struct {
	Err error
}

// UploadDoneMsg signals that a video transfer settled, one way or the
// other.
type UploadDoneMsg struct {
	VideoID string
	Err     error
}

// UploadTickMsg drives the progress display while a transfer is
// running.
type UploadTickMsg struct{}

// PollTickMsg fires when a scheduled poll wait elapses. Generation ties
// it to the analysis job it was scheduled for.
type PollTickMsg struct {
	Generation uint64
}

// PollStatusMsg carries one job-status response, or the transport
// failure that stood in for it.
type PollStatusMsg struct {
	Generation uint64
	Status     *coach.AnalysisStatus
	Err        error
}

// ResetDoneMsg signals that the backend reset call returned.
type ResetDoneMsg struct {
	Err error
}

// SessionSavedMsg reports the outcome of an async session save.
type SessionSavedMsg struct {
	Err error
}

// AnalysisRecordedMsg reports the outcome of persisting a completed
// analysis to the local history.
type AnalysisRecordedMsg struct {
	Err error
}

// EntryRenderedMsg delivers an async markdown render for one log
// entry. Content identifies the entry the render was produced from.
type EntryRenderedMsg struct {
	Index    int
	Content  string
	Rendered string
}
