package ui

import (
	"tctui/model"
	"tctui/storage"
)

// Message type aliases - these are defined in the model package
type chatReplyMsg = model.ChatReplyMsg
type chatErrorMsg = model.ChatErrorMsg
type uploadDoneMsg = model.UploadDoneMsg
type uploadTickMsg = model.UploadTickMsg
type pollTickMsg = model.PollTickMsg
type pollStatusMsg = model.PollStatusMsg
type resetDoneMsg = model.ResetDoneMsg
type sessionSavedMsg = model.SessionSavedMsg
type analysisRecordedMsg = model.AnalysisRecordedMsg
type entryRenderedMsg = model.EntryRenderedMsg

// clipboardCopiedMsg reports the outcome of copying a reply to the
// system clipboard.
type clipboardCopiedMsg struct {
	err error
}

// autosaveTickMsg drives the periodic session autosave.
type autosaveTickMsg struct{}

// analysisHistoryMsg carries the stored analyses for the history modal.
type analysisHistoryMsg struct {
	records []*storage.AnalysisRecord
	count   int
	err     error
}
