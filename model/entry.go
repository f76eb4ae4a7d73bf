package model

import (
	"time"

	"tctui/coach"
)

// Role identifies who produced a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// EntryKind classifies a conversation entry beyond its role, so the
// renderer and session storage can treat uploads and analysis results
// differently from plain chat text.
type EntryKind string

const (
	KindChat          EntryKind = "chat"
	KindVideoUpload   EntryKind = "video_upload"
	KindAnalysisStart EntryKind = "analysis_start"
	KindVideoAnalysis EntryKind = "video_analysis"
	KindError         EntryKind = "error"
)

// Attachment carries the analysis artifacts that accompany a
// KindVideoAnalysis entry.
type Attachment struct {
	ProcessedVideoURL string
	Summary           coach.AnalysisSummary
	HasSummary        bool
}

// Entry is one item of the conversation log. Content is final once the
// entry is appended; Rendered is a markdown render cache maintained by
// the UI and may be filled in later.
type Entry struct {
	Role       Role
	Kind       EntryKind
	Content    string
	Rendered   string
	Attachment *Attachment
	Timestamp  time.Time
}
