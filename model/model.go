package model

import (
	"sync/atomic"
	"time"

	"tctui/coach"
	"tctui/config"
	"tctui/storage"
)

// Model owns the application state: the conversation log, the single
// in-flight chat turn, the single active upload/analysis job, and the
// recommended-video sidebar. The ui package reads it and routes
// messages back into its handlers; all mutation happens on the
// bubbletea update goroutine except the upload byte counters, which the
// transfer goroutine writes through atomics.
type Model struct {
	Config         *config.Config
	Backend        Backend
	SessionStorage *storage.SessionStorage
	AnalysisStore  *storage.AnalysisStore

	Log               *ConversationLog
	RecommendedVideos []coach.Video
	ActiveAnalysis    *coach.AnalysisStatus
	CurrentSession    *storage.Session

	ChatInFlight bool
	Uploading    bool
	UploadName   string
	ShowWelcome  bool
	SessionDirty bool

	Poll           *AnalysisPoll
	pollGeneration uint64

	uploadSent  atomic.Int64
	uploadTotal atomic.Int64

	Version string
}

// NewModel builds the initial state. When lastSession is non-nil its
// entries are restored into the log.
func NewModel(cfg *config.Config, backend Backend, sessions *storage.SessionStorage, analyses *storage.AnalysisStore, lastSession *storage.Session, version string) *Model {
	m := &Model{
		Config:         cfg,
		Backend:        backend,
		SessionStorage: sessions,
		AnalysisStore:  analyses,
		Log:            NewConversationLog(),
		Version:        version,
	}

	if lastSession != nil && len(lastSession.Entries) > 0 {
		m.CurrentSession = lastSession
		for _, se := range lastSession.Entries {
			m.Log.Append(entryFromStorage(se))
		}
	}

	m.ShowWelcome = cfg.WelcomeEnabled && m.Log.Len() == 0
	return m
}

// Busy reports whether an upload or a pending analysis job occupies the
// single video slot.
func (m *Model) Busy() bool {
	if m.Uploading {
		return true
	}
	return m.Poll != nil && !m.Poll.Terminal()
}

// UploadProgress returns the transfer percentage, 0..100. It is 0
// before a transfer starts and again after it settles, and it never
// reaches 100 before every byte has been handed to the transport.
func (m *Model) UploadProgress() int {
	if !m.Uploading {
		return 0
	}
	total := m.uploadTotal.Load()
	if total <= 0 {
		return 0
	}
	pct := int(m.uploadSent.Load() * 100 / total)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// UploadBytes returns the raw transfer counters for display.
func (m *Model) UploadBytes() (sent, total int64) {
	return m.uploadSent.Load(), m.uploadTotal.Load()
}

// HandleEntryRendered stores a finished markdown render, unless the
// log changed underneath it.
func (m *Model) HandleEntryRendered(msg EntryRenderedMsg) {
	if msg.Index >= m.Log.Len() {
		return
	}
	if m.Log.At(msg.Index).Content != msg.Content {
		return
	}
	m.Log.SetRendered(msg.Index, msg.Rendered)
}

func entryFromStorage(se storage.Entry) Entry {
	e := Entry{
		Role:      Role(se.Role),
		Kind:      EntryKind(se.Kind),
		Content:   se.Content,
		Timestamp: se.Timestamp,
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if se.Attachment != nil {
		e.Attachment = &Attachment{
			ProcessedVideoURL: se.Attachment.ProcessedVideoURL,
			Summary: coach.AnalysisSummary{
				TotalFrames:     se.Attachment.TotalFrames,
				PlayerPositions: se.Attachment.PlayerPositions,
				BallDetections:  se.Attachment.BallDetections,
				CourtKeypoints:  se.Attachment.CourtKeypoints,
			},
			HasSummary: se.Attachment.HasSummary,
		}
	}
	return e
}

func entryToStorage(e Entry) storage.Entry {
	se := storage.Entry{
		Role:      string(e.Role),
		Kind:      string(e.Kind),
		Content:   e.Content,
		Timestamp: e.Timestamp,
	}
	if e.Attachment != nil {
		se.Attachment = &storage.Attachment{
			ProcessedVideoURL: e.Attachment.ProcessedVideoURL,
			TotalFrames:       e.Attachment.Summary.TotalFrames,
			PlayerPositions:   e.Attachment.Summary.PlayerPositions,
			BallDetections:    e.Attachment.Summary.BallDetections,
			CourtKeypoints:    e.Attachment.Summary.CourtKeypoints,
			HasSummary:        e.Attachment.HasSummary,
		}
	}
	return se
}
