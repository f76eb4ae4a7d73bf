package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"tctui/config"
	"tctui/storage"
)

// SaveCurrentSession snapshots the log into the current session file.
// A session is created lazily on the first save. No-op command when
// nothing changed or persistence is disabled.
func (m *Model) SaveCurrentSession() tea.Cmd {
	if m.SessionStorage == nil || !m.SessionDirty {
		return nil
	}
	if m.Log.Len() == 0 {
		m.SessionDirty = false
		return nil
	}

	if m.CurrentSession == nil {
		m.CurrentSession = storage.NewSession(m.sessionName())
	}

	entries := m.Log.All()
	m.CurrentSession.Entries = make([]storage.Entry, 0, len(entries))
	for _, e := range entries {
		m.CurrentSession.Entries = append(m.CurrentSession.Entries, entryToStorage(e))
	}
	m.SessionDirty = false

	store := m.SessionStorage
	session := m.CurrentSession
	return func() tea.Msg {
		return SessionSavedMsg{Err: store.SaveSession(session)}
	}
}

// sessionName derives a session name from the first user entry.
func (m *Model) sessionName() string {
	for _, e := range m.Log.All() {
		if e.Role == RoleUser {
			return storage.GenerateSessionName(e.Content)
		}
	}
	return storage.GenerateSessionName("")
}

// HandleSessionSaved logs a failed save; the session stays dirty so the
// next autosave retries.
func (m *Model) HandleSessionSaved(msg SessionSavedMsg) {
	if msg.Err == nil {
		return
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("session save failed: %v", msg.Err)
	}
	m.SessionDirty = true
}

// recordAnalysisCmd persists a completed analysis into the local
// history database.
func (m *Model) recordAnalysisCmd(videoID string) tea.Cmd {
	if m.AnalysisStore == nil || m.ActiveAnalysis == nil {
		return nil
	}

	rec := &storage.AnalysisRecord{
		VideoID:           videoID,
		Status:            m.ActiveAnalysis.Status,
		CoachingFeedback:  m.ActiveAnalysis.CoachingFeedback,
		ProcessedVideoURL: m.ActiveAnalysis.ProcessedVideoURL,
	}
	if s := m.ActiveAnalysis.Analysis; s != nil {
		rec.TotalFrames = s.TotalFrames
		rec.PlayerPositions = s.PlayerPositions
		rec.BallDetections = s.BallDetections
		rec.CourtKeypoints = s.CourtKeypoints
	}

	store := m.AnalysisStore
	return func() tea.Msg {
		return AnalysisRecordedMsg{Err: store.Record(rec)}
	}
}
