package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is the persisted form of an analysis result attached to a
// conversation entry.
type Attachment struct {
	ProcessedVideoURL string `json:"processed_video_url,omitempty"`
	TotalFrames       int    `json:"total_frames,omitempty"`
	PlayerPositions   int    `json:"player_positions,omitempty"`
	BallDetections    int    `json:"ball_detections,omitempty"`
	CourtKeypoints    int    `json:"court_keypoints,omitempty"`
	HasSummary        bool   `json:"has_summary,omitempty"`
}

// Entry is the persisted form of one conversation entry.
type Entry struct {
	Role       string      `json:"role"`
	Kind       string      `json:"kind"`
	Content    string      `json:"content"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Session is one saved coaching conversation.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Entries   []Entry   `json:"entries"`
}

// SessionMeta is the listing view of a session, without its entries.
type SessionMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	EntryCount int       `json:"entry_count"`
}

// SessionStorage stores sessions as JSON files under
// <dataDir>/sessions/<id>.json.
type SessionStorage struct {
	sessionsDir string
}

func NewSessionStorage(dataDir string) (*SessionStorage, error) {
	sessionsDir := filepath.Join(dataDir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &SessionStorage{sessionsDir: sessionsDir}, nil
}

// NewSession creates an empty session with a fresh id.
func NewSession(name string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateSessionName derives a session name from the first user
// message, truncated to a listing-friendly length.
func GenerateSessionName(firstMessage string) string {
	name := strings.TrimSpace(firstMessage)
	if name == "" {
		return "New Session " + time.Now().Format("2006-01-02 15:04")
	}
	if idx := strings.IndexAny(name, "\r\n"); idx >= 0 {
		name = name[:idx]
	}
	if runes := []rune(name); len(runes) > 50 {
		name = string(runes[:50]) + "..."
	}
	return name
}

func (s *SessionStorage) sessionPath(id string) string {
	return filepath.Join(s.sessionsDir, id+".json")
}

// SaveSession writes the session to disk, refreshing UpdatedAt.
func (s *SessionStorage) SaveSession(session *Session) error {
	session.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	// 0600: conversation content is private to the user
	if err := os.WriteFile(s.sessionPath(session.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadSession reads one session by id.
func (s *SessionStorage) LoadSession(id string) (*Session, error) {
	data, err := os.ReadFile(s.sessionPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

// ListSessions returns metadata for every stored session, newest first.
func (s *SessionStorage) ListSessions() ([]*SessionMeta, error) {
	files, err := os.ReadDir(s.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var metas []*SessionMeta
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(f.Name(), ".json")
		session, err := s.LoadSession(id)
		if err != nil {
			// Skip unreadable files rather than failing the listing
			continue
		}
		metas = append(metas, &SessionMeta{
			ID:         session.ID,
			Name:       session.Name,
			CreatedAt:  session.CreatedAt,
			UpdatedAt:  session.UpdatedAt,
			EntryCount: len(session.Entries),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// LatestSession returns the most recently updated session, or nil when
// none exist.
func (s *SessionStorage) LatestSession() (*Session, error) {
	metas, err := s.ListSessions()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, nil
	}
	return s.LoadSession(metas[0].ID)
}

// DeleteSession removes one session file.
func (s *SessionStorage) DeleteSession(id string) error {
	if err := os.Remove(s.sessionPath(id)); err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
