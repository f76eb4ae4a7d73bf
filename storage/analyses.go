package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// AnalysisRecord is one completed video analysis kept in the local
// history database.
type AnalysisRecord struct {
	ID                int64
	VideoID           string
	Status            string
	CoachingFeedback  string
	ProcessedVideoURL string
	TotalFrames       int
	PlayerPositions   int
	BallDetections    int
	CourtKeypoints    int
	CreatedAt         time.Time
}

// AnalysisStore keeps analysis history in <dataDir>/analyses.db.
type AnalysisStore struct {
	db *sql.DB
}

const analysesSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	video_id TEXT NOT NULL,
	status TEXT NOT NULL,
	coaching_feedback TEXT NOT NULL DEFAULT '',
	processed_video_url TEXT NOT NULL DEFAULT '',
	total_frames INTEGER NOT NULL DEFAULT 0,
	player_positions INTEGER NOT NULL DEFAULT 0,
	ball_detections INTEGER NOT NULL DEFAULT 0,
	court_keypoints INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

func NewAnalysisStore(dataDir string) (*AnalysisStore, error) {
	dbPath := filepath.Join(dataDir, "analyses.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open analysis database: %w", err)
	}

	if _, err := db.Exec(analysesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize analysis database: %w", err)
	}
	return &AnalysisStore{db: db}, nil
}

// Record inserts one finished analysis.
func (s *AnalysisStore) Record(rec *AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(`
		INSERT INTO analyses (
			video_id, status, coaching_feedback, processed_video_url,
			total_frames, player_positions, ball_detections, court_keypoints,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.VideoID, rec.Status, rec.CoachingFeedback, rec.ProcessedVideoURL,
		rec.TotalFrames, rec.PlayerPositions, rec.BallDetections, rec.CourtKeypoints,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// Recent returns the newest analyses, most recent first.
func (s *AnalysisStore) Recent(limit int) ([]*AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, video_id, status, coaching_feedback, processed_video_url,
			total_frames, player_positions, ball_detections, court_keypoints,
			created_at
		FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		rec := &AnalysisRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.VideoID, &rec.Status, &rec.CoachingFeedback,
			&rec.ProcessedVideoURL, &rec.TotalFrames, &rec.PlayerPositions,
			&rec.BallDetections, &rec.CourtKeypoints, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored analyses.
func (s *AnalysisStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return n, nil
}

func (s *AnalysisStore) Close() error {
	return s.db.Close()
}
