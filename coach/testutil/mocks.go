// Package testutil provides mock implementations of the coach backend
// for testing.
package testutil

import (
	"context"
	"sync"

	"tctui/coach"
)

// MockBackend implements the backend surface with configurable
// behavior. The zero value answers every call successfully with bland
// defaults.
type MockBackend struct {
	mu sync.Mutex

	ChatFunc           func(ctx context.Context, message string) (*coach.ChatResponse, error)
	ResetFunc          func(ctx context.Context) error
	UploadVideoFunc    func(ctx context.Context, path string, progress coach.ProgressFunc) (*coach.UploadResponse, error)
	AnalysisStatusFunc func(ctx context.Context, videoID string) (*coach.AnalysisStatus, error)

	ChatCalls   []string
	ResetCalls  int
	UploadCalls []string
	StatusCalls []string
}

func (m *MockBackend) Chat(ctx context.Context, message string) (*coach.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, message)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, message)
	}
	return &coach.ChatResponse{Response: "mock reply"}, nil
}

func (m *MockBackend) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.ResetCalls++
	fn := m.ResetFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (m *MockBackend) UploadVideo(ctx context.Context, path string, progress coach.ProgressFunc) (*coach.UploadResponse, error) {
	m.mu.Lock()
	m.UploadCalls = append(m.UploadCalls, path)
	fn := m.UploadVideoFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, path, progress)
	}
	if progress != nil {
		progress(100, 100)
	}
	return &coach.UploadResponse{Success: true, VideoID: "mock-video-id"}, nil
}

func (m *MockBackend) AnalysisStatus(ctx context.Context, videoID string) (*coach.AnalysisStatus, error) {
	m.mu.Lock()
	m.StatusCalls = append(m.StatusCalls, videoID)
	fn := m.AnalysisStatusFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, videoID)
	}
	return &coach.AnalysisStatus{Status: coach.StatusPending}, nil
}

// StatusCount returns how many status requests have been issued.
func (m *MockBackend) StatusCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.StatusCalls)
}
