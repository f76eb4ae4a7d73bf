package model

import (
	"context"

	"tctui/coach"
)

// Backend is the coach server surface the model depends on. Defined
// here rather than in the coach package so tests can swap in a mock
// without an import cycle.
type Backend interface {
	// Chat sends one user message and returns the assistant reply.
	Chat(ctx context.Context, message string) (*coach.ChatResponse, error)

	// Reset clears the server-side conversation state.
	Reset(ctx context.Context) error

	// UploadVideo streams a video file to the server, reporting
	// transfer progress through the callback.
	UploadVideo(ctx context.Context, path string, progress coach.ProgressFunc) (*coach.UploadResponse, error)

	// AnalysisStatus fetches the current state of an analysis job.
	AnalysisStatus(ctx context.Context, videoID string) (*coach.AnalysisStatus, error)
}
