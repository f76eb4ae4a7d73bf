package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tctui/config"
)

const (
	uploadRequestTimeout = 10 * time.Minute
	uploadTickInterval   = 100 * time.Millisecond

	uploadErrorText   = "Sorry, there was an error uploading your video. Please try again with a smaller file or different format."
	analysisStartText = "🎾 Video uploaded successfully! I'm now analyzing your tennis technique using computer vision. This may take a few moments..."
)

var (
	// ErrNotVideo rejects files without a recognized video extension.
	ErrNotVideo = errors.New("please select a video file (MP4, AVI, MOV, MKV, WEBM)")
	// ErrUploadBusy rejects a second video while one is still being
	// transferred or analyzed.
	ErrUploadBusy = errors.New("a video is already being uploaded or analyzed")
)

// VideoExtensions lists the file extensions accepted for upload.
var VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

// IsVideoFile reports whether path has a recognized video extension.
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// UploadVideo starts the transfer of one video file. The upload entry
// is appended immediately; the returned command resolves to an
// UploadDoneMsg once the transfer settles. A validation failure returns
// a nil command and the reason, with no entry appended.
func (m *Model) UploadVideo(path string) (tea.Cmd, error) {
	if !IsVideoFile(path) {
		return nil, ErrNotVideo
	}
	if m.Busy() {
		return nil, ErrUploadBusy
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read video file: %w", err)
	}

	m.Uploading = true
	m.UploadName = filepath.Base(path)
	m.uploadSent.Store(0)
	m.uploadTotal.Store(info.Size())
	m.ShowWelcome = false

	sizeMB := float64(info.Size()) / 1024 / 1024
	m.Log.Append(Entry{
		Role:    RoleUser,
		Kind:    KindVideoUpload,
		Content: fmt.Sprintf("🎥 Uploading video: %s (%.2f MB)", m.UploadName, sizeMB),
	})
	m.SessionDirty = true

	backend := m.Backend
	sent, total := &m.uploadSent, &m.uploadTotal
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), uploadRequestTimeout)
		defer cancel()

		resp, err := backend.UploadVideo(ctx, path, func(s, t int64) {
			sent.Store(s)
			total.Store(t)
		})
		if err != nil {
			return UploadDoneMsg{Err: err}
		}
		return UploadDoneMsg{VideoID: resp.VideoID}
	}, nil
}

// UploadTick schedules the next progress refresh while a transfer runs.
func (m *Model) UploadTick() tea.Cmd {
	return tea.Tick(uploadTickInterval, func(time.Time) tea.Msg {
		return UploadTickMsg{}
	})
}

// HandleUploadDone settles the transfer. On success it appends the
// analysis notice and returns the command that issues the first status
// poll; on failure it appends the upload apology and returns nil.
func (m *Model) HandleUploadDone(msg UploadDoneMsg) tea.Cmd {
	m.Uploading = false
	m.UploadName = ""
	m.uploadSent.Store(0)
	m.uploadTotal.Store(0)

	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("video upload failed: %v", msg.Err)
		}
		m.Log.Append(Entry{Role: RoleAssistant, Kind: KindError, Content: uploadErrorText})
		m.SessionDirty = true
		return nil
	}

	m.Log.Append(Entry{Role: RoleAssistant, Kind: KindAnalysisStart, Content: analysisStartText})
	m.SessionDirty = true
	return m.StartPoll(msg.VideoID)
}
