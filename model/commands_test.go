package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tctui/coach"
	"tctui/coach/testutil"
	"tctui/config"
	"tctui/storage"
)

func newTestModel(backend Backend) *Model {
	cfg := &config.Config{
		DataDirectory:  "",
		ServerURL:      "http://localhost:5000",
		WelcomeEnabled: true,
	}
	return NewModel(cfg, backend, nil, nil, nil, "test")
}

func writeTempVideo(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, make([]byte, size), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSendMessageAppendsUserEntry(t *testing.T) {
	m := newTestModel(&testutil.MockBackend{})

	cmd := m.SendMessage("  How do I improve my forehand?  ")
	if cmd == nil {
		t.Fatal("expected a command for a valid message")
	}
	if m.Log.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Log.Len())
	}
	e := m.Log.At(0)
	if e.Role != RoleUser || e.Content != "How do I improve my forehand?" {
		t.Errorf("unexpected user entry: %+v", e)
	}
	if !m.ChatInFlight {
		t.Error("expected ChatInFlight after send")
	}
	if m.ShowWelcome {
		t.Error("expected welcome banner to clear on first message")
	}
}

func TestSendMessageEmptyIsNoOp(t *testing.T) {
	m := newTestModel(&testutil.MockBackend{})

	for _, text := range []string{"", "   ", " \n\t "} {
		if cmd := m.SendMessage(text); cmd != nil {
			t.Errorf("expected nil command for %q", text)
		}
	}
	if m.Log.Len() != 0 {
		t.Errorf("empty sends must not append, got %d entries", m.Log.Len())
	}
	if m.ChatInFlight {
		t.Error("empty send must not mark a turn in flight")
	}
}

func TestSendMessageWhileInFlightIsNoOp(t *testing.T) {
	mock := &testutil.MockBackend{}
	m := newTestModel(mock)

	if cmd := m.SendMessage("first"); cmd == nil {
		t.Fatal("expected a command")
	}
	if cmd := m.SendMessage("second"); cmd != nil {
		t.Error("expected nil command while a turn is in flight")
	}
	if m.Log.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", m.Log.Len())
	}
}

func TestChatTurnProducesExactlyTwoEntries(t *testing.T) {
	mock := &testutil.MockBackend{
		ChatFunc: func(ctx context.Context, message string) (*coach.ChatResponse, error) {
			return &coach.ChatResponse{
				Response: "Bend your knees and follow through.",
				Videos: []coach.Video{
					{Title: "Forehand Fundamentals", URL: "https://youtu.be/abc123xyz"},
					{Title: "Topspin Drills", URL: "https://youtu.be/def456uvw"},
				},
			}, nil
		},
	}
	m := newTestModel(mock)

	cmd := m.SendMessage("How do I improve my forehand?")
	msg := cmd()
	reply, ok := msg.(ChatReplyMsg)
	if !ok {
		t.Fatalf("expected ChatReplyMsg, got %T", msg)
	}
	m.HandleChatReply(reply)

	if m.Log.Len() != 2 {
		t.Fatalf("expected exactly 2 entries, got %d", m.Log.Len())
	}
	if m.Log.At(1).Role != RoleAssistant {
		t.Errorf("expected assistant reply, got %+v", m.Log.At(1))
	}
	if m.ChatInFlight {
		t.Error("turn must settle ChatInFlight")
	}
	if len(m.RecommendedVideos) != 2 {
		t.Errorf("expected 2 recommended videos, got %d", len(m.RecommendedVideos))
	}
}

func TestChatErrorAppendsApology(t *testing.T) {
	mock := &testutil.MockBackend{
		ChatFunc: func(ctx context.Context, message string) (*coach.ChatResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	m := newTestModel(mock)

	cmd := m.SendMessage("hello")
	msg := cmd()
	errMsg, ok := msg.(ChatErrorMsg)
	if !ok {
		t.Fatalf("expected ChatErrorMsg, got %T", msg)
	}
	m.HandleChatError(errMsg)

	if m.Log.Len() != 2 {
		t.Fatalf("expected exactly 2 entries, got %d", m.Log.Len())
	}
	e := m.Log.At(1)
	if e.Role != RoleAssistant || e.Kind != KindError || e.Content != chatErrorText {
		t.Errorf("unexpected error entry: %+v", e)
	}
	if m.ChatInFlight {
		t.Error("failed turn must settle ChatInFlight")
	}
}

func TestRecommendedVideosSupersededNotMerged(t *testing.T) {
	m := newTestModel(&testutil.MockBackend{})

	m.HandleChatReply(ChatReplyMsg{Response: "a", Videos: []coach.Video{
		{Title: "One"}, {Title: "Two"},
	}})
	m.HandleChatReply(ChatReplyMsg{Response: "b", Videos: []coach.Video{
		{Title: "Three"},
	}})
	if len(m.RecommendedVideos) != 1 || m.RecommendedVideos[0].Title != "Three" {
		t.Errorf("expected newest list to replace, got %+v", m.RecommendedVideos)
	}

	// A reply without videos leaves the current list standing.
	m.HandleChatReply(ChatReplyMsg{Response: "c"})
	if len(m.RecommendedVideos) != 1 {
		t.Errorf("reply without videos must not clear the list, got %+v", m.RecommendedVideos)
	}
}

func TestUploadRejectsNonVideoFile(t *testing.T) {
	m := newTestModel(&testutil.MockBackend{})

	cmd, err := m.UploadVideo(filepath.Join(t.TempDir(), "notes.txt"))
	if cmd != nil || !errors.Is(err, ErrNotVideo) {
		t.Errorf("expected ErrNotVideo, got cmd=%v err=%v", cmd, err)
	}
	if m.Log.Len() != 0 {
		t.Error("rejected upload must not append an entry")
	}
}

func TestUploadRejectsWhileBusy(t *testing.T) {
	m := newTestModel(&testutil.MockBackend{})
	path := writeTempVideo(t, 1024)

	m.Uploading = true
	if _, err := m.UploadVideo(path); !errors.Is(err, ErrUploadBusy) {
		t.Errorf("expected ErrUploadBusy during transfer, got %v", err)
	}
	m.Uploading = false

	m.Poll = NewAnalysisPoll("vid-1", 1)
	if _, err := m.UploadVideo(path); !errors.Is(err, ErrUploadBusy) {
		t.Errorf("expected ErrUploadBusy during analysis, got %v", err)
	}
}

func TestUploadProgressAndCompletion(t *testing.T) {
	var midTransfer int
	mock := &testutil.MockBackend{}
	m := newTestModel(mock)
	mock.UploadVideoFunc = func(ctx context.Context, path string, progress coach.ProgressFunc) (*coach.UploadResponse, error) {
		progress(512, 1024)
		midTransfer = m.UploadProgress()
		progress(1024, 1024)
		return &coach.UploadResponse{Success: true, VideoID: "vid-42"}, nil
	}

	path := writeTempVideo(t, 1024)
	cmd, err := m.UploadVideo(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Log.Len() != 1 || m.Log.At(0).Kind != KindVideoUpload {
		t.Fatalf("expected upload entry, got %+v", m.Log.All())
	}
	if !strings.Contains(m.Log.At(0).Content, "clip.mp4") {
		t.Errorf("upload entry should name the file: %q", m.Log.At(0).Content)
	}
	if m.UploadProgress() != 0 {
		t.Errorf("expected 0%% before any bytes, got %d", m.UploadProgress())
	}

	msg := cmd()
	done, ok := msg.(UploadDoneMsg)
	if !ok {
		t.Fatalf("expected UploadDoneMsg, got %T", msg)
	}
	if midTransfer != 50 {
		t.Errorf("expected 50%% at half transfer, got %d", midTransfer)
	}
	if m.UploadProgress() != 100 {
		t.Errorf("expected 100%% once all bytes sent, got %d", m.UploadProgress())
	}

	pollCmd := m.HandleUploadDone(done)
	if m.Uploading {
		t.Error("expected transfer to settle")
	}
	if m.UploadProgress() != 0 {
		t.Errorf("expected 0%% after settlement, got %d", m.UploadProgress())
	}
	if m.Log.Len() != 2 || m.Log.At(1).Kind != KindAnalysisStart {
		t.Fatalf("expected analysis notice, got %+v", m.Log.All())
	}
	if pollCmd == nil {
		t.Fatal("expected the first poll to fire after a successful upload")
	}
	if m.Poll == nil || m.Poll.VideoID != "vid-42" {
		t.Errorf("expected an active poll for vid-42, got %+v", m.Poll)
	}
}

func TestUploadFailureAppendsApology(t *testing.T) {
	mock := &testutil.MockBackend{
		UploadVideoFunc: func(ctx context.Context, path string, progress coach.ProgressFunc) (*coach.UploadResponse, error) {
			return nil, errors.New("413 Request Entity Too Large")
		},
	}
	m := newTestModel(mock)

	cmd, err := m.UploadVideo(writeTempVideo(t, 1024))
	if err != nil {
		t.Fatal(err)
	}
	done := cmd().(UploadDoneMsg)
	if pollCmd := m.HandleUploadDone(done); pollCmd != nil {
		t.Error("failed upload must not start polling")
	}

	if m.Log.Len() != 2 {
		t.Fatalf("expected upload entry plus apology, got %d entries", m.Log.Len())
	}
	e := m.Log.At(1)
	if e.Kind != KindError || e.Content != uploadErrorText {
		t.Errorf("unexpected failure entry: %+v", e)
	}
	if m.Poll != nil {
		t.Error("failed upload must not leave a poll behind")
	}
}

// drivePoll runs the poll loop to a terminal state, pretending every
// scheduled wait has elapsed.
func drivePoll(t *testing.T, m *Model, first tea.Cmd) {
	t.Helper()
	cmd := first
	for i := 0; i < DefaultMaxPollAttempts+5; i++ {
		if cmd == nil {
			t.Fatal("poll loop stalled without reaching a terminal state")
		}
		msg, ok := cmd().(PollStatusMsg)
		if !ok {
			t.Fatal("expected PollStatusMsg from status command")
		}
		m.HandlePollStatus(msg)
		if m.Poll == nil || m.Poll.Terminal() {
			return
		}
		cmd = m.HandlePollTick(PollTickMsg{Generation: m.Poll.Generation})
	}
	t.Fatal("poll never terminated")
}

func TestAnalysisPollCompletesAndAppendsOnce(t *testing.T) {
	calls := 0
	mock := &testutil.MockBackend{
		AnalysisStatusFunc: func(ctx context.Context, videoID string) (*coach.AnalysisStatus, error) {
			calls++
			if calls < 3 {
				return &coach.AnalysisStatus{Status: coach.StatusPending}, nil
			}
			return &coach.AnalysisStatus{
				Status:            coach.StatusCompleted,
				CoachingFeedback:  "Great racket preparation.",
				ProcessedVideoURL: "http://localhost:5000/processed/vid-1.mp4",
				Analysis: &coach.AnalysisSummary{
					TotalFrames:     300,
					PlayerPositions: 280,
					BallDetections:  120,
					CourtKeypoints:  14,
				},
			}, nil
		},
	}
	m := newTestModel(mock)

	drivePoll(t, m, m.StartPoll("vid-1"))

	if calls != 3 {
		t.Errorf("expected 3 status requests, got %d", calls)
	}
	if m.Log.Len() != 1 {
		t.Fatalf("expected exactly one terminal entry, got %d", m.Log.Len())
	}
	e := m.Log.At(0)
	if e.Kind != KindVideoAnalysis || e.Content != "Great racket preparation." {
		t.Errorf("unexpected analysis entry: %+v", e)
	}
	if e.Attachment == nil || !e.Attachment.HasSummary || e.Attachment.Summary.TotalFrames != 300 {
		t.Errorf("expected analysis attachment, got %+v", e.Attachment)
	}
	if m.ActiveAnalysis == nil {
		t.Error("expected ActiveAnalysis to be retained")
	}

	// A duplicate result for the settled job is dropped.
	m.HandlePollStatus(PollStatusMsg{
		Generation: m.Poll.Generation,
		Status:     &coach.AnalysisStatus{Status: coach.StatusCompleted},
	})
	if m.Log.Len() != 1 {
		t.Errorf("duplicate result appended a second entry, log has %d", m.Log.Len())
	}
}

func TestAnalysisPollTimesOutAfterBudget(t *testing.T) {
	mock := &testutil.MockBackend{}
	m := newTestModel(mock)

	drivePoll(t, m, m.StartPoll("vid-1"))

	if got := mock.StatusCount(); got != DefaultMaxPollAttempts {
		t.Errorf("expected exactly %d status requests, got %d", DefaultMaxPollAttempts, got)
	}
	if m.Poll.State != PollTimedOut {
		t.Errorf("expected timed out, got %q", m.Poll.State)
	}
	if m.Log.Len() != 1 || m.Log.At(0).Content != analysisTimeoutText {
		t.Errorf("expected single timeout entry, got %+v", m.Log.All())
	}

	// The settled job schedules nothing further.
	if cmd := m.HandlePollTick(PollTickMsg{Generation: m.Poll.Generation}); cmd != nil {
		t.Error("terminal job must not issue another status request")
	}
}

func TestAnalysisPollSwallowsTransportErrors(t *testing.T) {
	calls := 0
	mock := &testutil.MockBackend{
		AnalysisStatusFunc: func(ctx context.Context, videoID string) (*coach.AnalysisStatus, error) {
			calls++
			switch calls {
			case 5:
				return nil, errors.New("connection reset by peer")
			case 6:
				return &coach.AnalysisStatus{Status: coach.StatusCompleted, CoachingFeedback: "done"}, nil
			default:
				return &coach.AnalysisStatus{Status: coach.StatusPending}, nil
			}
		},
	}
	m := newTestModel(mock)

	drivePoll(t, m, m.StartPoll("vid-1"))

	if m.Poll.State != PollCompleted {
		t.Fatalf("expected completion after transient failure, got %q", m.Poll.State)
	}
	if m.Log.Len() != 1 || m.Log.At(0).Kind != KindVideoAnalysis {
		t.Errorf("transient failure must not surface in the log: %+v", m.Log.All())
	}
}

func TestAnalysisPollErrorStatus(t *testing.T) {
	mock := &testutil.MockBackend{
		AnalysisStatusFunc: func(ctx context.Context, videoID string) (*coach.AnalysisStatus, error) {
			return &coach.AnalysisStatus{Status: coach.StatusError, Error: "no player detected"}, nil
		},
	}
	m := newTestModel(mock)

	drivePoll(t, m, m.StartPoll("vid-1"))

	if m.Poll.State != PollError {
		t.Fatalf("expected error state, got %q", m.Poll.State)
	}
	if m.Log.Len() != 1 {
		t.Fatalf("expected exactly one terminal entry, got %d", m.Log.Len())
	}
	e := m.Log.At(0)
	if e.Kind != KindError || !strings.Contains(e.Content, "no player detected") {
		t.Errorf("expected error entry carrying the server message, got %+v", e)
	}
}

func TestResetClearsStateAndDiscardsStalePolls(t *testing.T) {
	mock := &testutil.MockBackend{}
	m := newTestModel(mock)

	m.HandleChatReply(ChatReplyMsg{Response: "hi", Videos: []coach.Video{{Title: "One"}}})
	m.ActiveAnalysis = &coach.AnalysisStatus{Status: coach.StatusCompleted}
	m.StartPoll("vid-1")
	staleGen := m.Poll.Generation

	cmd := m.ResetConversation()
	done, ok := cmd().(ResetDoneMsg)
	if !ok {
		t.Fatal("expected ResetDoneMsg")
	}
	if mock.ResetCalls != 1 {
		t.Errorf("expected one backend reset call, got %d", mock.ResetCalls)
	}
	m.ApplyReset(done)

	if m.Log.Len() != 0 {
		t.Errorf("expected empty log after reset, got %d entries", m.Log.Len())
	}
	if m.RecommendedVideos != nil {
		t.Error("expected recommended videos cleared")
	}
	if m.ActiveAnalysis != nil {
		t.Error("expected analysis state cleared")
	}
	if m.Poll != nil {
		t.Error("expected active poll abandoned")
	}
	if !m.ShowWelcome {
		t.Error("expected welcome banner restored")
	}

	// A poll result that was in flight during the reset arrives with
	// the old generation and is discarded before touching the log.
	m.HandlePollStatus(PollStatusMsg{
		Generation: staleGen,
		Status:     &coach.AnalysisStatus{Status: coach.StatusCompleted, CoachingFeedback: "stale"},
	})
	if m.Log.Len() != 0 {
		t.Errorf("stale poll result reached the log: %+v", m.Log.All())
	}
}

func TestResetClearsLocallyEvenWhenBackendFails(t *testing.T) {
	mock := &testutil.MockBackend{
		ResetFunc: func(ctx context.Context) error {
			return errors.New("server unavailable")
		},
	}
	m := newTestModel(mock)
	m.HandleChatReply(ChatReplyMsg{Response: "hi"})

	done := m.ResetConversation()().(ResetDoneMsg)
	if done.Err == nil {
		t.Fatal("expected backend error to surface in the message")
	}
	m.ApplyReset(done)

	if m.Log.Len() != 0 {
		t.Error("local state must clear regardless of backend outcome")
	}
}

func TestResetDeletesPersistedSession(t *testing.T) {
	store, err := storage.NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{ServerURL: "http://localhost:5000", WelcomeEnabled: true}
	m := NewModel(cfg, &testutil.MockBackend{}, store, nil, nil, "test")

	m.SendMessage("How do I improve my forehand?")
	m.HandleChatReply(ChatReplyMsg{Response: "Bend your knees."})
	saveCmd := m.SaveCurrentSession()
	if saveCmd == nil {
		t.Fatal("expected a save command for a dirty session")
	}
	if saved := saveCmd().(SessionSavedMsg); saved.Err != nil {
		t.Fatal(saved.Err)
	}
	if latest, err := store.LatestSession(); err != nil || latest == nil {
		t.Fatalf("expected a persisted session before reset, got %v (err %v)", latest, err)
	}

	m.ApplyReset(ResetDoneMsg{})

	latest, err := store.LatestSession()
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Errorf("reset left session %q on disk; a restart would restore the cleared conversation", latest.Name)
	}
}

func TestIsVideoFile(t *testing.T) {
	for _, path := range []string{"a.mp4", "b.MOV", "c.avi", "d.mkv", "e.webm"} {
		if !IsVideoFile(path) {
			t.Errorf("expected %q to be accepted", path)
		}
	}
	for _, path := range []string{"a.txt", "b.jpg", "noext", "c.mp3"} {
		if IsVideoFile(path) {
			t.Errorf("expected %q to be rejected", path)
		}
	}
}
