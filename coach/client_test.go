package coach

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestChatSendsMessageAndDecodesReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["message"] != "How do I improve my forehand?" {
			t.Errorf("unexpected message: %q", body["message"])
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Response: "Bend your knees.",
			Videos:   []Video{{Title: "Forehand Fundamentals", URL: "https://youtu.be/abc123xyz"}},
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := client.Chat(context.Background(), "How do I improve my forehand?")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != "Bend your knees." {
		t.Errorf("unexpected response: %q", resp.Response)
	}
	if len(resp.Videos) != 1 || resp.Videos[0].Title != "Forehand Fundamentals" {
		t.Errorf("unexpected videos: %+v", resp.Videos)
	}
}

func TestChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	if _, err := client.Chat(context.Background(), "hi"); err == nil {
		t.Error("expected an error for a 500 response")
	}
}

func TestUploadVideoStreamsMultipart(t *testing.T) {
	content := make([]byte, 4096)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "rally.mp4")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload-video" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		f, header, err := r.FormFile("video")
		if err != nil {
			t.Fatalf("missing video form field: %v", err)
		}
		defer f.Close()
		if header.Filename != "rally.mp4" {
			t.Errorf("unexpected filename: %q", header.Filename)
		}
		got, _ := io.ReadAll(f)
		if len(got) != len(content) {
			t.Errorf("expected %d bytes, got %d", len(content), len(got))
		}
		json.NewEncoder(w).Encode(UploadResponse{Success: true, VideoID: "vid-7"})
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	var last, lastTotal int64
	monotone := true
	resp, err := client.UploadVideo(context.Background(), path, func(sent, total int64) {
		if sent < last {
			monotone = false
		}
		last, lastTotal = sent, total
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.VideoID != "vid-7" {
		t.Errorf("unexpected video id: %q", resp.VideoID)
	}
	if !monotone {
		t.Error("progress went backwards")
	}
	if last != int64(len(content)) || lastTotal != int64(len(content)) {
		t.Errorf("expected final progress %d/%d, got %d/%d", len(content), len(content), last, lastTotal)
	}
}

func TestUploadVideoRejectedByServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		json.NewEncoder(w).Encode(UploadResponse{Success: false})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "rally.mp4")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	client, _ := NewClient(srv.URL)
	if _, err := client.UploadVideo(context.Background(), path, nil); err == nil {
		t.Error("expected an error when the server rejects the upload")
	}
}

func TestAnalysisStatusDecodesAllFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/video-analysis/vid-9" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(AnalysisStatus{
			Status:            StatusCompleted,
			CoachingFeedback:  "Watch your footwork.",
			ProcessedVideoURL: "/processed/vid-9.mp4",
			Analysis: &AnalysisSummary{
				TotalFrames:     240,
				PlayerPositions: 230,
				BallDetections:  90,
				CourtKeypoints:  14,
			},
		})
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	status, err := client.AnalysisStatus(context.Background(), "vid-9")
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != StatusCompleted || status.CoachingFeedback != "Watch your footwork." {
		t.Errorf("unexpected status: %+v", status)
	}
	if status.Analysis == nil || status.Analysis.BallDetections != 90 {
		t.Errorf("analysis counters not decoded: %+v", status.Analysis)
	}
}

func TestResetBestEffort(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/reset" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	if err := client.Reset(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected one reset call, got %d", calls)
	}
}
