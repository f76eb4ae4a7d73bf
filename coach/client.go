package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Analysis job statuses reported by GET /video-analysis/{id}.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Video is a recommended training video attached to a chat reply.
type Video struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

// ChatResponse is the body of POST /chat.
type ChatResponse struct {
	Response string  `json:"response"`
	Videos   []Video `json:"videos,omitempty"`
}

// UploadResponse is the body of POST /upload-video.
type UploadResponse struct {
	Success bool   `json:"success"`
	VideoID string `json:"video_id"`
}

// AnalysisSummary carries the computer-vision counters for a processed video.
type AnalysisSummary struct {
	TotalFrames     int `json:"total_frames"`
	PlayerPositions int `json:"player_positions"`
	BallDetections  int `json:"ball_detections"`
	CourtKeypoints  int `json:"court_keypoints"`
}

// AnalysisStatus is the body of GET /video-analysis/{id}.
// CoachingFeedback, ProcessedVideoURL and Analysis are set once
// Status is "completed"; Error is set once Status is "error".
type AnalysisStatus struct {
	Status            string           `json:"status"`
	CoachingFeedback  string           `json:"coaching_feedback,omitempty"`
	ProcessedVideoURL string           `json:"processed_video_url,omitempty"`
	Analysis          *AnalysisSummary `json:"analysis,omitempty"`
	Error             string           `json:"error,omitempty"`
}

// ProgressFunc receives upload progress as bytes sent out of total.
type ProgressFunc func(sent, total int64)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid coach server URL: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}, nil
}

// Chat sends one user message and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat request failed: %s", resp.Status)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return &chatResp, nil
}

// Reset clears the server-side conversation state.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reset", nil)
	if err != nil {
		return fmt.Errorf("failed to build reset request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("reset request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("reset request failed: %s", resp.Status)
	}

	return nil
}

// UploadVideo streams the file at path as a multipart POST /upload-video.
// The progress callback (optional) is invoked as file bytes are handed to
// the transport; sent never decreases and equals total exactly once the
// whole file has been read.
func (c *Client) UploadVideo(ctx context.Context, path string, progress ProgressFunc) (*UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat video file: %w", err)
	}
	total := info.Size()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("video", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		reader := &countingReader{r: f, total: total, progress: progress}
		if _, err := io.Copy(part, reader); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.Close(); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-video", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload request failed: %s", resp.Status)
	}

	var uploadResp UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if !uploadResp.Success {
		return nil, fmt.Errorf("upload rejected by server")
	}

	return &uploadResp, nil
}

// AnalysisStatus fetches the current state of an analysis job.
func (c *Client) AnalysisStatus(ctx context.Context, videoID string) (*AnalysisStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/video-analysis/"+url.PathEscape(videoID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis status request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("analysis status request failed: %s", resp.Status)
	}

	var status AnalysisStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode analysis status: %w", err)
	}

	return &status, nil
}

// Ping checks if the coach server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// countingReader reports cumulative bytes read from the underlying file.
type countingReader struct {
	r        io.Reader
	sent     int64
	total    int64
	progress ProgressFunc
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.sent += int64(n)
		if cr.progress != nil {
			cr.progress(cr.sent, cr.total)
		}
	}
	return n, err
}
