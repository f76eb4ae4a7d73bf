package model

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tctui/config"
)

const (
	pollRequestTimeout = 15 * time.Second

	analysisTimeoutText = "Video analysis is taking longer than expected. Please try uploading a shorter video."
)

// StartPoll begins tracking a new analysis job. The first status
// request fires immediately; later cycles wait Interval between
// requests. Bumping the generation invalidates callbacks from any
// earlier job.
func (m *Model) StartPoll(videoID string) tea.Cmd {
	m.pollGeneration++
	m.Poll = NewAnalysisPoll(videoID, m.pollGeneration)
	return m.pollStatusCmd()
}

// AbandonPoll drops the active job, if any. Scheduled ticks and
// in-flight responses for it become stale and are discarded when they
// arrive.
func (m *Model) AbandonPoll() {
	m.pollGeneration++
	m.Poll = nil
}

func (m *Model) pollStatusCmd() tea.Cmd {
	backend := m.Backend
	gen := m.Poll.Generation
	videoID := m.Poll.VideoID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollRequestTimeout)
		defer cancel()

		status, err := backend.AnalysisStatus(ctx, videoID)
		return PollStatusMsg{Generation: gen, Status: status, Err: err}
	}
}

// HandlePollTick issues the status request a PollContinue scheduled,
// unless the job it belonged to is gone or already settled.
func (m *Model) HandlePollTick(msg PollTickMsg) tea.Cmd {
	if m.Poll == nil || msg.Generation != m.Poll.Generation || m.Poll.Terminal() {
		return nil
	}
	return m.pollStatusCmd()
}

// HandlePollStatus advances the polling state machine with one
// response. Stale responses, from a job abandoned by reset, are
// dropped before they can touch the log.
func (m *Model) HandlePollStatus(msg PollStatusMsg) tea.Cmd {
	poll := m.Poll
	if poll == nil || msg.Generation != poll.Generation {
		return nil
	}

	switch poll.Observe(msg.Status, msg.Err) {
	case PollIgnored:
		return nil
	case PollContinue:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("analysis poll attempt %d failed, retrying: %v", poll.Attempt, msg.Err)
		}
		gen := poll.Generation
		return tea.Tick(poll.Interval, func(time.Time) tea.Msg {
			return PollTickMsg{Generation: gen}
		})
	}

	switch poll.State {
	case PollCompleted:
		m.ActiveAnalysis = msg.Status
		entry := Entry{Role: RoleAssistant, Kind: KindVideoAnalysis, Content: msg.Status.CoachingFeedback}
		if msg.Status.ProcessedVideoURL != "" || msg.Status.Analysis != nil {
			att := &Attachment{ProcessedVideoURL: msg.Status.ProcessedVideoURL}
			if msg.Status.Analysis != nil {
				att.Summary = *msg.Status.Analysis
				att.HasSummary = true
			}
			entry.Attachment = att
		}
		m.Log.Append(entry)
		m.SessionDirty = true
		return m.recordAnalysisCmd(poll.VideoID)
	case PollError:
		m.Log.Append(Entry{
			Role:    RoleAssistant,
			Kind:    KindError,
			Content: fmt.Sprintf("Analysis failed: %s", msg.Status.Error),
		})
	case PollTimedOut:
		m.Log.Append(Entry{Role: RoleAssistant, Kind: KindError, Content: analysisTimeoutText})
	}
	m.SessionDirty = true
	return nil
}
