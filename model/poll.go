package model

import (
	"time"

	"tctui/coach"
)

// Polling bounds for a single analysis job. Sixty attempts at five
// second spacing gives the server five minutes to finish a video.
const (
	DefaultMaxPollAttempts = 60
	DefaultPollInterval    = 5 * time.Second
)

// PollState is where an analysis job stands from the client's point of
// view.
type PollState string

const (
	PollPending   PollState = "pending"
	PollCompleted PollState = "completed"
	PollError     PollState = "error"
	PollTimedOut  PollState = "timed_out"
)

// PollOutcome is what the caller should do after feeding one response
// into the state machine.
type PollOutcome int

const (
	// PollContinue: schedule the next poll cycle.
	PollContinue PollOutcome = iota
	// PollFinished: the job just reached a terminal state.
	PollFinished
	// PollIgnored: the job was already terminal, drop the result.
	PollIgnored
)

// AnalysisPoll tracks one analysis job through repeated status checks.
// Attempt counts status requests already answered; once the job reaches
// a terminal state no further request may be issued for it.
type AnalysisPoll struct {
	VideoID     string
	Generation  uint64
	Attempt     int
	MaxAttempts int
	Interval    time.Duration
	State       PollState
}

func NewAnalysisPoll(videoID string, generation uint64) *AnalysisPoll {
	return &AnalysisPoll{
		VideoID:     videoID,
		Generation:  generation,
		MaxAttempts: DefaultMaxPollAttempts,
		Interval:    DefaultPollInterval,
		State:       PollPending,
	}
}

// Terminal reports whether the job has settled.
func (p *AnalysisPoll) Terminal() bool {
	return p.State != PollPending
}

// Observe feeds one status response into the state machine. A non-nil
// err is a transport failure: it consumes an attempt and is retried
// exactly like a pending status, it never settles the job by itself.
// The attempt budget settles the job as timed out the moment the last
// allowed request has been answered, so no request beyond MaxAttempts
// is ever issued.
func (p *AnalysisPoll) Observe(status *coach.AnalysisStatus, err error) PollOutcome {
	if p.Terminal() {
		return PollIgnored
	}

	if err == nil && status != nil {
		switch status.Status {
		case coach.StatusCompleted:
			p.State = PollCompleted
			return PollFinished
		case coach.StatusError:
			p.State = PollError
			return PollFinished
		}
	}

	p.Attempt++
	if p.Attempt < p.MaxAttempts {
		return PollContinue
	}
	p.State = PollTimedOut
	return PollFinished
}
