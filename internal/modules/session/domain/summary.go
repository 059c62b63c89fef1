package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "recap/internal/platform/errors"
)

// Activity is one logged unit of work inside a session.
type Activity struct {
	Kind   string
	Detail string
}

// Decision captures a choice made during the session together with the
// reasoning, which later feeds design questions.
type Decision struct {
	What      string
	Rationale string
	Tradeoff  string
}

// FailureMode is something that broke or almost broke.
type FailureMode struct {
	Symptom string
	Cause   string
}

// DebugStep is one step of a debugging trail.
type DebugStep struct {
	Action      string
	Observation string
}

// Summary is the learning record of one work session. It is the raw
// material both for scheduling and for question generation.
type Summary struct {
	SessionID       string
	RecordedAt      time.Time
	DurationMinutes int
	Topics          []string
	Activities      []Activity
	Decisions       []Decision
	FailureModes    []FailureMode
	DebugSteps      []DebugStep
	Notes           string
}

func (s Summary) Validate() error {
	if s.SessionID == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if s.RecordedAt.IsZero() {
		return fmt.Errorf("%w: recorded_at is required", apperrors.ErrInvalidInput)
	}
	if s.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidInput)
	}
	for _, a := range s.Activities {
		if strings.TrimSpace(a.Detail) == "" {
			return fmt.Errorf("%w: activity detail is required", apperrors.ErrInvalidInput)
		}
	}
	for _, d := range s.Decisions {
		if strings.TrimSpace(d.What) == "" {
			return fmt.Errorf("%w: decision description is required", apperrors.ErrInvalidInput)
		}
	}
	return nil
}

func (s Summary) ActivityCount() int {
	return len(s.Activities)
}

// PrimaryTopic is the tag used when an outcome needs a single label.
func (s Summary) PrimaryTopic() string {
	if len(s.Topics) > 0 {
		return s.Topics[0]
	}
	return "general"
}
