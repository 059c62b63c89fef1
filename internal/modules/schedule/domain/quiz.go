package domain

import (
	"fmt"
	"sort"
	"time"

	apperrors "recap/internal/platform/errors"
)

const SchemaVersion = 1

// Tier is one of the repetition schedules triggered per eligible session.
type Tier string

const (
	TierSameDay  Tier = "same_day"
	TierNextDay  Tier = "next_day"
	TierWeekly   Tier = "weekly"
	TierOnDemand Tier = "on_demand"
)

func (t Tier) Validate() error {
	switch t {
	case TierSameDay, TierNextDay, TierWeekly, TierOnDemand:
		return nil
	default:
		return fmt.Errorf("%w: unknown tier %q", apperrors.ErrInvalidInput, string(t))
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// SkipReason categorizes why a question was declined. A reason is mandatory
// when skipping, so skips stay usable as an analysis signal.
type SkipReason string

const (
	SkipTimePressure SkipReason = "time_pressure"
	SkipAlreadyKnow  SkipReason = "already_know"
	SkipUnclear      SkipReason = "unclear"
	SkipOther        SkipReason = "other"
)

func (r SkipReason) Validate() error {
	switch r {
	case SkipTimePressure, SkipAlreadyKnow, SkipUnclear, SkipOther:
		return nil
	default:
		return fmt.Errorf("%w: unknown skip reason %q", apperrors.ErrInvalidInput, string(r))
	}
}

// QuestionOutcome is the result of one question of a completed quiz.
type QuestionOutcome struct {
	TopicTag   string     `json:"topic"`
	Correct    bool       `json:"correct"`
	Skipped    bool       `json:"skipped"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`
	SkipNote   string     `json:"skip_note,omitempty"`
	Reflection string     `json:"reflection,omitempty"`
	AnsweredAt time.Time  `json:"answered_at"`
}

func (o QuestionOutcome) Validate() error {
	if o.TopicTag == "" {
		return fmt.Errorf("%w: outcome topic is required", apperrors.ErrInvalidInput)
	}
	if o.AnsweredAt.IsZero() {
		return fmt.Errorf("%w: outcome answered_at is required", apperrors.ErrInvalidInput)
	}
	if o.Skipped {
		if o.Correct {
			return fmt.Errorf("%w: a skipped outcome cannot be correct", apperrors.ErrInvalidInput)
		}
		return o.SkipReason.Validate()
	}
	return nil
}

type QuizInstance struct {
	InstanceID   string            `json:"instance_id"`
	SessionID    string            `json:"session_id"`
	Tier         Tier              `json:"tier"`
	ScheduledFor time.Time         `json:"scheduled_for"`
	Status       Status            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  time.Time         `json:"completed_at,omitzero"`
	Outcomes     []QuestionOutcome `json:"outcomes,omitempty"`
}

// State is the persisted per-project quiz record, modeled as a versioned
// value: every transition returns a new State with Revision bumped, and
// persistence stays an explicit boundary concern.
//
// Invariant: an instance id lives in exactly one of Pending/History, and the
// only removal path from Pending is the move into History.
type State struct {
	SchemaVersion int            `json:"schema_version"`
	Project       string         `json:"project"`
	Revision      int            `json:"revision"`
	Pending       []QuizInstance `json:"pending_quizzes"`
	History       []QuizInstance `json:"history"`
}

func NewState(project string) State {
	return State{SchemaVersion: SchemaVersion, Project: project}
}

// HasInstance reports whether any instance for (sessionID, tier) exists in
// either list; it is the dedup key that makes scheduling idempotent.
func (s State) HasInstance(sessionID string, tier Tier) bool {
	for _, inst := range s.Pending {
		if inst.SessionID == sessionID && inst.Tier == tier {
			return true
		}
	}
	for _, inst := range s.History {
		if inst.SessionID == sessionID && inst.Tier == tier {
			return true
		}
	}
	return false
}

// AppendPending adds a new pending instance, preserving insertion order.
func (s State) AppendPending(inst QuizInstance) (State, error) {
	if inst.InstanceID == "" {
		return State{}, fmt.Errorf("%w: instance id is required", apperrors.ErrInvalidInput)
	}
	if err := inst.Tier.Validate(); err != nil {
		return State{}, err
	}
	for _, existing := range append(append([]QuizInstance{}, s.Pending...), s.History...) {
		if existing.InstanceID == inst.InstanceID {
			return State{}, fmt.Errorf("%w: duplicate instance id %s", apperrors.ErrInvalidInput, inst.InstanceID)
		}
	}
	inst.Status = StatusPending
	next := s.clone()
	next.Pending = append(next.Pending, inst)
	next.Revision++
	return next, nil
}

// Complete moves a pending instance into history with outcomes attached.
// Completing an instance already in history is a no-op, so a resubmitted
// result cannot double-count; an unknown id is ErrNotFound.
func (s State) Complete(instanceID string, outcomes []QuestionOutcome, now time.Time) (State, QuizInstance, error) {
	for _, o := range outcomes {
		if err := o.Validate(); err != nil {
			return State{}, QuizInstance{}, err
		}
	}
	for _, inst := range s.History {
		if inst.InstanceID == instanceID {
			return s, inst, nil
		}
	}
	idx := -1
	for i, inst := range s.Pending {
		if inst.InstanceID == instanceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return State{}, QuizInstance{}, fmt.Errorf("%w: instance %s", apperrors.ErrNotFound, instanceID)
	}
	next := s.clone()
	inst := next.Pending[idx]
	inst.Status = StatusCompleted
	inst.CompletedAt = now
	inst.Outcomes = append([]QuestionOutcome{}, outcomes...)
	next.Pending = append(next.Pending[:idx], next.Pending[idx+1:]...)
	next.History = append(next.History, inst)
	next.Revision++
	return next, inst, nil
}

// SweepExpired moves pending instances whose fire time passed more than grace
// ago into history with status expired. Expired instances are preserved for
// analysis, never deleted.
func (s State) SweepExpired(now time.Time, grace time.Duration) (State, []QuizInstance) {
	var expired []QuizInstance
	var remaining []QuizInstance
	for _, inst := range s.Pending {
		if inst.ScheduledFor.Add(grace).Before(now) {
			inst.Status = StatusExpired
			expired = append(expired, inst)
			continue
		}
		remaining = append(remaining, inst)
	}
	if len(expired) == 0 {
		return s, nil
	}
	next := s.clone()
	next.Pending = remaining
	next.History = append(next.History, expired...)
	next.Revision++
	return next, expired
}

// Due returns pending instances with ScheduledFor <= now, ordered ascending
// by fire time, ties broken by creation time. Pure query.
func (s State) Due(now time.Time) []QuizInstance {
	var due []QuizInstance
	for _, inst := range s.Pending {
		if !inst.ScheduledFor.After(now) {
			due = append(due, inst)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].ScheduledFor.Equal(due[j].ScheduledFor) {
			return due[i].ScheduledFor.Before(due[j].ScheduledFor)
		}
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	return due
}

// FindPending returns the pending instance with the given id.
func (s State) FindPending(instanceID string) (QuizInstance, bool) {
	for _, inst := range s.Pending {
		if inst.InstanceID == instanceID {
			return inst, true
		}
	}
	return QuizInstance{}, false
}

func (s State) clone() State {
	next := s
	next.Pending = append([]QuizInstance{}, s.Pending...)
	next.History = append([]QuizInstance{}, s.History...)
	return next
}
