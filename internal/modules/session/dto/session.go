package dto

import "time"

type Activity struct {
	Kind   string
	Detail string
}

type Decision struct {
	What      string
	Rationale string
	Tradeoff  string
}

type FailureMode struct {
	Symptom string
	Cause   string
}

type DebugStep struct {
	Action      string
	Observation string
}

type RecordInput struct {
	SessionID       string
	DurationMinutes int
	Topics          []string
	Activities      []Activity
	Decisions       []Decision
	FailureModes    []FailureMode
	DebugSteps      []DebugStep
	Notes           string
}

type RecordNoteInput struct {
	Content string
}

type ScheduledQuiz struct {
	InstanceID   string
	Tier         string
	ScheduledFor time.Time
}

type RecordOutput struct {
	SessionID string
	Eligible  bool
	Quizzes   []ScheduledQuiz
}

type SummaryView struct {
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
