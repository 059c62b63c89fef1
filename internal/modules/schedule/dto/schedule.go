package dto

import "time"

type ScheduleInput struct {
	SessionID       string
	DurationMinutes int
	ActivityCount   int
}

type Outcome struct {
	Topic      string
	Correct    bool
	Skipped    bool
	SkipReason string
	SkipNote   string
	Reflection string
	AnsweredAt time.Time
}

type Instance struct {
	InstanceID   string
	SessionID    string
	Tier         string
	ScheduledFor time.Time
	Status       string
	CreatedAt    time.Time
	CompletedAt  time.Time
	Outcomes     []Outcome
}

type ScheduleOutput struct {
	Eligible bool
	Created  []Instance
}

type DueInput struct {
	Sweep  bool
	Notify bool
}

type DueOutput struct {
	Due      []Instance
	Expired  []Instance
	Notified bool
}

type CompleteInput struct {
	InstanceID string
	Outcomes   []Outcome
}

type CompleteOutput struct {
	Instance         Instance
	AlreadyCompleted bool
}

type SweepOutput struct {
	Expired []Instance
}
