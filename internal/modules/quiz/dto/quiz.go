package dto

import "time"

type Question struct {
	ID      string
	Kind    string
	Topic   string
	Prompt  string
	Context string
}

type QuizView struct {
	InstanceID  string
	SessionID   string
	Tier        string
	GeneratedAt time.Time
	Questions   []Question
}

type GenerateInput struct {
	// InstanceID selects a specific pending quiz; empty picks the first
	// due instance.
	InstanceID string
}

type Answer struct {
	QuestionID string
	Grade      string
	Skipped    bool
	SkipReason string
	SkipNote   string
	Reflection string
	AnsweredAt time.Time
}

type SubmitInput struct {
	InstanceID string
	Answers    []Answer
}

type SubmitOutput struct {
	InstanceID       string
	Correct          int
	Partial          int
	Wrong            int
	Skipped          int
	AlreadyCompleted bool
}
