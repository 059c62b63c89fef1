package service

import (
	"fmt"
	"time"

	"recap/internal/modules/session/domain"
	apperrors "recap/internal/platform/errors"
	"recap/internal/platform/markdown"
)

// noteMeta is the frontmatter schema of a summary note. The markdown body
// carries free-form notes.
type noteMeta struct {
	SessionID       string         `yaml:"session_id"`
	RecordedAt      time.Time      `yaml:"recorded_at,omitempty"`
	DurationMinutes int            `yaml:"duration_minutes"`
	Topics          []string       `yaml:"topics,omitempty"`
	Activities      []activityMeta `yaml:"activities,omitempty"`
	Decisions       []decisionMeta `yaml:"decisions,omitempty"`
	FailureModes    []failureMeta  `yaml:"failure_modes,omitempty"`
	DebugSteps      []stepMeta     `yaml:"debug_steps,omitempty"`
}

type activityMeta struct {
	Kind   string `yaml:"kind,omitempty"`
	Detail string `yaml:"detail"`
}

type decisionMeta struct {
	What      string `yaml:"what"`
	Rationale string `yaml:"rationale,omitempty"`
	Tradeoff  string `yaml:"tradeoff,omitempty"`
}

type failureMeta struct {
	Symptom string `yaml:"symptom"`
	Cause   string `yaml:"cause,omitempty"`
}

type stepMeta struct {
	Action      string `yaml:"action"`
	Observation string `yaml:"observation,omitempty"`
}

// EncodeNote renders a summary as a markdown note with YAML frontmatter.
func EncodeNote(summary domain.Summary) (string, error) {
	meta := noteMeta{
		SessionID:       summary.SessionID,
		RecordedAt:      summary.RecordedAt,
		DurationMinutes: summary.DurationMinutes,
		Topics:          summary.Topics,
	}
	for _, a := range summary.Activities {
		meta.Activities = append(meta.Activities, activityMeta{Kind: a.Kind, Detail: a.Detail})
	}
	for _, d := range summary.Decisions {
		meta.Decisions = append(meta.Decisions, decisionMeta{What: d.What, Rationale: d.Rationale, Tradeoff: d.Tradeoff})
	}
	for _, f := range summary.FailureModes {
		meta.FailureModes = append(meta.FailureModes, failureMeta{Symptom: f.Symptom, Cause: f.Cause})
	}
	for _, s := range summary.DebugSteps {
		meta.DebugSteps = append(meta.DebugSteps, stepMeta{Action: s.Action, Observation: s.Observation})
	}
	note, err := markdown.Render(meta, summary.Notes)
	if err != nil {
		return "", fmt.Errorf("encode summary note: %w", err)
	}
	return note, nil
}

// DecodeNote parses a markdown note back into a summary. Identity and
// timestamp may be blank; the caller normalizes them.
func DecodeNote(content string) (domain.Summary, error) {
	var meta noteMeta
	body, err := markdown.Split(content, &meta)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	summary := domain.Summary{
		SessionID:       meta.SessionID,
		RecordedAt:      meta.RecordedAt,
		DurationMinutes: meta.DurationMinutes,
		Topics:          meta.Topics,
		Notes:           body,
	}
	for _, a := range meta.Activities {
		summary.Activities = append(summary.Activities, domain.Activity{Kind: a.Kind, Detail: a.Detail})
	}
	for _, d := range meta.Decisions {
		summary.Decisions = append(summary.Decisions, domain.Decision{What: d.What, Rationale: d.Rationale, Tradeoff: d.Tradeoff})
	}
	for _, f := range meta.FailureModes {
		summary.FailureModes = append(summary.FailureModes, domain.FailureMode{Symptom: f.Symptom, Cause: f.Cause})
	}
	for _, s := range meta.DebugSteps {
		summary.DebugSteps = append(summary.DebugSteps, domain.DebugStep{Action: s.Action, Observation: s.Observation})
	}
	return summary, nil
}
