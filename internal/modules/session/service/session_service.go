package service

import (
	"fmt"
	"strings"

	"recap/internal/modules/session/domain"
	"recap/internal/modules/session/dto"
	"recap/internal/platform/clock"
	apperrors "recap/internal/platform/errors"
	"recap/internal/platform/id"
)

type SessionService struct {
	clock clock.Clock
	ids   id.Generator
}

func NewSessionService(c clock.Clock, ids id.Generator) *SessionService {
	return &SessionService{clock: c, ids: ids}
}

// FromInput builds a validated summary, assigning identity and timestamp
// when the caller left them blank.
func (s *SessionService) FromInput(input dto.RecordInput) (domain.Summary, error) {
	summary := domain.Summary{
		SessionID:       input.SessionID,
		DurationMinutes: input.DurationMinutes,
		Topics:          normalizeTopics(input.Topics),
		Notes:           input.Notes,
	}
	for _, a := range input.Activities {
		summary.Activities = append(summary.Activities, domain.Activity{Kind: a.Kind, Detail: a.Detail})
	}
	for _, d := range input.Decisions {
		summary.Decisions = append(summary.Decisions, domain.Decision{What: d.What, Rationale: d.Rationale, Tradeoff: d.Tradeoff})
	}
	for _, f := range input.FailureModes {
		summary.FailureModes = append(summary.FailureModes, domain.FailureMode{Symptom: f.Symptom, Cause: f.Cause})
	}
	for _, st := range input.DebugSteps {
		summary.DebugSteps = append(summary.DebugSteps, domain.DebugStep{Action: st.Action, Observation: st.Observation})
	}
	return s.normalize(summary)
}

// FromNote builds a validated summary out of a markdown note.
func (s *SessionService) FromNote(content string) (domain.Summary, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Summary{}, fmt.Errorf("%w: note is empty", apperrors.ErrInvalidInput)
	}
	summary, err := DecodeNote(content)
	if err != nil {
		return domain.Summary{}, err
	}
	return s.normalize(summary)
}

func (s *SessionService) normalize(summary domain.Summary) (domain.Summary, error) {
	if summary.SessionID == "" {
		summary.SessionID = s.ids.New()
	}
	if summary.RecordedAt.IsZero() {
		summary.RecordedAt = s.clock.Now()
	}
	if err := summary.Validate(); err != nil {
		return domain.Summary{}, err
	}
	return summary, nil
}

func normalizeTopics(topics []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, topic)
	}
	return out
}
