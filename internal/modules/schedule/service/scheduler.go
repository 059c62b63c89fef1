package service

import (
	"fmt"

	"recap/internal/modules/schedule/domain"
	"recap/internal/platform/clock"
	apperrors "recap/internal/platform/errors"
	"recap/internal/platform/id"
)

// Scheduler derives quiz instances from session facts according to a policy.
// It is pure over the state value; persistence happens in the usecase.
type Scheduler struct {
	clock  clock.Clock
	ids    id.Generator
	policy domain.Policy
}

func NewScheduler(c clock.Clock, ids id.Generator, policy domain.Policy) *Scheduler {
	return &Scheduler{clock: c, ids: ids, policy: policy}
}

func (s *Scheduler) Policy() domain.Policy {
	return s.policy
}

// Schedule appends one pending instance per enabled tier the session does
// not already have. An ineligible session returns the state unchanged.
func (s *Scheduler) Schedule(state domain.State, facts domain.SessionFacts) (domain.State, []domain.QuizInstance, error) {
	if err := facts.Validate(); err != nil {
		return domain.State{}, nil, err
	}
	if !s.policy.Eligible(facts) {
		return state, nil, nil
	}
	now := s.clock.Now()
	var created []domain.QuizInstance
	for _, tier := range s.policy.Tiers() {
		if state.HasInstance(facts.SessionID, tier) {
			continue
		}
		fireAt, err := s.policy.FireTime(tier, now)
		if err != nil {
			return domain.State{}, nil, err
		}
		inst := domain.QuizInstance{
			InstanceID:   s.ids.New(),
			SessionID:    facts.SessionID,
			Tier:         tier,
			ScheduledFor: fireAt,
			CreatedAt:    now,
		}
		next, err := state.AppendPending(inst)
		if err != nil {
			return domain.State{}, nil, fmt.Errorf("schedule %s quiz: %w", tier, err)
		}
		state = next
		created = append(created, inst)
	}
	return state, created, nil
}

// RequestOnDemand creates a quiz due immediately, outside the tier cadence.
// At most one on-demand instance exists per session.
func (s *Scheduler) RequestOnDemand(state domain.State, sessionID string) (domain.State, domain.QuizInstance, error) {
	if sessionID == "" {
		return domain.State{}, domain.QuizInstance{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if state.HasInstance(sessionID, domain.TierOnDemand) {
		return domain.State{}, domain.QuizInstance{}, fmt.Errorf("%w: session %s already has an on-demand quiz", apperrors.ErrInvalidInput, sessionID)
	}
	now := s.clock.Now()
	inst := domain.QuizInstance{
		InstanceID:   s.ids.New(),
		SessionID:    sessionID,
		Tier:         domain.TierOnDemand,
		ScheduledFor: now,
		CreatedAt:    now,
	}
	next, err := state.AppendPending(inst)
	if err != nil {
		return domain.State{}, domain.QuizInstance{}, fmt.Errorf("request on-demand quiz: %w", err)
	}
	return next, inst, nil
}
