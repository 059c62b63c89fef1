package usecase

import (
	"context"
	"fmt"
	"sort"

	notifydto "recap/internal/modules/notify/dto"
	notifyin "recap/internal/modules/notify/port/in"
	"recap/internal/modules/schedule/domain"
	"recap/internal/modules/schedule/dto"
	"recap/internal/modules/schedule/port/out"
	"recap/internal/modules/schedule/service"
	"recap/internal/platform/clock"
)

// Interactor wires the scheduler onto the durable state store. All writes
// funnel through StateStore.Mutate so every command sees a consistent state.
type Interactor struct {
	store     out.StateStore
	scheduler *service.Scheduler
	clock     clock.Clock
	notifier  notifyin.Usecase
}

// New builds the interactor. notifier may be nil when no notification
// channel is configured; due checks then degrade to terminal output.
func New(store out.StateStore, scheduler *service.Scheduler, c clock.Clock, notifier notifyin.Usecase) *Interactor {
	return &Interactor{store: store, scheduler: scheduler, clock: c, notifier: notifier}
}

func (i *Interactor) Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error) {
	facts := domain.SessionFacts{
		SessionID:       input.SessionID,
		DurationMinutes: input.DurationMinutes,
		ActivityCount:   input.ActivityCount,
	}
	if err := facts.Validate(); err != nil {
		return dto.ScheduleOutput{}, err
	}
	var created []domain.QuizInstance
	_, err := i.store.Mutate(ctx, func(state domain.State) (domain.State, error) {
		next, instances, err := i.scheduler.Schedule(state, facts)
		if err != nil {
			return domain.State{}, err
		}
		created = instances
		return next, nil
	})
	if err != nil {
		return dto.ScheduleOutput{}, fmt.Errorf("schedule quizzes: %w", err)
	}
	output := dto.ScheduleOutput{Eligible: i.scheduler.Policy().Eligible(facts)}
	for _, inst := range created {
		output.Created = append(output.Created, toDTO(inst))
	}
	return output, nil
}

func (i *Interactor) RequestOnDemand(ctx context.Context, sessionID string) (dto.Instance, error) {
	var requested domain.QuizInstance
	_, err := i.store.Mutate(ctx, func(state domain.State) (domain.State, error) {
		next, inst, err := i.scheduler.RequestOnDemand(state, sessionID)
		if err != nil {
			return domain.State{}, err
		}
		requested = inst
		return next, nil
	})
	if err != nil {
		return dto.Instance{}, fmt.Errorf("request quiz: %w", err)
	}
	return toDTO(requested), nil
}

func (i *Interactor) ListPending(ctx context.Context) ([]dto.Instance, error) {
	state, err := i.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	pending := append([]domain.QuizInstance{}, state.Pending...)
	sort.SliceStable(pending, func(a, b int) bool {
		if !pending[a].ScheduledFor.Equal(pending[b].ScheduledFor) {
			return pending[a].ScheduledFor.Before(pending[b].ScheduledFor)
		}
		return pending[a].CreatedAt.Before(pending[b].CreatedAt)
	})
	out := make([]dto.Instance, 0, len(pending))
	for _, inst := range pending {
		out = append(out, toDTO(inst))
	}
	return out, nil
}

func (i *Interactor) Due(ctx context.Context, input dto.DueInput) (dto.DueOutput, error) {
	now := i.clock.Now()
	var output dto.DueOutput
	var state domain.State
	var err error
	if input.Sweep {
		state, err = i.store.Mutate(ctx, func(current domain.State) (domain.State, error) {
			next, expired := current.SweepExpired(now, i.scheduler.Policy().GracePeriod)
			for _, inst := range expired {
				output.Expired = append(output.Expired, toDTO(inst))
			}
			return next, nil
		})
	} else {
		state, err = i.store.Load(ctx)
	}
	if err != nil {
		return dto.DueOutput{}, err
	}
	for _, inst := range state.Due(now) {
		output.Due = append(output.Due, toDTO(inst))
	}
	if input.Notify && len(output.Due) > 0 && i.notifier != nil {
		_, sendErr := i.notifier.Send(ctx, notifydto.SendInput{
			Title: "Quiz due",
			Body:  fmt.Sprintf("%d quiz(es) ready, run `recap quiz run`", len(output.Due)),
		})
		output.Notified = sendErr == nil
	}
	return output, nil
}

func (i *Interactor) Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error) {
	now := i.clock.Now()
	outcomes := make([]domain.QuestionOutcome, 0, len(input.Outcomes))
	for _, o := range input.Outcomes {
		outcome := domain.QuestionOutcome{
			TopicTag:   o.Topic,
			Correct:    o.Correct,
			Skipped:    o.Skipped,
			SkipReason: domain.SkipReason(o.SkipReason),
			SkipNote:   o.SkipNote,
			Reflection: o.Reflection,
			AnsweredAt: o.AnsweredAt,
		}
		if outcome.AnsweredAt.IsZero() {
			outcome.AnsweredAt = now
		}
		outcomes = append(outcomes, outcome)
	}
	var completed domain.QuizInstance
	var alreadyDone bool
	_, err := i.store.Mutate(ctx, func(state domain.State) (domain.State, error) {
		_, wasPending := state.FindPending(input.InstanceID)
		next, inst, err := state.Complete(input.InstanceID, outcomes, now)
		if err != nil {
			return domain.State{}, err
		}
		completed = inst
		alreadyDone = !wasPending
		return next, nil
	})
	if err != nil {
		return dto.CompleteOutput{}, fmt.Errorf("complete quiz: %w", err)
	}
	return dto.CompleteOutput{Instance: toDTO(completed), AlreadyCompleted: alreadyDone}, nil
}

func (i *Interactor) SweepExpired(ctx context.Context) (dto.SweepOutput, error) {
	now := i.clock.Now()
	var output dto.SweepOutput
	_, err := i.store.Mutate(ctx, func(state domain.State) (domain.State, error) {
		next, expired := state.SweepExpired(now, i.scheduler.Policy().GracePeriod)
		for _, inst := range expired {
			output.Expired = append(output.Expired, toDTO(inst))
		}
		return next, nil
	})
	if err != nil {
		return dto.SweepOutput{}, fmt.Errorf("sweep expired quizzes: %w", err)
	}
	return output, nil
}

func (i *Interactor) History(ctx context.Context) ([]dto.Instance, error) {
	state, err := i.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Instance, 0, len(state.History))
	for _, inst := range state.History {
		out = append(out, toDTO(inst))
	}
	return out, nil
}

func toDTO(inst domain.QuizInstance) dto.Instance {
	mapped := dto.Instance{
		InstanceID:   inst.InstanceID,
		SessionID:    inst.SessionID,
		Tier:         string(inst.Tier),
		ScheduledFor: inst.ScheduledFor,
		Status:       string(inst.Status),
		CreatedAt:    inst.CreatedAt,
		CompletedAt:  inst.CompletedAt,
	}
	for _, o := range inst.Outcomes {
		mapped.Outcomes = append(mapped.Outcomes, dto.Outcome{
			Topic:      o.TopicTag,
			Correct:    o.Correct,
			Skipped:    o.Skipped,
			SkipReason: string(o.SkipReason),
			SkipNote:   o.SkipNote,
			Reflection: o.Reflection,
			AnsweredAt: o.AnsweredAt,
		})
	}
	return mapped
}
