package usecase

import (
	"context"
	"fmt"

	scheduledto "recap/internal/modules/schedule/dto"
	schedulein "recap/internal/modules/schedule/port/in"
	"recap/internal/modules/session/domain"
	"recap/internal/modules/session/dto"
	"recap/internal/modules/session/port/out"
	"recap/internal/modules/session/service"
)

// Interactor records summaries and hands the facts to the scheduler, which
// decides whether the session earns quizzes.
type Interactor struct {
	store     out.SummaryStore
	svc       *service.SessionService
	scheduler schedulein.Usecase
}

func New(store out.SummaryStore, svc *service.SessionService, scheduler schedulein.Usecase) *Interactor {
	return &Interactor{store: store, svc: svc, scheduler: scheduler}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error) {
	summary, err := i.svc.FromInput(input)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return i.record(ctx, summary)
}

func (i *Interactor) RecordNote(ctx context.Context, input dto.RecordNoteInput) (dto.RecordOutput, error) {
	summary, err := i.svc.FromNote(input.Content)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return i.record(ctx, summary)
}

func (i *Interactor) record(ctx context.Context, summary domain.Summary) (dto.RecordOutput, error) {
	if err := i.store.Save(ctx, summary); err != nil {
		return dto.RecordOutput{}, fmt.Errorf("save summary: %w", err)
	}
	scheduled, err := i.scheduler.Schedule(ctx, scheduledto.ScheduleInput{
		SessionID:       summary.SessionID,
		DurationMinutes: summary.DurationMinutes,
		ActivityCount:   summary.ActivityCount(),
	})
	if err != nil {
		return dto.RecordOutput{}, err
	}
	output := dto.RecordOutput{SessionID: summary.SessionID, Eligible: scheduled.Eligible}
	for _, inst := range scheduled.Created {
		output.Quizzes = append(output.Quizzes, dto.ScheduledQuiz{
			InstanceID:   inst.InstanceID,
			Tier:         inst.Tier,
			ScheduledFor: inst.ScheduledFor,
		})
	}
	return output, nil
}

func (i *Interactor) Get(ctx context.Context, sessionID string) (dto.SummaryView, error) {
	summary, err := i.store.Get(ctx, sessionID)
	if err != nil {
		return dto.SummaryView{}, err
	}
	return toView(summary), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.SummaryView, error) {
	summaries, err := i.store.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.SummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, toView(summary))
	}
	return views, nil
}

func toView(summary domain.Summary) dto.SummaryView {
	view := dto.SummaryView{
		SessionID:       summary.SessionID,
		RecordedAt:      summary.RecordedAt,
		DurationMinutes: summary.DurationMinutes,
		Topics:          append([]string{}, summary.Topics...),
		Notes:           summary.Notes,
	}
	for _, a := range summary.Activities {
		view.Activities = append(view.Activities, dto.Activity{Kind: a.Kind, Detail: a.Detail})
	}
	for _, d := range summary.Decisions {
		view.Decisions = append(view.Decisions, dto.Decision{What: d.What, Rationale: d.Rationale, Tradeoff: d.Tradeoff})
	}
	for _, f := range summary.FailureModes {
		view.FailureModes = append(view.FailureModes, dto.FailureMode{Symptom: f.Symptom, Cause: f.Cause})
	}
	for _, s := range summary.DebugSteps {
		view.DebugSteps = append(view.DebugSteps, dto.DebugStep{Action: s.Action, Observation: s.Observation})
	}
	return view
}
