package in

import (
	"context"

	"recap/internal/modules/schedule/dto"
)

// Usecase is the schedule module's inbound API. Other modules and the CLI
// reach the scheduler only through this interface.
type Usecase interface {
	// Schedule creates one pending quiz per enabled tier for an eligible
	// session. Re-scheduling the same session is a no-op per tier.
	Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error)

	// RequestOnDemand creates an immediately-due quiz outside the tier cadence.
	RequestOnDemand(ctx context.Context, sessionID string) (dto.Instance, error)

	// ListPending returns all pending instances ordered by fire time.
	ListPending(ctx context.Context) ([]dto.Instance, error)

	// Due returns instances whose fire time has passed, optionally sweeping
	// overdue ones into history first.
	Due(ctx context.Context, input dto.DueInput) (dto.DueOutput, error)

	// Complete records the outcomes of a taken quiz and moves it to history.
	Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)

	// SweepExpired moves quizzes past their grace period into history.
	SweepExpired(ctx context.Context) (dto.SweepOutput, error)

	// History returns completed and expired instances, outcomes included.
	History(ctx context.Context) ([]dto.Instance, error)
}
