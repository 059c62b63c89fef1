package in

import (
	"context"

	"recap/internal/modules/schedule/dto"
	schedulein "recap/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error) {
	return h.usecase.Schedule(ctx, input)
}

func (h CLIHandler) RequestOnDemand(ctx context.Context, sessionID string) (dto.Instance, error) {
	return h.usecase.RequestOnDemand(ctx, sessionID)
}

func (h CLIHandler) ListPending(ctx context.Context) ([]dto.Instance, error) {
	return h.usecase.ListPending(ctx)
}

func (h CLIHandler) Due(ctx context.Context, input dto.DueInput) (dto.DueOutput, error) {
	return h.usecase.Due(ctx, input)
}

func (h CLIHandler) Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error) {
	return h.usecase.Complete(ctx, input)
}

func (h CLIHandler) SweepExpired(ctx context.Context) (dto.SweepOutput, error) {
	return h.usecase.SweepExpired(ctx)
}

func (h CLIHandler) History(ctx context.Context) ([]dto.Instance, error) {
	return h.usecase.History(ctx)
}
