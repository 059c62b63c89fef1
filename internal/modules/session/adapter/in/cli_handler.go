package in

import (
	"context"

	"recap/internal/modules/session/dto"
	sessionin "recap/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error) {
	return h.usecase.Record(ctx, input)
}

func (h CLIHandler) RecordNote(ctx context.Context, input dto.RecordNoteInput) (dto.RecordOutput, error) {
	return h.usecase.RecordNote(ctx, input)
}

func (h CLIHandler) Get(ctx context.Context, sessionID string) (dto.SummaryView, error) {
	return h.usecase.Get(ctx, sessionID)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.SummaryView, error) {
	return h.usecase.List(ctx)
}
