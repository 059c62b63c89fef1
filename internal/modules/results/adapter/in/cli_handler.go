package in

import (
	"context"

	"recap/internal/modules/results/dto"
	resultsin "recap/internal/modules/results/port/in"
)

type CLIHandler struct {
	usecase resultsin.Usecase
}

func NewCLIHandler(usecase resultsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Stats(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) Report(ctx context.Context) (dto.ReportOutput, error) {
	return h.usecase.Report(ctx)
}
