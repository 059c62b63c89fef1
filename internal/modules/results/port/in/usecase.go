package in

import (
	"context"

	"recap/internal/modules/results/dto"
)

type Usecase interface {
	// Reindex rebuilds the query projection from quiz history.
	Reindex(ctx context.Context) (dto.ReindexOutput, error)

	// Stats aggregates per-topic performance and skip patterns.
	Stats(ctx context.Context) (dto.StatsOutput, error)

	// Report renders the stats as markdown and writes it to the reports
	// directory.
	Report(ctx context.Context) (dto.ReportOutput, error)
}
