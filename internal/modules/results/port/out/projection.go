package out

import (
	"context"
	"time"

	"recap/internal/modules/results/domain"
)

// TopicTotal is a per-topic rollup straight out of the projection.
type TopicTotal struct {
	Topic   string
	Asked   int
	Skipped int
	Correct int
}

type SkipTotal struct {
	Reason string
	Count  int
}

type InstanceCounts struct {
	Completed int
	Expired   int
	Outcomes  int
}

// OutcomeProjection is the rebuildable query index over quiz history. The
// state file stays the source of truth; the projection may be dropped and
// reindexed at any time.
type OutcomeProjection interface {
	Reset(ctx context.Context) error
	UpsertInstance(ctx context.Context, tier, instanceID, sessionID, status string, completedAt time.Time) error
	UpsertOutcome(ctx context.Context, record domain.OutcomeRecord, position int) error
	TopicTotals(ctx context.Context) ([]TopicTotal, error)
	SkipTotals(ctx context.Context) ([]SkipTotal, error)
	Counts(ctx context.Context) (InstanceCounts, error)
}

// ReportStore persists rendered reports.
type ReportStore interface {
	Save(ctx context.Context, generatedAt time.Time, markdown string) (string, error)
}
