package out

import (
	"context"

	"recap/internal/modules/session/domain"
)

// SummaryStore persists session summaries as notes, one per session.
type SummaryStore interface {
	Save(ctx context.Context, summary domain.Summary) error
	Get(ctx context.Context, sessionID string) (domain.Summary, error)
	List(ctx context.Context) ([]domain.Summary, error)
}
