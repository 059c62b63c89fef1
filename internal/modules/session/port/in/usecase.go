package in

import (
	"context"

	"recap/internal/modules/session/dto"
)

type Usecase interface {
	// Record stores a session summary and schedules quizzes for it when
	// the session clears the effort thresholds.
	Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error)

	// RecordNote does the same from a markdown note with YAML frontmatter.
	RecordNote(ctx context.Context, input dto.RecordNoteInput) (dto.RecordOutput, error)

	Get(ctx context.Context, sessionID string) (dto.SummaryView, error)
	List(ctx context.Context) ([]dto.SummaryView, error)
}
