package in

import (
	"context"

	"recap/internal/modules/quiz/dto"
)

type Usecase interface {
	// Generate builds (or retrieves) the quiz for a pending instance.
	Generate(ctx context.Context, input dto.GenerateInput) (dto.QuizView, error)

	// Get returns a previously generated quiz.
	Get(ctx context.Context, instanceID string) (dto.QuizView, error)

	// Submit grades a taken quiz and records the outcomes against the
	// schedule.
	Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error)
}
