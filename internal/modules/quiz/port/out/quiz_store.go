package out

import (
	"context"

	"recap/internal/modules/quiz/domain"
)

// QuizStore persists generated quizzes keyed by instance id, so a quiz
// re-requested for the same instance serves the same questions.
type QuizStore interface {
	Save(ctx context.Context, quiz domain.Quiz) error
	Get(ctx context.Context, instanceID string) (domain.Quiz, error)
}
