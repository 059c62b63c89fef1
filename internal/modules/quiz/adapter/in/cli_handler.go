package in

import (
	"context"

	"recap/internal/modules/quiz/dto"
	quizin "recap/internal/modules/quiz/port/in"
)

type CLIHandler struct {
	usecase quizin.Usecase
}

func NewCLIHandler(usecase quizin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Generate(ctx context.Context, input dto.GenerateInput) (dto.QuizView, error) {
	return h.usecase.Generate(ctx, input)
}

func (h CLIHandler) Get(ctx context.Context, instanceID string) (dto.QuizView, error) {
	return h.usecase.Get(ctx, instanceID)
}

func (h CLIHandler) Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error) {
	return h.usecase.Submit(ctx, input)
}
