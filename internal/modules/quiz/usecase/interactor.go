package usecase

import (
	"context"
	"errors"
	"fmt"

	"recap/internal/modules/quiz/domain"
	"recap/internal/modules/quiz/dto"
	quizout "recap/internal/modules/quiz/port/out"
	"recap/internal/modules/quiz/service"
	scheduledto "recap/internal/modules/schedule/dto"
	schedulein "recap/internal/modules/schedule/port/in"
	sessionin "recap/internal/modules/session/port/in"
	apperrors "recap/internal/platform/errors"
)

// Interactor generates quizzes for scheduled instances and routes graded
// answers back into the schedule.
type Interactor struct {
	store     quizout.QuizStore
	generator *service.Generator
	scheduler schedulein.Usecase
	sessions  sessionin.Usecase
}

func New(store quizout.QuizStore, generator *service.Generator, scheduler schedulein.Usecase, sessions sessionin.Usecase) *Interactor {
	return &Interactor{store: store, generator: generator, scheduler: scheduler, sessions: sessions}
}

func (i *Interactor) Generate(ctx context.Context, input dto.GenerateInput) (dto.QuizView, error) {
	instance, err := i.resolveInstance(ctx, input.InstanceID)
	if err != nil {
		return dto.QuizView{}, err
	}
	existing, err := i.store.Get(ctx, instance.InstanceID)
	if err == nil {
		return toView(existing), nil
	}
	if !errors.Is(err, apperrors.ErrNoQuiz) {
		return dto.QuizView{}, err
	}
	summary, err := i.sessions.Get(ctx, instance.SessionID)
	if err != nil {
		return dto.QuizView{}, err
	}
	quiz, err := i.generator.Generate(instance.InstanceID, instance.SessionID, instance.Tier, summary)
	if err != nil {
		return dto.QuizView{}, err
	}
	if err := i.store.Save(ctx, quiz); err != nil {
		return dto.QuizView{}, err
	}
	return toView(quiz), nil
}

func (i *Interactor) Get(ctx context.Context, instanceID string) (dto.QuizView, error) {
	quiz, err := i.store.Get(ctx, instanceID)
	if err != nil {
		return dto.QuizView{}, err
	}
	return toView(quiz), nil
}

func (i *Interactor) Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error) {
	if len(input.Answers) == 0 {
		return dto.SubmitOutput{}, fmt.Errorf("%w: no answers submitted", apperrors.ErrInvalidInput)
	}
	quiz, err := i.store.Get(ctx, input.InstanceID)
	if err != nil {
		return dto.SubmitOutput{}, err
	}
	questions := map[string]domain.Question{}
	for _, question := range quiz.Questions {
		questions[question.ID] = question
	}

	output := dto.SubmitOutput{InstanceID: input.InstanceID}
	var outcomes []scheduledto.Outcome
	for _, answer := range input.Answers {
		question, ok := questions[answer.QuestionID]
		if !ok {
			return dto.SubmitOutput{}, fmt.Errorf("%w: question %s is not part of quiz %s", apperrors.ErrInvalidInput, answer.QuestionID, input.InstanceID)
		}
		outcome := scheduledto.Outcome{
			Topic:      question.Topic,
			Skipped:    answer.Skipped,
			SkipReason: answer.SkipReason,
			SkipNote:   answer.SkipNote,
			Reflection: answer.Reflection,
			AnsweredAt: answer.AnsweredAt,
		}
		if answer.Skipped {
			output.Skipped++
		} else {
			grade := domain.Grade(answer.Grade)
			if err := grade.Validate(); err != nil {
				return dto.SubmitOutput{}, err
			}
			switch grade {
			case domain.GradeCorrect:
				outcome.Correct = true
				output.Correct++
			case domain.GradePartial:
				output.Partial++
			case domain.GradeWrong:
				output.Wrong++
			}
		}
		outcomes = append(outcomes, outcome)
	}

	completed, err := i.scheduler.Complete(ctx, scheduledto.CompleteInput{
		InstanceID: input.InstanceID,
		Outcomes:   outcomes,
	})
	if err != nil {
		return dto.SubmitOutput{}, err
	}
	output.AlreadyCompleted = completed.AlreadyCompleted
	return output, nil
}

// resolveInstance finds the pending instance to quiz on. An empty id picks
// the earliest due instance after sweeping overdue ones.
func (i *Interactor) resolveInstance(ctx context.Context, instanceID string) (scheduledto.Instance, error) {
	if instanceID == "" {
		due, err := i.scheduler.Due(ctx, scheduledto.DueInput{Sweep: true})
		if err != nil {
			return scheduledto.Instance{}, err
		}
		if len(due.Due) == 0 {
			return scheduledto.Instance{}, fmt.Errorf("%w: nothing is due", apperrors.ErrNoQuiz)
		}
		return due.Due[0], nil
	}
	pending, err := i.scheduler.ListPending(ctx)
	if err != nil {
		return scheduledto.Instance{}, err
	}
	for _, inst := range pending {
		if inst.InstanceID == instanceID {
			return inst, nil
		}
	}
	return scheduledto.Instance{}, fmt.Errorf("%w: pending instance %s", apperrors.ErrNotFound, instanceID)
}

func toView(quiz domain.Quiz) dto.QuizView {
	view := dto.QuizView{
		InstanceID:  quiz.InstanceID,
		SessionID:   quiz.SessionID,
		Tier:        quiz.Tier,
		GeneratedAt: quiz.GeneratedAt,
	}
	for _, question := range quiz.Questions {
		view.Questions = append(view.Questions, dto.Question{
			ID:      question.ID,
			Kind:    string(question.Kind),
			Topic:   question.Topic,
			Prompt:  question.Prompt,
			Context: question.Context,
		})
	}
	return view
}
