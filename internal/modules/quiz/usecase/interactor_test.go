package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	quizout "recap/internal/modules/quiz/adapter/out"
	"recap/internal/modules/quiz/dto"
	"recap/internal/modules/quiz/service"
	"recap/internal/modules/quiz/usecase"
	scheduledto "recap/internal/modules/schedule/dto"
	sessiondto "recap/internal/modules/session/dto"
	apperrors "recap/internal/platform/errors"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type seqID struct {
	n int
}

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("q-%d", s.n)
}

type fakeScheduler struct {
	pending   []scheduledto.Instance
	completes []scheduledto.CompleteInput
	completed scheduledto.CompleteOutput
}

func (f *fakeScheduler) Schedule(context.Context, scheduledto.ScheduleInput) (scheduledto.ScheduleOutput, error) {
	return scheduledto.ScheduleOutput{}, nil
}

func (f *fakeScheduler) RequestOnDemand(context.Context, string) (scheduledto.Instance, error) {
	return scheduledto.Instance{}, nil
}

func (f *fakeScheduler) ListPending(context.Context) ([]scheduledto.Instance, error) {
	return f.pending, nil
}

func (f *fakeScheduler) Due(context.Context, scheduledto.DueInput) (scheduledto.DueOutput, error) {
	return scheduledto.DueOutput{Due: f.pending}, nil
}

func (f *fakeScheduler) Complete(_ context.Context, input scheduledto.CompleteInput) (scheduledto.CompleteOutput, error) {
	f.completes = append(f.completes, input)
	return f.completed, nil
}

func (f *fakeScheduler) SweepExpired(context.Context) (scheduledto.SweepOutput, error) {
	return scheduledto.SweepOutput{}, nil
}

func (f *fakeScheduler) History(context.Context) ([]scheduledto.Instance, error) {
	return nil, nil
}

type fakeSessions struct {
	summaries map[string]sessiondto.SummaryView
}

func (f *fakeSessions) Record(context.Context, sessiondto.RecordInput) (sessiondto.RecordOutput, error) {
	return sessiondto.RecordOutput{}, nil
}

func (f *fakeSessions) RecordNote(context.Context, sessiondto.RecordNoteInput) (sessiondto.RecordOutput, error) {
	return sessiondto.RecordOutput{}, nil
}

func (f *fakeSessions) Get(_ context.Context, sessionID string) (sessiondto.SummaryView, error) {
	summary, ok := f.summaries[sessionID]
	if !ok {
		return sessiondto.SummaryView{}, fmt.Errorf("%w: session %s", apperrors.ErrNoSummary, sessionID)
	}
	return summary, nil
}

func (f *fakeSessions) List(context.Context) ([]sessiondto.SummaryView, error) {
	return nil, nil
}

func newInteractor(t *testing.T, scheduler *fakeScheduler, sessions *fakeSessions) *usecase.Interactor {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)}
	store := quizout.NewFileQuizStore(t.TempDir())
	generator := service.NewGenerator(clk, &seqID{}, 5)
	return usecase.New(store, generator, scheduler, sessions)
}

func dueInstance() scheduledto.Instance {
	return scheduledto.Instance{InstanceID: "inst-1", SessionID: "s1", Tier: "same_day"}
}

func summaryWithMaterial() sessiondto.SummaryView {
	return sessiondto.SummaryView{
		SessionID: "s1",
		Topics:    []string{"go"},
		Decisions: []sessiondto.Decision{{What: "split the store", Rationale: "smaller files"}},
	}
}

func TestGenerateResolvesFirstDueInstance(t *testing.T) {
	t.Parallel()
	scheduler := &fakeScheduler{pending: []scheduledto.Instance{dueInstance()}}
	sessions := &fakeSessions{summaries: map[string]sessiondto.SummaryView{"s1": summaryWithMaterial()}}
	uc := newInteractor(t, scheduler, sessions)

	view, err := uc.Generate(context.Background(), dto.GenerateInput{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if view.InstanceID != "inst-1" || view.SessionID != "s1" || len(view.Questions) == 0 {
		t.Fatalf("unexpected quiz: %+v", view)
	}
}

func TestGenerateIsIdempotentPerInstance(t *testing.T) {
	t.Parallel()
	scheduler := &fakeScheduler{pending: []scheduledto.Instance{dueInstance()}}
	sessions := &fakeSessions{summaries: map[string]sessiondto.SummaryView{"s1": summaryWithMaterial()}}
	uc := newInteractor(t, scheduler, sessions)

	first, err := uc.Generate(context.Background(), dto.GenerateInput{InstanceID: "inst-1"})
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := uc.Generate(context.Background(), dto.GenerateInput{InstanceID: "inst-1"})
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if len(first.Questions) != len(second.Questions) || first.Questions[0].ID != second.Questions[0].ID {
		t.Fatalf("re-generating must serve the stored quiz, got %+v vs %+v", first.Questions, second.Questions)
	}
}

func TestGenerateNothingDue(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &fakeScheduler{}, &fakeSessions{})
	if _, err := uc.Generate(context.Background(), dto.GenerateInput{}); !errors.Is(err, apperrors.ErrNoQuiz) {
		t.Fatalf("expected ErrNoQuiz, got %v", err)
	}
}

func TestGenerateUnknownInstanceIsNotFound(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &fakeScheduler{}, &fakeSessions{})
	if _, err := uc.Generate(context.Background(), dto.GenerateInput{InstanceID: "ghost"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitTalliesGradesAndSkips(t *testing.T) {
	t.Parallel()
	scheduler := &fakeScheduler{pending: []scheduledto.Instance{dueInstance()}}
	sessions := &fakeSessions{summaries: map[string]sessiondto.SummaryView{"s1": {
		SessionID: "s1",
		Topics:    []string{"go"},
		Decisions: []sessiondto.Decision{{What: "d1"}, {What: "d2"}},
		FailureModes: []sessiondto.FailureMode{
			{Symptom: "f1"}, {Symptom: "f2"},
		},
	}}}
	uc := newInteractor(t, scheduler, sessions)

	view, err := uc.Generate(context.Background(), dto.GenerateInput{InstanceID: "inst-1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(view.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(view.Questions))
	}
	answeredAt := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)
	answers := []dto.Answer{
		{QuestionID: view.Questions[0].ID, Grade: "correct", AnsweredAt: answeredAt},
		{QuestionID: view.Questions[1].ID, Grade: "partial", Reflection: "half remembered", AnsweredAt: answeredAt},
		{QuestionID: view.Questions[2].ID, Grade: "wrong", AnsweredAt: answeredAt},
		{QuestionID: view.Questions[3].ID, Skipped: true, SkipReason: "time_pressure", AnsweredAt: answeredAt},
	}

	out, err := uc.Submit(context.Background(), dto.SubmitInput{InstanceID: "inst-1", Answers: answers})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Correct != 1 || out.Partial != 1 || out.Wrong != 1 || out.Skipped != 1 {
		t.Fatalf("unexpected tallies: %+v", out)
	}
	if len(scheduler.completes) != 1 {
		t.Fatalf("scheduler must record the completion once, got %d", len(scheduler.completes))
	}
	outcomes := scheduler.completes[0].Outcomes
	if len(outcomes) != 4 {
		t.Fatalf("every answer becomes an outcome, got %d", len(outcomes))
	}
	if !outcomes[0].Correct || outcomes[1].Correct || outcomes[2].Correct {
		t.Fatalf("only a correct grade counts as correct, got %+v", outcomes)
	}
	if !outcomes[3].Skipped || outcomes[3].SkipReason != "time_pressure" {
		t.Fatalf("skip must carry its reason, got %+v", outcomes[3])
	}
	if outcomes[1].Reflection != "half remembered" {
		t.Fatalf("reflection must ride along, got %+v", outcomes[1])
	}
}

func TestSubmitRejectsForeignQuestion(t *testing.T) {
	t.Parallel()
	scheduler := &fakeScheduler{pending: []scheduledto.Instance{dueInstance()}}
	sessions := &fakeSessions{summaries: map[string]sessiondto.SummaryView{"s1": summaryWithMaterial()}}
	uc := newInteractor(t, scheduler, sessions)

	if _, err := uc.Generate(context.Background(), dto.GenerateInput{InstanceID: "inst-1"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	answers := []dto.Answer{{QuestionID: "not-in-quiz", Grade: "correct", AnsweredAt: time.Now()}}
	if _, err := uc.Submit(context.Background(), dto.SubmitInput{InstanceID: "inst-1", Answers: answers}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("foreign question must be rejected, got %v", err)
	}
}

func TestSubmitWithoutAnswersIsInvalid(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &fakeScheduler{}, &fakeSessions{})
	if _, err := uc.Submit(context.Background(), dto.SubmitInput{InstanceID: "inst-1"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
