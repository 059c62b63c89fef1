package service_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"recap/internal/modules/quiz/domain"
	"recap/internal/modules/quiz/service"
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

func newGenerator(perQuiz int) *service.Generator {
	clk := &fakeClock{now: time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)}
	return service.NewGenerator(clk, &seqID{}, perQuiz)
}

func richSummary() sessiondto.SummaryView {
	return sessiondto.SummaryView{
		SessionID: "s1",
		Topics:    []string{"go"},
		Decisions: []sessiondto.Decision{
			{What: "d1", Rationale: "r1", Tradeoff: "t1"},
			{What: "d2"},
			{What: "d3"},
		},
		FailureModes: []sessiondto.FailureMode{
			{Symptom: "f1", Cause: "c1"},
			{Symptom: "f2"},
		},
		DebugSteps: []sessiondto.DebugStep{
			{Action: "a1", Observation: "o1"},
		},
	}
}

func countKinds(questions []domain.Question) map[domain.Kind]int {
	counts := map[domain.Kind]int{}
	for _, q := range questions {
		counts[q.Kind]++
	}
	return counts
}

func TestGenerateMixesKindsBeforeFilling(t *testing.T) {
	t.Parallel()
	gen := newGenerator(5)
	quiz, err := gen.Generate("inst-1", "s1", "same_day", richSummary())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 5 {
		t.Fatalf("expected a full quiz, got %d questions", len(quiz.Questions))
	}
	counts := countKinds(quiz.Questions)
	// Two per kind first, then leftovers round-robin: the single debugging
	// step cannot be outnumbered by a third design question.
	if counts[domain.KindSystemDesign] != 2 || counts[domain.KindCounterfactual] != 2 || counts[domain.KindDebugging] != 1 {
		t.Fatalf("unexpected kind mix: %v", counts)
	}
	if quiz.InstanceID != "inst-1" || quiz.Tier != "same_day" {
		t.Fatalf("quiz identity wrong: %+v", quiz)
	}
	for _, q := range quiz.Questions {
		if q.Topic != "go" {
			t.Fatalf("questions must carry the session topic, got %q", q.Topic)
		}
	}
}

func TestGenerateFillsFromSurplusKinds(t *testing.T) {
	t.Parallel()
	gen := newGenerator(4)
	summary := sessiondto.SummaryView{
		SessionID: "s1",
		Decisions: []sessiondto.Decision{{What: "d1"}, {What: "d2"}, {What: "d3"}, {What: "d4"}},
	}
	quiz, err := gen.Generate("inst-1", "s1", "next_day", summary)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	counts := countKinds(quiz.Questions)
	if counts[domain.KindSystemDesign] != 4 {
		t.Fatalf("a decisions-only summary yields design questions, got %v", counts)
	}
	// No topic tags: questions fall back to the kind as a label.
	if quiz.Questions[0].Topic != string(domain.KindSystemDesign) {
		t.Fatalf("missing topic must fall back to the kind, got %q", quiz.Questions[0].Topic)
	}
}

func TestGenerateCapsAtPerQuiz(t *testing.T) {
	t.Parallel()
	gen := newGenerator(3)
	quiz, err := gen.Generate("inst-1", "s1", "weekly", richSummary())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("quiz must cap at the configured size, got %d", len(quiz.Questions))
	}
}

func TestGenerateFallsBackToRecall(t *testing.T) {
	t.Parallel()
	gen := newGenerator(5)
	summary := sessiondto.SummaryView{
		SessionID: "s1",
		Topics:    []string{"go", "sqlite"},
		Notes:     "read the query planner docs",
	}
	quiz, err := gen.Generate("inst-1", "s1", "weekly", summary)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("one recall question per topic, got %d", len(quiz.Questions))
	}
	if quiz.Questions[1].Topic != "sqlite" || quiz.Questions[1].Context != "read the query planner docs" {
		t.Fatalf("recall question wrong: %+v", quiz.Questions[1])
	}
}

func TestGenerateEmptySummaryHasNoQuiz(t *testing.T) {
	t.Parallel()
	gen := newGenerator(5)
	_, err := gen.Generate("inst-1", "s1", "same_day", sessiondto.SummaryView{SessionID: "s1"})
	if !errors.Is(err, apperrors.ErrNoQuiz) {
		t.Fatalf("expected ErrNoQuiz, got %v", err)
	}
}
