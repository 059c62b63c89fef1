package service_test

import (
	"errors"
	"testing"
	"time"

	"recap/internal/modules/session/dto"
	"recap/internal/modules/session/service"
	apperrors "recap/internal/platform/errors"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fixedID struct {
	value string
}

func (f *fixedID) New() string { return f.value }

func TestFromInputAssignsIdentityAndTimestamp(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)}
	svc := service.NewSessionService(clk, &fixedID{value: "generated"})

	summary, err := svc.FromInput(dto.RecordInput{
		DurationMinutes: 45,
		Topics:          []string{" Go ", "go", "SQLite", ""},
		Activities:      []dto.Activity{{Kind: "coding", Detail: "wrote tests"}},
	})
	if err != nil {
		t.Fatalf("from input: %v", err)
	}
	if summary.SessionID != "generated" || !summary.RecordedAt.Equal(clk.now) {
		t.Fatalf("blank identity must be filled in, got %+v", summary)
	}
	if len(summary.Topics) != 2 || summary.Topics[0] != "go" || summary.Topics[1] != "sqlite" {
		t.Fatalf("topics must be lowercased and deduplicated, got %v", summary.Topics)
	}
}

func TestFromInputKeepsExplicitIdentity(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)}
	svc := service.NewSessionService(clk, &fixedID{value: "generated"})

	summary, err := svc.FromInput(dto.RecordInput{SessionID: "mine", DurationMinutes: 10})
	if err != nil {
		t.Fatalf("from input: %v", err)
	}
	if summary.SessionID != "mine" {
		t.Fatalf("explicit id must win, got %q", summary.SessionID)
	}
}

func TestFromInputRejectsBlankActivityDetail(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)}
	svc := service.NewSessionService(clk, &fixedID{value: "generated"})

	_, err := svc.FromInput(dto.RecordInput{
		Activities: []dto.Activity{{Kind: "coding", Detail: "   "}},
	})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank activity detail must be rejected, got %v", err)
	}
}

func TestFromNoteEmptyContentIsInvalid(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)}
	svc := service.NewSessionService(clk, &fixedID{value: "generated"})

	if _, err := svc.FromNote("  \n "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("empty note must be rejected, got %v", err)
	}
}
