package service_test

import (
	"strings"
	"testing"
	"time"

	"recap/internal/modules/session/domain"
	"recap/internal/modules/session/service"
)

func sampleSummary() domain.Summary {
	return domain.Summary{
		SessionID:       "s1",
		RecordedAt:      time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		Topics:          []string{"go", "sqlite"},
		Activities: []domain.Activity{
			{Kind: "coding", Detail: "wired the projection"},
			{Kind: "review", Detail: "read the migration PR"},
		},
		Decisions: []domain.Decision{
			{What: "kept the projection rebuildable", Rationale: "state file stays the source of truth", Tradeoff: "reindex cost on read"},
		},
		FailureModes: []domain.FailureMode{
			{Symptom: "stale rows after replay", Cause: "missing reset before reindex"},
		},
		DebugSteps: []domain.DebugStep{
			{Action: "dumped the outcomes table", Observation: "duplicates from a prior run"},
		},
		Notes: "# Session\n\nLong day.\n",
	}
}

func TestNoteRoundTrip(t *testing.T) {
	t.Parallel()
	in := sampleSummary()
	note, err := service.EncodeNote(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(note, "session_id: s1") {
		t.Fatalf("frontmatter must carry the session id:\n%s", note)
	}

	out, err := service.DecodeNote(note)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SessionID != in.SessionID || !out.RecordedAt.Equal(in.RecordedAt) || out.DurationMinutes != 90 {
		t.Fatalf("header fields must round-trip, got %+v", out)
	}
	if len(out.Activities) != 2 || out.Activities[1].Detail != "read the migration PR" {
		t.Fatalf("activities must round-trip, got %+v", out.Activities)
	}
	if len(out.Decisions) != 1 || out.Decisions[0].Tradeoff != "reindex cost on read" {
		t.Fatalf("decisions must round-trip, got %+v", out.Decisions)
	}
	if len(out.FailureModes) != 1 || len(out.DebugSteps) != 1 {
		t.Fatalf("failure modes and debug steps must round-trip, got %+v", out)
	}
	if !strings.Contains(out.Notes, "Long day.") {
		t.Fatalf("body must survive, got %q", out.Notes)
	}
}

func TestDecodeNoteWithoutFrontmatterKeepsBody(t *testing.T) {
	t.Parallel()
	out, err := service.DecodeNote("just scribbles\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SessionID != "" || out.Notes != "just scribbles\n" {
		t.Fatalf("plain note must land in the body, got %+v", out)
	}
}
