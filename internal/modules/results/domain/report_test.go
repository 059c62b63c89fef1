package domain_test

import (
	"strings"
	"testing"
	"time"

	"recap/internal/modules/results/domain"
)

func TestNewTopicStatBands(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		asked   int
		skipped int
		correct int
		band    domain.Band
		pct     float64
	}{
		{"zero of three is weak", 3, 0, 0, domain.BandWeak, 0},
		{"just under half is weak", 5, 1, 1, domain.BandWeak, 0.25},
		{"half is needs work", 4, 0, 2, domain.BandNeedsWork, 0.5},
		{"seventy percent is strong", 10, 0, 7, domain.BandStrong, 0.7},
		{"perfect is strong", 2, 0, 2, domain.BandStrong, 1},
		{"all skipped is insufficient", 3, 3, 0, domain.BandInsufficient, 0},
	}
	for _, tc := range cases {
		stat := domain.NewTopicStat("go", tc.asked, tc.skipped, tc.correct)
		if stat.Band != tc.band {
			t.Fatalf("%s: expected band %s, got %s", tc.name, tc.band, stat.Band)
		}
		if stat.PctCorrect != tc.pct {
			t.Fatalf("%s: expected pct %v, got %v", tc.name, tc.pct, stat.PctCorrect)
		}
	}
}

func TestNewTopicStatExcludesSkipsFromAnswered(t *testing.T) {
	t.Parallel()
	// 4 asked, 2 skipped, 2 correct: the ratio is 2/2, not 2/4.
	stat := domain.NewTopicStat("go", 4, 2, 2)
	if stat.Answered != 2 || stat.Band != domain.BandStrong {
		t.Fatalf("skips must not dilute the score, got %+v", stat)
	}
}

func TestBlindSpotsAreWeakTopicsWeakestFirst(t *testing.T) {
	t.Parallel()
	report := domain.Report{Topics: []domain.TopicStat{
		domain.NewTopicStat("ok", 4, 0, 3),
		domain.NewTopicStat("bad", 4, 0, 1),
		domain.NewTopicStat("worse", 4, 0, 0),
	}}
	blind := report.BlindSpots()
	if len(blind) != 2 || blind[0].Topic != "worse" || blind[1].Topic != "bad" {
		t.Fatalf("unexpected blind spots: %+v", blind)
	}
}

func TestRenderListsTopicsBlindSpotsAndSkips(t *testing.T) {
	t.Parallel()
	report := domain.Report{
		Project:      "demo",
		GeneratedAt:  time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
		QuizzesTaken: 2,
		Questions:    8,
		Topics: []domain.TopicStat{
			domain.NewTopicStat("sqlite", 4, 0, 1),
			domain.NewTopicStat("go", 4, 0, 4),
		},
		Skips: []domain.SkipPattern{
			{Reason: "time_pressure", Count: 3, Share: 0.75, Dominant: true},
			{Reason: "unclear", Count: 1, Share: 0.25},
		},
	}
	out := report.Render()
	for _, want := range []string{
		"# Recap report: demo",
		"| sqlite | 4 | 0 | 1 | 25% | weak |",
		"| go | 4 | 0 | 4 | 100% | strong |",
		"- sqlite (25% over 4 answered)",
		"- time_pressure: 3 (75%) <- dominant",
		"- unclear: 1 (25%)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmptyReport(t *testing.T) {
	t.Parallel()
	report := domain.Report{Project: "demo", GeneratedAt: time.Now()}
	out := report.Render()
	for _, want := range []string{"No quiz outcomes recorded yet.", "None detected.", "No skipped questions."} {
		if !strings.Contains(out, want) {
			t.Fatalf("empty report missing %q:\n%s", want, out)
		}
	}
}
