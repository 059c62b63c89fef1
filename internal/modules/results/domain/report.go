package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Band classifies a topic by its answered-correct ratio. Topics with no
// answered questions land in the insufficient band instead of a ratio.
type Band string

const (
	BandInsufficient Band = "insufficient_data"
	BandWeak         Band = "weak"
	BandNeedsWork    Band = "needs_work"
	BandStrong       Band = "strong"
)

const (
	weakBelow      = 0.50
	needsWorkBelow = 0.70
)

// OutcomeRecord is one question outcome flattened for aggregation.
type OutcomeRecord struct {
	InstanceID  string
	SessionID   string
	Tier        string
	Status      string
	CompletedAt time.Time
	Topic       string
	Correct     bool
	Skipped     bool
	SkipReason  string
}

// TopicStat aggregates a topic's outcomes. Answered excludes skips, so a
// topic the user keeps skipping cannot look strong by omission.
type TopicStat struct {
	Topic      string
	Asked      int
	Skipped    int
	Correct    int
	Answered   int
	PctCorrect float64
	Band       Band
}

// SkipPattern aggregates skips per reason. Dominant marks a reason whose
// share of all skips crosses the configured threshold.
type SkipPattern struct {
	Reason   string
	Count    int
	Share    float64
	Dominant bool
}

type Report struct {
	Project        string
	GeneratedAt    time.Time
	QuizzesTaken   int
	QuizzesExpired int
	Questions      int
	Topics         []TopicStat
	Skips          []SkipPattern
}

// NewTopicStat derives the ratio and band from raw counts.
func NewTopicStat(topic string, asked, skipped, correct int) TopicStat {
	stat := TopicStat{Topic: topic, Asked: asked, Skipped: skipped, Correct: correct}
	stat.Answered = asked - skipped
	if stat.Answered <= 0 {
		stat.Band = BandInsufficient
		return stat
	}
	stat.PctCorrect = float64(correct) / float64(stat.Answered)
	switch {
	case stat.PctCorrect < weakBelow:
		stat.Band = BandWeak
	case stat.PctCorrect < needsWorkBelow:
		stat.Band = BandNeedsWork
	default:
		stat.Band = BandStrong
	}
	return stat
}

// BlindSpots returns the weak topics, weakest first.
func (r Report) BlindSpots() []TopicStat {
	var weak []TopicStat
	for _, stat := range r.Topics {
		if stat.Band == BandWeak {
			weak = append(weak, stat)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].PctCorrect < weak[j].PctCorrect
	})
	return weak
}

// Render produces the markdown report written to disk.
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Recap report: %s\n\n", r.Project)
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Quizzes taken: %d, expired: %d, questions answered or skipped: %d\n\n",
		r.QuizzesTaken, r.QuizzesExpired, r.Questions)

	b.WriteString("## Topics\n\n")
	if len(r.Topics) == 0 {
		b.WriteString("No quiz outcomes recorded yet.\n\n")
	} else {
		b.WriteString("| Topic | Asked | Skipped | Correct | Score | Band |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, stat := range r.Topics {
			score := "-"
			if stat.Band != BandInsufficient {
				score = fmt.Sprintf("%.0f%%", stat.PctCorrect*100)
			}
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %s |\n",
				stat.Topic, stat.Asked, stat.Skipped, stat.Correct, score, stat.Band)
		}
		b.WriteString("\n")
	}

	blind := r.BlindSpots()
	b.WriteString("## Blind spots\n\n")
	if len(blind) == 0 {
		b.WriteString("None detected.\n\n")
	} else {
		for _, stat := range blind {
			fmt.Fprintf(&b, "- %s (%.0f%% over %d answered)\n", stat.Topic, stat.PctCorrect*100, stat.Answered)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Skips\n\n")
	if len(r.Skips) == 0 {
		b.WriteString("No skipped questions.\n")
	} else {
		for _, skip := range r.Skips {
			line := fmt.Sprintf("- %s: %d (%.0f%%)", skip.Reason, skip.Count, skip.Share*100)
			if skip.Dominant {
				line += " <- dominant"
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
