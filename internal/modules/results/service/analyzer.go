package service

import (
	"sort"

	"recap/internal/modules/results/domain"
	resultsout "recap/internal/modules/results/port/out"
	"recap/internal/platform/clock"
)

var bandOrder = map[domain.Band]int{
	domain.BandWeak:         0,
	domain.BandNeedsWork:    1,
	domain.BandStrong:       2,
	domain.BandInsufficient: 3,
}

// Analyzer turns projection rollups into the report: band per topic, blind
// spots, skip-reason distribution with dominance flagging.
type Analyzer struct {
	project        string
	dominanceShare float64
	clock          clock.Clock
}

func NewAnalyzer(project string, dominanceShare float64, c clock.Clock) *Analyzer {
	return &Analyzer{project: project, dominanceShare: dominanceShare, clock: c}
}

func (a *Analyzer) Build(topics []resultsout.TopicTotal, skips []resultsout.SkipTotal, counts resultsout.InstanceCounts) domain.Report {
	report := domain.Report{
		Project:        a.project,
		GeneratedAt:    a.clock.Now(),
		QuizzesTaken:   counts.Completed,
		QuizzesExpired: counts.Expired,
		Questions:      counts.Outcomes,
	}
	for _, total := range topics {
		report.Topics = append(report.Topics, domain.NewTopicStat(total.Topic, total.Asked, total.Skipped, total.Correct))
	}
	sort.SliceStable(report.Topics, func(i, j int) bool {
		left, right := report.Topics[i], report.Topics[j]
		if bandOrder[left.Band] != bandOrder[right.Band] {
			return bandOrder[left.Band] < bandOrder[right.Band]
		}
		if left.PctCorrect != right.PctCorrect {
			return left.PctCorrect < right.PctCorrect
		}
		return left.Topic < right.Topic
	})

	totalSkips := 0
	for _, skip := range skips {
		totalSkips += skip.Count
	}
	for _, skip := range skips {
		pattern := domain.SkipPattern{Reason: skip.Reason, Count: skip.Count}
		if totalSkips > 0 {
			pattern.Share = float64(skip.Count) / float64(totalSkips)
			pattern.Dominant = pattern.Share > a.dominanceShare
		}
		report.Skips = append(report.Skips, pattern)
	}
	sort.SliceStable(report.Skips, func(i, j int) bool {
		if report.Skips[i].Count != report.Skips[j].Count {
			return report.Skips[i].Count > report.Skips[j].Count
		}
		return report.Skips[i].Reason < report.Skips[j].Reason
	})
	return report
}
