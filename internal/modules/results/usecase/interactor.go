package usecase

import (
	"context"
	"fmt"

	"recap/internal/modules/results/domain"
	"recap/internal/modules/results/dto"
	resultsout "recap/internal/modules/results/port/out"
	"recap/internal/modules/results/service"
	schedulein "recap/internal/modules/schedule/port/in"
)

// Interactor rebuilds the sqlite projection from quiz history and serves
// aggregated stats and reports off it. History is always reindexed before
// reading, so the projection can never drift from the state file.
type Interactor struct {
	scheduler  schedulein.Usecase
	projection resultsout.OutcomeProjection
	reports    resultsout.ReportStore
	analyzer   *service.Analyzer
}

func New(scheduler schedulein.Usecase, projection resultsout.OutcomeProjection, reports resultsout.ReportStore, analyzer *service.Analyzer) *Interactor {
	return &Interactor{scheduler: scheduler, projection: projection, reports: reports, analyzer: analyzer}
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	history, err := i.scheduler.History(ctx)
	if err != nil {
		return dto.ReindexOutput{}, fmt.Errorf("load quiz history: %w", err)
	}
	if err := i.projection.Reset(ctx); err != nil {
		return dto.ReindexOutput{}, err
	}
	var output dto.ReindexOutput
	for _, inst := range history {
		if err := i.projection.UpsertInstance(ctx, inst.Tier, inst.InstanceID, inst.SessionID, inst.Status, inst.CompletedAt); err != nil {
			return dto.ReindexOutput{}, err
		}
		output.Instances++
		for position, outcome := range inst.Outcomes {
			record := domain.OutcomeRecord{
				InstanceID:  inst.InstanceID,
				SessionID:   inst.SessionID,
				Tier:        inst.Tier,
				Status:      inst.Status,
				CompletedAt: inst.CompletedAt,
				Topic:       outcome.Topic,
				Correct:     outcome.Correct,
				Skipped:     outcome.Skipped,
				SkipReason:  outcome.SkipReason,
			}
			if err := i.projection.UpsertOutcome(ctx, record, position); err != nil {
				return dto.ReindexOutput{}, err
			}
			output.Outcomes++
		}
	}
	return output, nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	report, err := i.build(ctx)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return toStats(report), nil
}

func (i *Interactor) Report(ctx context.Context) (dto.ReportOutput, error) {
	report, err := i.build(ctx)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	markdown := report.Render()
	path, err := i.reports.Save(ctx, report.GeneratedAt, markdown)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{Stats: toStats(report), Markdown: markdown, Path: path}, nil
}

func (i *Interactor) build(ctx context.Context) (domain.Report, error) {
	if _, err := i.Reindex(ctx); err != nil {
		return domain.Report{}, err
	}
	topics, err := i.projection.TopicTotals(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	skips, err := i.projection.SkipTotals(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	counts, err := i.projection.Counts(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	return i.analyzer.Build(topics, skips, counts), nil
}

func toStats(report domain.Report) dto.StatsOutput {
	output := dto.StatsOutput{
		Project:        report.Project,
		GeneratedAt:    report.GeneratedAt,
		QuizzesTaken:   report.QuizzesTaken,
		QuizzesExpired: report.QuizzesExpired,
		Questions:      report.Questions,
	}
	for _, stat := range report.Topics {
		output.Topics = append(output.Topics, toTopicStat(stat))
	}
	for _, stat := range report.BlindSpots() {
		output.BlindSpots = append(output.BlindSpots, toTopicStat(stat))
	}
	for _, skip := range report.Skips {
		output.Skips = append(output.Skips, dto.SkipPattern{
			Reason:   skip.Reason,
			Count:    skip.Count,
			Share:    skip.Share,
			Dominant: skip.Dominant,
		})
	}
	return output
}

func toTopicStat(stat domain.TopicStat) dto.TopicStat {
	return dto.TopicStat{
		Topic:      stat.Topic,
		Asked:      stat.Asked,
		Skipped:    stat.Skipped,
		Correct:    stat.Correct,
		Answered:   stat.Answered,
		PctCorrect: stat.PctCorrect,
		Band:       string(stat.Band),
	}
}
