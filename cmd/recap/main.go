package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recap/internal/bootstrap"
	quizdto "recap/internal/modules/quiz/dto"
	scheduledto "recap/internal/modules/schedule/dto"
	sessiondto "recap/internal/modules/session/dto"
	"recap/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var projectPath string

	root := &cobra.Command{
		Use:           "recap",
		Short:         "Spaced-repetition quizzes over your own work sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&projectPath, "project", ".", "project path")

	root.AddCommand(newSessionCmd(&projectPath))
	root.AddCommand(newScheduleCmd(&projectPath))
	root.AddCommand(newDueCmd(&projectPath))
	root.AddCommand(newCompleteCmd(&projectPath))
	root.AddCommand(newQuizCmd(&projectPath))
	root.AddCommand(newReportCmd(&projectPath))
	root.AddCommand(newStatsCmd(&projectPath))
	root.AddCommand(newReindexCmd(&projectPath))
	root.AddCommand(newNotifierCmd(&projectPath))
	return root
}

func loadApp(projectPath string) (*bootstrap.App, error) {
	cfg, err := config.New(projectPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newSessionCmd(projectPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Record and inspect session summaries"}

	var file string
	var sessionID, notes string
	var duration int
	var topics, activities []string

	record := &cobra.Command{
		Use:   "record",
		Short: "Record a session summary and schedule quizzes for it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			var out sessiondto.RecordOutput
			if file != "" {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read summary note: %w", err)
				}
				out, err = app.SessionCLI.RecordNote(context.Background(), sessiondto.RecordNoteInput{Content: string(content)})
				if err != nil {
					return err
				}
			} else {
				input := sessiondto.RecordInput{
					SessionID:       sessionID,
					DurationMinutes: duration,
					Topics:          topics,
					Notes:           notes,
				}
				for _, activity := range activities {
					kind, detail, found := strings.Cut(activity, ":")
					if !found {
						kind, detail = "", activity
					}
					input.Activities = append(input.Activities, sessiondto.Activity{Kind: strings.TrimSpace(kind), Detail: strings.TrimSpace(detail)})
				}
				out, err = app.SessionCLI.Record(context.Background(), input)
				if err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded session %s\n", out.SessionID)
			if !out.Eligible {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session below quiz thresholds, nothing scheduled")
				return nil
			}
			for _, quiz := range out.Quizzes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scheduled %s quiz for %s\n", quiz.Tier, quiz.ScheduledFor.Format("2006-01-02 15:04"))
			}
			if len(out.Quizzes) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "quizzes already scheduled for this session")
			}
			return nil
		},
	}
	record.Flags().StringVar(&file, "file", "", "markdown summary note to record")
	record.Flags().StringVar(&sessionID, "id", "", "session id (generated when empty)")
	record.Flags().IntVar(&duration, "duration", 0, "session duration in minutes")
	record.Flags().StringSliceVar(&topics, "topics", nil, "topic tags")
	record.Flags().StringSliceVar(&activities, "activity", nil, "activities, optionally kind:detail")
	record.Flags().StringVar(&notes, "notes", "", "free-form notes")

	session.AddCommand(record)

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			summaries, err := app.SessionCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions recorded")
				return nil
			}
			for _, summary := range summaries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dmin\t%s\n",
					summary.SessionID,
					summary.RecordedAt.Format("2006-01-02 15:04"),
					summary.DurationMinutes,
					strings.Join(summary.Topics, ","))
			}
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			summary, err := app.SessionCLI.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s (%s, %dmin)\n",
				summary.SessionID, summary.RecordedAt.Format("2006-01-02 15:04"), summary.DurationMinutes)
			if len(summary.Topics) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "topics: %s\n", strings.Join(summary.Topics, ", "))
			}
			for _, decision := range summary.Decisions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "decision: %s\n", decision.What)
			}
			for _, failure := range summary.FailureModes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "failure: %s\n", failure.Symptom)
			}
			if summary.Notes != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary.Notes)
			}
			return nil
		},
	})

	return session
}

func newScheduleCmd(projectPath *string) *cobra.Command {
	schedule := &cobra.Command{Use: "schedule", Short: "Inspect and extend the quiz schedule"}

	schedule.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pending quizzes ordered by fire time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			pending, err := app.ScheduleCLI.ListPending(context.Background())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no pending quizzes")
				return nil
			}
			for _, inst := range pending {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tsession=%s\n",
					inst.InstanceID, inst.Tier, inst.ScheduledFor.Format("2006-01-02 15:04"), inst.SessionID)
			}
			return nil
		},
	})

	var sessionID string
	request := &cobra.Command{
		Use:   "request",
		Short: "Request an immediate on-demand quiz for a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" {
				return fmt.Errorf("--session is required")
			}
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			inst, err := app.ScheduleCLI.RequestOnDemand(context.Background(), sessionID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "on-demand quiz %s is due now\n", inst.InstanceID)
			return nil
		},
	}
	request.Flags().StringVar(&sessionID, "session", "", "session to quiz on")
	schedule.AddCommand(request)

	return schedule
}

func newDueCmd(projectPath *string) *cobra.Command {
	var notify bool
	var sweep bool

	due := &cobra.Command{
		Use:   "due",
		Short: "Show quizzes whose fire time has passed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			out, err := app.ScheduleCLI.Due(context.Background(), scheduledto.DueInput{Sweep: sweep, Notify: notify})
			if err != nil {
				return err
			}
			for _, inst := range out.Expired {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "expired %s quiz %s (was due %s)\n",
					inst.Tier, inst.InstanceID, inst.ScheduledFor.Format("2006-01-02 15:04"))
			}
			if len(out.Due) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing due")
				return nil
			}
			for _, inst := range out.Due {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tdue since %s\n",
					inst.InstanceID, inst.Tier, inst.ScheduledFor.Format("2006-01-02 15:04"))
			}
			if notify && !out.Notified {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "** %d quiz(es) due, run `recap quiz run` **\n", len(out.Due))
			}
			return nil
		},
	}
	due.Flags().BoolVar(&notify, "notify", false, "deliver through configured notifiers")
	due.Flags().BoolVar(&sweep, "sweep", true, "move overdue quizzes to history first")
	return due
}

func newCompleteCmd(projectPath *string) *cobra.Command {
	var instanceID, resultsFile string

	complete := &cobra.Command{
		Use:   "complete",
		Short: "Record quiz outcomes from a results file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(instanceID) == "" {
				return fmt.Errorf("--instance-id is required")
			}
			if strings.TrimSpace(resultsFile) == "" {
				return fmt.Errorf("--results is required")
			}
			raw, err := os.ReadFile(resultsFile)
			if err != nil {
				return fmt.Errorf("read results file: %w", err)
			}
			var entries []struct {
				Topic      string `json:"topic"`
				Correct    bool   `json:"correct"`
				Skipped    bool   `json:"skipped"`
				SkipReason string `json:"skip_reason"`
				SkipNote   string `json:"skip_note"`
				Reflection string `json:"reflection"`
			}
			if err := json.Unmarshal(raw, &entries); err != nil {
				return fmt.Errorf("decode results file: %w", err)
			}
			input := scheduledto.CompleteInput{InstanceID: instanceID}
			for _, entry := range entries {
				input.Outcomes = append(input.Outcomes, scheduledto.Outcome{
					Topic:      entry.Topic,
					Correct:    entry.Correct,
					Skipped:    entry.Skipped,
					SkipReason: entry.SkipReason,
					SkipNote:   entry.SkipNote,
					Reflection: entry.Reflection,
				})
			}
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			out, err := app.ScheduleCLI.Complete(context.Background(), input)
			if err != nil {
				return err
			}
			if out.AlreadyCompleted {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "quiz %s was already recorded\n", out.Instance.InstanceID)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %d outcome(s) for quiz %s\n", len(out.Instance.Outcomes), out.Instance.InstanceID)
			return nil
		},
	}
	complete.Flags().StringVar(&instanceID, "instance-id", "", "quiz instance to complete")
	complete.Flags().StringVar(&resultsFile, "results", "", "JSON file with question outcomes")
	return complete
}

func newQuizCmd(projectPath *string) *cobra.Command {
	quiz := &cobra.Command{Use: "quiz", Short: "Generate and take quizzes"}

	var instanceID string

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate the quiz for a pending instance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			view, err := app.QuizCLI.Generate(context.Background(), quizdto.GenerateInput{InstanceID: instanceID})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "quiz %s (%s) with %d question(s)\n", view.InstanceID, view.Tier, len(view.Questions))
			for i, question := range view.Questions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] %s\n", i+1, question.Kind, question.Prompt)
			}
			return nil
		},
	}
	generate.Flags().StringVar(&instanceID, "instance-id", "", "pending instance (first due when empty)")

	var runInstanceID string
	run := &cobra.Command{
		Use:   "run",
		Short: "Take a due quiz interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			view, err := app.QuizCLI.Generate(context.Background(), quizdto.GenerateInput{InstanceID: runInstanceID})
			if err != nil {
				return err
			}
			return bootstrap.RunQuizTUI(app, view)
		},
	}
	run.Flags().StringVar(&runInstanceID, "instance-id", "", "pending instance (first due when empty)")

	quiz.AddCommand(generate, run)
	return quiz
}

func newReportCmd(projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Write a markdown performance report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			out, err := app.ResultsCLI.Report(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Markdown)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "written to %s\n", out.Path)
			return nil
		},
	}
}

func newStatsCmd(projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-topic performance and skip patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			stats, err := app.ResultsCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "quizzes taken=%d expired=%d questions=%d\n",
				stats.QuizzesTaken, stats.QuizzesExpired, stats.Questions)
			for _, topic := range stats.Topics {
				score := "-"
				if topic.Band != "insufficient_data" {
					score = fmt.Sprintf("%.0f%%", topic.PctCorrect*100)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tasked=%d skipped=%d correct=%d score=%s band=%s\n",
					topic.Topic, topic.Asked, topic.Skipped, topic.Correct, score, topic.Band)
			}
			for _, skip := range stats.Skips {
				line := fmt.Sprintf("skip %s: %d (%.0f%%)", skip.Reason, skip.Count, skip.Share*100)
				if skip.Dominant {
					line += " dominant"
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newReindexCmd(projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the results projection from quiz history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			out, err := app.ResultsCLI.Reindex(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d instance(s), %d outcome(s)\n", out.Instances, out.Outcomes)
			return nil
		},
	}
}

func newNotifierCmd(projectPath *string) *cobra.Command {
	notifier := &cobra.Command{Use: "notifier", Short: "Manage notification channels"}

	notifier.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed notifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			notifiers, err := app.NotifyCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(notifiers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notifiers installed")
				return nil
			}
			for _, n := range notifiers {
				state := "disabled"
				if n.Enabled {
					state = "enabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", n.Name, n.Version, state, n.Binary)
			}
			return nil
		},
	})

	notifier.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check notifier binaries, checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*projectPath)
			if err != nil {
				return err
			}
			results, err := app.NotifyCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notifiers installed")
				return nil
			}
			for _, result := range results {
				status := "ok"
				if result.Error != "" {
					status = result.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tbinary=%t checksum=%t lifecycle=%t\t%s\n",
					result.Name, result.BinaryReachable, result.ChecksumValid, result.LifecycleOK, status)
			}
			return nil
		},
	})

	return notifier
}
