package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	notifyinadapter "recap/internal/modules/notify/adapter/in"
	notifyoutadapter "recap/internal/modules/notify/adapter/out"
	notifyservice "recap/internal/modules/notify/service"
	notifyusecase "recap/internal/modules/notify/usecase"
	quizinadapter "recap/internal/modules/quiz/adapter/in"
	quizoutadapter "recap/internal/modules/quiz/adapter/out"
	quizdto "recap/internal/modules/quiz/dto"
	quizservice "recap/internal/modules/quiz/service"
	quizusecase "recap/internal/modules/quiz/usecase"
	resultsinadapter "recap/internal/modules/results/adapter/in"
	resultsoutadapter "recap/internal/modules/results/adapter/out"
	resultsservice "recap/internal/modules/results/service"
	resultsusecase "recap/internal/modules/results/usecase"
	scheduleinadapter "recap/internal/modules/schedule/adapter/in"
	scheduleoutadapter "recap/internal/modules/schedule/adapter/out"
	scheduledomain "recap/internal/modules/schedule/domain"
	scheduleservice "recap/internal/modules/schedule/service"
	scheduleusecase "recap/internal/modules/schedule/usecase"
	sessioninadapter "recap/internal/modules/session/adapter/in"
	sessionoutadapter "recap/internal/modules/session/adapter/out"
	sessionservice "recap/internal/modules/session/service"
	sessionusecase "recap/internal/modules/session/usecase"
	"recap/internal/platform/clock"
	"recap/internal/platform/config"
	"recap/internal/platform/id"
	"recap/internal/ui/quizview"
)

type App struct {
	SessionCLI  sessioninadapter.CLIHandler
	ScheduleCLI scheduleinadapter.CLIHandler
	QuizCLI     quizinadapter.CLIHandler
	ResultsCLI  resultsinadapter.CLIHandler
	NotifyCLI   notifyinadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	notifyUC := notifyusecase.NewInteractor(notifyservice.NewNotifyService(
		notifyoutadapter.NewFileManifestStore(cfg.NotifiersPath),
		notifyoutadapter.NewGRPCHost(),
		cfg.Project,
	))

	policy := scheduledomain.Policy{
		SameDayDelay:      cfg.Options.SameDayDelay(),
		NextDay:           cfg.Options.NextDay,
		NextDayHour:       cfg.Options.NextDayHour,
		Weekly:            cfg.Options.Weekly,
		WeeklyDay:         cfg.Options.Weekday(),
		MinSessionMinutes: cfg.Options.MinSessionMinutes,
		MinActivities:     cfg.Options.MinActivities,
		GracePeriod:       cfg.Options.GracePeriod(),
	}
	stateStore := scheduleoutadapter.NewFileStateStore(cfg.StatePath, cfg.LockPath, cfg.Project)
	scheduleUC := scheduleusecase.New(stateStore, scheduleservice.NewScheduler(clk, ids, policy), clk, notifyUC)

	sessionUC := sessionusecase.New(
		sessionoutadapter.NewFileSummaryStore(cfg.SummariesDir),
		sessionservice.NewSessionService(clk, ids),
		scheduleUC,
	)

	projection, err := resultsoutadapter.NewSQLiteOutcomeProjection(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new outcome projection: %w", err)
	}
	resultsUC := resultsusecase.New(
		scheduleUC,
		projection,
		resultsoutadapter.NewFileReportStore(cfg.ReportsDir),
		resultsservice.NewAnalyzer(cfg.Project, cfg.Options.SkipDominanceShare, clk),
	)

	quizUC := quizusecase.New(
		quizoutadapter.NewFileQuizStore(cfg.QuizzesDir),
		quizservice.NewGenerator(clk, ids, cfg.Options.PerQuiz),
		scheduleUC,
		sessionUC,
	)

	return &App{
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		ScheduleCLI: scheduleinadapter.NewCLIHandler(scheduleUC),
		QuizCLI:     quizinadapter.NewCLIHandler(quizUC),
		ResultsCLI:  resultsinadapter.NewCLIHandler(resultsUC),
		NotifyCLI:   notifyinadapter.NewCLIHandler(notifyUC),
	}, nil
}

// RunQuizTUI walks the user through one quiz in the terminal and records
// the graded answers on exit.
func RunQuizTUI(app *App, quiz quizdto.QuizView) error {
	model := quizview.New(app.QuizCLI, quiz)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
