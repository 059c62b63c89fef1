package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config resolves every path the tool touches under <project>/.recap and
// carries the scheduling options loaded from config.yaml.
type Config struct {
	ProjectPath   string
	Project       string
	StatePath     string
	LockPath      string
	DBPath        string
	SummariesDir  string
	QuizzesDir    string
	ReportsDir    string
	NotifiersPath string
	Options       Options
}

// Options are the recognized per-project settings. Unknown keys are rejected
// so typos fail loudly instead of silently using defaults.
type Options struct {
	SameDayDelayHours  float64 `yaml:"same_day_delay_hours"`
	NextDay            bool    `yaml:"next_day"`
	NextDayHour        int     `yaml:"next_day_hour"`
	Weekly             bool    `yaml:"weekly"`
	WeeklyDay          string  `yaml:"weekly_day"`
	MinSessionMinutes  int     `yaml:"min_session_minutes"`
	MinActivities      int     `yaml:"min_activities"`
	PerQuiz            int     `yaml:"per_quiz"`
	GracePeriodHours   float64 `yaml:"grace_period_hours"`
	SkipDominanceShare float64 `yaml:"skip_dominance_share"`
}

var weekdays = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

func DefaultOptions() Options {
	return Options{
		SameDayDelayHours:  4,
		NextDay:            true,
		NextDayHour:        9,
		Weekly:             true,
		WeeklyDay:          "fri",
		MinSessionMinutes:  15,
		MinActivities:      5,
		PerQuiz:            5,
		GracePeriodHours:   24,
		SkipDominanceShare: 0.5,
	}
}

func (o Options) Validate() error {
	if o.SameDayDelayHours < 0 {
		return fmt.Errorf("same_day_delay_hours must be non-negative")
	}
	if o.NextDayHour < 0 || o.NextDayHour > 23 {
		return fmt.Errorf("next_day_hour must be within 0..23")
	}
	if _, ok := weekdays[o.WeeklyDay]; !ok {
		return fmt.Errorf("weekly_day must be one of mon..sun, got %q", o.WeeklyDay)
	}
	if o.PerQuiz <= 0 {
		return fmt.Errorf("per_quiz must be positive")
	}
	if o.GracePeriodHours < 0 {
		return fmt.Errorf("grace_period_hours must be non-negative")
	}
	if o.SkipDominanceShare <= 0 || o.SkipDominanceShare > 1 {
		return fmt.Errorf("skip_dominance_share must be within (0, 1]")
	}
	return nil
}

// Weekday resolves the configured weekly_day. Validate must pass first.
func (o Options) Weekday() time.Weekday {
	return weekdays[o.WeeklyDay]
}

func (o Options) SameDayDelay() time.Duration {
	return time.Duration(o.SameDayDelayHours * float64(time.Hour))
}

func (o Options) GracePeriod() time.Duration {
	return time.Duration(o.GracePeriodHours * float64(time.Hour))
}

func New(projectPath string) (Config, error) {
	if projectPath == "" {
		return Config{}, fmt.Errorf("project path is required")
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return Config{}, fmt.Errorf("resolve project path: %w", err)
	}
	base := filepath.Join(abs, ".recap")
	options, err := loadOptions(filepath.Join(base, "config.yaml"))
	if err != nil {
		return Config{}, err
	}
	return Config{
		ProjectPath:   abs,
		Project:       filepath.Base(abs),
		StatePath:     filepath.Join(base, "quiz-state.json"),
		LockPath:      filepath.Join(base, "quiz-state.lock"),
		DBPath:        filepath.Join(base, "recap.db"),
		SummariesDir:  filepath.Join(base, "summaries"),
		QuizzesDir:    filepath.Join(base, "quizzes"),
		ReportsDir:    filepath.Join(base, "reports"),
		NotifiersPath: filepath.Join(base, "notifiers", "notifiers.json"),
		Options:       options,
	}, nil
}

func loadOptions(path string) (Options, error) {
	options := DefaultOptions()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return options, nil
		}
		return Options{}, fmt.Errorf("read config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&options); err != nil {
		return Options{}, fmt.Errorf("decode config: %w", err)
	}
	if err := options.Validate(); err != nil {
		return Options{}, fmt.Errorf("validate config: %w", err)
	}
	return options, nil
}
