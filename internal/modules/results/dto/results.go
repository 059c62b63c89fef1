package dto

import "time"

type TopicStat struct {
	Topic      string
	Asked      int
	Skipped    int
	Correct    int
	Answered   int
	PctCorrect float64
	Band       string
}

type SkipPattern struct {
	Reason   string
	Count    int
	Share    float64
	Dominant bool
}

type StatsOutput struct {
	Project        string
	GeneratedAt    time.Time
	QuizzesTaken   int
	QuizzesExpired int
	Questions      int
	Topics         []TopicStat
	BlindSpots     []TopicStat
	Skips          []SkipPattern
}

type ReportOutput struct {
	Stats    StatsOutput
	Markdown string
	Path     string
}

type ReindexOutput struct {
	Instances int
	Outcomes  int
}
