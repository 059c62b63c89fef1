package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrLockTimeout  = errors.New("lock acquisition timed out")
	ErrStateCorrupt = errors.New("quiz state is corrupt")
	ErrNoSummary    = errors.New("no session summary found")
	ErrNoQuiz       = errors.New("no quiz found")
)
