package domain

import (
	"fmt"
	"time"

	apperrors "recap/internal/platform/errors"
)

// Kind is the question archetype. Each kind probes a different part of the
// session: choices made, things that broke, trails followed.
type Kind string

const (
	KindSystemDesign   Kind = "system_design"
	KindCounterfactual Kind = "counterfactual"
	KindDebugging      Kind = "debugging"
)

func (k Kind) Validate() error {
	switch k {
	case KindSystemDesign, KindCounterfactual, KindDebugging:
		return nil
	default:
		return fmt.Errorf("%w: unknown question kind %q", apperrors.ErrInvalidInput, string(k))
	}
}

// Grade is the self-assessment after revealing the answer context.
type Grade string

const (
	GradeCorrect Grade = "correct"
	GradePartial Grade = "partial"
	GradeWrong   Grade = "wrong"
)

func (g Grade) Validate() error {
	switch g {
	case GradeCorrect, GradePartial, GradeWrong:
		return nil
	default:
		return fmt.Errorf("%w: unknown grade %q", apperrors.ErrInvalidInput, string(g))
	}
}

type Question struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Topic   string `json:"topic"`
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
}

func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: question id is required", apperrors.ErrInvalidInput)
	}
	if err := q.Kind.Validate(); err != nil {
		return err
	}
	if q.Prompt == "" {
		return fmt.Errorf("%w: question prompt is required", apperrors.ErrInvalidInput)
	}
	if q.Topic == "" {
		return fmt.Errorf("%w: question topic is required", apperrors.ErrInvalidInput)
	}
	return nil
}

// Quiz is the generated question set for one scheduled instance. Generation
// is deterministic per instance: once stored, the same quiz is served again.
type Quiz struct {
	InstanceID  string     `json:"instance_id"`
	SessionID   string     `json:"session_id"`
	Tier        string     `json:"tier"`
	GeneratedAt time.Time  `json:"generated_at"`
	Questions   []Question `json:"questions"`
}

func (q Quiz) Validate() error {
	if q.InstanceID == "" {
		return fmt.Errorf("%w: quiz instance id is required", apperrors.ErrInvalidInput)
	}
	if q.SessionID == "" {
		return fmt.Errorf("%w: quiz session id is required", apperrors.ErrInvalidInput)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz has no questions", apperrors.ErrInvalidInput)
	}
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return err
		}
	}
	return nil
}
