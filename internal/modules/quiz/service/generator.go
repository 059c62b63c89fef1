package service

import (
	"fmt"
	"strings"

	"recap/internal/modules/quiz/domain"
	sessiondto "recap/internal/modules/session/dto"
	"recap/internal/platform/clock"
	apperrors "recap/internal/platform/errors"
	"recap/internal/platform/id"
)

const perKindPriority = 2

// Generator derives quiz questions from what a session summary actually
// recorded: decisions become design questions, failures become
// counterfactuals, debugging trails become process questions. Bare topic
// tags fall back to recall prompts so a sparse summary still yields a quiz.
type Generator struct {
	clock   clock.Clock
	ids     id.Generator
	perQuiz int
}

func NewGenerator(c clock.Clock, ids id.Generator, perQuiz int) *Generator {
	return &Generator{clock: c, ids: ids, perQuiz: perQuiz}
}

func (g *Generator) Generate(instanceID, sessionID, tier string, summary sessiondto.SummaryView) (domain.Quiz, error) {
	topic := primaryTopic(summary)
	byKind := map[domain.Kind][]domain.Question{
		domain.KindSystemDesign:   g.designQuestions(topic, summary),
		domain.KindCounterfactual: g.counterfactualQuestions(topic, summary),
		domain.KindDebugging:      g.debuggingQuestions(topic, summary),
	}

	kinds := []domain.Kind{domain.KindSystemDesign, domain.KindCounterfactual, domain.KindDebugging}
	var questions []domain.Question
	for _, kind := range kinds {
		take := perKindPriority
		if take > len(byKind[kind]) {
			take = len(byKind[kind])
		}
		questions = append(questions, byKind[kind][:take]...)
		byKind[kind] = byKind[kind][take:]
	}
	for len(questions) < g.perQuiz {
		progressed := false
		for _, kind := range kinds {
			if len(questions) >= g.perQuiz {
				break
			}
			if len(byKind[kind]) == 0 {
				continue
			}
			questions = append(questions, byKind[kind][0])
			byKind[kind] = byKind[kind][1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}
	if len(questions) == 0 {
		questions = g.recallQuestions(summary)
	}
	if len(questions) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: summary %s has no material to quiz on", apperrors.ErrNoQuiz, sessionID)
	}
	if len(questions) > g.perQuiz {
		questions = questions[:g.perQuiz]
	}

	quiz := domain.Quiz{
		InstanceID:  instanceID,
		SessionID:   sessionID,
		Tier:        tier,
		GeneratedAt: g.clock.Now(),
		Questions:   questions,
	}
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (g *Generator) designQuestions(topic string, summary sessiondto.SummaryView) []domain.Question {
	var out []domain.Question
	for _, decision := range summary.Decisions {
		context := decision.Rationale
		if decision.Tradeoff != "" {
			context = strings.TrimSpace(context + "\nTradeoff accepted: " + decision.Tradeoff)
		}
		out = append(out, domain.Question{
			ID:      g.ids.New(),
			Kind:    domain.KindSystemDesign,
			Topic:   topicOrKind(topic, domain.KindSystemDesign),
			Prompt:  fmt.Sprintf("You decided: %s. What tradeoff did that accept, and under what conditions would the alternative have been the better call?", decision.What),
			Context: context,
		})
	}
	return out
}

func (g *Generator) counterfactualQuestions(topic string, summary sessiondto.SummaryView) []domain.Question {
	var out []domain.Question
	for _, failure := range summary.FailureModes {
		out = append(out, domain.Question{
			ID:      g.ids.New(),
			Kind:    domain.KindCounterfactual,
			Topic:   topicOrKind(topic, domain.KindCounterfactual),
			Prompt:  fmt.Sprintf("This session hit a failure: %s. What was the underlying cause, and what check would have surfaced it earlier?", failure.Symptom),
			Context: failure.Cause,
		})
	}
	return out
}

func (g *Generator) debuggingQuestions(topic string, summary sessiondto.SummaryView) []domain.Question {
	var out []domain.Question
	for _, step := range summary.DebugSteps {
		out = append(out, domain.Question{
			ID:      g.ids.New(),
			Kind:    domain.KindDebugging,
			Topic:   topicOrKind(topic, domain.KindDebugging),
			Prompt:  fmt.Sprintf("While debugging you tried: %s. What hypotheses did that step rule out, and what would you try first next time?", step.Action),
			Context: step.Observation,
		})
	}
	return out
}

func (g *Generator) recallQuestions(summary sessiondto.SummaryView) []domain.Question {
	var out []domain.Question
	for _, topic := range summary.Topics {
		out = append(out, domain.Question{
			ID:      g.ids.New(),
			Kind:    domain.KindSystemDesign,
			Topic:   topic,
			Prompt:  fmt.Sprintf("What is the most important thing you learned about %s in this session, and why does it matter?", topic),
			Context: summary.Notes,
		})
	}
	return out
}

func primaryTopic(summary sessiondto.SummaryView) string {
	if len(summary.Topics) > 0 {
		return summary.Topics[0]
	}
	return ""
}

func topicOrKind(topic string, kind domain.Kind) string {
	if topic != "" {
		return topic
	}
	return string(kind)
}
