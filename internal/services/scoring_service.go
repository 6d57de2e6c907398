package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/voiceprep/interview-service/internal/ai"
	"github.com/voiceprep/interview-service/internal/events"
	"github.com/voiceprep/interview-service/internal/extractor"
	"github.com/voiceprep/interview-service/internal/models"
)

// ScoringService grades a transcribed answer against the canonical answer.
// It satisfies session.Scorer and is total: model failures and unparseable
// replies both degrade to the sentinel evaluation instead of an error, and
// each degradation is published so the grading pipeline's health stays
// observable.
type ScoringService interface {
	Score(ctx context.Context, question, canonicalAnswer, userAnswer string) (models.Evaluation, error)
}

type scoringService struct {
	client    ai.PromptSender
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewScoringService(client ai.PromptSender, publisher events.EventPublisher, logger *slog.Logger) ScoringService {
	return &scoringService{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *scoringService) Score(ctx context.Context, question, canonicalAnswer, userAnswer string) (models.Evaluation, error) {
	prompt := ai.GradingPrompt(question, canonicalAnswer, userAnswer)

	raw, err := s.client.SendPrompt(ctx, prompt)
	if err != nil {
		s.logger.Warn("Scoring call failed, degrading to sentinel evaluation",
			"question", question,
			"error", err)
		s.publishDegraded(ctx, question, "model call failed: "+err.Error())
		return models.SentinelEvaluation(), nil
	}

	eval := extractor.ParseEvaluation(raw)
	if eval.IsSentinel() {
		s.logger.Warn("Scoring reply unparseable, degrading to sentinel evaluation",
			"question", question)
		s.publishDegraded(ctx, question, "reply did not match Rating/Feedback layout")
	}
	return eval, nil
}

func (s *scoringService) publishDegraded(ctx context.Context, question, reason string) {
	event := events.NewInterviewEvent(events.EventEvaluationDegraded, events.EvaluationDegradedEvent{
		QuestionText: question,
		Reason:       reason,
		OccurredAt:   time.Now(),
	})
	if err := s.publisher.PublishInterviewEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish degraded-evaluation event", "error", err)
	}
}
