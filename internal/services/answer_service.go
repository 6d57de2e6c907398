package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voiceprep/interview-service/internal/events"
	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/repositories"
)

// AnswerService is the persistence gateway for graded answers plus the read
// path over saved records. Exists and Save are separate calls by design:
// the session runs the existence check before every write. The pair is not
// transactional, so two near-simultaneous sessions for the same
// (user, question) can both pass the check; that race is an accepted,
// documented limitation.
type AnswerService interface {
	Exists(ctx context.Context, userID, questionText string) (bool, error)
	Save(ctx context.Context, record *models.AnswerRecord) error
	GetByUser(ctx context.Context, userID string, filters repositories.AnswerFilters) ([]*models.AnswerRecord, int64, error)
}

type answerService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAnswerService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) AnswerService {
	return &answerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *answerService) Exists(ctx context.Context, userID, questionText string) (bool, error) {
	exists, err := s.repo.Answer().ExistsByUserAndQuestion(ctx, userID, questionText)
	if err != nil {
		return false, fmt.Errorf("failed to check existing answer: %w", err)
	}
	return exists, nil
}

func (s *answerService) Save(ctx context.Context, record *models.AnswerRecord) error {
	if err := s.repo.Answer().Create(ctx, record); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}

	s.logger.Info("Graded answer saved",
		"answer_id", record.ID,
		"user_id", record.UserID,
		"rating", record.Rating)

	event := events.NewInterviewEvent(events.EventAnswerSaved, events.AnswerSavedEvent{
		AnswerID:     record.ID,
		UserID:       record.UserID,
		QuestionText: record.QuestionText,
		Rating:       record.Rating,
		SavedAt:      time.Now(),
	})
	if err := s.publisher.PublishInterviewEvent(ctx, event); err != nil {
		// The write already happened; event loss is logged, not surfaced.
		s.logger.Error("Failed to publish answer-saved event",
			"answer_id", record.ID,
			"error", err)
	}
	return nil
}

func (s *answerService) GetByUser(ctx context.Context, userID string, filters repositories.AnswerFilters) ([]*models.AnswerRecord, int64, error) {
	records, total, err := s.repo.Answer().GetByUser(ctx, userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list answers: %w", err)
	}
	return records, total, nil
}
