package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voiceprep/interview-service/internal/ai"
	"github.com/voiceprep/interview-service/internal/cache"
	"github.com/voiceprep/interview-service/internal/events"
	"github.com/voiceprep/interview-service/internal/extractor"
	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/repositories"
	"github.com/voiceprep/interview-service/internal/utils"
)

// questionSetTTL bounds how long a generated batch is reused for identical
// job contexts before fresh questions are requested from the model.
const questionSetTTL = 24 * time.Hour

// InterviewService generates and serves interview question batches.
type InterviewService interface {
	Generate(ctx context.Context, userID string, job models.JobContext) (*models.Interview, error)
	GetByID(ctx context.Context, id uint, userID string) (*models.Interview, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Interview, error)
	QuestionAt(interview *models.Interview, index int) (models.QuestionAnswerPair, error)
}

type interviewService struct {
	repo      repositories.Repository
	client    ai.PromptSender
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewInterviewService(
	repo repositories.Repository,
	client ai.PromptSender,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) InterviewService {
	return &interviewService{
		repo:      repo,
		client:    client,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Generate produces the fixed-size question batch for a job context. The
// batch comes from the cache when an identical context was generated
// recently; otherwise the model is called and its reply parsed, degrading to
// the deterministic fallback set on any failure. A new interview row is
// persisted either way.
func (s *interviewService) Generate(ctx context.Context, userID string, job models.JobContext) (*models.Interview, error) {
	if err := s.validator.Validate(job); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	pairs, fromCache := s.cachedQuestionSet(ctx, job)
	if !fromCache {
		pairs = s.generateQuestionSet(ctx, job)
		s.storeQuestionSet(ctx, job, pairs)
	}

	questionsJSON, err := json.Marshal(pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode question set: %w", err)
	}

	interview := &models.Interview{
		UserID:          userID,
		Role:            job.Role,
		TechStack:       job.TechStack,
		ExperienceYears: job.ExperienceYears,
		Questions:       questionsJSON,
	}
	if err := s.repo.Interview().Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	s.logger.Info("Interview generated",
		"interview_id", interview.ID,
		"user_id", userID,
		"role", job.Role,
		"from_cache", fromCache)

	event := events.NewInterviewEvent(events.EventInterviewGenerated, events.InterviewGeneratedEvent{
		InterviewID:   interview.ID,
		UserID:        userID,
		Role:          job.Role,
		QuestionCount: len(pairs),
		FromFallback:  questionSetsEqual(pairs, extractor.FallbackQuestionSet(job)),
	})
	if err := s.publisher.PublishInterviewEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish interview-generated event", "error", err)
	}

	return interview, nil
}

func (s *interviewService) GetByID(ctx context.Context, id uint, userID string) (*models.Interview, error) {
	interview, err := s.repo.Interview().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if interview.UserID != userID {
		return nil, NewPermissionError(userID, "interview", "read", "not owned by user")
	}
	return interview, nil
}

func (s *interviewService) GetByUser(ctx context.Context, userID string) ([]*models.Interview, error) {
	interviews, err := s.repo.Interview().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// QuestionAt decodes the stored batch and returns the pair at index.
func (s *interviewService) QuestionAt(interview *models.Interview, index int) (models.QuestionAnswerPair, error) {
	var pairs []models.QuestionAnswerPair
	if err := json.Unmarshal(interview.Questions, &pairs); err != nil {
		return models.QuestionAnswerPair{}, fmt.Errorf("failed to decode question set: %w", err)
	}
	if index < 0 || index >= len(pairs) {
		return models.QuestionAnswerPair{}, ErrQuestionIndexOutOfRange
	}
	return pairs[index], nil
}

// ===== QUESTION SET GENERATION =====

func (s *interviewService) generateQuestionSet(ctx context.Context, job models.JobContext) []models.QuestionAnswerPair {
	raw, err := s.client.SendPrompt(ctx, ai.QuestionSetPrompt(job))
	if err != nil {
		// Generation failure is absorbed: the extractor routes empty input
		// to the deterministic fallback set.
		s.logger.Warn("Question generation call failed, using fallback set",
			"role", job.Role,
			"error", err)
		raw = ""
	}
	return extractor.ParseQuestionSet(raw, job)
}

func (s *interviewService) cachedQuestionSet(ctx context.Context, job models.JobContext) ([]models.QuestionAnswerPair, bool) {
	var pairs []models.QuestionAnswerPair
	err := s.cache.Get(ctx, questionSetCacheKey(job), &pairs)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Question set cache read failed", "error", err)
		}
		return nil, false
	}
	if len(pairs) != models.QuestionBatchSize {
		return nil, false
	}
	return pairs, true
}

func (s *interviewService) storeQuestionSet(ctx context.Context, job models.JobContext, pairs []models.QuestionAnswerPair) {
	if err := s.cache.Set(ctx, questionSetCacheKey(job), pairs, questionSetTTL); err != nil {
		s.logger.Warn("Question set cache write failed", "error", err)
	}
}

func questionSetCacheKey(job models.JobContext) string {
	role := strings.ToLower(strings.TrimSpace(job.Role))
	stack := strings.ToLower(strings.TrimSpace(job.TechStack))
	return fmt.Sprintf("questions:%s:%s:%d", role, stack, job.ExperienceYears)
}

func questionSetsEqual(a, b []models.QuestionAnswerPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
