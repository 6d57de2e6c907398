package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/voiceprep/interview-service/internal/models"
)

// Repository aggregates the per-entity repositories behind one dependency.
type Repository interface {
	Answer() AnswerRepository
	Interview() InterviewRepository
}

// AnswerRepository interface for graded-answer operations.
//
// Exactly-once per (user, question) is enforced by callers running
// ExistsByUserAndQuestion before Create; there is no uniqueness constraint
// at the storage layer.
type AnswerRepository interface {
	Create(ctx context.Context, record *models.AnswerRecord) error
	GetByID(ctx context.Context, id uint) (*models.AnswerRecord, error)
	ExistsByUserAndQuestion(ctx context.Context, userID, questionText string) (bool, error)
	GetByUser(ctx context.Context, userID string, filters AnswerFilters) ([]*models.AnswerRecord, int64, error)
}

// InterviewRepository interface for generated interview operations.
type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) error
	GetByID(ctx context.Context, id uint) (*models.Interview, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Interview, error)
}

// ===== SHARED FILTER STRUCTS =====

type AnswerFilters struct {
	MinRating *int       `json:"min_rating"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "rating"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

// IsNotFoundError reports whether err is the storage-layer missing-row
// condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
