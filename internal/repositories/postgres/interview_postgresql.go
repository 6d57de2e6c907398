package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/repositories"
)

type InterviewPostgreSQL struct {
	db *gorm.DB
}

func NewInterviewPostgreSQL(db *gorm.DB) repositories.InterviewRepository {
	return &InterviewPostgreSQL{db: db}
}

func (i InterviewPostgreSQL) Create(ctx context.Context, interview *models.Interview) error {
	return i.db.WithContext(ctx).Create(interview).Error
}

func (i InterviewPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Interview, error) {
	var interview models.Interview
	if err := i.db.WithContext(ctx).First(&interview, id).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (i InterviewPostgreSQL) GetByUser(ctx context.Context, userID string) ([]*models.Interview, error) {
	var interviews []*models.Interview
	if err := i.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

// Repository bundles the PostgreSQL implementations behind the aggregate
// interface.
type Repository struct {
	answer    repositories.AnswerRepository
	interview repositories.InterviewRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		answer:    NewAnswerPostgreSQL(db),
		interview: NewInterviewPostgreSQL(db),
	}
}

func (r *Repository) Answer() repositories.AnswerRepository       { return r.answer }
func (r *Repository) Interview() repositories.InterviewRepository { return r.interview }
