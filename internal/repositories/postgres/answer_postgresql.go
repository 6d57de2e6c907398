package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/repositories"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a AnswerPostgreSQL) Create(ctx context.Context, record *models.AnswerRecord) error {
	return a.db.WithContext(ctx).Create(record).Error
}

func (a AnswerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.AnswerRecord, error) {
	var record models.AnswerRecord
	if err := a.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (a AnswerPostgreSQL) ExistsByUserAndQuestion(ctx context.Context, userID, questionText string) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.AnswerRecord{}).
		Where("user_id = ? AND question_text = ?", userID, questionText).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a AnswerPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.AnswerFilters) ([]*models.AnswerRecord, int64, error) {
	var records []*models.AnswerRecord
	var total int64

	// apply filters first
	query := a.db.WithContext(ctx).Model(&models.AnswerRecord{}).Where("user_id = ?", userID)
	query = a.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = a.applyPaginationAndSort(query, filters)

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (a AnswerPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AnswerFilters) *gorm.DB {
	if filters.MinRating != nil {
		query = query.Where("rating >= ?", *filters.MinRating)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (a AnswerPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.AnswerFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "rating", "created_at":
	default:
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
