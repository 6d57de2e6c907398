package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionBatchSize is the number of question/answer pairs produced by a
// single generation call. Downstream code assumes a fixed-size batch.
const QuestionBatchSize = 5

// QuestionAnswerPair is one generated interview question together with the
// canonical answer used for grading comparison.
type QuestionAnswerPair struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// JobContext describes the position the candidate is practicing for. It is
// the only input to question generation and to the deterministic fallback
// question set.
type JobContext struct {
	Role            string `json:"role" validate:"required,min=2,max=100"`
	TechStack       string `json:"tech_stack" validate:"required,min=2,max=200"`
	ExperienceYears int    `json:"experience_years" validate:"min=0,max=50"`
}

type Interview struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          string         `json:"user_id" gorm:"not null;size:100;index"`
	Role            string         `json:"role" gorm:"not null;size:100"`
	TechStack       string         `json:"tech_stack" gorm:"not null;size:200"`
	ExperienceYears int            `json:"experience_years" gorm:"not null"`
	Questions       datatypes.JSON `json:"questions" gorm:"type:jsonb"` // []QuestionAnswerPair

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Interview) TableName() string {
	return "interviews"
}
