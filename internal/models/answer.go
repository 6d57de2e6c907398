package models

import "time"

const (
	// RatingMin and RatingMax bound genuine model ratings. Zero is reserved
	// for SentinelEvaluation and never comes from a successful parse.
	RatingMin = 1
	RatingMax = 10
)

// FallbackFeedback is the fixed feedback string of the sentinel evaluation.
const FallbackFeedback = "Unable to generate feedback."

// Evaluation is the graded result of one spoken answer.
type Evaluation struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// SentinelEvaluation returns the fixed value denoting that automated scoring
// degraded. Callers surface it as a distinct user-facing notice, not as a
// genuine low score.
func SentinelEvaluation() Evaluation {
	return Evaluation{Rating: 0, Feedback: FallbackFeedback}
}

// IsSentinel reports whether the evaluation is the degraded-scoring marker.
func (e Evaluation) IsSentinel() bool {
	return e.Rating == 0
}

// AnswerRecord is the persisted graded answer. At most one exists per
// (UserID, QuestionText) pair; the check happens before the write, there is
// no database-level uniqueness constraint.
type AnswerRecord struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	UserID            string `json:"user_id" gorm:"not null;size:100;index:idx_answers_user_question"`
	QuestionText      string `json:"question_text" gorm:"not null;type:text;index:idx_answers_user_question"`
	CorrectAnswerText string `json:"correct_answer_text" gorm:"not null;type:text"`
	UserAnswerText    string `json:"user_answer_text" gorm:"not null;type:text"`
	Feedback          string `json:"feedback" gorm:"not null;type:text"`
	Rating            int    `json:"rating" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}
