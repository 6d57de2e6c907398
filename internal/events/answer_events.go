package events

import (
	"time"
)

// EventType represents different types of interview pipeline events
type EventType string

const (
	// Answer events
	EventAnswerSaved EventType = "answer.saved"

	// Scoring events
	EventEvaluationDegraded EventType = "evaluation.degraded"

	// Interview events
	EventInterviewGenerated EventType = "interview.generated"
)

// InterviewEvent is the base event structure for all pipeline events
type InterviewEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AnswerSavedEvent is emitted after a graded answer is persisted.
type AnswerSavedEvent struct {
	AnswerID     uint      `json:"answer_id"`
	UserID       string    `json:"user_id"`
	QuestionText string    `json:"question_text"`
	Rating       int       `json:"rating"`
	SavedAt      time.Time `json:"saved_at"`
}

// EvaluationDegradedEvent is emitted when scoring fell back to the sentinel
// evaluation, so degradation of the grading pipeline is observable.
type EvaluationDegradedEvent struct {
	UserID       string    `json:"user_id"`
	QuestionText string    `json:"question_text"`
	Reason       string    `json:"reason"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// InterviewGeneratedEvent is emitted after a question batch is generated.
type InterviewGeneratedEvent struct {
	InterviewID   uint   `json:"interview_id"`
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
	QuestionCount int    `json:"question_count"`
	FromFallback  bool   `json:"from_fallback"`
}
