package ai

import (
	"fmt"

	"github.com/voiceprep/interview-service/internal/models"
)

// QuestionSetPrompt asks for the fixed-size question batch in the JSON
// layout the extractor prefers. The numbered-list layout remains accepted on
// parse because models drift from instructions.
func QuestionSetPrompt(job models.JobContext) string {
	return fmt.Sprintf(
		`Generate exactly %d interview questions with model answers for the following candidate:

Role: %s
Tech stack: %s
Years of experience: %d

Respond with a JSON array of %d objects, each with a "question" field and an "answer" field. The answer is the canonical reference answer an interviewer would accept. Do not add any other text.`,
		models.QuestionBatchSize, job.Role, job.TechStack, job.ExperienceYears, models.QuestionBatchSize)
}

// GradingPrompt asks for the Rating/Feedback layout ParseEvaluation expects.
func GradingPrompt(question, canonicalAnswer, userAnswer string) string {
	return fmt.Sprintf(
		`Grade a spoken interview answer against the reference answer.

Question: %s

Reference answer: %s

Candidate's transcribed answer: %s

Respond in exactly this format:
Rating: <integer from 1 to 10>
Feedback: <two or three sentences of concrete feedback>`,
		question, canonicalAnswer, userAnswer)
}
