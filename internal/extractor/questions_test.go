package extractor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceprep/interview-service/internal/models"
)

var testJob = models.JobContext{
	Role:            "backend engineer",
	TechStack:       "Go, PostgreSQL",
	ExperienceYears: 4,
}

func jsonBatch() string {
	return `[
		{"question": "What is a goroutine?", "answer": "A lightweight thread managed by the Go runtime."},
		{"question": "What does defer do?", "answer": "Schedules a call to run when the function returns."},
		{"question": "What is a channel?", "answer": "A typed conduit for communication between goroutines."},
		{"question": "What is an interface?", "answer": "A set of method signatures a type can satisfy."},
		{"question": "What is a slice?", "answer": "A view over an underlying array with length and capacity."}
	]`
}

func TestParseQuestionSet_JSONArray(t *testing.T) {
	pairs := ParseQuestionSet(jsonBatch(), testJob)

	require.Len(t, pairs, 5)
	assert.Equal(t, "What is a goroutine?", pairs[0].Question)
	assert.Equal(t, "A view over an underlying array with length and capacity.", pairs[4].Answer)
}

func TestParseQuestionSet_JSONWrappedInCommentary(t *testing.T) {
	raw := "Sure! Here are your questions:\n```json\n" + jsonBatch() + "\n```\nGood luck!"

	pairs := ParseQuestionSet(raw, testJob)

	require.Len(t, pairs, 5)
	assert.Equal(t, "What is a goroutine?", pairs[0].Question)
}

func TestParseQuestionSet_BracketsInsideStrings(t *testing.T) {
	raw := `Here you go: [
		{"question": "Explain slice[1:3] syntax", "answer": "It takes elements [1,3) from the slice."},
		{"question": "Q2", "answer": "A2"},
		{"question": "Q3", "answer": "A3"},
		{"question": "Q4", "answer": "A4"},
		{"question": "Q5", "answer": "A5"}
	]`

	pairs := ParseQuestionSet(raw, testJob)

	require.Len(t, pairs, 5)
	assert.Equal(t, "Explain slice[1:3] syntax", pairs[0].Question)
}

func TestParseQuestionSet_JSONTruncatedToBatchSize(t *testing.T) {
	raw := "["
	for i := 0; i < 7; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"question": "Q%d", "answer": "A%d"}`, i, i)
	}
	raw += "]"

	pairs := ParseQuestionSet(raw, testJob)

	require.Len(t, pairs, 5)
	assert.Equal(t, "Q0", pairs[0].Question)
	assert.Equal(t, "Q4", pairs[4].Question)
}

func TestParseQuestionSet_JSONMissingFieldsFallsThrough(t *testing.T) {
	raw := `[{"question": "only a question"}, {"answer": "only an answer"}]`

	pairs := ParseQuestionSet(raw, testJob)

	require.Len(t, pairs, models.QuestionBatchSize)
	assert.Equal(t, FallbackQuestionSet(testJob), pairs)
}

func TestParseQuestionSet_NumberedList(t *testing.T) {
	raw := `Here are five questions:
1. Question: What is a mutex?
   Answer: A lock that serializes access to shared state.
2. Question: What is a race condition?
   Answer: Unsynchronized concurrent access where the outcome depends
   on scheduling.
3. Question: What is GOMAXPROCS?
   Answer: The number of OS threads executing Go code simultaneously.
4. Question: What is a nil map?
   Answer: A map that can be read but panics on write.
5. Question: What is context cancellation?
   Answer: A signal propagated to stop in-flight work.`

	pairs := ParseQuestionSet(raw, testJob)

	require.Len(t, pairs, 5)
	assert.Equal(t, "What is a mutex?", pairs[0].Question)
	assert.Equal(t, "A lock that serializes access to shared state.", pairs[0].Answer)
	assert.Contains(t, pairs[1].Answer, "outcome depends")
	assert.Equal(t, "What is context cancellation?", pairs[4].Question)
}

func TestParseQuestionSet_TooFewNumberedBlocks(t *testing.T) {
	raw := `1. Question: Q1
Answer: A1
2. Question: Q2
Answer: A2`

	pairs := ParseQuestionSet(raw, testJob)

	assert.Equal(t, FallbackQuestionSet(testJob), pairs)
	assert.Len(t, pairs, models.QuestionBatchSize)
}

func TestParseQuestionSet_EmptyInput(t *testing.T) {
	pairs := ParseQuestionSet("", testJob)

	assert.Equal(t, FallbackQuestionSet(testJob), pairs)
	assert.Len(t, pairs, models.QuestionBatchSize)
}

func TestFallbackQuestionSet_Deterministic(t *testing.T) {
	first := FallbackQuestionSet(testJob)
	second := FallbackQuestionSet(testJob)

	assert.Equal(t, first, second)
	require.Len(t, first, models.QuestionBatchSize)
	for _, pair := range first {
		assert.NotEmpty(t, pair.Question)
		assert.NotEmpty(t, pair.Answer)
	}
	assert.Contains(t, first[0].Question, "backend engineer")
}

func TestFallbackQuestionSet_EmptyJobContext(t *testing.T) {
	pairs := FallbackQuestionSet(models.JobContext{})

	require.Len(t, pairs, models.QuestionBatchSize)
	for _, pair := range pairs {
		assert.NotEmpty(t, pair.Question)
		assert.NotEmpty(t, pair.Answer)
	}
}
