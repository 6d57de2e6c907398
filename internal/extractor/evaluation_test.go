package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voiceprep/interview-service/internal/models"
)

func TestParseEvaluation_WellFormed(t *testing.T) {
	eval := ParseEvaluation("Rating: 7\nFeedback: Good job")

	assert.Equal(t, models.Evaluation{Rating: 7, Feedback: "Good job"}, eval)
}

func TestParseEvaluation_MultilineFeedback(t *testing.T) {
	eval := ParseEvaluation("Rating: 3\nFeedback: Needs more detail.\nCover the failure modes too.")

	assert.Equal(t, 3, eval.Rating)
	assert.Equal(t, "Needs more detail.\nCover the failure modes too.", eval.Feedback)
}

func TestParseEvaluation_CaseInsensitiveLabels(t *testing.T) {
	eval := ParseEvaluation("rating: 9\nFEEDBACK: Excellent structure.")

	assert.Equal(t, 9, eval.Rating)
	assert.Equal(t, "Excellent structure.", eval.Feedback)
}

func TestParseEvaluation_RatingClampedHigh(t *testing.T) {
	eval := ParseEvaluation("Rating: 15\nFeedback: Over-enthusiastic model.")

	assert.Equal(t, models.RatingMax, eval.Rating)
	assert.False(t, eval.IsSentinel())
}

func TestParseEvaluation_RatingClampedLow(t *testing.T) {
	eval := ParseEvaluation("Rating: -4\nFeedback: Confused model.")

	assert.Equal(t, 0, eval.Rating)
}

func TestParseEvaluation_MissingRating(t *testing.T) {
	eval := ParseEvaluation("Feedback: Great answer, no score though.")

	assert.Equal(t, models.SentinelEvaluation(), eval)
	assert.True(t, eval.IsSentinel())
}

func TestParseEvaluation_MissingFeedback(t *testing.T) {
	eval := ParseEvaluation("Rating: 8")

	assert.Equal(t, models.SentinelEvaluation(), eval)
}

func TestParseEvaluation_EmptyInput(t *testing.T) {
	eval := ParseEvaluation("")

	assert.Equal(t, models.SentinelEvaluation(), eval)
}

func TestParseEvaluation_RatingWithDecoration(t *testing.T) {
	eval := ParseEvaluation("**Rating:** 6/10\n**Feedback:** Solid but shallow.")

	assert.Equal(t, 6, eval.Rating)
	assert.Equal(t, "** Solid but shallow.", eval.Feedback)
}
