package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/voiceprep/interview-service/internal/models"
)

var (
	ratingLabelRe = regexp.MustCompile(`(?i)rating\s*:\s*[^\d-]*(-?\d+)`)
	feedbackLabel = regexp.MustCompile(`(?i)feedback\s*:`)
)

// ParseEvaluation extracts the rating and feedback from a grading reply.
// The rating is the first integer after a case-insensitive "Rating:" label;
// the feedback is everything after a case-insensitive "Feedback:" label to
// the end of the input. If either is missing the sentinel evaluation is
// returned so the caller can surface a degraded-scoring notice instead of an
// error.
func ParseEvaluation(raw string) models.Evaluation {
	rating, ok := parseRating(raw)
	if !ok {
		return models.SentinelEvaluation()
	}

	feedback, ok := parseFeedback(raw)
	if !ok {
		return models.SentinelEvaluation()
	}

	return models.Evaluation{Rating: rating, Feedback: feedback}
}

func parseRating(raw string) (int, bool) {
	match := ratingLabelRe.FindStringSubmatch(raw)
	if match == nil {
		return 0, false
	}

	rating, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	// Out-of-range ratings are clamped, not rejected.
	if rating < 0 {
		rating = 0
	}
	if rating > models.RatingMax {
		rating = models.RatingMax
	}
	return rating, true
}

func parseFeedback(raw string) (string, bool) {
	loc := feedbackLabel.FindStringIndex(raw)
	if loc == nil {
		return "", false
	}

	feedback := strings.TrimSpace(raw[loc[1]:])
	if feedback == "" {
		return "", false
	}
	return feedback, true
}
