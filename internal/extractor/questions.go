// Package extractor parses the free-text replies of the generative model
// into typed records. Both entry points are total: malformed, adversarial or
// empty model output degrades to deterministic fallback content and is never
// surfaced to callers as an error.
package extractor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/voiceprep/interview-service/internal/models"
)

var (
	numberedItemRe = regexp.MustCompile(`\n\d+\.\s`)
	questionLabel  = regexp.MustCompile(`(?i)question\s*:`)
	answerLabel    = regexp.MustCompile(`(?i)answer\s*:`)
)

// ParseQuestionSet extracts exactly models.QuestionBatchSize question/answer
// pairs from raw model output. It tries a JSON array first, then a numbered
// list with Question:/Answer: labels, and finally falls back to a generic
// set synthesized from the job context. The result is never empty and the
// fallback always holds the full batch size.
func ParseQuestionSet(raw string, job models.JobContext) []models.QuestionAnswerPair {
	if pairs, ok := parseJSONArray(raw); ok {
		return pairs
	}
	if pairs, ok := parseNumberedList(raw); ok {
		return pairs
	}
	return FallbackQuestionSet(job)
}

// parseJSONArray locates the outermost balanced [...] span in the text and
// decodes it. The model routinely wraps its JSON in commentary or markdown
// fences, so a non-greedy regex match would truncate nested arrays; the span
// is found by bracket counting instead, skipping brackets inside strings.
func parseJSONArray(raw string) ([]models.QuestionAnswerPair, bool) {
	span, ok := balancedArraySpan(raw)
	if !ok {
		return nil, false
	}

	var decoded []models.QuestionAnswerPair
	if err := json.Unmarshal([]byte(span), &decoded); err != nil {
		return nil, false
	}
	if len(decoded) == 0 {
		return nil, false
	}

	for _, pair := range decoded {
		if strings.TrimSpace(pair.Question) == "" || strings.TrimSpace(pair.Answer) == "" {
			return nil, false
		}
	}

	if len(decoded) > models.QuestionBatchSize {
		decoded = decoded[:models.QuestionBatchSize]
	}
	return decoded, true
}

// balancedArraySpan returns the substring from the first '[' to its matching
// ']', honoring JSON string literals and escapes so brackets inside question
// text do not unbalance the scan.
func balancedArraySpan(raw string) (string, bool) {
	start := strings.IndexByte(raw, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// parseNumberedList handles the second accepted layout: items introduced by
// "\n<digit>. " with independently located Question: and Answer: labels.
// The labels need not be adjacent and the answer may span multiple lines.
func parseNumberedList(raw string) ([]models.QuestionAnswerPair, bool) {
	blocks := numberedItemRe.Split("\n"+raw, -1)

	var pairs []models.QuestionAnswerPair
	for _, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}
		pair, ok := parseLabelledBlock(block)
		if !ok {
			continue
		}
		pairs = append(pairs, pair)
	}

	if len(pairs) < models.QuestionBatchSize {
		return nil, false
	}
	return pairs[:models.QuestionBatchSize], true
}

func parseLabelledBlock(block string) (models.QuestionAnswerPair, bool) {
	qLoc := questionLabel.FindStringIndex(block)
	aLoc := answerLabel.FindStringIndex(block)
	if qLoc == nil || aLoc == nil {
		return models.QuestionAnswerPair{}, false
	}

	questionEnd := len(block)
	if aLoc[0] > qLoc[1] {
		questionEnd = aLoc[0]
	}

	question := strings.TrimSpace(block[qLoc[1]:questionEnd])
	answer := strings.TrimSpace(block[aLoc[1]:])
	if question == "" || answer == "" {
		return models.QuestionAnswerPair{}, false
	}

	return models.QuestionAnswerPair{Question: question, Answer: answer}, true
}

// FallbackQuestionSet synthesizes the fixed generic batch from the job
// context. It is a pure function of its input so the degraded path stays
// deterministic and testable.
func FallbackQuestionSet(job models.JobContext) []models.QuestionAnswerPair {
	role := strings.TrimSpace(job.Role)
	if role == "" {
		role = "software engineer"
	}
	stack := strings.TrimSpace(job.TechStack)
	if stack == "" {
		stack = "your primary technology stack"
	}

	return []models.QuestionAnswerPair{
		{
			Question: fmt.Sprintf("Tell me about your background and what led you to work as a %s.", role),
			Answer:   fmt.Sprintf("A strong answer summarizes relevant experience with %s, highlights one or two concrete projects, and connects past work to the %s role.", stack, role),
		},
		{
			Question: fmt.Sprintf("Describe a challenging problem you solved using %s.", stack),
			Answer:   "A strong answer names a specific problem, explains the constraints, walks through the chosen approach and trade-offs, and states the measurable outcome.",
		},
		{
			Question: fmt.Sprintf("How do you keep your %s skills current?", stack),
			Answer:   "A strong answer gives concrete habits such as reading release notes, building side projects, code review practice, or contributing to open source.",
		},
		{
			Question: fmt.Sprintf("With %d years of experience, how has your approach to code quality evolved?", job.ExperienceYears),
			Answer:   "A strong answer contrasts earlier habits with current ones: testing strategy, reviews, incremental delivery, and knowing when to refactor versus rewrite.",
		},
		{
			Question: fmt.Sprintf("Where do you want to grow next as a %s?", role),
			Answer:   "A strong answer names a specific skill or responsibility gap, explains why it matters for the role, and describes a realistic plan to close it.",
		},
	}
}
