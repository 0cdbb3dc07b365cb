package usecase

import (
	"math"
	"strings"

	"github.com/crisp-ai/interview-assistant/internal/domain"
)

// Feedback bands keyed on the final score. The thresholds are part of the
// grading contract, not tunable per call.
const (
	feedbackExcellent = "Excellent — addressed nearly all expected points clearly."
	feedbackGood      = "Good — most points covered, some minor gaps."
	feedbackFair      = "Fair — partial coverage; some expected points missing or shallow."
	feedbackPoor      = "Poor — many expected points missing or incorrect."
)

// FallbackScoreEvaluator grades an answer against the rubric without any
// external call.
//
// A rubric point matches when every one of its tokens appears in the
// lowercased answer, where a token with its trailing "s" stripped also
// counts. The stemming stays exactly this minimal: the score bands were
// calibrated against it.
func FallbackScoreEvaluator(expectedPoints []string, answerText string, difficulty domain.Difficulty) domain.Rating {
	normalized := strings.ToLower(answerText)

	matched := []string{}
	missed := []string{}
	for _, p := range expectedPoints {
		if pointMatches(normalized, p) {
			matched = append(matched, p)
		} else {
			missed = append(missed, p)
		}
	}

	fraction := 0.0
	if len(expectedPoints) > 0 {
		fraction = float64(len(matched)) / float64(len(expectedPoints))
	}
	score := int(math.Round(fraction * 100))

	switch length := len(strings.TrimSpace(answerText)); {
	case length < 40:
		score = max(0, score-12)
	case length < 100:
		score = max(0, score-6)
	}

	switch difficulty {
	case domain.DifficultyHard:
		score = int(math.Round(float64(score) * 0.92))
	case domain.DifficultyEasy:
		score = int(math.Round(math.Min(100, float64(score)*1.05)))
	}
	score = domain.ClampScore(score)

	return domain.Rating{
		Score:         score,
		Feedback:      feedbackFor(score),
		MatchedPoints: matched,
		MissedPoints:  missed,
	}
}

// pointMatches applies the token test for one rubric point. A point with no
// tokens (empty or punctuation-only) matches vacuously.
func pointMatches(normalizedAnswer, point string) bool {
	for _, w := range tokenize(strings.ToLower(point)) {
		if strings.Contains(normalizedAnswer, w) {
			continue
		}
		if strings.Contains(normalizedAnswer, strings.TrimSuffix(w, "s")) {
			continue
		}
		return false
	}
	return true
}

// tokenize splits on anything outside [A-Za-z0-9_], keeping non-empty runs.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return false
		}
		return true
	})
}

func feedbackFor(score int) string {
	switch {
	case score >= 86:
		return feedbackExcellent
	case score >= 71:
		return feedbackGood
	case score >= 41:
		return feedbackFair
	default:
		return feedbackPoor
	}
}
