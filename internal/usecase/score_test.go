package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crisp-ai/interview-assistant/internal/domain"
)

func TestFallbackScoreEvaluator_EmptyAnswer(t *testing.T) {
	r := FallbackScoreEvaluator([]string{"closures", "scope"}, "", domain.DifficultyMedium)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, feedbackPoor, r.Feedback)
	assert.Empty(t, r.MatchedPoints)
	assert.Equal(t, []string{"closures", "scope"}, r.MissedPoints)
}

func TestFallbackScoreEvaluator_FullMatchEasy(t *testing.T) {
	r := FallbackScoreEvaluator(
		[]string{"closure", "scope"},
		"A closure captures scope from its enclosing function.",
		domain.DifficultyEasy,
	)
	assert.Equal(t, []string{"closure", "scope"}, r.MatchedPoints)
	assert.Empty(t, r.MissedPoints)
	// 100 base, -6 short-answer penalty, x1.05 easy bonus, rounded
	assert.Equal(t, 99, r.Score)
	assert.Equal(t, feedbackExcellent, r.Feedback)
}

func TestFallbackScoreEvaluator_EasyBonusCapsAt100(t *testing.T) {
	long := "A closure captures the scope of its enclosing function. " + strings.Repeat("It keeps variables alive after the outer call returns. ", 2)
	r := FallbackScoreEvaluator([]string{"closure", "scope"}, long, domain.DifficultyEasy)
	assert.Equal(t, 100, r.Score)
}

func TestFallbackScoreEvaluator_PluralStemming(t *testing.T) {
	// rubric says "closures", answer says "closure": trailing-s strip matches
	r := FallbackScoreEvaluator([]string{"closures"}, strings.Repeat("a closure captures its environment ", 4), domain.DifficultyMedium)
	assert.Equal(t, []string{"closures"}, r.MatchedPoints)
	assert.Equal(t, 100, r.Score)
}

func TestFallbackScoreEvaluator_MultiTokenPoint(t *testing.T) {
	// every token of the point must appear
	answer := strings.Repeat("the event loop processes callbacks in phases ", 3)
	r := FallbackScoreEvaluator([]string{"event loop", "microtask queue"}, answer, domain.DifficultyMedium)
	assert.Equal(t, []string{"event loop"}, r.MatchedPoints)
	assert.Equal(t, []string{"microtask queue"}, r.MissedPoints)
	assert.Equal(t, 50, r.Score)
}

func TestFallbackScoreEvaluator_LengthPenalties(t *testing.T) {
	// one of two points matched, so base 50 before penalties
	short := "redis cache" // < 40 chars: -12
	r := FallbackScoreEvaluator([]string{"redis", "memcached"}, short, domain.DifficultyMedium)
	assert.Equal(t, 38, r.Score)

	mid := "redis cache with ttl and eviction under heavy read load" // < 100: -6
	r = FallbackScoreEvaluator([]string{"redis", "memcached"}, mid, domain.DifficultyMedium)
	assert.Equal(t, 44, r.Score)
}

func TestFallbackScoreEvaluator_HardMultiplier(t *testing.T) {
	answer := strings.Repeat("indexes speed up lookups but slow down writes and use space ", 3)
	r := FallbackScoreEvaluator([]string{"indexes"}, answer, domain.DifficultyHard)
	// base 100, no penalty, x0.92
	assert.Equal(t, 92, r.Score)
}

func TestFallbackScoreEvaluator_NoExpectedPoints(t *testing.T) {
	r := FallbackScoreEvaluator(nil, strings.Repeat("a thorough answer ", 10), domain.DifficultyMedium)
	assert.Equal(t, 0, r.Score)
	assert.Empty(t, r.MatchedPoints)
	assert.Empty(t, r.MissedPoints)
	assert.Equal(t, feedbackPoor, r.Feedback)
}

func TestFallbackScoreEvaluator_TokenlessPointMatchesVacuously(t *testing.T) {
	r := FallbackScoreEvaluator([]string{"---", "scope"}, strings.Repeat("scope is lexical ", 7), domain.DifficultyMedium)
	assert.Equal(t, []string{"---", "scope"}, r.MatchedPoints)
	assert.Equal(t, 100, r.Score)
}

func TestFallbackScoreEvaluator_PartitionProperty(t *testing.T) {
	points := []string{"closures", "scope", "hoisting", "event loop", "prototype"}
	answers := []string{
		"",
		"closures capture scope",
		strings.Repeat("hoisting moves declarations; the event loop drains queues; prototype chains resolve lookups ", 2),
		"unrelated text about databases and indexes entirely",
	}
	for _, answer := range answers {
		for _, d := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
			r := FallbackScoreEvaluator(points, answer, d)
			assert.GreaterOrEqual(t, r.Score, 0)
			assert.LessOrEqual(t, r.Score, 100)
			assert.Len(t, append(r.MatchedPoints, r.MissedPoints...), len(points))
			seen := map[string]bool{}
			for _, p := range append(r.MatchedPoints, r.MissedPoints...) {
				seen[p] = true
			}
			for _, p := range points {
				assert.True(t, seen[p], "point %q dropped", p)
			}
		}
	}
}

func TestFeedbackBands(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, feedbackPoor},
		{40, feedbackPoor},
		{41, feedbackFair},
		{70, feedbackFair},
		{71, feedbackGood},
		{85, feedbackGood},
		{86, feedbackExcellent},
		{100, feedbackExcellent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, feedbackFor(tt.score), "score %d", tt.score)
	}
}
