package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/internal/policy"
)

// NormalizeQuestions turns an untrusted, loosely-shaped question array from
// the model into a finalized set: exactly domain.QuestionCount entries, ids
// 0..5, valid difficulty and estimated time on every slot, padded with
// deterministic fallback questions when the input runs short, and the content
// policy applied to every entry.
//
// The input is whatever json.Unmarshal produced for an array of arbitrary
// values; nothing about element shape is trusted.
func NormalizeQuestions(items []any, pol *policy.Policy) []domain.Question {
	out := make([]domain.Question, 0, domain.QuestionCount)

	n := len(items)
	if n > domain.QuestionCount {
		n = domain.QuestionCount
	}
	for i := 0; i < n; i++ {
		out = append(out, coerceQuestion(items[i], i))
	}

	for len(out) < domain.QuestionCount {
		i := len(out)
		d := domain.DifficultyPattern[i]
		out = append(out, domain.Question{
			ID:             i,
			Difficulty:     d,
			Text:           fmt.Sprintf("%s fallback question %d", d, i+1),
			ExpectedPoints: []string{},
			EstimatedTime:  d.EstimatedTime(),
		})
	}

	for i := range out {
		out[i] = pol.Apply(out[i])
	}
	return out
}

// coerceQuestion maps one untrusted array element onto a well-formed Question
// at position i.
func coerceQuestion(item any, i int) domain.Question {
	obj, _ := item.(map[string]any)

	q := domain.Question{ID: i}

	// Upstream integer ids are trusted only inside the finalized range.
	if id, ok := intValue(obj["id"]); ok && id >= 0 && id < domain.QuestionCount {
		q.ID = id
	}

	q.Difficulty = domain.DifficultyPattern[i]
	if s, ok := obj["difficulty"].(string); ok {
		if d := domain.Difficulty(s); d.Valid() {
			q.Difficulty = d
		}
	}

	q.Text = strings.TrimSpace(stringValue(obj["text"]))

	q.ExpectedPoints = []string{}
	if pts, ok := obj["expected_points"].([]any); ok {
		for _, p := range pts {
			q.ExpectedPoints = append(q.ExpectedPoints, stringValue(p))
		}
	}

	q.EstimatedTime = q.Difficulty.EstimatedTime()
	if t, ok := intValue(obj["estimated_time"]); ok && t > 0 {
		q.EstimatedTime = t
	}
	return q
}

// FallbackQuestions is the fully synthetic set used when the model call fails
// outright or returns nothing array-shaped.
func FallbackQuestions() []domain.Question {
	out := make([]domain.Question, domain.QuestionCount)
	for i, d := range domain.DifficultyPattern {
		var pts []string
		switch d {
		case domain.DifficultyEasy:
			pts = []string{"core concept"}
		case domain.DifficultyMedium:
			pts = []string{"approach", "tradeoffs"}
		default:
			pts = []string{"performance", "tradeoffs"}
		}
		out[i] = domain.Question{
			ID:             i,
			Difficulty:     d,
			Text:           fmt.Sprintf("%s sample question %d", d, i+1),
			ExpectedPoints: pts,
			EstimatedTime:  d.EstimatedTime(),
		}
	}
	return out
}

// intValue extracts an integral number from an untrusted JSON value.
func intValue(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int(f), true
}

// stringValue renders an untrusted JSON scalar as a string; non-strings get
// their default formatting, objects included.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if math.Trunc(s) == s && !math.IsInf(s, 0) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprint(s)
	}
}
