package usecase

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/internal/policy"
)

func mustItems(t *testing.T, js string) []any {
	t.Helper()
	var items []any
	require.NoError(t, json.Unmarshal([]byte(js), &items))
	return items
}

func assertFinalized(t *testing.T, qs []domain.Question) {
	t.Helper()
	require.Len(t, qs, domain.QuestionCount)
	for i, q := range qs {
		assert.GreaterOrEqual(t, q.ID, 0)
		assert.Less(t, q.ID, domain.QuestionCount)
		assert.True(t, q.Difficulty.Valid(), "slot %d difficulty %q", i, q.Difficulty)
		assert.Greater(t, q.EstimatedTime, 0, "slot %d", i)
		assert.NotNil(t, q.ExpectedPoints, "slot %d", i)
	}
}

func TestNormalizeQuestions_EmptyInputPadsAll(t *testing.T) {
	qs := NormalizeQuestions(nil, policy.Default())
	assertFinalized(t, qs)
	for i, q := range qs {
		assert.Equal(t, i, q.ID)
		assert.Equal(t, domain.DifficultyPattern[i], q.Difficulty)
		assert.Equal(t, fmt.Sprintf("%s fallback question %d", q.Difficulty, i+1), q.Text)
		assert.Empty(t, q.ExpectedPoints)
		assert.Equal(t, q.Difficulty.EstimatedTime(), q.EstimatedTime)
	}
}

func TestNormalizeQuestions_WellFormedInputKept(t *testing.T) {
	items := mustItems(t, `[
		{"id":0,"difficulty":"easy","text":" What is a closure? ","expected_points":["closure","scope"],"estimated_time":25},
		{"id":1,"difficulty":"easy","text":"Explain let vs var.","expected_points":["scoping"],"estimated_time":20},
		{"id":2,"difficulty":"medium","text":"Explain event loop phases.","expected_points":["phases","microtasks"],"estimated_time":60},
		{"id":3,"difficulty":"medium","text":"How does HTTP caching work?","expected_points":["etag","max-age"],"estimated_time":60},
		{"id":4,"difficulty":"hard","text":"Optimize a slow SQL query: name 4 levers.","expected_points":["indexes","explain","n+1"],"estimated_time":120},
		{"id":5,"difficulty":"hard","text":"Reduce Node.js memory churn: 4 bullets.","expected_points":["pooling","streams"],"estimated_time":120}
	]`)
	qs := NormalizeQuestions(items, policy.Default())
	assertFinalized(t, qs)
	assert.Equal(t, "What is a closure?", qs[0].Text)
	assert.Equal(t, 25, qs[0].EstimatedTime)
	assert.Equal(t, []string{"closure", "scope"}, qs[0].ExpectedPoints)
	for i, q := range qs {
		assert.Equal(t, i, q.ID)
	}
}

func TestNormalizeQuestions_GarbageIsTotal(t *testing.T) {
	// arbitrary garbage of lengths 0..10 always yields a finalized set
	garbage := []any{
		nil, 42.0, "just a string", true,
		map[string]any{"id": "zero", "difficulty": "EXPERT", "text": 7.0, "expected_points": "nope", "estimated_time": -3.0},
		map[string]any{"expected_points": []any{1.0, true, map[string]any{}}},
		[]any{"nested"},
		map[string]any{"id": 99.0},
		map[string]any{"difficulty": "hard"},
		map[string]any{"text": "   padded   "},
	}
	for n := 0; n <= len(garbage); n++ {
		qs := NormalizeQuestions(garbage[:n], policy.Default())
		assertFinalized(t, qs)
		for i, q := range qs {
			assert.Equal(t, i, q.ID, "input len %d slot %d", n, i)
		}
	}
}

func TestNormalizeQuestions_PositionalDefaults(t *testing.T) {
	items := mustItems(t, `[{},{},{},{},{},{}]`)
	qs := NormalizeQuestions(items, policy.Default())
	for i, q := range qs {
		assert.Equal(t, domain.DifficultyPattern[i], q.Difficulty)
		assert.Equal(t, q.Difficulty.EstimatedTime(), q.EstimatedTime)
	}
}

func TestNormalizeQuestions_UpstreamDifficultyTrusted(t *testing.T) {
	// a valid upstream tier overrides the slot pattern; junk does not
	items := mustItems(t, `[{"difficulty":"hard"},{"difficulty":"bogus"}]`)
	qs := NormalizeQuestions(items, policy.Default())
	assert.Equal(t, domain.DifficultyHard, qs[0].Difficulty)
	assert.Equal(t, 120, qs[0].EstimatedTime)
	assert.Equal(t, domain.DifficultyEasy, qs[1].Difficulty)
}

func TestNormalizeQuestions_PartialInputPadsTail(t *testing.T) {
	items := mustItems(t, `[{"text":"Explain closures.","difficulty":"easy"},{"text":"Explain hoisting.","difficulty":"easy"}]`)
	qs := NormalizeQuestions(items, policy.Default())
	assertFinalized(t, qs)
	assert.Equal(t, "Explain closures.", qs[0].Text)
	assert.Equal(t, "medium fallback question 3", qs[2].Text)
	assert.Equal(t, "hard fallback question 6", qs[5].Text)
}

func TestNormalizeQuestions_TruncatesLongInput(t *testing.T) {
	items := mustItems(t, `[{},{},{},{},{},{},{"text":"seventh"},{"text":"eighth"}]`)
	qs := NormalizeQuestions(items, policy.Default())
	require.Len(t, qs, domain.QuestionCount)
	for _, q := range qs {
		assert.NotEqual(t, "seventh", q.Text)
	}
}

func TestNormalizeQuestions_PolicyRewrite(t *testing.T) {
	items := mustItems(t, `[{"text":"Design a system to handle 1M requests","difficulty":"medium","estimated_time":120}]`)
	qs := NormalizeQuestions(items, policy.Default())
	assert.Equal(t, "Explain 3 concise tradeoffs for: a system to handle 1M requests", qs[0].Text)
	assert.NotEmpty(t, qs[0].ExpectedPoints)
	assert.Equal(t, 60, qs[0].EstimatedTime)
}

func TestFallbackQuestions(t *testing.T) {
	qs := FallbackQuestions()
	assertFinalized(t, qs)
	assert.Equal(t, "easy sample question 1", qs[0].Text)
	assert.Equal(t, []string{"core concept"}, qs[0].ExpectedPoints)
	assert.Equal(t, []string{"approach", "tradeoffs"}, qs[2].ExpectedPoints)
	assert.Equal(t, []string{"performance", "tradeoffs"}, qs[4].ExpectedPoints)
	assert.Equal(t, "hard sample question 6", qs[5].Text)
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "", stringValue(nil))
	assert.Equal(t, "plain", stringValue("plain"))
	assert.Equal(t, "7", stringValue(7.0))
	assert.Equal(t, "7.5", stringValue(7.5))
	assert.Equal(t, "true", stringValue(true))
}

func TestIntValue(t *testing.T) {
	v, ok := intValue(3.0)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = intValue(3.5)
	assert.False(t, ok)
	_, ok = intValue("3")
	assert.False(t, ok)
	_, ok = intValue(nil)
	assert.False(t, ok)
}
