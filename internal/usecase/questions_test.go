package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/internal/policy"
)

// fakeAI returns a canned completion or error and records the last prompt.
type fakeAI struct {
	out        string
	err        error
	lastPrompt string
	maxTokens  int
}

func (f *fakeAI) Chat(_ domain.Context, prompt string, maxTokens int) (string, error) {
	f.lastPrompt = prompt
	f.maxTokens = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

const sixQuestions = `[
	{"id":0,"difficulty":"easy","text":"What is a closure?","expected_points":["closure","scope"],"estimated_time":20},
	{"id":1,"difficulty":"easy","text":"Explain let vs var.","expected_points":["scoping","hoisting"],"estimated_time":20},
	{"id":2,"difficulty":"medium","text":"Explain event loop phases.","expected_points":["phases","microtasks"],"estimated_time":60},
	{"id":3,"difficulty":"medium","text":"How does HTTP caching work?","expected_points":["etag","max-age"],"estimated_time":60},
	{"id":4,"difficulty":"hard","text":"Name 4 levers to optimize a slow SQL query.","expected_points":["indexes","explain"],"estimated_time":120},
	{"id":5,"difficulty":"hard","text":"Give 4 bullets to cut Node.js memory churn.","expected_points":["pooling","streams"],"estimated_time":120}
]`

func TestGenerate_Success(t *testing.T) {
	fake := &fakeAI{out: sixQuestions}
	svc := NewQuestionService(fake, policy.Default())
	qs := svc.Generate(context.Background(), "Full Stack (React/Node)", "")
	require.Len(t, qs, domain.QuestionCount)
	assert.Equal(t, "What is a closure?", qs[0].Text)
	assert.Equal(t, questionsMaxTokens, fake.maxTokens)
	assert.Contains(t, fake.lastPrompt, "Full Stack (React/Node)")
	assert.Contains(t, fake.lastPrompt, "Resume snippet: (none)")
}

func TestGenerate_FencedAndWrapped(t *testing.T) {
	fake := &fakeAI{out: "```json\n{\"questions\": " + sixQuestions + "}\n```"}
	svc := NewQuestionService(fake, policy.Default())
	qs := svc.Generate(context.Background(), "", "")
	require.Len(t, qs, domain.QuestionCount)
	assert.Equal(t, "Explain let vs var.", qs[1].Text)
	assert.Contains(t, fake.lastPrompt, defaultRole)
}

func TestGenerate_ProseRescan(t *testing.T) {
	fake := &fakeAI{out: "Here you go!\n" + sixQuestions + "\nGood luck."}
	svc := NewQuestionService(fake, policy.Default())
	qs := svc.Generate(context.Background(), "Backend", "")
	require.Len(t, qs, domain.QuestionCount)
	assert.Equal(t, "Explain event loop phases.", qs[2].Text)
}

func TestGenerate_EmptyArrayPadsFallback(t *testing.T) {
	fake := &fakeAI{out: "[]"}
	svc := NewQuestionService(fake, policy.Default())
	qs := svc.Generate(context.Background(), "Backend", "")
	require.Len(t, qs, domain.QuestionCount)
	for i, q := range qs {
		assert.Equal(t, i, q.ID)
		assert.Equal(t, domain.DifficultyPattern[i], q.Difficulty)
		assert.Contains(t, q.Text, "fallback question")
	}
}

func TestGenerate_TransportErrorYieldsSampleSet(t *testing.T) {
	fake := &fakeAI{err: errors.New("dial tcp: timeout")}
	svc := NewQuestionService(fake, policy.Default())
	qs := svc.Generate(context.Background(), "Backend", "")
	require.Len(t, qs, domain.QuestionCount)
	assert.Equal(t, "easy sample question 1", qs[0].Text)
	assert.Equal(t, "hard sample question 6", qs[5].Text)
}

func TestGenerate_NonArrayYieldsSampleSet(t *testing.T) {
	for _, out := range []string{`"no questions for you"`, `{"message":"refused"}`, "plain prose, no JSON"} {
		fake := &fakeAI{out: out}
		svc := NewQuestionService(fake, policy.Default())
		qs := svc.Generate(context.Background(), "Backend", "")
		require.Len(t, qs, domain.QuestionCount, "out: %q", out)
		assert.Contains(t, qs[0].Text, "sample question", "out: %q", out)
	}
}

func TestGenerate_PolicyBackstop(t *testing.T) {
	bad := strings.Replace(sixQuestions, "What is a closure?", "Design a system to handle 1M requests", 1)
	fake := &fakeAI{out: bad}
	svc := NewQuestionService(fake, policy.Default())
	qs := svc.Generate(context.Background(), "Backend", "")
	assert.Equal(t, "Explain 3 concise tradeoffs for: a system to handle 1M requests", qs[0].Text)
	assert.Equal(t, 60, qs[0].EstimatedTime)
}

func TestGenerate_ResumeTruncated(t *testing.T) {
	fake := &fakeAI{out: sixQuestions}
	svc := NewQuestionService(fake, policy.Default())
	resume := strings.Repeat("x", 4000)
	svc.Generate(context.Background(), "Backend", resume)
	assert.NotContains(t, fake.lastPrompt, strings.Repeat("x", 1501))
	assert.Contains(t, fake.lastPrompt, strings.Repeat("x", 1500))
}
