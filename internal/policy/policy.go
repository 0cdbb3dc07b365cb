// Package policy enforces the content rules for generated interview questions.
//
// The one rule today: question text must not primarily ask for system design,
// architecture, or diagramming. Matching questions are rewritten in place into
// bounded, chat-answerable tradeoff prompts rather than rejected.
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/pkg/textx"
)

//go:embed default.yaml
var defaultDoc []byte

type document struct {
	ForbiddenTerms       []string `yaml:"forbidden_terms"`
	RewritePrefix        string   `yaml:"rewrite_prefix"`
	RewriteMaxLen        int      `yaml:"rewrite_max_len"`
	RewriteEstimatedTime int      `yaml:"rewrite_estimated_time"`
	GenericPoints        []string `yaml:"generic_points"`
}

// Policy holds the compiled forbidden-topic pattern and rewrite parameters.
type Policy struct {
	forbidden     *regexp.Regexp
	prefix        string
	maxLen        int
	estimatedTime int
	genericPoints []string
}

// Default returns the embedded policy. Panics only on a broken embed, which
// is a build defect.
func Default() *Policy {
	p, err := parse(defaultDoc)
	if err != nil {
		panic(fmt.Sprintf("policy: embedded default invalid: %v", err))
	}
	return p
}

// LoadFile reads a policy document from disk, for deployments that override
// the embedded default.
func LoadFile(path string) (*Policy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: read %s: %w", path, err)
	}
	return parse(b)
}

func parse(b []byte) (*Policy, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("policy: unmarshal: %w", err)
	}
	if len(doc.ForbiddenTerms) == 0 {
		return nil, fmt.Errorf("policy: no forbidden terms")
	}
	quoted := make([]string, len(doc.ForbiddenTerms))
	for i, t := range doc.ForbiddenTerms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	re, err := regexp.Compile("(?i)(" + strings.Join(quoted, "|") + ")")
	if err != nil {
		return nil, fmt.Errorf("policy: compile pattern: %w", err)
	}
	return &Policy{
		forbidden:     re,
		prefix:        doc.RewritePrefix,
		maxLen:        doc.RewriteMaxLen,
		estimatedTime: doc.RewriteEstimatedTime,
		genericPoints: doc.GenericPoints,
	}, nil
}

// Violates reports whether the question text matches the forbidden pattern.
func (p *Policy) Violates(text string) bool {
	return p.forbidden.MatchString(text)
}

// Apply rewrites q in place when its text violates the policy: the forbidden
// terms are stripped, the text becomes a bounded tradeoff prompt, the rubric
// is guaranteed non-empty, and estimated_time is forced to the rewrite value.
// Applying to an already-compliant question is a no-op, so the pass is
// idempotent.
func (p *Policy) Apply(q domain.Question) domain.Question {
	if !p.Violates(q.Text) {
		return q
	}
	stripped := strings.TrimSpace(p.forbidden.ReplaceAllString(q.Text, ""))
	q.Text = textx.TruncateRunes(p.prefix+stripped, p.maxLen)
	if len(q.ExpectedPoints) == 0 {
		q.ExpectedPoints = append([]string(nil), p.genericPoints...)
	}
	q.EstimatedTime = p.estimatedTime
	return q
}
