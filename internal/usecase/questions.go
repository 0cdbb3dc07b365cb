// Package usecase contains the application services and the deterministic
// engines backing them when the model is unavailable.
package usecase

import (
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/crisp-ai/interview-assistant/internal/adapter/ai"
	"github.com/crisp-ai/interview-assistant/internal/adapter/observability"
	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/internal/policy"
	"github.com/crisp-ai/interview-assistant/pkg/textx"
)

// resumeMaxChars bounds the resume snippet included in the prompt.
const resumeMaxChars = 1500

// QuestionService produces finalized six-question sets for a role.
type QuestionService struct {
	AI     domain.AIClient
	Policy *policy.Policy
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(aiClient domain.AIClient, pol *policy.Policy) QuestionService {
	return QuestionService{AI: aiClient, Policy: pol}
}

// Generate returns exactly six questions for the role. The model output is
// untrusted: it is extracted, unwrapped, re-scanned, and normalized; any
// failure along the way degrades to the deterministic fallback set. Generate
// never fails.
func (s QuestionService) Generate(ctx domain.Context, role, resumeText string) []domain.Question {
	tr := otel.Tracer("usecase.questions")
	ctx, span := tr.Start(ctx, "questions.generate")
	defer span.End()

	if role == "" {
		role = defaultRole
	}
	resume := textx.TruncateRunes(textx.SanitizeText(resumeText), resumeMaxChars)

	raw, err := s.AI.Chat(ctx, buildQuestionsPrompt(role, resume), questionsMaxTokens)
	if err != nil {
		slog.Warn("generate_questions: model call failed", slog.Any("error", err))
		observability.RecordFallback("generate_questions", "transport")
		return FallbackQuestions()
	}
	slog.Debug("generate_questions raw preview", slog.String("raw", textx.Preview(raw, 600)))

	items, ok := parseQuestionArray(raw)
	if !ok {
		slog.Warn("generate_questions: no question array in model output")
		observability.RecordFallback("generate_questions", "malformed")
		return FallbackQuestions()
	}
	return NormalizeQuestions(items, s.Policy)
}

// parseQuestionArray recovers a question array from raw model text: extract
// JSON, unwrap a {questions:[...]} envelope, and when the result is not a
// six-element array, rescan the raw text for the greedy array span.
func parseQuestionArray(raw string) ([]any, bool) {
	items := decodeArray(raw)
	if len(items) != domain.QuestionCount {
		if span, ok := ai.ExtractArray(raw); ok {
			var rescanned []any
			if err := json.Unmarshal(span, &rescanned); err == nil {
				items = rescanned
			}
		}
	}
	return items, items != nil
}

func decodeArray(raw string) []any {
	payload, ok := ai.ExtractJSON(raw)
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		if qs, ok := t["questions"].([]any); ok {
			return qs
		}
	}
	return nil
}
