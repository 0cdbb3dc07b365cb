package usecase

import (
	"encoding/json"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"

	"github.com/crisp-ai/interview-assistant/internal/adapter/ai"
	"github.com/crisp-ai/interview-assistant/internal/adapter/observability"
	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/pkg/textx"
)

// summaryMaxChars bounds the session summary from either source.
const summaryMaxChars = 400

// Fallback summaries distinguish a failed call from unusable output, matching
// what the dashboard labels as mock results.
const (
	summaryFallbackParse = "Mock summary (fallback)."
	summaryFallbackError = "Mock summary (error)."
)

// SummaryService produces the final score and summary for a finished session.
type SummaryService struct {
	AI domain.AIClient
}

// NewSummaryService constructs a SummaryService.
func NewSummaryService(aiClient domain.AIClient) SummaryService {
	return SummaryService{AI: aiClient}
}

// Summarize returns the session's final score and a bounded summary. On any
// model failure the score is the rounded mean of the per-answer rating scores
// (0 with no answers) with a fixed fallback summary. Summarize never fails.
func (s SummaryService) Summarize(ctx domain.Context, session domain.Session) domain.SessionSummary {
	tr := otel.Tracer("usecase.summary")
	ctx, span := tr.Start(ctx, "summary.finalize")
	defer span.End()

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		// cannot happen for a decoded session; guard anyway
		observability.RecordFallback("final_summary_and_score", "marshal")
		return fallbackSummary(session, summaryFallbackError)
	}

	raw, err := s.AI.Chat(ctx, buildSummaryPrompt(sessionJSON), summaryMaxTokens)
	if err != nil {
		slog.Warn("final_summary: model call failed", slog.Any("error", err))
		observability.RecordFallback("final_summary_and_score", "transport")
		return fallbackSummary(session, summaryFallbackError)
	}
	slog.Debug("final_summary raw preview", slog.String("raw", textx.Preview(raw, 400)))

	payload, ok := ai.ExtractJSON(raw)
	if !ok {
		observability.RecordFallback("final_summary_and_score", "malformed")
		return fallbackSummary(session, summaryFallbackParse)
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		observability.RecordFallback("final_summary_and_score", "malformed")
		return fallbackSummary(session, summaryFallbackParse)
	}
	scoreVal, present := obj["score"]
	if !present {
		observability.RecordFallback("final_summary_and_score", "missing_score")
		return fallbackSummary(session, summaryFallbackParse)
	}

	return domain.SessionSummary{
		Score:   domain.ClampScore(numericScore(scoreVal)),
		Summary: textx.TruncateRunes(stringValue(obj["summary"]), summaryMaxChars),
	}
}

// fallbackSummary computes the deterministic session score: the rounded mean
// of all per-answer rating scores, 0 when no answers exist.
func fallbackSummary(session domain.Session, summary string) domain.SessionSummary {
	if len(session.Answers) == 0 {
		return domain.SessionSummary{Score: 0, Summary: summary}
	}
	sum := 0
	for _, a := range session.Answers {
		sum += a.Rating.Score
	}
	mean := int(math.Round(float64(sum) / float64(len(session.Answers))))
	return domain.SessionSummary{Score: domain.ClampScore(mean), Summary: summary}
}
