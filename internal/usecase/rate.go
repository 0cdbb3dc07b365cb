package usecase

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"

	"go.opentelemetry.io/otel"

	"github.com/crisp-ai/interview-assistant/internal/adapter/ai"
	"github.com/crisp-ai/interview-assistant/internal/adapter/observability"
	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/pkg/textx"
)

// feedbackMaxChars bounds feedback from either source.
const feedbackMaxChars = 240

// RatingService grades a single answer against its rubric.
type RatingService struct {
	AI domain.AIClient
}

// NewRatingService constructs a RatingService.
func NewRatingService(aiClient domain.AIClient) RatingService {
	return RatingService{AI: aiClient}
}

// Rate grades one answer. The model path requires a parseable object carrying
// a score field; anything less takes the deterministic rubric scorer. Rate
// never fails, and the returned score is always within [0,100].
func (s RatingService) Rate(ctx domain.Context, question, answer string, difficulty domain.Difficulty, expectedPoints []string) domain.Rating {
	tr := otel.Tracer("usecase.rating")
	ctx, span := tr.Start(ctx, "rating.rate")
	defer span.End()

	if !difficulty.Valid() {
		difficulty = domain.DifficultyMedium
	}
	if expectedPoints == nil {
		expectedPoints = []string{}
	}

	rating, ok := s.modelRating(ctx, question, answer, difficulty, expectedPoints)
	if !ok {
		rating = FallbackScoreEvaluator(expectedPoints, answer, difficulty)
	}
	observability.ObserveAnswerScore(rating.Score)
	return rating
}

func (s RatingService) modelRating(ctx domain.Context, question, answer string, difficulty domain.Difficulty, expectedPoints []string) (domain.Rating, bool) {
	raw, err := s.AI.Chat(ctx, buildRatingPrompt(question, answer, string(difficulty), expectedPoints), ratingMaxTokens)
	if err != nil {
		slog.Warn("rate_answer: model call failed", slog.Any("error", err))
		observability.RecordFallback("rate_answer", "transport")
		return domain.Rating{}, false
	}
	slog.Debug("rate_answer raw preview", slog.String("raw", textx.Preview(raw, 400)))

	payload, ok := ai.ExtractJSON(raw)
	if !ok {
		observability.RecordFallback("rate_answer", "malformed")
		return domain.Rating{}, false
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		observability.RecordFallback("rate_answer", "malformed")
		return domain.Rating{}, false
	}
	scoreVal, present := obj["score"]
	if !present {
		observability.RecordFallback("rate_answer", "missing_score")
		return domain.Rating{}, false
	}

	return domain.Rating{
		Score:         domain.ClampScore(numericScore(scoreVal)),
		Feedback:      textx.TruncateRunes(stringValue(obj["feedback"]), feedbackMaxChars),
		MatchedPoints: stringSlice(obj["matched_points"]),
		MissedPoints:  stringSlice(obj["missed_points"]),
	}, true
}

// numericScore coerces an untrusted score value; non-numeric input scores 0.
func numericScore(v any) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(math.Round(n))
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return int(math.Round(f))
	default:
		return 0
	}
}

func stringSlice(v any) []string {
	out := []string{}
	if arr, ok := v.([]any); ok {
		for _, e := range arr {
			out = append(out, stringValue(e))
		}
	}
	return out
}
