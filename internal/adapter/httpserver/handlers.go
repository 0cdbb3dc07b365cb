package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/crisp-ai/interview-assistant/internal/config"
	"github.com/crisp-ai/interview-assistant/internal/domain"
	"github.com/crisp-ai/interview-assistant/internal/usecase"
)

// Actions accepted by the AI endpoint.
const (
	actionGenerateQuestions = "generate_questions"
	actionRateAnswer        = "rate_answer"
	actionFinalSummary      = "final_summary_and_score"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Questions usecase.QuestionService
	Ratings   usecase.RatingService
	Summaries usecase.SummaryService
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, questions usecase.QuestionService, ratings usecase.RatingService, summaries usecase.SummaryService) *Server {
	return &Server{Cfg: cfg, Questions: questions, Ratings: ratings, Summaries: summaries}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// aiRequest is the action-dispatch body. Fields beyond action are
// operation-specific; presence of the per-action required ones is validated
// via required_if so absence surfaces as a 400 instead of a silent default.
type aiRequest struct {
	Action string `json:"action" validate:"required"`

	// generate_questions
	Role       string `json:"role"`
	ResumeText string `json:"resumeText"`

	// rate_answer
	Question       *string  `json:"question" validate:"required_if=Action rate_answer"`
	Answer         *string  `json:"answer" validate:"required_if=Action rate_answer"`
	Difficulty     string   `json:"difficulty"`
	ExpectedPoints []string `json:"expected_points"`

	// final_summary_and_score
	Session *domain.Session `json:"session" validate:"required_if=Action final_summary_and_score"`
}

// AIHandler dispatches the three operations. Recognized actions always answer
// 200 with a well-formed payload; model-side failures are absorbed by the
// deterministic fallbacks inside the services.
func (s *Server) AIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req aiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := getValidator().Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
				writeError(w, http.StatusBadRequest, strings.ToLower(ve[0].Field())+" required")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		ctx := r.Context()
		switch req.Action {
		case actionGenerateQuestions:
			qs := s.Questions.Generate(ctx, req.Role, req.ResumeText)
			writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
		case actionRateAnswer:
			rating := s.Ratings.Rate(ctx, *req.Question, *req.Answer, domain.Difficulty(req.Difficulty), req.ExpectedPoints)
			writeJSON(w, http.StatusOK, rating)
		case actionFinalSummary:
			writeJSON(w, http.StatusOK, s.Summaries.Summarize(ctx, *req.Session))
		default:
			writeError(w, http.StatusBadRequest, "Unknown action")
		}
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
