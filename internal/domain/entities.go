// Package domain defines the core entities and ports of the interview assistant.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMissingAPIKey     = errors.New("api key missing")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInternal          = errors.New("internal error")
)

// Difficulty is the tier of an interview question.
type Difficulty string

// Difficulty tiers.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the three known tiers.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// EstimatedTime returns the canonical answer time in seconds for the tier.
func (d Difficulty) EstimatedTime() int {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyHard:
		return 120
	default:
		return 60
	}
}

// QuestionCount is the fixed size of a finalized question set.
const QuestionCount = 6

// DifficultyPattern is the fixed per-slot difficulty of a finalized set.
var DifficultyPattern = [QuestionCount]Difficulty{
	DifficultyEasy, DifficultyEasy,
	DifficultyMedium, DifficultyMedium,
	DifficultyHard, DifficultyHard,
}

// Question is one interview question within a session.
// Invariants: a finalized set has exactly QuestionCount entries with IDs 0..5
// matching position and difficulties following DifficultyPattern unless the
// upstream supplied a valid tier for the slot.
type Question struct {
	ID             int        `json:"id"`
	Difficulty     Difficulty `json:"difficulty"`
	Text           string     `json:"text"`
	ExpectedPoints []string   `json:"expected_points"`
	EstimatedTime  int        `json:"estimated_time"`
}

// Rating is the graded outcome for a single answer.
// Invariant: Score is in [0,100]; MatchedPoints and MissedPoints partition the
// question's expected points when produced by the fallback scorer.
type Rating struct {
	Score         int      `json:"score"`
	Feedback      string   `json:"feedback"`
	MatchedPoints []string `json:"matched_points"`
	MissedPoints  []string `json:"missed_points"`
}

// Answer pairs a candidate's raw answer with its rating.
type Answer struct {
	QuestionID int    `json:"questionId"`
	Text       string `json:"text"`
	Rating     Rating `json:"rating"`
}

// Session status values.
const (
	SessionInProgress = "in_progress"
	SessionFinished   = "finished"
)

// Session is one complete interview attempt. The server never persists it;
// the client state store owns the lifecycle and supplies it on every call.
type Session struct {
	SessionID  string     `json:"sessionId"`
	Questions  []Question `json:"questions"`
	Answers    []Answer   `json:"answers"`
	Status     string     `json:"status"`
	FinalScore int        `json:"finalScore"`
	Summary    string     `json:"summary"`
}

// SessionSummary is the finalized score and summary for a session.
type SessionSummary struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

// ClampScore bounds a score to [0,100].
func ClampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// AIClient (port)
// Chat sends one prompt to the hosted model and returns the raw completion
// text. Implementations must bound the call with a timeout; callers treat any
// error as a signal to take the deterministic fallback path.
type AIClient interface {
	Chat(ctx Context, prompt string, maxTokens int) (string, error)
}

// Context is an alias so usecases and adapters share the stdlib context type.
type Context = context.Context
