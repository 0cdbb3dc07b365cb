package usecase

import (
	"encoding/json"
	"fmt"
)

// defaultRole is assumed when the caller supplies none.
const defaultRole = "Full Stack (React/Node)"

// Max completion tokens per operation.
const (
	questionsMaxTokens = 1000
	ratingMaxTokens    = 400
	summaryMaxTokens   = 500
)

// buildQuestionsPrompt constrains the model to exactly six chat-answerable
// questions. The prompt explicitly bans architecture/system-design style
// questions; the normalizer's policy pass backstops it.
func buildQuestionsPrompt(role, resumeText string) string {
	if resumeText == "" {
		resumeText = "(none)"
	}
	return fmt.Sprintf(`
Return EXACTLY a JSON array of 6 interview questions for the role: %s.
Order: 2 easy, 2 medium, 2 hard.

CRITICAL RULES (must be obeyed exactly):
- NEVER produce "system design", "architecture", "large-scale design", or "draw a diagram" style questions.
- Questions must be answerable in a chat message (short essay or 3-5 concise bullets).
- If a topic touches on architecture, convert it into a focused, chat-sized question (e.g., "List 4 concise tradeoffs for X" or "Give 4 bullet points to optimize Y").
- Keep text <= 25 words per question.
- Ensure each question has clear expected_points (3-6 concise items) and an estimated_time.

If resumeText is provided, include AT MOST ONE personalized question referencing a skill or project (no PII).

Return only the JSON array. Each object must contain:
{
  "id": <0..5>,
  "difficulty": "easy"|"medium"|"hard",
  "text": "<<=25 words>",
  "expected_points": ["point1","point2","..."],
  "estimated_time": <seconds> // easy=20, medium=60, hard=120
}

Resume snippet: %s

RETURN ONLY THE JSON ARRAY. DO NOT return architecture/system design prompts.
`, role, resumeText)
}

// buildRatingPrompt anchors the model on the rubric and the fixed score bands.
func buildRatingPrompt(question, answer string, difficulty string, expectedPoints []string) string {
	pts, _ := json.Marshal(expectedPoints)
	return fmt.Sprintf(`
You are a strict full-stack interviewer. Use expected_points as the rubric.

Rules:
- For each expected point, mark matched/missed.
- Score 0-100 using bands:
  0-40 poor, 41-70 fair, 71-85 good, 86-100 excellent.
- Do NOT give 100 unless full correctness & depth.
Return ONLY JSON:
{"score":<0-100>,"feedback":"<one-sentence>","matched_points":["..."],"missed_points":["..."]}

Question: %s
Expected points: %s
Candidate answer: %s
Difficulty: %s
`, question, pts, answer, difficulty)
}

// buildSummaryPrompt asks for a short summary and a single session score.
func buildSummaryPrompt(sessionJSON []byte) string {
	return fmt.Sprintf(`
Return ONLY JSON:
{"score":<0-100>,"summary":"<=40 words"}
Session: %s
`, sessionJSON)
}
