package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/lehuyba/InterviewAce/internal/model"
)

// Scoring policy shared by the LLM rubric prompt and the offline heuristic.
// The blend weights and thresholds are deliberate configuration, not derived
// values; keep them here so tuning happens in one place.
const (
	// An answer under this many words, or a greeting-only answer, scores 1
	// across the board.
	MinAnswerWords = 20

	TechnicalAccuracyWeight = 0.4
	CompletenessWeight      = 0.3
	ClarityWeight           = 0.2
	ExamplesWeight          = 0.1

	ShortAnswerScore = 1.0
	NeutralScore     = 5.0

	MaxCriterionScore = 10.0
)

// EvaluationInput is everything the evaluator needs to score one answer.
// Transcript may be empty or the transcription-failure sentinel.
type EvaluationInput struct {
	Question     string
	Transcript   string
	Code         string
	CodeLanguage string
	TechStack    string
}

type Evaluation struct {
	Score    float64        `json:"score"`
	Feedback string         `json:"feedback"`
	Criteria model.Criteria `json:"criteria"`
}

// Evaluator scores one answer against the four-axis rubric. Implementations
// must not panic; an error tells the caller to fall back, never to abort.
type Evaluator interface {
	Evaluate(ctx context.Context, in EvaluationInput) (*Evaluation, error)
}

var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|good\s+(morning|afternoon|evening)|thanks?|thank\s+you|ok(ay)?)[\s!,.?]*$`)

// answerText is the combined content the scoring policy looks at.
func answerText(in EvaluationInput) string {
	parts := make([]string, 0, 2)
	if t := strings.TrimSpace(in.Transcript); t != "" && t != model.TranscriptUnavailable {
		parts = append(parts, t)
	}
	if c := strings.TrimSpace(in.Code); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "\n")
}

// isLowEffort applies the fixed short-answer/greeting penalty gate.
func isLowEffort(in EvaluationInput) bool {
	text := answerText(in)
	if greetingPattern.MatchString(text) {
		return true
	}
	return len(strings.Fields(text)) < MinAnswerWords
}

func lowEffortEvaluation() *Evaluation {
	return &Evaluation{
		Score:    ShortAnswerScore,
		Feedback: "The answer is too short or off-topic to evaluate. Try to address the question directly, explain your reasoning, and include a concrete example.",
		Criteria: model.Criteria{
			TechnicalAccuracy: ShortAnswerScore,
			Completeness:      ShortAnswerScore,
			Clarity:           ShortAnswerScore,
			Examples:          ShortAnswerScore,
		},
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxCriterionScore {
		return MaxCriterionScore
	}
	return v
}

func (e *Evaluation) clamp() {
	e.Score = clampScore(e.Score)
	e.Criteria.TechnicalAccuracy = clampScore(e.Criteria.TechnicalAccuracy)
	e.Criteria.Completeness = clampScore(e.Criteria.Completeness)
	e.Criteria.Clarity = clampScore(e.Criteria.Clarity)
	e.Criteria.Examples = clampScore(e.Criteria.Examples)
}
