package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const wellFormedOutput = `Here is my assessment.

{"score": 7.5, "feedback": "Solid answer. Code Assessment: the snippet compiles and is relevant.", "criteria": {"technicalAccuracy": 8, "completeness": 7, "clarity": 7, "examples": 8}}

Let me know if you need anything else.`

func TestParseEvaluationExtractsEmbeddedJSON(t *testing.T) {
	eval := parseEvaluation(wellFormedOutput)
	require.Equal(t, 7.5, eval.Score)
	require.Equal(t, 8.0, eval.Criteria.TechnicalAccuracy)
	require.Equal(t, 7.0, eval.Criteria.Completeness)
	require.Contains(t, eval.Feedback, "Code Assessment")
}

func TestParseEvaluationIsIdempotent(t *testing.T) {
	first := parseEvaluation(wellFormedOutput)

	reencoded, err := json.Marshal(first)
	require.NoError(t, err)

	second := parseEvaluation(string(reencoded))
	require.Equal(t, first, second)
}

func TestParseEvaluationMalformedDegradesToNeutral(t *testing.T) {
	for _, raw := range []string{
		"The candidate did reasonably well but I cannot express that as JSON.",
		`{"score": "not a number", "feedback": }`,
		"{unclosed",
		"",
	} {
		eval := parseEvaluation(raw)
		require.Equal(t, NeutralScore, eval.Score, "raw: %q", raw)
		require.Equal(t, NeutralScore, eval.Criteria.TechnicalAccuracy)
		require.Equal(t, NeutralScore, eval.Criteria.Examples)
	}
}

func TestParseEvaluationKeepsScoresWhenFeedbackEmpty(t *testing.T) {
	eval := parseEvaluation(`{"score": 8, "feedback": "", "criteria": {"technicalAccuracy": 9, "completeness": 8, "clarity": 7, "examples": 6}}`)
	require.Equal(t, 8.0, eval.Score)
	require.Equal(t, 9.0, eval.Criteria.TechnicalAccuracy)
	require.Equal(t, 6.0, eval.Criteria.Examples)
	require.Empty(t, eval.Feedback)
}

func TestParseEvaluationClampsOutOfRangeScores(t *testing.T) {
	eval := parseEvaluation(`{"score": 42, "feedback": "enthusiastic model", "criteria": {"technicalAccuracy": -3, "completeness": 11, "clarity": 5, "examples": 5}}`)
	require.Equal(t, MaxCriterionScore, eval.Score)
	require.Equal(t, 0.0, eval.Criteria.TechnicalAccuracy)
	require.Equal(t, MaxCriterionScore, eval.Criteria.Completeness)
}

func TestExtractJSONObjectSkipsBracesInStrings(t *testing.T) {
	raw := `prefix {"feedback": "use {braces} carefully \"quoted\"", "score": 3} suffix`
	got, ok := extractJSONObject(raw)
	require.True(t, ok)
	require.Equal(t, `{"feedback": "use {braces} carefully \"quoted\"", "score": 3}`, got)
}

func TestExtractJSONObjectRejectsUnbalanced(t *testing.T) {
	_, ok := extractJSONObject("no object here")
	require.False(t, ok)
	_, ok = extractJSONObject(`{"never": "closed"`)
	require.False(t, ok)
}

func TestBuildRubricPromptRequiresCodeAssessmentOnlyWithCode(t *testing.T) {
	withCode := buildRubricPrompt(EvaluationInput{
		Question: "Explain slices",
		Code:     "s := make([]int, 0)",
	})
	require.Contains(t, withCode, "Code Assessment")

	withoutCode := buildRubricPrompt(EvaluationInput{Question: "Explain slices"})
	require.NotContains(t, withoutCode, "Code Assessment")
	require.Contains(t, withoutCode, "single JSON object")
}
