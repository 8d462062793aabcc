package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const reactAnswer = `React components re-render when their state or props change. Hooks like
useState and useEffect let a function component hold state and run side effects after render.
The virtual DOM diff keeps updates cheap, and memoization with memo or useMemo avoids
re-rendering a component whose props did not change. For example, wrapping an expensive list
in memo kept one of my projects responsive while the parent re-rendered on every keystroke.`

func TestHeuristicShortAnswerScoresOne(t *testing.T) {
	eval, err := NewHeuristicEvaluator().Evaluate(context.Background(), EvaluationInput{
		Question:   "Explain how React hooks work",
		Transcript: "It's about hooks I think",
		TechStack:  "React",
	})
	require.NoError(t, err)
	require.Equal(t, ShortAnswerScore, eval.Score)
	require.Equal(t, ShortAnswerScore, eval.Criteria.TechnicalAccuracy)
	require.Equal(t, ShortAnswerScore, eval.Criteria.Completeness)
	require.Equal(t, ShortAnswerScore, eval.Criteria.Clarity)
	require.Equal(t, ShortAnswerScore, eval.Criteria.Examples)
}

func TestHeuristicGreetingScoresOne(t *testing.T) {
	eval, err := NewHeuristicEvaluator().Evaluate(context.Background(), EvaluationInput{
		Question:   "Explain how React hooks work",
		Transcript: "Good morning!",
		TechStack:  "React",
	})
	require.NoError(t, err)
	require.Equal(t, ShortAnswerScore, eval.Score)
}

func TestHeuristicRelevantAnswerBeatsFiller(t *testing.T) {
	ctx := context.Background()
	evaluator := NewHeuristicEvaluator()
	question := "Explain how React hooks and memoization affect rendering"

	relevant, err := evaluator.Evaluate(ctx, EvaluationInput{
		Question:   question,
		Transcript: reactAnswer,
		TechStack:  "React",
	})
	require.NoError(t, err)

	filler := strings.Repeat("well you know the thing is that it sort of just happens somehow ", 10)
	vague, err := evaluator.Evaluate(ctx, EvaluationInput{
		Question:   question,
		Transcript: filler,
		TechStack:  "React",
	})
	require.NoError(t, err)

	require.Greater(t, relevant.Score, vague.Score)
	require.Greater(t, relevant.Criteria.TechnicalAccuracy, vague.Criteria.TechnicalAccuracy)
}

func TestHeuristicCodeCountsTowardExamples(t *testing.T) {
	ctx := context.Background()
	evaluator := NewHeuristicEvaluator()
	in := EvaluationInput{
		Question:   "How do goroutines and channels interact?",
		Transcript: strings.Repeat("goroutine channel select context concurrency pattern structure design ", 6),
		TechStack:  "Go",
	}

	withoutCode, err := evaluator.Evaluate(ctx, in)
	require.NoError(t, err)

	in.Code = "ch := make(chan int)\ngo func() { ch <- 1 }()"
	in.CodeLanguage = "go"
	withCode, err := evaluator.Evaluate(ctx, in)
	require.NoError(t, err)

	require.Greater(t, withCode.Criteria.Examples, withoutCode.Criteria.Examples)
	require.Contains(t, withCode.Feedback, "Code Assessment:")
}

func TestHeuristicUnknownStackUsesQuestionWords(t *testing.T) {
	eval, err := NewHeuristicEvaluator().Evaluate(context.Background(), EvaluationInput{
		Question:   "Describe eventual consistency in distributed databases",
		Transcript: strings.Repeat("eventual consistency in distributed databases means replicas converge over time ", 5),
		TechStack:  "Erlang",
	})
	require.NoError(t, err)
	require.Greater(t, eval.Score, ShortAnswerScore)
	require.Greater(t, eval.Criteria.TechnicalAccuracy, 0.0)
}

func TestHeuristicIgnoresFailedTranscriptSentinel(t *testing.T) {
	// Only the sentinel, no code: nothing evaluable remains.
	eval, err := NewHeuristicEvaluator().Evaluate(context.Background(), EvaluationInput{
		Question:   "Explain closures",
		Transcript: "[transcription failed]",
		TechStack:  "JavaScript",
	})
	require.NoError(t, err)
	require.Equal(t, ShortAnswerScore, eval.Score)
}
