package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/rs/zerolog/log"
)

// Heuristic blend weights. The heuristic scores keyword overlap against a
// topic keyword set: relevance 50%, keyword density 30%, answer length 20%.
const (
	RelevanceWeight = 0.5
	DensityWeight   = 0.3
	LengthWeight    = 0.2

	// densityScale maps a raw matched-keywords-per-word ratio onto 0..1.
	densityScale = 10.0
	// fullLengthWords is the answer length that earns the full length factor.
	fullLengthWords = 100
)

// techStackKeywords seeds the relevance check per topic. Lookup is by
// lowercased stack name; unknown stacks fall back to the generic set plus
// words drawn from the question text itself.
var techStackKeywords = map[string][]string{
	"react":      {"component", "hook", "state", "props", "render", "virtual", "dom", "jsx", "effect", "context", "redux", "memo"},
	"javascript": {"closure", "promise", "async", "await", "prototype", "scope", "event", "callback", "function", "object", "array"},
	"node":       {"event", "loop", "stream", "module", "async", "callback", "express", "middleware", "buffer", "process"},
	"go":         {"goroutine", "channel", "interface", "slice", "map", "defer", "pointer", "struct", "concurrency", "context"},
	"python":     {"list", "dict", "generator", "decorator", "class", "async", "comprehension", "module", "exception", "iterator"},
	"java":       {"class", "interface", "jvm", "thread", "collection", "stream", "garbage", "inheritance", "exception", "generic"},
	"sql":        {"index", "join", "transaction", "query", "table", "normalization", "key", "constraint", "aggregate"},
	"generic":    {"design", "performance", "test", "structure", "pattern", "complexity", "architecture", "example", "tradeoff"},
}

var exampleMarkers = []string{"for example", "for instance", "e.g", "such as", "in my experience", "in one project"}

// HeuristicEvaluator is the zero-network fallback: the pipeline must be able
// to finish scoring with no external calls at all.
type HeuristicEvaluator interface {
	Evaluator
}

type heuristicEvaluator struct{}

func NewHeuristicEvaluator() HeuristicEvaluator {
	return &heuristicEvaluator{}
}

func (s *heuristicEvaluator) Evaluate(_ context.Context, in EvaluationInput) (*Evaluation, error) {
	if isLowEffort(in) {
		return lowEffortEvaluation(), nil
	}

	text := strings.ToLower(answerText(in))
	words := strings.Fields(text)
	keywords := keywordsFor(in.TechStack, in.Question)

	matched := make(map[string]bool)
	occurrences := 0
	for _, kw := range keywords {
		count := strings.Count(text, kw)
		if count > 0 {
			matched[kw] = true
			occurrences += count
		}
	}

	relevance := float64(len(matched)) / float64(len(keywords))
	density := math.Min(1, float64(occurrences)/float64(len(words))*densityScale)
	length := math.Min(1, float64(len(words))/fullLengthWords)

	blend := relevance*RelevanceWeight + density*DensityWeight + length*LengthWeight
	score := clampScore(math.Round(blend*MaxCriterionScore*10) / 10)
	if score < ShortAnswerScore {
		score = ShortAnswerScore
	}

	examples := 0.0
	for _, marker := range exampleMarkers {
		if strings.Contains(text, marker) {
			examples += 3
		}
	}
	if strings.TrimSpace(in.Code) != "" {
		examples += 4
	}

	eval := &Evaluation{
		Score:    score,
		Feedback: heuristicFeedback(in, len(matched), len(keywords)),
		Criteria: model.Criteria{
			TechnicalAccuracy: clampScore(math.Round(relevance * MaxCriterionScore)),
			Completeness:      clampScore(math.Round(length * MaxCriterionScore)),
			Clarity:           clampScore(math.Round(density * MaxCriterionScore)),
			Examples:          clampScore(examples),
		},
	}

	log.Debug().Float64("score", eval.Score).Int("matched_keywords", len(matched)).Msg("Heuristic evaluation computed")
	return eval, nil
}

func keywordsFor(techStack, question string) []string {
	keywords := techStackKeywords[strings.ToLower(strings.TrimSpace(techStack))]
	if keywords == nil {
		keywords = techStackKeywords["generic"]
	}

	// Long words from the question itself count toward relevance so the
	// heuristic works for stacks with no curated keyword list.
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		seen[kw] = true
	}
	out := append([]string(nil), keywords...)
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, ".,!?;:()\"'")
		if len(w) >= 5 && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func heuristicFeedback(in EvaluationInput, matched, total int) string {
	var b strings.Builder
	b.WriteString("Automated offline assessment. ")
	b.WriteString(fmt.Sprintf("The answer touched %d of %d topic keywords. ", matched, total))
	if matched*2 < total {
		b.WriteString("Consider covering the core concepts of the question more directly. ")
	}
	if strings.TrimSpace(in.Code) != "" {
		b.WriteString("\n\nCode Assessment: code was submitted and counted toward the examples criterion; a detailed review requires the AI evaluator.")
	}
	return strings.TrimSpace(b.String())
}
