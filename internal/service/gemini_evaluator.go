package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehuyba/InterviewAce/config"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiEvaluator is the primary scoring path: a rubric prompt against the
// hosted model, with defensive parsing of whatever text comes back.
type GeminiEvaluator interface {
	Evaluator
}

type geminiEvaluator struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiEvaluator(cfg *config.Config) (GeminiEvaluator, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiEvaluator will be non-functional; the heuristic fallback handles all scoring.")
		return &geminiEvaluator{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiEvaluator{client: model, cfg: cfg}, nil
}

func (s *geminiEvaluator) Evaluate(ctx context.Context, in EvaluationInput) (*Evaluation, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	prompt := buildRubricPrompt(in)

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("techStack", in.TechStack).Msg("Gemini API error during evaluation")
		return nil, fmt.Errorf("gemini evaluation call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response")
		return nil, fmt.Errorf("gemini returned no content")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		}
	}
	if raw.Len() == 0 {
		return nil, fmt.Errorf("gemini returned no text content")
	}

	// Past this point we never error: malformed model output degrades to the
	// neutral evaluation instead of blocking the candidate.
	return parseEvaluation(raw.String()), nil
}

func buildRubricPrompt(in EvaluationInput) string {
	var b strings.Builder
	b.WriteString("You are a senior technical interviewer evaluating a candidate's spoken answer to an interview question.\n\n")
	if in.TechStack != "" {
		b.WriteString(fmt.Sprintf("Technology area: %s\n\n", in.TechStack))
	}
	b.WriteString("Question:\n---\n")
	b.WriteString(in.Question)
	b.WriteString("\n---\n\n")
	b.WriteString("Candidate's answer (transcribed from speech):\n---\n")
	if strings.TrimSpace(in.Transcript) == "" {
		b.WriteString("(no transcript available)")
	} else {
		b.WriteString(in.Transcript)
	}
	b.WriteString("\n---\n\n")

	if strings.TrimSpace(in.Code) != "" {
		lang := in.CodeLanguage
		if lang == "" {
			lang = "unspecified language"
		}
		b.WriteString(fmt.Sprintf("Candidate's code (%s):\n---\n", lang))
		b.WriteString(in.Code)
		b.WriteString("\n---\n\n")
	}

	b.WriteString("Scoring policy, apply it exactly:\n")
	b.WriteString(fmt.Sprintf("- If the answer is irrelevant to the question, is only a greeting, or is shorter than roughly %d words, give score 1 and set every criterion to 1.\n", MinAnswerWords))
	b.WriteString(fmt.Sprintf("- Otherwise score each criterion 0-10 and compute the overall score as a weighted blend: technical accuracy %.0f%%, completeness %.0f%%, clarity %.0f%%, examples %.0f%%.\n",
		TechnicalAccuracyWeight*100, CompletenessWeight*100, ClarityWeight*100, ExamplesWeight*100))
	if strings.TrimSpace(in.Code) != "" {
		b.WriteString("- The candidate submitted code: the feedback MUST include a distinct \"Code Assessment\" section addressing correctness, relevance to the question, and structure.\n")
	}
	b.WriteString("\nRespond with a single JSON object and nothing else:\n")
	b.WriteString(`{"score": <0-10>, "feedback": "<detailed feedback>", "criteria": {"technicalAccuracy": <0-10>, "completeness": <0-10>, "clarity": <0-10>, "examples": <0-10>}}`)
	b.WriteString("\n")
	return b.String()
}

// parseEvaluation extracts the first JSON object from free text and decodes
// it. Feeding it already-valid JSON returns the same fields; anything
// unparseable yields the neutral evaluation with the raw text as feedback.
func parseEvaluation(raw string) *Evaluation {
	jsonPart, ok := extractJSONObject(raw)
	if ok {
		var eval Evaluation
		if err := json.Unmarshal([]byte(jsonPart), &eval); err == nil {
			eval.clamp()
			return &eval
		}
	}

	log.Warn().Str("raw", truncate(raw, 200)).Msg("Could not parse structured evaluation from model output, degrading to neutral score")
	return &Evaluation{
		Score:    NeutralScore,
		Feedback: strings.TrimSpace(raw),
		Criteria: model.Criteria{
			TechnicalAccuracy: NeutralScore,
			Completeness:      NeutralScore,
			Clarity:           NeutralScore,
			Examples:          NeutralScore,
		},
	}
}

// extractJSONObject returns the first balanced top-level {...} block in text,
// skipping braces inside JSON strings.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
