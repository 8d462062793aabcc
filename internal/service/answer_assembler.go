package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/pipeline"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// AssembleInput is one recorded response: optional audio, optional code.
// At least one of the two should be present for the answer to count as
// complete, but the assembler accepts either shape. Transcript, when set,
// is a transcript captured live in the client; it is used as-is and the
// hosted transcription step is skipped.
type AssembleInput struct {
	InterviewID  uint
	QuestionID   uint
	LocalID      string
	Audio        io.Reader
	AudioName    string
	Transcript   string
	Code         string
	CodeLanguage string
}

// AnswerAssembler runs the full answer pipeline: hosting the audio,
// transcribing it, scoring the response, and persisting the result. Every
// stage degrades rather than fails; only a missing question or a completely
// unusable input aborts the run.
type AnswerAssembler interface {
	Assemble(ctx context.Context, in AssembleInput) pipeline.Outcome[*model.Answer]
}

type answerAssembler struct {
	transcriber  Transcriber
	evaluator    Evaluator
	fallback     Evaluator
	uploads      UploadService
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
}

func NewAnswerAssembler(
	transcriber Transcriber,
	evaluator Evaluator,
	fallback HeuristicEvaluator,
	uploads UploadService,
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
) AnswerAssembler {
	return &answerAssembler{
		transcriber:  transcriber,
		evaluator:    evaluator,
		fallback:     fallback,
		uploads:      uploads,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
	}
}

func (a *answerAssembler) Assemble(ctx context.Context, in AssembleInput) pipeline.Outcome[*model.Answer] {
	question, err := a.questionRepo.FindByIDWithTechStack(in.QuestionID)
	if err != nil {
		return pipeline.Fail[*model.Answer](fmt.Errorf("question not found with ID %d: %w", in.QuestionID, err))
	}

	var audio []byte
	if in.Audio != nil {
		audio, err = io.ReadAll(in.Audio)
		if err != nil {
			return pipeline.Fail[*model.Answer](fmt.Errorf("failed to read audio: %w", err))
		}
	}

	var (
		audioURL      string
		uploadWarning string
		transcript    = in.Transcript
		warnings      []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(audio) == 0 {
			return nil
		}
		url, err := a.uploads.SaveAudio(in.AudioName, bytes.NewReader(audio))
		if err != nil {
			log.Warn().Err(err).Uint("questionID", in.QuestionID).Msg("Audio upload failed, keeping answer without a recording")
			uploadWarning = "audio upload failed; the recording was not kept"
			return nil
		}
		audioURL = url
		return nil
	})
	g.Go(func() error {
		if len(audio) == 0 || in.Transcript != "" {
			return nil
		}
		text, err := a.transcriber.Transcribe(gctx, bytes.NewReader(audio), in.AudioName)
		if err != nil {
			log.Warn().Err(err).Uint("questionID", in.QuestionID).Msg("Transcription failed, scoring will use the failure marker")
			transcript = model.TranscriptUnavailable
			warnings = append(warnings, "transcription failed; the answer was scored without a transcript")
			return nil
		}
		transcript = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return pipeline.Fail[*model.Answer](err)
	}
	if uploadWarning != "" {
		warnings = append(warnings, uploadWarning)
	}

	answer := &model.Answer{
		LocalID:      in.LocalID,
		InterviewID:  in.InterviewID,
		QuestionID:   in.QuestionID,
		AudioURL:     audioURL,
		Transcript:   transcript,
		Code:         in.Code,
		CodeLanguage: in.CodeLanguage,
	}

	eval, evalWarnings := a.evaluate(ctx, EvaluationInput{
		Question:     question.Text,
		Transcript:   transcript,
		Code:         in.Code,
		CodeLanguage: in.CodeLanguage,
		TechStack:    question.TechStack.Name,
	})
	warnings = append(warnings, evalWarnings...)
	if eval != nil {
		score := eval.Score
		answer.Score = &score
		answer.Feedback = eval.Feedback
		answer.Criteria = eval.Criteria
	}

	if err := a.answerRepo.Upsert(answer); err != nil {
		log.Error().Err(err).Uint("interviewID", in.InterviewID).Uint("questionID", in.QuestionID).Msg("Failed to persist assembled answer")
		warnings = append(warnings, "the answer could not be saved; submit it again before finishing the interview")
		return pipeline.Degraded(answer, warnings...)
	}

	if len(warnings) > 0 {
		return pipeline.Degraded(answer, warnings...)
	}
	return pipeline.Ok(answer)
}

// evaluate tries the configured evaluator and falls back to the offline
// heuristic. A nil result means both scorers were unavailable.
func (a *answerAssembler) evaluate(ctx context.Context, in EvaluationInput) (*Evaluation, []string) {
	eval, err := a.evaluator.Evaluate(ctx, in)
	if err == nil {
		return eval, nil
	}
	log.Warn().Err(err).Msg("Primary evaluation failed, using heuristic scoring")

	eval, fallbackErr := a.fallback.Evaluate(ctx, in)
	if fallbackErr == nil {
		return eval, []string{"AI evaluation was unavailable; the score was estimated offline"}
	}
	log.Error().Err(fallbackErr).Msg("Heuristic evaluation failed")
	return nil, []string{"the answer could not be scored; it will be evaluated when the interview is finalized"}
}
