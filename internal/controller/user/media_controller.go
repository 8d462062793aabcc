package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/rs/zerolog/log"
)

// MediaController hosts the standalone pipeline surfaces: audio upload,
// transcription and ad-hoc evaluation. The session submits through these
// same services; exposing them directly lets a client retry one stage.
type MediaController struct {
	uploads     service.UploadService
	transcriber service.Transcriber
	evaluator   service.Evaluator
	fallback    service.HeuristicEvaluator
}

func NewMediaController(
	uploads service.UploadService,
	transcriber service.Transcriber,
	evaluator service.Evaluator,
	fallback service.HeuristicEvaluator,
) *MediaController {
	return &MediaController{
		uploads:     uploads,
		transcriber: transcriber,
		evaluator:   evaluator,
		fallback:    fallback,
	}
}

// Upload godoc
// @Summary Upload an audio recording
// @Description Stores the recording and returns a static URL under /uploads
// @Tags Media
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param audio formData file true "Audio file"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing audio file"
// @Failure 500 {object} dto.ErrorResponse "Storage error"
// @Router /uploads [post]
func (c *MediaController) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "An audio file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "The audio file could not be read"})
		return
	}
	defer file.Close()

	url, err := c.uploads.SaveAudio(header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to store uploaded audio")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store the recording"})
		return
	}
	ctx.JSON(http.StatusCreated, dto.UploadResponse{URL: url})
}

// Transcribe godoc
// @Summary Transcribe an audio recording
// @Tags Media
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param audio formData file true "Audio file"
// @Success 200 {object} dto.TranscribeResponse
// @Failure 400 {object} dto.ErrorResponse "Missing audio file"
// @Failure 502 {object} dto.ErrorResponse "Transcription provider unavailable"
// @Router /ai/transcribe [post]
func (c *MediaController) Transcribe(ctx *gin.Context) {
	header, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "An audio file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "The audio file could not be read"})
		return
	}
	defer file.Close()

	text, err := c.transcriber.Transcribe(ctx.Request.Context(), file, header.Filename)
	if err != nil {
		log.Warn().Err(err).Msg("Transcription request failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Transcription is currently unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, dto.TranscribeResponse{Text: text})
}

// Evaluate godoc
// @Summary Evaluate an answer
// @Description Scores a transcript and optional code against a question, falling back to offline scoring when the AI provider is down
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answer body dto.EvaluateRequest true "Question, transcript and optional code"
// @Success 200 {object} service.Evaluation
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "No scorer available"
// @Router /ai/evaluate [post]
func (c *MediaController) Evaluate(ctx *gin.Context) {
	var req dto.EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	in := service.EvaluationInput{
		Question:     req.Question,
		Transcript:   req.Transcript,
		Code:         req.Code,
		CodeLanguage: req.CodeLanguage,
		TechStack:    req.TechStack,
	}
	eval, err := c.evaluator.Evaluate(ctx.Request.Context(), in)
	if err != nil {
		log.Warn().Err(err).Msg("Primary evaluation failed, using heuristic scoring")
		eval, err = c.fallback.Evaluate(ctx.Request.Context(), in)
	}
	if err != nil {
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Evaluation is currently unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, eval)
}
