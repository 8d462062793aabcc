package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/rs/zerolog/log"
)

type AnswerController struct {
	answerService    service.AnswerService
	interviewService service.InterviewService
}

func NewAnswerController(answerService service.AnswerService, interviewService service.InterviewService) *AnswerController {
	return &AnswerController{answerService: answerService, interviewService: interviewService}
}

// Upsert godoc
// @Summary Save an answer
// @Description Creates or overwrites the answer for one (interview, question) pair
// @Tags Answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answer body dto.AnswerUpsertRequest true "Answer payload"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /answers [post]
func (c *AnswerController) Upsert(ctx *gin.Context) {
	var req dto.AnswerUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if !requireInterviewOwner(ctx, c.interviewService, req.InterviewID) {
		return
	}

	resp, err := c.answerService.Upsert(req)
	if err != nil {
		log.Error().Err(err).Uint("interviewID", req.InterviewID).Msg("Failed to save answer")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to save answer", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update an answer by ID
// @Tags Answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Param answer body dto.AnswerUpsertRequest true "Answer payload"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /answers/{id} [put]
func (c *AnswerController) Update(ctx *gin.Context) {
	id, ok := answerID(ctx)
	if !ok {
		return
	}
	if !c.requireAnswerOwner(ctx, id) {
		return
	}
	var req dto.AnswerUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.answerService.UpdateByID(id, req)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to update answer", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Batch godoc
// @Summary Save several answers at once
// @Description Tries one transaction first, then retries item by item so a single bad record cannot block the rest
// @Tags Answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answers body dto.AnswerBatchRequest true "Answers for one interview"
// @Success 200 {object} dto.AnswerBatchResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /answers/batch [post]
func (c *AnswerController) Batch(ctx *gin.Context) {
	var req dto.AnswerBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if !requireInterviewOwner(ctx, c.interviewService, req.InterviewID) {
		return
	}

	resp, err := c.answerService.BatchUpsert(req)
	if err != nil {
		log.Error().Err(err).Uint("interviewID", req.InterviewID).Msg("Failed to batch save answers")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to save answers", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListByInterview godoc
// @Summary List the answers of an interview
// @Tags Answers
// @Produce json
// @Security BearerAuth
// @Param interview query int true "Interview ID"
// @Success 200 {array} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid interview parameter"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Router /answers [get]
func (c *AnswerController) ListByInterview(ctx *gin.Context) {
	interviewID, err := strconv.ParseUint(ctx.Query("interview"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "The interview query parameter is required"})
		return
	}
	if !requireInterviewOwner(ctx, c.interviewService, uint(interviewID)) {
		return
	}

	answers, err := c.answerService.ListByInterview(uint(interviewID))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve answers"})
		return
	}
	ctx.JSON(http.StatusOK, answers)
}

// ReloadAudio godoc
// @Summary Recover an answer's audio URL
// @Description Re-resolves the stored recording against the upload directory and persists the normalized URL
// @Tags Answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Success 200 {object} dto.AnswerResponse
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 404 {object} dto.ErrorResponse "Answer or recording not found"
// @Router /answers/{id}/audio/reload [post]
func (c *AnswerController) ReloadAudio(ctx *gin.Context) {
	id, ok := answerID(ctx)
	if !ok {
		return
	}
	if !c.requireAnswerOwner(ctx, id) {
		return
	}

	resp, err := c.answerService.ReloadAudioURL(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Recording could not be recovered", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// requireAnswerOwner resolves the answer to its interview and applies the
// interview ownership check to it.
func (c *AnswerController) requireAnswerOwner(ctx *gin.Context, answerID uint) bool {
	answer, err := c.answerService.Get(answerID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Answer not found"})
		return false
	}
	return requireInterviewOwner(ctx, c.interviewService, answer.InterviewID)
}

func answerID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid answer ID format"})
		return 0, false
	}
	return uint(id), true
}
