package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/controller/middleware"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/rs/zerolog/log"
)

type InterviewController struct {
	interviewService service.InterviewService
}

func NewInterviewController(interviewService service.InterviewService) *InterviewController {
	return &InterviewController{interviewService: interviewService}
}

// List godoc
// @Summary List interviews
// @Description Candidates see their own interviews; admins see every interview
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.InterviewResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /interviews [get]
func (c *InterviewController) List(ctx *gin.Context) {
	var candidateID *uint
	if !middleware.CallerIsAdmin(ctx) {
		id := middleware.CallerID(ctx)
		candidateID = &id
	}

	interviews, err := c.interviewService.List(candidateID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list interviews")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve interviews"})
		return
	}
	ctx.JSON(http.StatusOK, interviews)
}

// Get godoc
// @Summary Get an interview
// @Description Returns one interview with its role, tech stacks and answers
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /interviews/{id} [get]
func (c *InterviewController) Get(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}

	resp, err := c.interviewService.Get(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		return
	}
	if !middleware.CallerIsAdmin(ctx) && resp.CandidateID != middleware.CallerID(ctx) {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Interview belongs to another candidate"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Start godoc
// @Summary Start an interview
// @Description Moves a scheduled interview to in-progress. Only allowed inside the scheduled window.
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 409 {object} dto.ErrorResponse "Outside the scheduled window or wrong status"
// @Router /interviews/{id}/start [post]
func (c *InterviewController) Start(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviewService, id) {
		return
	}

	resp, err := c.interviewService.Start(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOutsideWindow):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "The interview can only be joined during its scheduled window"})
		case errors.Is(err, service.ErrInvalidTransition):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "The interview cannot be started from its current status"})
		default:
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Finalize godoc
// @Summary Finalize an interview
// @Description Persists any unconfirmed answers, scores unevaluated ones and marks the interview completed
// @Tags Interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Param answers body dto.FinalizeRequest false "Answers the session never confirmed as saved"
// @Success 200 {object} dto.FinalizeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 409 {object} dto.ErrorResponse "Interview is not in progress"
// @Router /interviews/{id}/finalize [post]
func (c *InterviewController) Finalize(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviewService, id) {
		return
	}

	// An empty body is a legal finalize with nothing left to persist.
	var req dto.FinalizeRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
			return
		}
	}

	resp, err := c.interviewService.Finalize(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Only an in-progress interview can be finalized"})
			return
		}
		log.Error().Err(err).Uint("interviewID", id).Msg("Failed to finalize interview")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to finalize interview", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// interviewID parses the :id path parameter, writing the error response
// itself when the value is not a number.
func interviewID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid interview ID format"})
		return 0, false
	}
	return uint(id), true
}
