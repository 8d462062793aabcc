package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/rs/zerolog/log"
)

// InterviewController is the admin scheduling surface: creating, editing
// and cancelling interviews, and re-sending invitations.
type InterviewController struct {
	interviewService service.InterviewService
}

func NewInterviewController(interviewService service.InterviewService) *InterviewController {
	return &InterviewController{interviewService: interviewService}
}

// Create godoc
// @Summary (Admin) Schedule an interview
// @Description Schedules an interview for a candidate with at least one tech stack. The candidate receives an invitation email; a failed send does not undo the scheduling.
// @Tags Admin - Interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param interview body dto.InterviewCreateRequest true "Candidate, tech stacks, schedule and duration"
// @Success 201 {object} dto.InterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or unknown reference"
// @Router /admin/interviews [post]
func (c *InterviewController) Create(ctx *gin.Context) {
	var req dto.InterviewCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin interview create: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.interviewService.Create(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to schedule interview", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary (Admin) Update an interview
// @Description Status changes follow the forward-only lifecycle; a completed or cancelled interview cannot change again
// @Tags Admin - Interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Param interview body dto.InterviewUpdateRequest true "Fields to change"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} dto.ErrorResponse "Status change not allowed"
// @Router /admin/interviews/{id} [put]
func (c *InterviewController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "interview")
	if !ok {
		return
	}
	var req dto.InterviewUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.interviewService.Update(id, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "That status change is not allowed", Details: []string{err.Error()}})
			return
		}
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to update interview", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary (Admin) Cancel an interview
// @Tags Admin - Interviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} dto.ErrorResponse "Interview already finished"
// @Router /admin/interviews/{id}/cancel [post]
func (c *InterviewController) Cancel(ctx *gin.Context) {
	id, ok := pathID(ctx, "interview")
	if !ok {
		return
	}

	resp, err := c.interviewService.Cancel(id)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "A finished interview cannot be cancelled"})
			return
		}
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SendInvitation godoc
// @Summary (Admin) Re-send the invitation email
// @Tags Admin - Interviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 202 {object} map[string]string
// @Failure 502 {object} dto.ErrorResponse "Email provider unavailable"
// @Router /admin/interviews/{id}/invitation [post]
func (c *InterviewController) SendInvitation(ctx *gin.Context) {
	id, ok := pathID(ctx, "interview")
	if !ok {
		return
	}

	if err := c.interviewService.SendInvitation(ctx.Request.Context(), id); err != nil {
		log.Warn().Err(err).Uint("interviewID", id).Msg("Invitation email failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "The invitation could not be sent", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"status": "invitation sent"})
}
