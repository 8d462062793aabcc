package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/controller/middleware"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/service"
)

// requireInterviewOwner rejects callers acting on another candidate's
// interview. Admins pass unconditionally. The error response is written
// here; the return value says whether the handler may proceed.
func requireInterviewOwner(ctx *gin.Context, interviews service.InterviewService, interviewID uint) bool {
	if middleware.CallerIsAdmin(ctx) {
		return true
	}
	resp, err := interviews.Get(interviewID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		return false
	}
	if resp.CandidateID != middleware.CallerID(ctx) {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Interview belongs to another candidate"})
		return false
	}
	return true
}
