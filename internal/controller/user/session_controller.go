package user

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/lehuyba/InterviewAce/internal/session"
	"github.com/rs/zerolog/log"
)

// SessionController exposes the live question-by-question flow of an
// in-progress interview. Every route checks the interview belongs to the
// caller before touching the session.
type SessionController struct {
	sessions   *session.Service
	interviews service.InterviewService
}

func NewSessionController(sessions *session.Service, interviews service.InterviewService) *SessionController {
	return &SessionController{sessions: sessions, interviews: interviews}
}

// Start godoc
// @Summary Start or resume the interview session
// @Description Builds the question set from the interview's tech stacks and presents the first question. A session interrupted mid-question resumes where it stopped.
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 409 {object} dto.ErrorResponse "Interview is not in progress"
// @Router /interviews/{id}/session [post]
func (c *SessionController) Start(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviews, id) {
		return
	}

	state, err := c.sessions.Start(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrInterviewNotLive) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Start the interview before opening its session"})
			return
		}
		log.Error().Err(err).Uint("interviewID", id).Msg("Failed to start session")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start the session", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// State godoc
// @Summary Poll the session state
// @Description Evaluates the question timer; the 30-second warning appears on exactly one response
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 404 {object} dto.ErrorResponse "No session for this interview"
// @Router /interviews/{id}/session [get]
func (c *SessionController) State(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviews, id) {
		return
	}

	state, err := c.sessions.State(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No session is running for this interview"})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// StartAnswering godoc
// @Summary Arm the question timer
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 409 {object} dto.ErrorResponse "No question is pending"
// @Router /interviews/{id}/session/answering [post]
func (c *SessionController) StartAnswering(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviews, id) {
		return
	}

	state, err := c.sessions.StartAnswering(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(sessionErrorStatus(err), dto.ErrorResponse{Message: "Cannot start answering", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// Submit godoc
// @Summary Submit the answer to the current question
// @Description Multipart submission with an optional audio recording and optional code. The recording is hosted, transcribed and scored; a failing stage degrades with a warning instead of rejecting the answer.
// @Tags Session
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Param question_id formData int true "Question being answered"
// @Param local_id formData string false "Client-side identifier for reconciliation"
// @Param audio formData file false "Audio recording"
// @Param transcript formData string false "Transcript captured live in the client; skips hosted transcription"
// @Param code formData string false "Code the candidate wrote"
// @Param code_language formData string false "Language of the code"
// @Success 200 {object} session.SubmitResult
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Failure 403 {object} dto.ErrorResponse "Interview belongs to another candidate"
// @Failure 409 {object} dto.ErrorResponse "Question closed or time expired"
// @Router /interviews/{id}/session/answer [post]
func (c *SessionController) Submit(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviews, id) {
		return
	}
	questionID, err := strconv.ParseUint(ctx.PostForm("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "A numeric question_id form field is required"})
		return
	}

	in := service.AssembleInput{
		InterviewID:  id,
		QuestionID:   uint(questionID),
		LocalID:      ctx.PostForm("local_id"),
		Transcript:   ctx.PostForm("transcript"),
		Code:         ctx.PostForm("code"),
		CodeLanguage: ctx.PostForm("code_language"),
	}

	var file multipart.File
	if header, err := ctx.FormFile("audio"); err == nil {
		file, err = header.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "The audio file could not be read"})
			return
		}
		defer file.Close()
		in.Audio = file
		in.AudioName = header.Filename
	}

	result, err := c.sessions.SubmitAnswer(ctx.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, session.ErrTimeExpired) {
			ctx.JSON(http.StatusConflict, gin.H{
				"error": "The time for this question has expired",
				"state": resultState(result),
			})
			return
		}
		log.Error().Err(err).Uint("interviewID", id).Msg("Answer submission failed")
		ctx.JSON(sessionErrorStatus(err), dto.ErrorResponse{Message: "Failed to submit the answer", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Skip godoc
// @Summary Skip the current question
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 409 {object} dto.ErrorResponse "Nothing to skip"
// @Router /interviews/{id}/session/skip [post]
func (c *SessionController) Skip(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviews, id) {
		return
	}

	state, err := c.sessions.Skip(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(sessionErrorStatus(err), dto.ErrorResponse{Message: "Cannot skip", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// Next godoc
// @Summary Advance to the next question
// @Description After the last question the session completes and its stored progress is discarded
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 409 {object} dto.ErrorResponse "Current question is still open"
// @Router /interviews/{id}/session/next [post]
func (c *SessionController) Next(ctx *gin.Context) {
	id, ok := interviewID(ctx)
	if !ok {
		return
	}
	if !requireInterviewOwner(ctx, c.interviews, id) {
		return
	}

	state, err := c.sessions.Next(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(sessionErrorStatus(err), dto.ErrorResponse{Message: "Cannot advance", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrProgressNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrWrongPhase), errors.Is(err, session.ErrTimeExpired):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func resultState(result *session.SubmitResult) *dto.SessionStateResponse {
	if result == nil {
		return nil
	}
	return result.State
}
