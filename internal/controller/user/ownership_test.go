package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/controller/middleware"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("record not found")

type stubInterviewService struct {
	interview *dto.InterviewResponse
	started   bool
	finalized bool
}

func (s *stubInterviewService) Get(id uint) (*dto.InterviewResponse, error) {
	if s.interview == nil || s.interview.ID != id {
		return nil, errNotFound
	}
	return s.interview, nil
}

func (s *stubInterviewService) Start(uint) (*dto.InterviewResponse, error) {
	s.started = true
	return s.interview, nil
}

func (s *stubInterviewService) Finalize(context.Context, uint, dto.FinalizeRequest) (*dto.FinalizeResponse, error) {
	s.finalized = true
	return &dto.FinalizeResponse{}, nil
}

func (s *stubInterviewService) Create(context.Context, dto.InterviewCreateRequest) (*dto.InterviewResponse, error) {
	return s.interview, nil
}

func (s *stubInterviewService) List(*uint) ([]dto.InterviewResponse, error) { return nil, nil }

func (s *stubInterviewService) Update(uint, dto.InterviewUpdateRequest) (*dto.InterviewResponse, error) {
	return s.interview, nil
}

func (s *stubInterviewService) Cancel(uint) (*dto.InterviewResponse, error) { return s.interview, nil }

func (s *stubInterviewService) SendInvitation(context.Context, uint) error { return nil }

type stubAnswerService struct {
	answer   *dto.AnswerResponse
	reloaded bool
	listed   bool
	upserted bool
}

func (s *stubAnswerService) Get(id uint) (*dto.AnswerResponse, error) {
	if s.answer == nil || s.answer.ID != id {
		return nil, errNotFound
	}
	return s.answer, nil
}

func (s *stubAnswerService) Upsert(dto.AnswerUpsertRequest) (*dto.AnswerResponse, error) {
	s.upserted = true
	return s.answer, nil
}

func (s *stubAnswerService) UpdateByID(uint, dto.AnswerUpsertRequest) (*dto.AnswerResponse, error) {
	return s.answer, nil
}

func (s *stubAnswerService) BatchUpsert(dto.AnswerBatchRequest) (*dto.AnswerBatchResponse, error) {
	return &dto.AnswerBatchResponse{}, nil
}

func (s *stubAnswerService) ListByInterview(uint) ([]dto.AnswerResponse, error) {
	s.listed = true
	return nil, nil
}

func (s *stubAnswerService) ReloadAudioURL(uint) (*dto.AnswerResponse, error) {
	s.reloaded = true
	return s.answer, nil
}

// authedContext builds a gin test context carrying the identity RequireAuth
// would have stored for the caller.
func authedContext(t *testing.T, userID uint, role string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	ctx.Set(middleware.ContextUserID, userID)
	ctx.Set(middleware.ContextUserRole, role)
	return ctx, rec
}

func withJSONBody(ctx *gin.Context, body string) {
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
}

func ownedInterview() *dto.InterviewResponse {
	return &dto.InterviewResponse{ID: 7, CandidateID: 1, Status: model.InterviewStatusScheduled}
}

func TestInterviewStartRejectsForeignCandidate(t *testing.T) {
	svc := &stubInterviewService{interview: ownedInterview()}
	c := NewInterviewController(svc)

	ctx, rec := authedContext(t, 2, model.RoleCandidate)
	ctx.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Start(ctx)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, svc.started)
}

func TestInterviewStartAllowsOwnerAndAdmin(t *testing.T) {
	for _, tc := range []struct {
		name   string
		userID uint
		role   string
	}{
		{"owner", 1, model.RoleCandidate},
		{"admin", 99, model.RoleAdmin},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubInterviewService{interview: ownedInterview()}
			c := NewInterviewController(svc)

			ctx, rec := authedContext(t, tc.userID, tc.role)
			ctx.Params = gin.Params{{Key: "id", Value: "7"}}
			c.Start(ctx)

			require.Equal(t, http.StatusOK, rec.Code)
			require.True(t, svc.started)
		})
	}
}

func TestInterviewFinalizeRejectsForeignCandidate(t *testing.T) {
	svc := &stubInterviewService{interview: ownedInterview()}
	c := NewInterviewController(svc)

	ctx, rec := authedContext(t, 2, model.RoleCandidate)
	ctx.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Finalize(ctx)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, svc.finalized)
}

func TestSessionRoutesRejectForeignCandidate(t *testing.T) {
	svc := &stubInterviewService{interview: ownedInterview()}
	// A nil session service proves the ownership check runs before any
	// session state is touched.
	c := NewSessionController(nil, svc)

	for name, handle := range map[string]gin.HandlerFunc{
		"start":     c.Start,
		"state":     c.State,
		"answering": c.StartAnswering,
		"submit":    c.Submit,
		"skip":      c.Skip,
		"next":      c.Next,
	} {
		ctx, rec := authedContext(t, 2, model.RoleCandidate)
		ctx.Params = gin.Params{{Key: "id", Value: "7"}}
		handle(ctx)
		require.Equal(t, http.StatusForbidden, rec.Code, "handler: %s", name)
	}
}

func TestAnswerUpsertRejectsForeignCandidate(t *testing.T) {
	interviews := &stubInterviewService{interview: ownedInterview()}
	answers := &stubAnswerService{answer: &dto.AnswerResponse{ID: 3, InterviewID: 7}}
	c := NewAnswerController(answers, interviews)

	ctx, rec := authedContext(t, 2, model.RoleCandidate)
	withJSONBody(ctx, `{"interview_id":7,"question_id":1}`)
	c.Upsert(ctx)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, answers.upserted)
}

func TestAnswerListRejectsForeignCandidate(t *testing.T) {
	interviews := &stubInterviewService{interview: ownedInterview()}
	answers := &stubAnswerService{}
	c := NewAnswerController(answers, interviews)

	ctx, rec := authedContext(t, 2, model.RoleCandidate)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/answers?interview=7", nil)
	c.ListByInterview(ctx)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, answers.listed)
}

func TestAnswerReloadResolvesOwnershipThroughAnswer(t *testing.T) {
	interviews := &stubInterviewService{interview: ownedInterview()}
	answers := &stubAnswerService{answer: &dto.AnswerResponse{ID: 3, InterviewID: 7}}
	c := NewAnswerController(answers, interviews)

	ctx, rec := authedContext(t, 2, model.RoleCandidate)
	ctx.Params = gin.Params{{Key: "id", Value: "3"}}
	c.ReloadAudio(ctx)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, answers.reloaded)

	ctx, rec = authedContext(t, 1, model.RoleCandidate)
	ctx.Params = gin.Params{{Key: "id", Value: "3"}}
	c.ReloadAudio(ctx)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, answers.reloaded)
}
