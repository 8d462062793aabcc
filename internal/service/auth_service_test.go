package service

import (
	"testing"

	"github.com/lehuyba/InterviewAce/config"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLMins = 60
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), cfg)
}

func TestRegisterThenLogin(t *testing.T) {
	auth := newAuthService(t)

	registered, err := auth.Register(dto.RegisterRequest{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.Token)
	require.Equal(t, model.RoleCandidate, registered.User.Role, "default role is candidate")

	loggedIn, err := auth.Login(dto.LoginRequest{Email: "sam@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	auth := newAuthService(t)
	_, err := auth.Register(dto.RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	_, err = auth.Login(dto.LoginRequest{Email: "sam@example.com", Password: "wrong"})
	require.Error(t, err)

	_, err = auth.Login(dto.LoginRequest{Email: "nobody@example.com", Password: "correct horse battery"})
	require.Error(t, err)
}

func TestParseTokenRoundTrip(t *testing.T) {
	auth := newAuthService(t)
	resp, err := auth.Register(dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "long enough pass", Role: model.RoleAdmin})
	require.NoError(t, err)

	userID, role, err := auth.ParseToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, userID)
	require.Equal(t, model.RoleAdmin, role)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	auth := newAuthService(t)
	resp, err := auth.Register(dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "long enough pass"})
	require.NoError(t, err)

	_, _, err = auth.ParseToken(resp.Token + "x")
	require.Error(t, err)

	_, _, err = auth.ParseToken("not a token at all")
	require.Error(t, err)
}
