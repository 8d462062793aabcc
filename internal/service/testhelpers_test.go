package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.TechStack{},
		&model.Role{},
		&model.Question{},
		&model.Interview{},
		&model.Answer{},
	))
	return db
}

// seedInterview creates a candidate, a tech stack with one question, and a
// scheduled interview starting at scheduledAt.
func seedInterview(t *testing.T, db *gorm.DB, scheduledAt time.Time) (*model.Interview, *model.Question) {
	t.Helper()

	candidate := model.User{Name: "Dana", Email: "dana@example.com", PasswordHash: "x", Role: model.RoleCandidate}
	require.NoError(t, db.Create(&candidate).Error)

	stack := model.TechStack{Name: "Go"}
	require.NoError(t, db.Create(&stack).Error)

	question := model.Question{TechStackID: stack.ID, Text: "Explain goroutines and channels", Difficulty: model.DifficultyMedium}
	require.NoError(t, db.Create(&question).Error)

	interview := model.Interview{
		CandidateID:     candidate.ID,
		TechStacks:      []model.TechStack{stack},
		Status:          model.InterviewStatusScheduled,
		ScheduledAt:     scheduledAt,
		DurationMinutes: 60,
	}
	require.NoError(t, db.Create(&interview).Error)
	return &interview, &question
}

// --- external stage stubs ---

type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Transcribe(_ context.Context, audio io.Reader, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if audio != nil {
		_, _ = io.Copy(io.Discard, audio)
	}
	return s.text, nil
}

type stubEvaluator struct {
	eval  *Evaluation
	err   error
	calls int
}

func (s *stubEvaluator) Evaluate(_ context.Context, _ EvaluationInput) (*Evaluation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *s.eval
	return &out, nil
}

type stubUploads struct {
	url string
	err error
}

func (s *stubUploads) Dir() string { return "/tmp/uploads" }

func (s *stubUploads) SaveAudio(filename string, audio io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if audio != nil {
		_, _ = io.Copy(io.Discard, audio)
	}
	return s.url, nil
}

func (s *stubUploads) ResolveAudioURL(rawURL string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return rawURL, nil
}

var errProviderDown = errors.New("provider unavailable")
