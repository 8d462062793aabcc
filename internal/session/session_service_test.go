package session

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/pipeline"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubAssembler struct {
	outcome pipeline.Outcome[*model.Answer]
}

func (s *stubAssembler) Assemble(_ context.Context, _ service.AssembleInput) pipeline.Outcome[*model.Answer] {
	return s.outcome
}

type serviceFixture struct {
	svc       *Service
	store     ProgressStore
	db        *gorm.DB
	interview *model.Interview
	questions []model.Question
	clock     time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.TechStack{}, &model.Role{},
		&model.Question{}, &model.Interview{}, &model.Answer{},
	))

	candidate := model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: model.RoleCandidate}
	require.NoError(t, db.Create(&candidate).Error)
	stack := model.TechStack{Name: "Go"}
	require.NoError(t, db.Create(&stack).Error)
	questions := []model.Question{
		{TechStackID: stack.ID, Text: "Explain goroutines", Difficulty: model.DifficultyMedium},
		{TechStackID: stack.ID, Text: "Explain channels", Difficulty: model.DifficultyMedium},
	}
	require.NoError(t, db.Create(&questions).Error)

	interview := model.Interview{
		CandidateID:     candidate.ID,
		TechStacks:      []model.TechStack{stack},
		Status:          model.InterviewStatusInProgress,
		ScheduledAt:     time.Now(),
		DurationMinutes: 60,
	}
	require.NoError(t, db.Create(&interview).Error)

	f := &serviceFixture{
		store:     NewMemoryStore(),
		db:        db,
		interview: &interview,
		questions: questions,
		clock:     t0,
	}
	f.svc = f.newService()
	return f
}

func (f *serviceFixture) newService() *Service {
	answer := &model.Answer{InterviewID: f.interview.ID, Transcript: "answered"}
	svc := NewService(
		repository.NewInterviewRepository(f.db),
		repository.NewQuestionRepository(f.db),
		&stubAssembler{outcome: pipeline.Ok(answer)},
		f.store,
	)
	svc.now = func() time.Time { return f.clock }
	return svc
}

func TestSessionStartPresentsFirstQuestion(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	state, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	require.Equal(t, string(PhaseQuestionPending), state.Phase)
	require.Equal(t, f.questions[0].ID, state.QuestionID)
	require.Equal(t, 2, state.QuestionCount)
	require.Empty(t, state.AnsweredIDs)
}

func TestSessionStateCarriesQuestionText(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	state, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	require.Equal(t, "Explain goroutines", state.QuestionText)
	require.Equal(t, model.DifficultyMedium, state.Difficulty)

	// Completing the run clears the current question and its text with it.
	for _, q := range f.questions {
		_, err = f.svc.StartAnswering(ctx, f.interview.ID)
		require.NoError(t, err)
		_, err = f.svc.SubmitAnswer(ctx, f.interview.ID, service.AssembleInput{QuestionID: q.ID})
		require.NoError(t, err)
		state, err = f.svc.Next(ctx, f.interview.ID)
		require.NoError(t, err)
	}
	require.Equal(t, string(PhaseComplete), state.Phase)
	require.Empty(t, state.QuestionText)
}

func TestSessionStartRequiresInProgressInterview(t *testing.T) {
	f := newServiceFixture(t)
	require.NoError(t, f.db.Model(f.interview).Update("status", model.InterviewStatusScheduled).Error)

	_, err := f.svc.Start(context.Background(), f.interview.ID)
	require.ErrorIs(t, err, ErrInterviewNotLive)
}

func TestSessionSubmitMarksQuestionAnswered(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	_, err = f.svc.StartAnswering(ctx, f.interview.ID)
	require.NoError(t, err)

	result, err := f.svc.SubmitAnswer(ctx, f.interview.ID, service.AssembleInput{QuestionID: f.questions[0].ID})
	require.NoError(t, err)
	require.Equal(t, string(PhaseSaved), result.State.Phase)
	require.Equal(t, []uint{f.questions[0].ID}, result.State.AnsweredIDs)

	state, err := f.svc.Next(ctx, f.interview.ID)
	require.NoError(t, err)
	require.Equal(t, f.questions[1].ID, state.QuestionID)
}

func TestSessionSubmitAfterGraceRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	_, err = f.svc.StartAnswering(ctx, f.interview.ID)
	require.NoError(t, err)

	f.clock = t0.Add(QuestionTime + GracePeriod + time.Second)
	result, err := f.svc.SubmitAnswer(ctx, f.interview.ID, service.AssembleInput{QuestionID: f.questions[0].ID})
	require.ErrorIs(t, err, ErrTimeExpired)
	require.NotNil(t, result)
	require.Empty(t, result.State.AnsweredIDs)
	require.Equal(t, string(PhaseQuestionPending), result.State.Phase)
}

func TestSessionResumesFromStoreAfterRestart(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	_, err = f.svc.StartAnswering(ctx, f.interview.ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, f.interview.ID, service.AssembleInput{QuestionID: f.questions[0].ID})
	require.NoError(t, err)

	// A new Service with the same store stands in for a restarted process.
	restarted := f.newService()
	state, err := restarted.State(ctx, f.interview.ID)
	require.NoError(t, err)
	require.Equal(t, string(PhaseSaved), state.Phase)
	require.Equal(t, []uint{f.questions[0].ID}, state.AnsweredIDs)
}

func TestSessionCompletionDiscardsProgress(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	for _, q := range f.questions {
		_, err = f.svc.StartAnswering(ctx, f.interview.ID)
		require.NoError(t, err)
		_, err = f.svc.SubmitAnswer(ctx, f.interview.ID, service.AssembleInput{QuestionID: q.ID})
		require.NoError(t, err)
		_, err = f.svc.Next(ctx, f.interview.ID)
		require.NoError(t, err)
	}

	_, err = f.store.Load(ctx, f.interview.ID)
	require.ErrorIs(t, err, ErrProgressNotFound)
}

func TestSessionStartIsIdempotentWhileRunning(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	_, err = f.svc.StartAnswering(ctx, f.interview.ID)
	require.NoError(t, err)

	// Re-opening the session does not reset the machine.
	state, err := f.svc.Start(ctx, f.interview.ID)
	require.NoError(t, err)
	require.Equal(t, string(PhaseAnswering), state.Phase)
}
