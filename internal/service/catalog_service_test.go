package service

import (
	"testing"
	"time"

	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCatalogService(
		repository.NewTechStackRepository(db),
		repository.NewRoleRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
	)
	return svc, db
}

func TestTechStackCRUD(t *testing.T) {
	svc, _ := newCatalogService(t)

	created, err := svc.CreateTechStack(dto.TechStackUpsertRequest{Name: "React", Description: "Frontend"})
	require.NoError(t, err)

	updated, err := svc.UpdateTechStack(created.ID, dto.TechStackUpsertRequest{Name: "React", Description: "Frontend library"})
	require.NoError(t, err)
	require.Equal(t, "Frontend library", updated.Description)

	stacks, err := svc.ListTechStacks()
	require.NoError(t, err)
	require.Len(t, stacks, 1)

	require.NoError(t, svc.DeleteTechStack(created.ID))
	stacks, err = svc.ListTechStacks()
	require.NoError(t, err)
	require.Empty(t, stacks)
}

func TestRoleResolvesTechStackRefs(t *testing.T) {
	svc, _ := newCatalogService(t)

	stack, err := svc.CreateTechStack(dto.TechStackUpsertRequest{Name: "Go"})
	require.NoError(t, err)

	role, err := svc.CreateRole(dto.RoleUpsertRequest{
		Name:       "Backend Engineer",
		TechStacks: []dto.Ref[dto.TechStackResponse]{{ID: stack.ID}},
	})
	require.NoError(t, err)
	require.Len(t, role.TechStacks, 1)
	require.Equal(t, "Go", role.TechStacks[0].Name)

	_, err = svc.CreateRole(dto.RoleUpsertRequest{
		Name:       "Phantom",
		TechStacks: []dto.Ref[dto.TechStackResponse]{{ID: 999}},
	})
	require.Error(t, err, "unknown tech stack references are rejected")
}

func TestAnsweredQuestionBecomesImmutable(t *testing.T) {
	svc, db := newCatalogService(t)

	stack, err := svc.CreateTechStack(dto.TechStackUpsertRequest{Name: "SQL"})
	require.NoError(t, err)
	question, err := svc.CreateQuestion(dto.QuestionUpsertRequest{
		TechStackID: stack.ID,
		Text:        "What is a join?",
		Difficulty:  model.DifficultyEasy,
	})
	require.NoError(t, err)

	// Mutable while unanswered.
	_, err = svc.UpdateQuestion(question.ID, dto.QuestionUpsertRequest{
		TechStackID: stack.ID,
		Text:        "Explain SQL joins",
		Difficulty:  model.DifficultyMedium,
	})
	require.NoError(t, err)

	candidate := model.User{Name: "Kim", Email: "kim@example.com", PasswordHash: "x", Role: model.RoleCandidate}
	require.NoError(t, db.Create(&candidate).Error)
	interview := model.Interview{CandidateID: candidate.ID, Status: model.InterviewStatusInProgress, ScheduledAt: time.Now(), DurationMinutes: 30}
	require.NoError(t, db.Create(&interview).Error)
	answer := model.Answer{InterviewID: interview.ID, QuestionID: question.ID, Transcript: "an inner join matches rows"}
	require.NoError(t, db.Create(&answer).Error)

	_, err = svc.UpdateQuestion(question.ID, dto.QuestionUpsertRequest{
		TechStackID: stack.ID,
		Text:        "changed again",
		Difficulty:  model.DifficultyHard,
	})
	require.Error(t, err, "answered questions cannot change")

	err = svc.DeleteQuestion(question.ID)
	require.Error(t, err, "answered questions cannot be deleted")
}

func TestListQuestionsFiltersByTechStack(t *testing.T) {
	svc, _ := newCatalogService(t)

	goStack, err := svc.CreateTechStack(dto.TechStackUpsertRequest{Name: "Go"})
	require.NoError(t, err)
	sqlStack, err := svc.CreateTechStack(dto.TechStackUpsertRequest{Name: "SQL"})
	require.NoError(t, err)

	_, err = svc.CreateQuestion(dto.QuestionUpsertRequest{TechStackID: goStack.ID, Text: "Explain defer", Difficulty: model.DifficultyEasy})
	require.NoError(t, err)
	_, err = svc.CreateQuestion(dto.QuestionUpsertRequest{TechStackID: sqlStack.ID, Text: "Explain indexes", Difficulty: model.DifficultyEasy})
	require.NoError(t, err)

	all, err := svc.ListQuestions(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := svc.ListQuestions(&goStack.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Explain defer", filtered[0].Text)
}
