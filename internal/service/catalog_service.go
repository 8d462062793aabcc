package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/rs/zerolog/log"
)

// CatalogService is the admin CRUD surface for tech stacks, roles and
// questions. Questions become immutable once an answer references them.
type CatalogService interface {
	CreateTechStack(req dto.TechStackUpsertRequest) (*dto.TechStackResponse, error)
	ListTechStacks() ([]dto.TechStackResponse, error)
	UpdateTechStack(id uint, req dto.TechStackUpsertRequest) (*dto.TechStackResponse, error)
	DeleteTechStack(id uint) error

	CreateRole(req dto.RoleUpsertRequest) (*dto.RoleResponse, error)
	ListRoles() ([]dto.RoleResponse, error)
	UpdateRole(id uint, req dto.RoleUpsertRequest) (*dto.RoleResponse, error)
	DeleteRole(id uint) error

	CreateQuestion(req dto.QuestionUpsertRequest) (*dto.QuestionResponse, error)
	ListQuestions(techStackID *uint) ([]dto.QuestionResponse, error)
	UpdateQuestion(id uint, req dto.QuestionUpsertRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(id uint) error
}

type catalogService struct {
	stackRepo    repository.TechStackRepository
	roleRepo     repository.RoleRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

func NewCatalogService(
	stackRepo repository.TechStackRepository,
	roleRepo repository.RoleRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
) CatalogService {
	return &catalogService{
		stackRepo:    stackRepo,
		roleRepo:     roleRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

// --- Tech stacks ---

func (s *catalogService) CreateTechStack(req dto.TechStackUpsertRequest) (*dto.TechStackResponse, error) {
	stack := model.TechStack{Name: req.Name, Description: req.Description}
	if err := s.stackRepo.Create(&stack); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create tech stack")
		return nil, fmt.Errorf("failed to create tech stack: %w", err)
	}
	return techStackDTO(&stack)
}

func (s *catalogService) ListTechStacks() ([]dto.TechStackResponse, error) {
	stacks, err := s.stackRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching tech stacks: %w", err)
	}
	out := make([]dto.TechStackResponse, 0, len(stacks))
	for i := range stacks {
		resp, err := techStackDTO(&stacks[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *catalogService) UpdateTechStack(id uint, req dto.TechStackUpsertRequest) (*dto.TechStackResponse, error) {
	stack, err := s.stackRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("tech stack not found with ID %d: %w", id, err)
	}
	stack.Name = req.Name
	stack.Description = req.Description
	if err := s.stackRepo.Update(stack); err != nil {
		return nil, fmt.Errorf("failed to update tech stack: %w", err)
	}
	return techStackDTO(stack)
}

func (s *catalogService) DeleteTechStack(id uint) error {
	return s.stackRepo.Delete(id)
}

// --- Roles ---

func (s *catalogService) CreateRole(req dto.RoleUpsertRequest) (*dto.RoleResponse, error) {
	stacks, err := s.resolveStacks(req.TechStacks)
	if err != nil {
		return nil, err
	}
	role := model.Role{Name: req.Name, Description: req.Description, TechStacks: stacks}
	if err := s.roleRepo.Create(&role); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create role")
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return roleDTO(&role)
}

func (s *catalogService) ListRoles() ([]dto.RoleResponse, error) {
	roles, err := s.roleRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching roles: %w", err)
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		resp, err := roleDTO(&roles[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *catalogService) UpdateRole(id uint, req dto.RoleUpsertRequest) (*dto.RoleResponse, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("role not found with ID %d: %w", id, err)
	}
	role.Name = req.Name
	role.Description = req.Description
	if err := s.roleRepo.Update(role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if req.TechStacks != nil {
		stacks, err := s.resolveStacks(req.TechStacks)
		if err != nil {
			return nil, err
		}
		if err := s.roleRepo.ReplaceTechStacks(role, stacks); err != nil {
			return nil, fmt.Errorf("failed to update role tech stacks: %w", err)
		}
		role.TechStacks = stacks
	}
	return roleDTO(role)
}

func (s *catalogService) DeleteRole(id uint) error {
	return s.roleRepo.Delete(id)
}

// --- Questions ---

func (s *catalogService) CreateQuestion(req dto.QuestionUpsertRequest) (*dto.QuestionResponse, error) {
	if _, err := s.stackRepo.FindByID(req.TechStackID); err != nil {
		return nil, fmt.Errorf("tech stack not found with ID %d: %w", req.TechStackID, err)
	}
	question := model.Question{
		TechStackID: req.TechStackID,
		Text:        req.Text,
		Difficulty:  req.Difficulty,
	}
	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return questionDTO(&question)
}

func (s *catalogService) ListQuestions(techStackID *uint) ([]dto.QuestionResponse, error) {
	questions, err := s.questionRepo.FindAll(techStackID)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	out := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		resp, err := questionDTO(&questions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *catalogService) UpdateQuestion(id uint, req dto.QuestionUpsertRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("question not found with ID %d: %w", id, err)
	}
	if err := s.ensureQuestionMutable(id); err != nil {
		return nil, err
	}
	question.TechStackID = req.TechStackID
	question.Text = req.Text
	question.Difficulty = req.Difficulty
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return questionDTO(question)
}

func (s *catalogService) DeleteQuestion(id uint) error {
	if err := s.ensureQuestionMutable(id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

// ensureQuestionMutable rejects edits to a question that has been answered
// against: answered questions are immutable.
func (s *catalogService) ensureQuestionMutable(questionID uint) error {
	answered, err := s.answerRepo.ExistsForQuestion(questionID)
	if err != nil {
		return fmt.Errorf("failed to check question usage: %w", err)
	}
	if answered {
		return fmt.Errorf("question %d has recorded answers and can no longer be modified", questionID)
	}
	return nil
}

func (s *catalogService) resolveStacks(refs []dto.Ref[dto.TechStackResponse]) ([]model.TechStack, error) {
	ids := dto.RefIDs(refs)
	if len(ids) == 0 {
		return nil, nil
	}
	stacks, err := s.stackRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("error resolving tech stacks: %w", err)
	}
	if len(stacks) != len(ids) {
		return nil, fmt.Errorf("one or more tech stacks do not exist")
	}
	return stacks, nil
}

func techStackDTO(stack *model.TechStack) (*dto.TechStackResponse, error) {
	var resp dto.TechStackResponse
	if err := copier.Copy(&resp, stack); err != nil {
		return nil, fmt.Errorf("error preparing tech stack response: %w", err)
	}
	return &resp, nil
}

func roleDTO(role *model.Role) (*dto.RoleResponse, error) {
	var resp dto.RoleResponse
	if err := copier.Copy(&resp, role); err != nil {
		return nil, fmt.Errorf("error preparing role response: %w", err)
	}
	return &resp, nil
}

func questionDTO(question *model.Question) (*dto.QuestionResponse, error) {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, question); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}
