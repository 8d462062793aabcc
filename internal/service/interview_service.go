package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/rs/zerolog/log"
)

var (
	// ErrOutsideWindow is returned when a candidate tries to start an
	// interview before its scheduled slot or after the slot has ended.
	ErrOutsideWindow = errors.New("interview can only be started inside its scheduled window")
	// ErrInvalidTransition is returned for any status change the
	// forward-only lifecycle does not allow.
	ErrInvalidTransition = errors.New("interview status cannot change that way")
)

type InterviewService interface {
	Create(ctx context.Context, req dto.InterviewCreateRequest) (*dto.InterviewResponse, error)
	Get(id uint) (*dto.InterviewResponse, error)
	List(candidateID *uint) ([]dto.InterviewResponse, error)
	Update(id uint, req dto.InterviewUpdateRequest) (*dto.InterviewResponse, error)
	Start(id uint) (*dto.InterviewResponse, error)
	Cancel(id uint) (*dto.InterviewResponse, error)
	Finalize(ctx context.Context, id uint, req dto.FinalizeRequest) (*dto.FinalizeResponse, error)
	SendInvitation(ctx context.Context, id uint) error
}

type interviewService struct {
	interviewRepo repository.InterviewRepository
	answerRepo    repository.AnswerRepository
	stackRepo     repository.TechStackRepository
	roleRepo      repository.RoleRepository
	userRepo      repository.UserRepository
	evaluator     Evaluator
	fallback      HeuristicEvaluator
	email         EmailService
	now           func() time.Time
}

func NewInterviewService(
	interviewRepo repository.InterviewRepository,
	answerRepo repository.AnswerRepository,
	stackRepo repository.TechStackRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	evaluator Evaluator,
	fallback HeuristicEvaluator,
	email EmailService,
) InterviewService {
	return &interviewService{
		interviewRepo: interviewRepo,
		answerRepo:    answerRepo,
		stackRepo:     stackRepo,
		roleRepo:      roleRepo,
		userRepo:      userRepo,
		evaluator:     evaluator,
		fallback:      fallback,
		email:         email,
		now:           time.Now,
	}
}

func (s *interviewService) Create(ctx context.Context, req dto.InterviewCreateRequest) (*dto.InterviewResponse, error) {
	if _, err := s.userRepo.FindByID(req.CandidateID); err != nil {
		return nil, fmt.Errorf("candidate not found with ID %d: %w", req.CandidateID, err)
	}
	if req.RoleID != nil {
		if _, err := s.roleRepo.FindByID(*req.RoleID); err != nil {
			return nil, fmt.Errorf("role not found with ID %d: %w", *req.RoleID, err)
		}
	}
	stacks, err := s.resolveStacks(req.TechStacks)
	if err != nil {
		return nil, err
	}

	interview := model.Interview{
		CandidateID:     req.CandidateID,
		RoleID:          req.RoleID,
		TechStacks:      stacks,
		Status:          model.InterviewStatusScheduled,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.interviewRepo.Create(&interview); err != nil {
		log.Error().Err(err).Uint("candidateID", req.CandidateID).Msg("Failed to create interview")
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	detailed, err := s.interviewRepo.FindByIDWithDetails(interview.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching created interview: %w", err)
	}
	if s.email != nil {
		if err := s.email.SendInvitation(ctx, detailed); err != nil {
			log.Warn().Err(err).Uint("interviewID", interview.ID).Msg("Invitation email failed, interview was still scheduled")
		}
	}
	return interviewDTO(detailed)
}

func (s *interviewService) Get(id uint) (*dto.InterviewResponse, error) {
	interview, err := s.interviewRepo.FindByIDWithDetails(id)
	if err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", id, err)
	}
	return interviewDTO(interview)
}

func (s *interviewService) List(candidateID *uint) ([]dto.InterviewResponse, error) {
	interviews, err := s.interviewRepo.FindAll(candidateID)
	if err != nil {
		return nil, fmt.Errorf("error fetching interviews: %w", err)
	}
	out := make([]dto.InterviewResponse, 0, len(interviews))
	for i := range interviews {
		resp, err := interviewDTO(&interviews[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *interviewService) Update(id uint, req dto.InterviewUpdateRequest) (*dto.InterviewResponse, error) {
	interview, err := s.interviewRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", id, err)
	}

	if req.Status != nil && *req.Status != interview.Status {
		if !interview.CanTransitionTo(*req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, interview.Status, *req.Status)
		}
		interview.Status = *req.Status
		if *req.Status == model.InterviewStatusCompleted {
			now := s.now()
			interview.CompletedAt = &now
		}
	}
	if req.RoleID != nil {
		if _, err := s.roleRepo.FindByID(*req.RoleID); err != nil {
			return nil, fmt.Errorf("role not found with ID %d: %w", *req.RoleID, err)
		}
		interview.RoleID = req.RoleID
	}
	if req.ScheduledAt != nil {
		interview.ScheduledAt = *req.ScheduledAt
	}
	if req.DurationMinutes != nil {
		interview.DurationMinutes = *req.DurationMinutes
	}

	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	if req.TechStacks != nil {
		stacks, err := s.resolveStacks(req.TechStacks)
		if err != nil {
			return nil, err
		}
		if err := s.interviewRepo.ReplaceTechStacks(interview, stacks); err != nil {
			return nil, fmt.Errorf("failed to update interview tech stacks: %w", err)
		}
	}

	detailed, err := s.interviewRepo.FindByIDWithDetails(id)
	if err != nil {
		return nil, fmt.Errorf("error fetching updated interview: %w", err)
	}
	return interviewDTO(detailed)
}

// Start moves a scheduled interview to in-progress, but only inside the
// scheduled window. A candidate joining a minute early is turned away; one
// joining partway through the slot is let in.
func (s *interviewService) Start(id uint) (*dto.InterviewResponse, error) {
	interview, err := s.interviewRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", id, err)
	}
	if !interview.CanTransitionTo(model.InterviewStatusInProgress) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, interview.Status, model.InterviewStatusInProgress)
	}
	if !interview.WindowContains(s.now()) {
		return nil, ErrOutsideWindow
	}

	interview.Status = model.InterviewStatusInProgress
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to start interview: %w", err)
	}
	return interviewDTO(interview)
}

func (s *interviewService) Cancel(id uint) (*dto.InterviewResponse, error) {
	interview, err := s.interviewRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", id, err)
	}
	if !interview.CanTransitionTo(model.InterviewStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, interview.Status, model.InterviewStatusCancelled)
	}
	interview.Status = model.InterviewStatusCancelled
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to cancel interview: %w", err)
	}
	return interviewDTO(interview)
}

// Finalize durably persists any answers the session never confirmed, scores
// the ones that still have no evaluation, and closes the interview. Scoring
// problems degrade to warnings; only persistence of the interview row itself
// can fail the call.
func (s *interviewService) Finalize(ctx context.Context, id uint, req dto.FinalizeRequest) (*dto.FinalizeResponse, error) {
	interview, err := s.interviewRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", id, err)
	}
	if !interview.CanTransitionTo(model.InterviewStatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, interview.Status, model.InterviewStatusCompleted)
	}

	resp := &dto.FinalizeResponse{}
	resp.Persisted, resp.Failed = s.persistLeftovers(id, req.Answers)
	resp.Warnings = append(resp.Warnings, s.scoreUnscored(ctx, interview)...)

	now := s.now()
	interview.Status = model.InterviewStatusCompleted
	interview.CompletedAt = &now
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to complete interview: %w", err)
	}

	detailed, err := s.interviewRepo.FindByIDWithDetails(id)
	if err != nil {
		return nil, fmt.Errorf("error fetching finalized interview: %w", err)
	}
	out, err := interviewDTO(detailed)
	if err != nil {
		return nil, err
	}
	resp.Interview = *out
	return resp, nil
}

// persistLeftovers writes the session's unconfirmed answers, trying one
// transaction first and retrying item by item when the batch is rejected.
func (s *interviewService) persistLeftovers(interviewID uint, items []dto.AnswerUpsertRequest) (int, []dto.FinalizeFailure) {
	if len(items) == 0 {
		return 0, nil
	}
	answers := make([]*model.Answer, 0, len(items))
	for _, item := range items {
		item.InterviewID = interviewID
		answers = append(answers, answerFromRequest(item))
	}

	batchErr := s.answerRepo.BatchUpsert(answers)
	if batchErr == nil {
		return len(answers), nil
	}
	log.Warn().Err(batchErr).Uint("interviewID", interviewID).Int("count", len(answers)).
		Msg("Finalize batch rejected, retrying answers individually")

	persisted := 0
	var failed []dto.FinalizeFailure
	for _, answer := range answers {
		if err := s.answerRepo.Upsert(answer); err != nil {
			failed = append(failed, dto.FinalizeFailure{QuestionID: answer.QuestionID, Reason: err.Error()})
			continue
		}
		persisted++
	}
	return persisted, failed
}

// scoreUnscored evaluates every stored answer that has no score yet, so a
// finalized interview never carries unevaluated material.
func (s *interviewService) scoreUnscored(ctx context.Context, interview *model.Interview) []string {
	answers, err := s.answerRepo.FindByInterviewID(interview.ID)
	if err != nil {
		log.Error().Err(err).Uint("interviewID", interview.ID).Msg("Could not load answers for final scoring")
		return []string{"stored answers could not be loaded for scoring"}
	}

	var warnings []string
	for i := range answers {
		answer := &answers[i]
		if answer.Score != nil {
			continue
		}
		eval, err := s.evaluate(ctx, EvaluationInput{
			Question:     answer.Question.Text,
			Transcript:   answer.Transcript,
			Code:         answer.Code,
			CodeLanguage: answer.CodeLanguage,
			TechStack:    answer.Question.TechStack.Name,
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("answer to question %d could not be scored", answer.QuestionID))
			continue
		}
		score := eval.Score
		answer.Score = &score
		answer.Feedback = eval.Feedback
		answer.Criteria = eval.Criteria
		if err := s.answerRepo.Update(answer); err != nil {
			log.Error().Err(err).Uint("answerID", answer.ID).Msg("Failed to store final evaluation")
			warnings = append(warnings, fmt.Sprintf("evaluation of question %d could not be stored", answer.QuestionID))
		}
	}
	return warnings
}

func (s *interviewService) evaluate(ctx context.Context, in EvaluationInput) (*Evaluation, error) {
	eval, err := s.evaluator.Evaluate(ctx, in)
	if err == nil {
		return eval, nil
	}
	log.Warn().Err(err).Msg("Primary evaluation failed during finalize, using heuristic scoring")
	return s.fallback.Evaluate(ctx, in)
}

// SendInvitation re-sends the invitation email for a scheduled interview.
func (s *interviewService) SendInvitation(ctx context.Context, id uint) error {
	interview, err := s.interviewRepo.FindByIDWithDetails(id)
	if err != nil {
		return fmt.Errorf("interview not found with ID %d: %w", id, err)
	}
	if s.email == nil {
		return fmt.Errorf("email delivery is not configured")
	}
	return s.email.SendInvitation(ctx, interview)
}

func (s *interviewService) resolveStacks(refs []dto.Ref[dto.TechStackResponse]) ([]model.TechStack, error) {
	ids := dto.RefIDs(refs)
	stacks, err := s.stackRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching tech stacks: %w", err)
	}
	if len(stacks) != len(ids) {
		return nil, fmt.Errorf("one or more tech stacks do not exist")
	}
	return stacks, nil
}

func interviewDTO(interview *model.Interview) (*dto.InterviewResponse, error) {
	var resp dto.InterviewResponse
	if err := copier.Copy(&resp, interview); err != nil {
		return nil, fmt.Errorf("error preparing interview response: %w", err)
	}
	if interview.Candidate.ID == 0 {
		resp.Candidate = nil
	}
	return &resp, nil
}
