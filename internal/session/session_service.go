package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/repository"
	"github.com/lehuyba/InterviewAce/internal/service"
	"github.com/rs/zerolog/log"
)

var ErrInterviewNotLive = errors.New("interview is not in progress")

// Service drives one session machine per live interview. Machines live in
// memory and every transition is snapshotted to the progress store, so a
// session survives a process restart mid-question.
type Service struct {
	interviewRepo repository.InterviewRepository
	questionRepo  repository.QuestionRepository
	assembler     service.AnswerAssembler
	store         ProgressStore

	mu       sync.Mutex
	machines map[uint]*Machine
	now      func() time.Time
}

func NewService(
	interviewRepo repository.InterviewRepository,
	questionRepo repository.QuestionRepository,
	assembler service.AnswerAssembler,
	store ProgressStore,
) *Service {
	return &Service{
		interviewRepo: interviewRepo,
		questionRepo:  questionRepo,
		assembler:     assembler,
		store:         store,
		machines:      make(map[uint]*Machine),
		now:           time.Now,
	}
}

// Start creates (or resumes) the session for an in-progress interview and
// presents its first question.
func (s *Service) Start(ctx context.Context, interviewID uint) (*dto.SessionStateResponse, error) {
	interview, err := s.interviewRepo.FindByIDWithDetails(interviewID)
	if err != nil {
		return nil, fmt.Errorf("interview not found with ID %d: %w", interviewID, err)
	}
	if interview.Status != model.InterviewStatusInProgress {
		return nil, ErrInterviewNotLive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	machine, err := s.machineLocked(ctx, interviewID)
	if err == nil {
		// Already running or resumed from a snapshot.
		return s.stateLocked(ctx, machine, TickResult{}), nil
	}
	if !errors.Is(err, ErrProgressNotFound) {
		return nil, err
	}

	questionIDs, err := s.questionIDsFor(interview)
	if err != nil {
		return nil, err
	}
	machine, err = NewMachine(interviewID, questionIDs)
	if err != nil {
		return nil, err
	}
	if err := machine.Begin(); err != nil {
		return nil, err
	}
	s.machines[interviewID] = machine
	return s.stateLocked(ctx, machine, TickResult{}), nil
}

// State evaluates the clock and reports where the session stands. This is
// what a client polls; the warning flag is delivered on exactly one response.
func (s *Service) State(ctx context.Context, interviewID uint) (*dto.SessionStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine, err := s.machineLocked(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	tick := machine.Tick(s.now())
	return s.stateLocked(ctx, machine, tick), nil
}

// StartAnswering arms the timer for the pending question.
func (s *Service) StartAnswering(ctx context.Context, interviewID uint) (*dto.SessionStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine, err := s.machineLocked(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if err := machine.StartAnswering(s.now()); err != nil {
		return nil, err
	}
	return s.stateLocked(ctx, machine, TickResult{}), nil
}

// SubmitResult is a saved answer together with the session's new position.
type SubmitResult struct {
	Answer   *model.Answer             `json:"answer"`
	Warnings []string                  `json:"warnings,omitempty"`
	State    *dto.SessionStateResponse `json:"state"`
}

// SubmitAnswer runs the answer pipeline for the current question and marks
// it answered. A submission landing after the grace period is rejected and
// the question closes unanswered.
func (s *Service) SubmitAnswer(ctx context.Context, interviewID uint, in service.AssembleInput) (*SubmitResult, error) {
	s.mu.Lock()
	machine, err := s.machineLocked(ctx, interviewID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	now := s.now()
	machine.Tick(now)
	if machine.Phase() != PhaseAnswering {
		state := s.stateLocked(ctx, machine, TickResult{TimedOut: machine.TimedOut()})
		s.mu.Unlock()
		if machine.TimedOut() {
			return &SubmitResult{State: state}, ErrTimeExpired
		}
		return nil, ErrWrongPhase
	}
	s.mu.Unlock()

	// The pipeline runs outside the lock; transcription and evaluation can
	// take seconds.
	in.InterviewID = interviewID
	outcome := s.assembler.Assemble(ctx, in)
	if outcome.IsFailed() {
		return nil, outcome.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	saveErr := machine.Save(s.now(), in.QuestionID)
	state := s.stateLocked(ctx, machine, TickResult{TimedOut: machine.TimedOut()})
	if saveErr != nil {
		// The answer itself was stored; only the session credit is lost.
		return &SubmitResult{Answer: outcome.Value(), Warnings: outcome.Warnings(), State: state}, saveErr
	}
	return &SubmitResult{Answer: outcome.Value(), Warnings: outcome.Warnings(), State: state}, nil
}

// Skip closes the current question without an answer.
func (s *Service) Skip(ctx context.Context, interviewID uint) (*dto.SessionStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine, err := s.machineLocked(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if err := machine.Skip(); err != nil {
		return nil, err
	}
	return s.stateLocked(ctx, machine, TickResult{}), nil
}

// Next advances past a closed question; after the last one the session
// completes and its snapshot is discarded.
func (s *Service) Next(ctx context.Context, interviewID uint) (*dto.SessionStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine, err := s.machineLocked(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if err := machine.Next(); err != nil {
		return nil, err
	}
	state := s.stateLocked(ctx, machine, TickResult{})
	if machine.Phase() == PhaseComplete {
		delete(s.machines, interviewID)
		if err := s.store.Delete(ctx, interviewID); err != nil {
			log.Warn().Err(err).Uint("interviewID", interviewID).Msg("Failed to drop completed session snapshot")
		}
	}
	return state, nil
}

// machineLocked fetches the running machine, falling back to the progress
// store after a restart. Caller holds s.mu.
func (s *Service) machineLocked(ctx context.Context, interviewID uint) (*Machine, error) {
	if machine, ok := s.machines[interviewID]; ok {
		return machine, nil
	}
	progress, err := s.store.Load(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	machine, err := Restore(progress)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("interviewID", interviewID).Str("phase", string(machine.Phase())).Msg("Resumed session from stored progress")
	s.machines[interviewID] = machine
	return machine, nil
}

// stateLocked snapshots the machine and builds the client view. Caller
// holds s.mu.
func (s *Service) stateLocked(ctx context.Context, m *Machine, tick TickResult) *dto.SessionStateResponse {
	now := s.now()
	if m.Phase() != PhaseComplete {
		if err := s.store.Save(ctx, m.Snapshot(now)); err != nil {
			log.Warn().Err(err).Uint("interviewID", m.InterviewID()).Msg("Failed to persist session progress")
		}
	}
	state := &dto.SessionStateResponse{
		InterviewID:      m.InterviewID(),
		Phase:            string(m.Phase()),
		QuestionIndex:    m.QuestionIndex(),
		QuestionID:       m.CurrentQuestionID(),
		QuestionCount:    m.QuestionCount(),
		AnsweredIDs:      m.AnsweredIDs(),
		RemainingSeconds: m.Remaining(now).Seconds(),
		Warning:          tick.Warning,
		TimedOut:         tick.TimedOut || m.TimedOut(),
	}
	if state.QuestionID != 0 {
		question, err := s.questionRepo.FindByID(state.QuestionID)
		if err != nil {
			log.Warn().Err(err).Uint("questionID", state.QuestionID).Msg("Could not load the current question's text")
		} else {
			state.QuestionText = question.Text
			state.Difficulty = question.Difficulty
		}
	}
	return state
}

// questionIDsFor picks the question set for an interview from its tech
// stacks, or from its role's stacks when none were pinned directly.
func (s *Service) questionIDsFor(interview *model.Interview) ([]uint, error) {
	stacks := interview.TechStacks
	if len(stacks) == 0 && interview.Role != nil {
		stacks = interview.Role.TechStacks
	}
	ids := make([]uint, 0, len(stacks))
	for _, stack := range stacks {
		ids = append(ids, stack.ID)
	}
	questions, err := s.questionRepo.FindByTechStackIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching interview questions: %w", err)
	}
	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}
	if len(questionIDs) == 0 {
		return nil, ErrNoQuestions
	}
	return questionIDs, nil
}
