package session

import (
	"errors"
	"sort"
	"time"
)

// Phase is where the candidate currently is within one interview session.
type Phase string

const (
	PhaseNotStarted      Phase = "not-started"
	PhaseQuestionPending Phase = "question-pending"
	PhaseAnswering       Phase = "answering"
	PhaseSaved           Phase = "saved"
	PhaseComplete        Phase = "complete"
)

const (
	// QuestionTime is how long a candidate gets per question.
	QuestionTime = 120 * time.Second
	// WarningLead is how far before the deadline the single time warning fires.
	WarningLead = 30 * time.Second
	// GracePeriod still accepts a save that arrives just after the deadline.
	GracePeriod = 5 * time.Second
)

var (
	ErrWrongPhase   = errors.New("operation not allowed in this session phase")
	ErrTimeExpired  = errors.New("the time for this question has expired")
	ErrNoQuestions  = errors.New("session has no questions")
	ErrOutOfSession = errors.New("question is not part of this session")
)

// Machine is the per-interview session state machine. Timers are stored as
// deadlines and evaluated against a caller-supplied clock, so state only
// moves when Tick or one of the transitions is called. Not safe for
// concurrent use; callers serialize access.
type Machine struct {
	interviewID uint
	questionIDs []uint
	index       int
	answered    map[uint]bool
	phase       Phase
	deadline    time.Time
	warned      bool
	timedOut    bool
}

func NewMachine(interviewID uint, questionIDs []uint) (*Machine, error) {
	if len(questionIDs) == 0 {
		return nil, ErrNoQuestions
	}
	ids := make([]uint, len(questionIDs))
	copy(ids, questionIDs)
	return &Machine{
		interviewID: interviewID,
		questionIDs: ids,
		answered:    make(map[uint]bool),
		phase:       PhaseNotStarted,
	}, nil
}

func (m *Machine) InterviewID() uint { return m.interviewID }
func (m *Machine) Phase() Phase      { return m.phase }
func (m *Machine) QuestionIndex() int {
	return m.index
}
func (m *Machine) QuestionCount() int { return len(m.questionIDs) }

// CurrentQuestionID returns 0 once the session is complete.
func (m *Machine) CurrentQuestionID() uint {
	if m.phase == PhaseComplete || m.index >= len(m.questionIDs) {
		return 0
	}
	return m.questionIDs[m.index]
}

// AnsweredIDs returns the saved question IDs in ascending order. The set
// only ever grows; skips and timeouts never remove an earlier save.
func (m *Machine) AnsweredIDs() []uint {
	ids := make([]uint, 0, len(m.answered))
	for id := range m.answered {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Begin presents the first question.
func (m *Machine) Begin() error {
	if m.phase != PhaseNotStarted {
		return ErrWrongPhase
	}
	m.phase = PhaseQuestionPending
	return nil
}

// StartAnswering arms the question timer.
func (m *Machine) StartAnswering(now time.Time) error {
	if m.phase != PhaseQuestionPending {
		return ErrWrongPhase
	}
	m.phase = PhaseAnswering
	m.deadline = now.Add(QuestionTime)
	m.warned = false
	m.timedOut = false
	return nil
}

// TickResult is what one clock evaluation observed.
type TickResult struct {
	// Warning is true on exactly the first tick inside the warning lead.
	Warning bool
	// TimedOut is true once the deadline plus grace has passed; the
	// question returns to pending, unanswered, and can be re-attempted.
	TimedOut bool
}

// Tick evaluates the timer against now. It is idempotent between
// transitions: the warning fires once, and expiry puts the same question
// back to pending without touching the answered set.
func (m *Machine) Tick(now time.Time) TickResult {
	if m.phase != PhaseAnswering {
		return TickResult{TimedOut: m.timedOut}
	}
	var res TickResult
	if !m.warned && !now.Before(m.deadline.Add(-WarningLead)) {
		m.warned = true
		res.Warning = true
	}
	if now.After(m.deadline.Add(GracePeriod)) {
		m.timedOut = true
		m.phase = PhaseQuestionPending
		res.TimedOut = true
	}
	return res
}

// Remaining reports the time left on the current question, floored at zero.
func (m *Machine) Remaining(now time.Time) time.Duration {
	if m.phase != PhaseAnswering {
		return 0
	}
	left := m.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Save records the current question as answered. Saves are accepted while
// answering and through the short grace after the deadline.
func (m *Machine) Save(now time.Time, questionID uint) error {
	if m.phase != PhaseAnswering {
		return ErrWrongPhase
	}
	if questionID != m.CurrentQuestionID() {
		return ErrOutOfSession
	}
	if now.After(m.deadline.Add(GracePeriod)) {
		m.timedOut = true
		m.phase = PhaseQuestionPending
		return ErrTimeExpired
	}
	m.answered[questionID] = true
	m.phase = PhaseSaved
	return nil
}

// Skip closes the current question without an answer.
func (m *Machine) Skip() error {
	if m.phase != PhaseQuestionPending && m.phase != PhaseAnswering {
		return ErrWrongPhase
	}
	m.phase = PhaseSaved
	return nil
}

// Next advances to the following question, or completes the session after
// the last one.
func (m *Machine) Next() error {
	if m.phase != PhaseSaved {
		return ErrWrongPhase
	}
	if m.index+1 >= len(m.questionIDs) {
		m.phase = PhaseComplete
		return nil
	}
	m.index++
	m.phase = PhaseQuestionPending
	m.timedOut = false
	return nil
}

func (m *Machine) TimedOut() bool { return m.timedOut }

// Snapshot captures the machine for persistence.
func (m *Machine) Snapshot(now time.Time) *Progress {
	return &Progress{
		InterviewID: m.interviewID,
		QuestionIDs: append([]uint(nil), m.questionIDs...),
		Index:       m.index,
		AnsweredIDs: m.AnsweredIDs(),
		Phase:       m.phase,
		Deadline:    m.deadline,
		Warned:      m.warned,
		TimedOut:    m.timedOut,
		UpdatedAt:   now,
	}
}

// Restore rebuilds a machine from a stored snapshot.
func Restore(p *Progress) (*Machine, error) {
	m, err := NewMachine(p.InterviewID, p.QuestionIDs)
	if err != nil {
		return nil, err
	}
	m.index = p.Index
	m.phase = p.Phase
	m.deadline = p.Deadline
	m.warned = p.Warned
	m.timedOut = p.TimedOut
	for _, id := range p.AnsweredIDs {
		m.answered[id] = true
	}
	return m, nil
}
