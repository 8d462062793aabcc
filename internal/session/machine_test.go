package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func newAnsweringMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := NewMachine(1, []uint{11, 12, 13})
	require.NoError(t, err)
	require.NoError(t, m.Begin())
	require.NoError(t, m.StartAnswering(t0))
	return m
}

func TestNewMachineRequiresQuestions(t *testing.T) {
	_, err := NewMachine(1, nil)
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestHappyPathThroughAllQuestions(t *testing.T) {
	m, err := NewMachine(1, []uint{11, 12})
	require.NoError(t, err)
	require.Equal(t, PhaseNotStarted, m.Phase())

	require.NoError(t, m.Begin())
	require.Equal(t, PhaseQuestionPending, m.Phase())
	require.Equal(t, uint(11), m.CurrentQuestionID())

	require.NoError(t, m.StartAnswering(t0))
	require.NoError(t, m.Save(t0.Add(30*time.Second), 11))
	require.NoError(t, m.Next())
	require.Equal(t, uint(12), m.CurrentQuestionID())

	require.NoError(t, m.StartAnswering(t0.Add(time.Minute)))
	require.NoError(t, m.Save(t0.Add(2*time.Minute), 12))
	require.NoError(t, m.Next())

	require.Equal(t, PhaseComplete, m.Phase())
	require.Equal(t, uint(0), m.CurrentQuestionID())
	require.Equal(t, []uint{11, 12}, m.AnsweredIDs())
}

func TestWarningFiresExactlyOnce(t *testing.T) {
	m := newAnsweringMachine(t)

	res := m.Tick(t0.Add(QuestionTime - WarningLead - time.Second))
	require.False(t, res.Warning)

	res = m.Tick(t0.Add(QuestionTime - WarningLead))
	require.True(t, res.Warning)

	res = m.Tick(t0.Add(QuestionTime - WarningLead + time.Second))
	require.False(t, res.Warning)
}

func TestExpiryReturnsToPendingWithoutAnswering(t *testing.T) {
	m := newAnsweringMachine(t)

	// Inside grace nothing happens yet.
	res := m.Tick(t0.Add(QuestionTime + GracePeriod))
	require.False(t, res.TimedOut)
	require.Equal(t, PhaseAnswering, m.Phase())

	res = m.Tick(t0.Add(QuestionTime + GracePeriod + time.Second))
	require.True(t, res.TimedOut)
	require.Equal(t, PhaseQuestionPending, m.Phase())
	require.Equal(t, uint(11), m.CurrentQuestionID())
	require.Empty(t, m.AnsweredIDs())
}

func TestSaveInsideGraceCounts(t *testing.T) {
	m := newAnsweringMachine(t)
	require.NoError(t, m.Save(t0.Add(QuestionTime+GracePeriod), 11))
	require.Equal(t, []uint{11}, m.AnsweredIDs())
}

func TestSaveAfterGraceRejected(t *testing.T) {
	m := newAnsweringMachine(t)
	err := m.Save(t0.Add(QuestionTime+GracePeriod+time.Second), 11)
	require.ErrorIs(t, err, ErrTimeExpired)
	require.Empty(t, m.AnsweredIDs())
	require.Equal(t, PhaseQuestionPending, m.Phase())
}

func TestSaveWrongQuestionRejected(t *testing.T) {
	m := newAnsweringMachine(t)
	require.ErrorIs(t, m.Save(t0, 12), ErrOutOfSession)
}

func TestRemainingFloorsAtZero(t *testing.T) {
	m := newAnsweringMachine(t)
	require.Equal(t, QuestionTime, m.Remaining(t0))
	require.Equal(t, 30*time.Second, m.Remaining(t0.Add(QuestionTime-30*time.Second)))
	require.Equal(t, time.Duration(0), m.Remaining(t0.Add(QuestionTime+time.Minute)))
}

func TestSkipClosesWithoutAnswer(t *testing.T) {
	m := newAnsweringMachine(t)
	require.NoError(t, m.Skip())
	require.NoError(t, m.Next())
	require.Equal(t, uint(12), m.CurrentQuestionID())
	require.Empty(t, m.AnsweredIDs())
}

func TestSnapshotRestoreKeepsProgress(t *testing.T) {
	m := newAnsweringMachine(t)
	require.NoError(t, m.Save(t0.Add(time.Minute), 11))
	require.NoError(t, m.Next())

	restored, err := Restore(m.Snapshot(t0.Add(time.Minute)))
	require.NoError(t, err)
	require.Equal(t, m.Phase(), restored.Phase())
	require.Equal(t, m.QuestionIndex(), restored.QuestionIndex())
	require.Equal(t, m.AnsweredIDs(), restored.AnsweredIDs())
	require.Equal(t, m.CurrentQuestionID(), restored.CurrentQuestionID())
}

func TestAnsweredSetIsMonotonic(t *testing.T) {
	m := newAnsweringMachine(t)
	require.NoError(t, m.Save(t0, 11))
	require.NoError(t, m.Next())

	// Answer the next question after its timer expires; the earlier save
	// must survive the expiry.
	require.NoError(t, m.StartAnswering(t0.Add(5*time.Minute)))
	m.Tick(t0.Add(10 * time.Minute))
	require.Equal(t, []uint{11}, m.AnsweredIDs())

	require.NoError(t, m.StartAnswering(t0.Add(10*time.Minute)))
	require.NoError(t, m.Save(t0.Add(11*time.Minute), 12))
	require.Equal(t, []uint{11, 12}, m.AnsweredIDs())
}
