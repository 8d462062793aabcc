package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleProgress(updatedAt time.Time) *Progress {
	return &Progress{
		InterviewID: 7,
		QuestionIDs: []uint{1, 2, 3},
		Index:       1,
		AnsweredIDs: []uint{1},
		Phase:       PhaseQuestionPending,
		UpdatedAt:   updatedAt,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Load(ctx, 7)
	require.ErrorIs(t, err, ErrProgressNotFound)

	saved := sampleProgress(t0)
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, saved, loaded)

	// The store holds a copy, not the caller's pointer.
	saved.Index = 99
	loaded, err = store.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Index)

	require.NoError(t, store.Delete(ctx, 7))
	_, err = store.Load(ctx, 7)
	require.ErrorIs(t, err, ErrProgressNotFound)
}

type failingStore struct {
	err error
}

func (s *failingStore) Save(context.Context, *Progress) error         { return s.err }
func (s *failingStore) Load(context.Context, uint) (*Progress, error) { return nil, s.err }
func (s *failingStore) Delete(context.Context, uint) error            { return s.err }

func TestRedundantStorePrefersFreshestCopy(t *testing.T) {
	ctx := context.Background()
	older := NewMemoryStore()
	newer := NewMemoryStore()
	require.NoError(t, older.Save(ctx, sampleProgress(t0)))

	fresh := sampleProgress(t0.Add(time.Minute))
	fresh.Index = 2
	require.NoError(t, newer.Save(ctx, fresh))

	store := NewRedundantStore(older, newer)
	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Index)
}

func TestRedundantStoreSurvivesOneFailingSide(t *testing.T) {
	ctx := context.Background()
	healthy := NewMemoryStore()
	broken := &failingStore{err: errors.New("connection refused")}

	store := NewRedundantStore(broken, healthy)
	require.NoError(t, store.Save(ctx, sampleProgress(t0)))

	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), loaded.InterviewID)
}

func TestRedundantStoreFailsWhenBothSidesFail(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	store := NewRedundantStore(&failingStore{err: boom}, &failingStore{err: boom})
	require.ErrorIs(t, store.Save(ctx, sampleProgress(t0)), boom)
}
