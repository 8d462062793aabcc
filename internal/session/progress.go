package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Progress is the persisted form of a session machine. It is written after
// every transition so an interrupted session can resume mid-question.
type Progress struct {
	InterviewID uint      `json:"interview_id"`
	QuestionIDs []uint    `json:"question_ids"`
	Index       int       `json:"index"`
	AnsweredIDs []uint    `json:"answered_ids"`
	Phase       Phase     `json:"phase"`
	Deadline    time.Time `json:"deadline"`
	Warned      bool      `json:"warned"`
	TimedOut    bool      `json:"timed_out"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrProgressNotFound is returned when no snapshot exists for an interview.
var ErrProgressNotFound = errors.New("no session progress stored")

type ProgressStore interface {
	Save(ctx context.Context, p *Progress) error
	Load(ctx context.Context, interviewID uint) (*Progress, error)
	Delete(ctx context.Context, interviewID uint) error
}

// --- in-memory store ---

type memoryStore struct {
	mu        sync.RWMutex
	snapshots map[uint]Progress
}

func NewMemoryStore() ProgressStore {
	return &memoryStore{snapshots: make(map[uint]Progress)}
}

func (s *memoryStore) Save(_ context.Context, p *Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[p.InterviewID] = *p
	return nil
}

func (s *memoryStore) Load(_ context.Context, interviewID uint) (*Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.snapshots[interviewID]
	if !ok {
		return nil, ErrProgressNotFound
	}
	return &p, nil
}

func (s *memoryStore) Delete(_ context.Context, interviewID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, interviewID)
	return nil
}

// --- redis store ---

// progressTTL keeps abandoned sessions from accumulating.
const progressTTL = 24 * time.Hour

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) ProgressStore {
	return &redisStore{client: client}
}

func progressKey(interviewID uint) string {
	return fmt.Sprintf("session:progress:%d", interviewID)
}

func (s *redisStore) Save(ctx context.Context, p *Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode session progress: %w", err)
	}
	return s.client.Set(ctx, progressKey(p.InterviewID), data, progressTTL).Err()
}

func (s *redisStore) Load(ctx context.Context, interviewID uint) (*Progress, error) {
	data, err := s.client.Get(ctx, progressKey(interviewID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode session progress: %w", err)
	}
	return &p, nil
}

func (s *redisStore) Delete(ctx context.Context, interviewID uint) error {
	return s.client.Del(ctx, progressKey(interviewID)).Err()
}

// --- redundant store ---

// redundantStore mirrors every snapshot into two stores and reads back
// whichever copy is freshest, so losing either store loses no progress.
type redundantStore struct {
	primary   ProgressStore
	secondary ProgressStore
}

func NewRedundantStore(primary, secondary ProgressStore) ProgressStore {
	return &redundantStore{primary: primary, secondary: secondary}
}

func (s *redundantStore) Save(ctx context.Context, p *Progress) error {
	primaryErr := s.primary.Save(ctx, p)
	secondaryErr := s.secondary.Save(ctx, p)
	if primaryErr != nil && secondaryErr != nil {
		return primaryErr
	}
	if primaryErr != nil {
		log.Warn().Err(primaryErr).Uint("interviewID", p.InterviewID).Msg("Primary progress store write failed, secondary copy kept")
	}
	if secondaryErr != nil {
		log.Warn().Err(secondaryErr).Uint("interviewID", p.InterviewID).Msg("Secondary progress store write failed, primary copy kept")
	}
	return nil
}

func (s *redundantStore) Load(ctx context.Context, interviewID uint) (*Progress, error) {
	first, firstErr := s.primary.Load(ctx, interviewID)
	second, secondErr := s.secondary.Load(ctx, interviewID)
	switch {
	case firstErr == nil && secondErr == nil:
		if second.UpdatedAt.After(first.UpdatedAt) {
			return second, nil
		}
		return first, nil
	case firstErr == nil:
		return first, nil
	case secondErr == nil:
		return second, nil
	case errors.Is(firstErr, ErrProgressNotFound) || errors.Is(secondErr, ErrProgressNotFound):
		return nil, ErrProgressNotFound
	default:
		return nil, firstErr
	}
}

func (s *redundantStore) Delete(ctx context.Context, interviewID uint) error {
	primaryErr := s.primary.Delete(ctx, interviewID)
	secondaryErr := s.secondary.Delete(ctx, interviewID)
	if primaryErr != nil {
		return primaryErr
	}
	return secondaryErr
}
