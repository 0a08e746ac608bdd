package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrPersistFailed   = errors.New("persist failed")
)

// ProgressStore owns the in-memory canonical profile of the active learner.
// It is the only writer of the session record while a session is active.
//
// Memory is authoritative: when a write to storage fails the new state is
// kept, the store is marked dirty and the write is retried on the next
// mutation or Flush.
type ProgressStore struct {
	mu      sync.RWMutex
	repo    SessionRepository
	logger  *zap.Logger
	profile *entities.LearnerProfile
	dirty   bool
}

// NewProgressStore creates a new ProgressStore.
func NewProgressStore(repo SessionRepository, logger *zap.Logger) *ProgressStore {
	return &ProgressStore{
		repo:   repo,
		logger: logger,
	}
}

// Current returns a snapshot of the canonical profile.
func (s *ProgressStore) Current() (*entities.LearnerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil, ErrNoActiveSession
	}
	return s.profile.Clone(), nil
}

// Active reports whether a profile is loaded.
func (s *ProgressStore) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil
}

// Dirty reports whether the last write to storage failed.
func (s *ProgressStore) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Load reads the stored session and makes it canonical.
func (s *ProgressStore) Load(ctx context.Context) (*entities.LearnerProfile, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.Adopt(p)
	return p, nil
}

// Adopt makes p the canonical profile without writing it.
// Used when the profile was just read from storage.
func (s *ProgressStore) Adopt(p *entities.LearnerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = p.Clone()
	s.dirty = false
}

// Resume makes the stored profile canonical. When memory holds the same
// learner with changes that failed to persist, memory is kept and the write
// is retried instead. It returns the profile that is now canonical.
func (s *ProgressStore) Resume(ctx context.Context, stored *entities.LearnerProfile) *entities.LearnerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile != nil && s.dirty && s.profile.UID == stored.UID {
		_ = s.persistLocked(ctx)
		return s.profile.Clone()
	}

	s.profile = stored.Clone()
	s.dirty = false
	return stored
}

// Replace makes p the canonical profile and persists it. Unlike Update it
// does not protect monotonic fields, so it is reserved for session creation
// and resets.
func (s *ProgressStore) Replace(ctx context.Context, p *entities.LearnerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = p.Clone()
	return s.persistLocked(ctx)
}

// Update applies fn to a copy of the canonical profile and commits the
// result. Completed lessons and badges are never removed and experience
// never goes down, whatever fn does.
//
// If fn fails nothing changes. If storage fails the update stays in memory
// and the returned error wraps ErrPersistFailed.
func (s *ProgressStore) Update(ctx context.Context, fn func(p *entities.LearnerProfile) error) (*entities.LearnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, ErrNoActiveSession
	}

	before := s.profile
	next := before.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	next.CompletedLessons = entities.UnionInto(next.CompletedLessons, before.CompletedLessons...)
	next.Badges = entities.UnionInto(next.Badges, before.Badges...)
	next.XP = max(next.XP, before.XP)

	s.profile = next
	if err := s.persistLocked(ctx); err != nil {
		return next.Clone(), err
	}
	return next.Clone(), nil
}

// Merge applies a stats patch directly to the canonical profile.
func (s *ProgressStore) Merge(ctx context.Context, patch entities.StatsPatch) (*entities.LearnerProfile, error) {
	return s.Update(ctx, func(p *entities.LearnerProfile) error {
		patch.ApplyTo(p)
		return nil
	})
}

// AppendError adds a missed exercise to the error history.
func (s *ProgressStore) AppendError(ctx context.Context, entry entities.ErrorLog) error {
	_, err := s.Update(ctx, func(p *entities.LearnerProfile) error {
		p.ErrorHistory = append(p.ErrorHistory, entry)
		return nil
	})
	return err
}

// Flush retries a failed write. It is a no-op when storage is up to date.
func (s *ProgressStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil || !s.dirty {
		return nil
	}
	return s.persistLocked(ctx)
}

// Reset forgets the in-memory profile. Storage is left untouched.
func (s *ProgressStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = nil
	s.dirty = false
}

func (s *ProgressStore) persistLocked(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.profile); err != nil {
		s.dirty = true
		s.logger.Warn("failed to persist profile, keeping in-memory state",
			zap.String("uid", s.profile.UID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	s.dirty = false
	return nil
}
