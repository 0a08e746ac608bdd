package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/gamification"
	"github.com/aliskhannn/arabingo/internal/repository"
)

const replayKey = "replay"

// ReplayResult describes one replay of the queue.
type ReplayResult struct {
	Applied   bool // the queue was non-empty
	Count     int  // number of actions folded
	Profile   *entities.LearnerProfile
	NewBadges []entities.Badge
	LevelUp   bool
}

// SyncQueue is the durable, ordered log of progress actions that have not
// been folded into the profile yet. The in-memory copy is authoritative and
// is written through to storage on every change.
//
// Known gap: a replay persists the profile first and clears the queue
// second. A crash between the two replays the same actions again.
// COMPLETE_LESSON is idempotent so this is harmless for lessons and
// experience, but UPDATE_STATS is re-applied. Action ids are kept on the
// wire so a later version can deduplicate.
type SyncQueue struct {
	mu       sync.Mutex
	group    singleflight.Group
	repo     QueueRepository
	progress *ProgressStore
	clock    Clock
	logger   *zap.Logger

	pending []entities.SyncAction
	loaded  bool
	dirty   bool
}

// NewSyncQueue creates a new SyncQueue.
func NewSyncQueue(repo QueueRepository, progress *ProgressStore, clock Clock, logger *zap.Logger) *SyncQueue {
	return &SyncQueue{
		repo:     repo,
		progress: progress,
		clock:    clock,
		logger:   logger,
	}
}

// Append validates the action, fills in a missing id or timestamp and adds
// it to the end of the queue.
//
// If storage fails the action stays queued in memory and the returned error
// wraps ErrPersistFailed.
func (q *SyncQueue) Append(ctx context.Context, action entities.SyncAction) (entities.SyncAction, error) {
	if err := action.Validate(); err != nil {
		return entities.SyncAction{}, err
	}
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.Timestamp.IsZero() {
		action.Timestamp = q.clock.now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.loadLocked(ctx); err != nil {
		return entities.SyncAction{}, err
	}

	q.pending = append(q.pending, action)
	return action, q.persistLocked(ctx)
}

// PeekAll returns a copy of the pending actions in insertion order.
func (q *SyncQueue) PeekAll(ctx context.Context) ([]entities.SyncAction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.loadLocked(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(q.pending), nil
}

// Len returns the number of pending actions.
func (q *SyncQueue) Len(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.loadLocked(ctx); err != nil {
		return 0, err
	}
	return len(q.pending), nil
}

// Replay folds every pending action into the canonical profile, stamps the
// sync time, persists the profile and empties the queue.
//
// Concurrent calls share one run. Actions appended while a replay is in
// flight stay queued for the next one.
func (q *SyncQueue) Replay(ctx context.Context) (ReplayResult, error) {
	v, err, _ := q.group.Do(replayKey, func() (any, error) {
		return q.replay(ctx)
	})
	res, _ := v.(ReplayResult)
	return res, err
}

func (q *SyncQueue) replay(ctx context.Context) (ReplayResult, error) {
	actions, err := q.PeekAll(ctx)
	if err != nil {
		return ReplayResult{}, err
	}
	if len(actions) == 0 {
		return ReplayResult{}, nil
	}

	var (
		badgesBefore []string
		levelBefore  int
	)
	now := q.clock.now()
	hour := q.clock.Hour()

	profile, err := q.progress.Update(ctx, func(p *entities.LearnerProfile) error {
		badgesBefore = slices.Clone(p.Badges)
		levelBefore = p.Level

		FoldActions(p, actions)
		gamification.Recompute(p, hour)
		stamp := now
		p.LastSyncTimestamp = &stamp
		return nil
	})
	if err != nil && !errors.Is(err, ErrPersistFailed) {
		return ReplayResult{}, fmt.Errorf("replay queue: %w", err)
	}

	res := ReplayResult{
		Applied:   true,
		Count:     len(actions),
		Profile:   profile,
		NewBadges: gamification.NewlyEarned(badgesBefore, profile.Badges),
		LevelUp:   profile.Level > levelBefore,
	}

	if err != nil {
		// The fold stays in memory and the queue stays as is. Folding the
		// same actions again later is safe: lessons are credited once and
		// newer stats patches sort after older ones.
		q.logger.Warn("replay not persisted, queue kept", zap.Int("actions", len(actions)), zap.Error(err))
		return res, fmt.Errorf("replay queue: %w", err)
	}

	q.mu.Lock()
	q.pending = slices.Clone(q.pending[min(len(actions), len(q.pending)):])
	if err := q.persistLocked(ctx); err != nil {
		q.logger.Warn("failed to clear replayed actions", zap.Error(err))
	}
	q.mu.Unlock()

	q.logger.Debug("queue replayed",
		zap.String("uid", profile.UID),
		zap.Int("actions", len(actions)),
		zap.Int("xp", profile.XP),
	)

	return res, nil
}

// Flush retries a failed write of the queue.
func (q *SyncQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.dirty {
		return nil
	}
	return q.persistLocked(ctx)
}

// Discard drops every pending action.
func (q *SyncQueue) Discard(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = nil
	q.loaded = true
	return q.persistLocked(ctx)
}

func (q *SyncQueue) loadLocked(ctx context.Context) error {
	if q.loaded {
		return nil
	}

	actions, skipped, err := q.repo.Load(ctx)
	if errors.Is(err, repository.ErrCorruptRecord) {
		// Unreadable queue counts as empty; the next write replaces it.
		q.logger.Warn("queue record is corrupt, starting empty", zap.Error(err))
		q.pending = nil
		q.loaded = true
		q.dirty = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("load queue: %w", err)
	}
	if skipped > 0 {
		q.logger.Warn("dropped invalid queued actions", zap.Int("skipped", skipped))
	}

	q.pending = actions
	q.loaded = true
	return nil
}

func (q *SyncQueue) persistLocked(ctx context.Context) error {
	var err error
	if len(q.pending) == 0 {
		err = q.repo.Clear(ctx)
	} else {
		err = q.repo.Save(ctx, q.pending)
	}
	if err != nil {
		q.dirty = true
		q.logger.Warn("failed to persist queue, keeping in-memory state", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	q.dirty = false
	return nil
}

// FoldActions applies actions to p in timestamp order. Actions with equal
// millisecond timestamps keep their queue order.
//
// COMPLETE_LESSON credits experience only the first time a lesson is
// completed. UPDATE_STATS overwrites the fields it carries.
// It returns the experience credited.
func FoldActions(p *entities.LearnerProfile, actions []entities.SyncAction) int {
	ordered := slices.Clone(actions)
	slices.SortStableFunc(ordered, func(a, b entities.SyncAction) int {
		return cmp.Compare(a.Timestamp.UnixMilli(), b.Timestamp.UnixMilli())
	})

	credited := 0
	for _, a := range ordered {
		switch a.Kind {
		case entities.ActionCompleteLesson:
			if a.CompleteLesson == nil {
				continue
			}
			if p.MarkCompleted(a.CompleteLesson.LessonID) {
				xp := max(0, a.CompleteLesson.XP)
				p.XP += xp
				credited += xp
			}
		case entities.ActionUpdateStats:
			if a.UpdateStats != nil {
				a.UpdateStats.ApplyTo(p)
			}
		}
	}
	return credited
}
