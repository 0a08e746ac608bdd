package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

// RefillCost is the gem price of a full heart refill.
const RefillCost = 450

var (
	ErrNotEnoughGems    = errors.New("not enough gems")
	ErrHeartsFull       = errors.New("hearts are already full")
	ErrAlreadyPremium   = errors.New("already premium")
	ErrEmptyDisplayName = errors.New("display name is empty")
)

// ShopService handles purchases and learner settings. Every change goes
// through the sync queue.
type ShopService struct {
	progress *ProgressStore
	queue    *SyncQueue
	cues     CuePlayer
	clock    Clock
	logger   *zap.Logger
}

// NewShopService creates a new ShopService. cues may be nil.
func NewShopService(progress *ProgressStore, queue *SyncQueue, cues CuePlayer, clock Clock, logger *zap.Logger) *ShopService {
	if cues == nil {
		cues = nopCues{}
	}
	return &ShopService{
		progress: progress,
		queue:    queue,
		cues:     cues,
		clock:    clock,
		logger:   logger,
	}
}

// RefillHearts trades RefillCost gems for a full set of hearts.
func (s *ShopService) RefillHearts(ctx context.Context) (*entities.LearnerProfile, error) {
	p, err := s.progress.Current()
	if err != nil {
		return nil, err
	}
	if p.Hearts >= entities.MaxHearts {
		return nil, ErrHeartsFull
	}
	if p.Gems < RefillCost {
		return nil, ErrNotEnoughGems
	}

	updated, err := s.apply(ctx, entities.StatsPatch{
		Gems:   entities.Ptr(p.Gems - RefillCost),
		Hearts: entities.Ptr(entities.MaxHearts),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("hearts refilled", zap.String("uid", p.UID), zap.Int("gems_left", updated.Gems))
	return updated, nil
}

// Subscribe turns on premium. Premium learners never lose hearts.
func (s *ShopService) Subscribe(ctx context.Context) (*entities.LearnerProfile, error) {
	p, err := s.progress.Current()
	if err != nil {
		return nil, err
	}
	if p.IsPremium {
		return nil, ErrAlreadyPremium
	}

	updated, err := s.apply(ctx, entities.StatsPatch{IsPremium: entities.Ptr(true)})
	if err != nil {
		return nil, err
	}

	s.logger.Info("premium enabled", zap.String("uid", p.UID))
	return updated, nil
}

// SetSound toggles sound effects.
func (s *ShopService) SetSound(ctx context.Context, enabled bool) (*entities.LearnerProfile, error) {
	return s.apply(ctx, entities.StatsPatch{SoundEnabled: entities.Ptr(enabled)})
}

// SetMusic toggles background music.
func (s *ShopService) SetMusic(ctx context.Context, enabled bool) (*entities.LearnerProfile, error) {
	updated, err := s.apply(ctx, entities.StatsPatch{MusicEnabled: entities.Ptr(enabled)})
	if err != nil {
		return nil, err
	}
	s.cues.SetMusic(enabled)
	return updated, nil
}

// Rename changes the display name.
func (s *ShopService) Rename(ctx context.Context, name string) (*entities.LearnerProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyDisplayName
	}
	return s.apply(ctx, entities.StatsPatch{DisplayName: entities.Ptr(name)})
}

func (s *ShopService) apply(ctx context.Context, patch entities.StatsPatch) (*entities.LearnerProfile, error) {
	if _, err := s.queue.Append(ctx, entities.NewUpdateStatsAction(patch, s.clock.now())); err != nil && !errors.Is(err, ErrPersistFailed) {
		return nil, err
	}

	res, err := s.queue.Replay(ctx)
	if err != nil && !errors.Is(err, ErrPersistFailed) {
		return nil, err
	}
	if res.Profile == nil {
		return s.progress.Current()
	}
	return res.Profile, nil
}
