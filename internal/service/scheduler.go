package service

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSyncSpec replays the queue every five minutes.
const DefaultSyncSpec = "*/5 * * * *"

// SyncScheduler replays the queue on start and then on a cron schedule,
// retrying failed writes on every tick.
type SyncScheduler struct {
	queue    *SyncQueue
	progress *ProgressStore
	spec     string
	loc      *time.Location
	logger   *zap.Logger
}

// NewSyncScheduler creates a new SyncScheduler. An empty spec means
// DefaultSyncSpec.
func NewSyncScheduler(queue *SyncQueue, progress *ProgressStore, spec string, loc *time.Location, logger *zap.Logger) *SyncScheduler {
	if spec == "" {
		spec = DefaultSyncSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SyncScheduler{
		queue:    queue,
		progress: progress,
		spec:     spec,
		loc:      loc,
		logger:   logger,
	}
}

// Start runs until ctx is done.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.logger.Info("sync scheduler started", zap.String("spec", s.spec))

	s.Tick(ctx)

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() { s.Tick(ctx) }); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()

	s.logger.Info("sync scheduler stopped")
	return nil
}

// Tick flushes pending writes and replays the queue once.
func (s *SyncScheduler) Tick(ctx context.Context) {
	if err := s.progress.Flush(ctx); err != nil {
		s.logger.Warn("profile flush failed", zap.Error(err))
	}
	if err := s.queue.Flush(ctx); err != nil {
		s.logger.Warn("queue flush failed", zap.Error(err))
	}

	if !s.progress.Active() {
		return
	}

	res, err := s.queue.Replay(ctx)
	switch {
	case err != nil && !errors.Is(err, ErrPersistFailed):
		s.logger.Error("scheduled replay failed", zap.Error(err))
	case res.Applied:
		s.logger.Info("scheduled replay applied", zap.Int("actions", res.Count))
	}
}
