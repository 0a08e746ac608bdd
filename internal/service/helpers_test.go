package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/content"
	"github.com/aliskhannn/arabingo/internal/repository"
	"github.com/aliskhannn/arabingo/internal/storage"
)

var errStoreDown = errors.New("store down")

// flakyStore fails writes while down is set.
type flakyStore struct {
	*storage.MemoryStore
	down atomic.Bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (s *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	if s.down.Load() {
		return errStoreDown
	}
	return s.MemoryStore.Put(ctx, key, value)
}

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	if s.down.Load() {
		return errStoreDown
	}
	return s.MemoryStore.Delete(ctx, key)
}

type recordingCues struct {
	mu     sync.Mutex
	played []Cue
	music  []bool
}

func (c *recordingCues) Play(cue Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.played = append(c.played, cue)
}

func (c *recordingCues) Speak(string) {}

func (c *recordingCues) SetMusic(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.music = append(c.music, enabled)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

type harness struct {
	store     *flakyStore
	sessions  *SessionManager
	progress  *ProgressStore
	queue     *SyncQueue
	learning  *LearningService
	shop      *ShopService
	scheduler *SyncScheduler
	cues      *recordingCues
	notifier  *recordingNotifier
	graph     *content.Graph
	sessRepo  *repository.SessionRepository
	queueRepo *repository.QueueRepository
	now       time.Time
}

func fixedClock(now time.Time) Clock {
	return Clock{Now: func() time.Time { return now }, Location: time.UTC}
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()

	logger := zap.NewNop()
	store := newFlakyStore()
	clock := fixedClock(now)
	graph := content.DefaultGraph()

	sessRepo := repository.NewSessionRepository(store)
	queueRepo := repository.NewQueueRepository(store)
	progress := NewProgressStore(sessRepo, logger)
	queue := NewSyncQueue(queueRepo, progress, clock, logger)
	cues := &recordingCues{}
	notifier := &recordingNotifier{}

	return &harness{
		store:     store,
		sessions:  NewSessionManager(sessRepo, progress, logger),
		progress:  progress,
		queue:     queue,
		learning:  NewLearningService(graph, progress, queue, cues, notifier, clock, logger),
		shop:      NewShopService(progress, queue, cues, clock, logger),
		scheduler: NewSyncScheduler(queue, progress, "", time.UTC, logger),
		cues:      cues,
		notifier:  notifier,
		graph:     graph,
		sessRepo:  sessRepo,
		queueRepo: queueRepo,
		now:       now,
	}
}

// morning is a weekday hour that unlocks no time-of-day badge.
var morning = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
