package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/arabingo/internal/config"
	"github.com/aliskhannn/arabingo/internal/content"
	"github.com/aliskhannn/arabingo/internal/delivery/telegram"
	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/infra/ai"
	"github.com/aliskhannn/arabingo/internal/infra/cue"
	"github.com/aliskhannn/arabingo/internal/infra/postgres"
	"github.com/aliskhannn/arabingo/internal/infra/redis"
	"github.com/aliskhannn/arabingo/internal/infra/sqlite"
	"github.com/aliskhannn/arabingo/internal/logger"
	"github.com/aliskhannn/arabingo/internal/repository"
	"github.com/aliskhannn/arabingo/internal/service"
	"github.com/aliskhannn/arabingo/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("arabingo stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	loc, err := entities.ParseTimezoneLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("parse timezone: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			lg.Error("failed to close store", zap.Error(err))
		}
	}()

	graph := content.DefaultGraph()
	if cfg.ContentJSONPath != "" {
		if graph, err = content.LoadFile(cfg.ContentJSONPath); err != nil {
			return fmt.Errorf("load content: %w", err)
		}
	}

	clock := service.SystemClock(loc)
	sessionRepo := repository.NewSessionRepository(store)
	queueRepo := repository.NewQueueRepository(store)

	progress := service.NewProgressStore(sessionRepo, lg)
	queue := service.NewSyncQueue(queueRepo, progress, clock, lg)
	sessions := service.NewSessionManager(sessionRepo, progress, lg)
	cues := cue.NewLogPlayer(lg)

	var (
		analyzer    service.PronunciationAnalyzer
		recommender service.Recommender
	)
	if cfg.AI.Enabled() {
		client, err := ai.New(ai.Config{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			AudioModel:  cfg.AI.AudioModel,
			AudioFormat: cfg.AI.AudioFormat,
			Timeout:     cfg.AI.Timeout,
			MaxRetries:  cfg.AI.MaxRetries,
		}, lg)
		if err != nil {
			return fmt.Errorf("ai client: %w", err)
		}
		analyzer, recommender = client, client
	}

	var (
		bot      *tgbotapi.BotAPI
		notifier service.Notifier
	)
	if cfg.Telegram.Enabled() {
		if bot, err = newBot(cfg, lg); err != nil {
			return err
		}
		notifier = telegram.NewNotifier(bot, cfg.Telegram.ChatID, lg)
	}

	learning := service.NewLearningService(graph, progress, queue, cues, notifier, clock, lg)
	shop := service.NewShopService(progress, queue, cues, clock, lg)
	assistant := service.NewAssistantService(analyzer, recommender, graph, progress, cfg.AI.Timeout, lg)
	scheduler := service.NewSyncScheduler(queue, progress, cfg.Sync.Cron, loc, lg)

	p, err := sessions.EnsureSession(ctx)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	cues.SetMusic(p.MusicEnabled)
	lg.Info("session ready",
		zap.String("uid", p.UID),
		zap.Int("xp", p.XP),
		zap.Int("level", p.Level),
		zap.String("storage", cfg.Storage.Driver),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.Start(gctx)
	})
	if bot != nil {
		handler := telegram.NewHandler(bot, cfg.Telegram.ChatID, lg, sessions, progress, learning, shop, assistant)
		g.Go(func() error {
			return handler.Run(gctx)
		})
	}

	err = g.Wait()

	// Last chance to write state that failed to persist earlier.
	flushCtx := context.WithoutCancel(ctx)
	if ferr := progress.Flush(flushCtx); ferr != nil {
		lg.Error("final profile flush failed", zap.Error(ferr))
	}
	if ferr := queue.Flush(flushCtx); ferr != nil {
		lg.Error("final queue flush failed", zap.Error(ferr))
	}

	return err
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		return sqlite.Open(cfg.Storage.SQLitePath)

	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, err
		}
		store := postgres.NewRecordStore(pool, cfg.Storage.KeyPrefix)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case config.DriverRedis:
		return redis.New(ctx, redis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.Timeout,
			ReadTimeout:  cfg.Redis.Timeout,
			WriteTimeout: cfg.Redis.Timeout,
		}, cfg.Storage.KeyPrefix)

	case config.DriverMemory:
		return storage.NewMemoryStore(), nil

	default:
		return nil, config.ErrUnknownStorageDriver
	}
}

func newBot(cfg *config.Config, lg *zap.Logger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.APIToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start or resume"},
		{Command: "next", Description: "Continue with the next lesson"},
		{Command: "path", Description: "Show the learning path"},
		{Command: "progress", Description: "Level, streak and badges"},
		{Command: "shop", Description: "Hearts and premium"},
		{Command: "settings", Description: "Sound and music"},
		{Command: "recommend", Description: "Ask Noura what to study"},
		{Command: "register", Description: "Save progress under an email"},
		{Command: "login", Description: "Restore a saved session"},
		{Command: "name", Description: "Change your display name"},
		{Command: "logout", Description: "End this session"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	return bot, nil
}
