package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/infrastructure/ai"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/queue"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
)

// Options says which dependencies a process cannot run without. Postgres and
// object storage are always required; redis always degrades.
type Options struct {
	RequireQueue     bool
	RequireExtractor bool
}

type Container struct {
	Config    config.Config
	Logger    *log.Logger
	DB        database.DB
	Redis     *cache.Redis
	Store     storage.Store
	Queue     *queue.RabbitMQ
	Extractor ai.Extractor
}

func NewContainer(cfg config.Config, logger *log.Logger, opts Options) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger}

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c.DB = db

	c.Redis = cache.NewRedis(cfg.Redis, logger)

	store, err := storage.NewS3(ctx, cfg.Storage)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	c.Store = store

	q, err := queue.Dial(cfg.Queue, logger)
	if err != nil {
		if opts.RequireQueue {
			_ = c.Close()
			return nil, err
		}
		logger.Printf("queue=rabbitmq status=unavailable err=%v", err)
	} else {
		c.Queue = q
	}

	ext, err := ai.New(ctx, cfg.AI)
	if err != nil {
		if opts.RequireExtractor {
			_ = c.Close()
			return nil, fmt.Errorf("ai: %w", err)
		}
		logger.Printf("ai=%s status=unavailable err=%v", cfg.AI.Provider, err)
		ext = ai.Unavailable(err)
	}
	c.Extractor = ext

	return c, nil
}

// Publisher is nil when the queue could not be reached, so uploads stay
// pending until the worker sweep picks them up.
func (c *Container) Publisher() queue.Publisher {
	if c.Queue == nil {
		return nil
	}
	return c.Queue
}

func (c *Container) Cache() usecase.Cache {
	return c.Redis
}

func (c *Container) ParseUsecase(notifier usecase.Notifier) *usecase.Parse {
	return usecase.NewParseUsecase(usecase.ParseDeps{
		Resumes:    repository.NewPostgresResumeRepository(c.DB),
		Jobs:       repository.NewPostgresJobRepository(c.DB),
		Matches:    repository.NewPostgresMatchRepository(c.DB),
		Shortlists: repository.NewPostgresShortlistRepository(c.DB),
		Audit:      repository.NewPostgresAuditRepository(c.DB),
		Store:      c.Store,
		Extractor:  c.Extractor,
		Cache:      c.Redis,
		Notifier:   notifier,
		Logger:     c.Logger,
	})
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Queue != nil {
		_ = c.Queue.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if closer, ok := c.Extractor.(io.Closer); ok {
		_ = closer.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
