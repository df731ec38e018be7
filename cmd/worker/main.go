package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"talent-match/internal/app"
	"talent-match/internal/config"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/repository"
	"talent-match/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)
	c, err := app.NewContainer(cfg, logger, app.Options{RequireQueue: true, RequireExtractor: true})
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	parser := c.ParseUsecase(cache.NewEventPublisher(c.Redis, cache.EventsChannel))
	consumer := worker.NewConsumer(c.Queue, parser, repository.NewPostgresResumeRepository(c.DB), worker.Options{
		Consumers:     cfg.Queue.Workers,
		Prefetch:      cfg.Queue.Prefetch,
		RatePerSecond: cfg.Queue.RatePerSecond,
		SweepAge:      cfg.Queue.SweepAge,
		SweepLimit:    cfg.Queue.SweepLimit,
	}, logger)

	logger.Printf("worker=talentmatch status=started queue=%s consumers=%d", cfg.Queue.Name, cfg.Queue.Workers)
	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("worker error: %v", err)
	}
	logger.Printf("worker=talentmatch status=stopped")
}
