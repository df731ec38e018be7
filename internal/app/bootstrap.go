package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database/migration"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	v1 "talent-match/internal/delivery/http/routes/v1"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/usecase"
	"talent-match/internal/ws"
	"talent-match/migrations"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// New builds the HTTP app on top of an existing container.
func New(c *Container, hub *ws.Hub) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
		// Multipart overhead on top of the largest accepted resume.
		BodyLimit: int(cfg.Upload.MaxBytes) + 1<<20,
	})

	registerGlobalMiddleware(f, c.Logger)

	var queueHealthy func() bool
	if c.Queue != nil {
		queueHealthy = c.Queue.Healthy
	}
	health := usecase.NewHealthUsecase(c.DB, c.Redis, queueHealthy)

	routes.NewRegistry(health, v1.Deps{
		Config:    cfg,
		DB:        c.DB,
		Cache:     c.Cache(),
		Store:     c.Store,
		Publisher: c.Publisher(),
		Extractor: c.Extractor,
		Hub:       hub,
		Logger:    c.Logger,
	}).Register(f)

	return &App{Fiber: f}
}

// Bootstrap connects every dependency, starts the websocket hub and the
// redis relay that forwards worker events to it.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	c, err := NewContainer(cfg, logger, Options{})
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(c); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(logger)
	go hub.Run(ctx)
	go func() {
		err := c.Redis.Relay(ctx, cache.EventsChannel, func(e cache.RelayedEvent) {
			hub.Notify(e.UserID, e.Event, e.Payload)
		})
		if err != nil {
			logger.Printf("ws=relay status=stopped err=%v", err)
		}
	}()

	app := New(c, hub)
	cleanup := func() error {
		cancel()
		return c.Close()
	}
	return app, cleanup, nil
}

// Migrate applies the embedded schema; the runner's advisory lock makes
// concurrent server starts safe.
func Migrate(c *Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	applied, err := migration.Runner{FS: migrations.FS, Logger: c.Logger}.Run(ctx, c.DB.SQLDB())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	c.Logger.Printf("migration=done applied=%d", len(applied))
	return nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
