package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"talent-match/internal/domain/resume"
	"talent-match/internal/infrastructure/queue"
	"talent-match/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Source delivers parse requests; *queue.RabbitMQ implements it.
type Source interface {
	Consume(ctx context.Context, consumer string, prefetch int, h queue.Handler) error
}

type Parser interface {
	ParseResume(ctx context.Context, resumeID uuid.UUID) (usecase.ParseResult, error)
}

type StaleLister interface {
	ListStale(ctx context.Context, status string, before time.Time, limit int) ([]resume.Resume, error)
}

type Options struct {
	Consumers int
	Prefetch  int
	// RatePerSecond caps parse starts across all consumers; 0 disables it.
	RatePerSecond int
	SweepAge      time.Duration
	SweepLimit    int
}

// Consumer runs resume parsing for queued requests.
type Consumer struct {
	source Source
	parser Parser
	stale  StaleLister
	opts   Options
	logger *log.Logger
	now    func() time.Time
}

func NewConsumer(source Source, parser Parser, stale StaleLister, opts Options, logger *log.Logger) *Consumer {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Consumers <= 0 {
		opts.Consumers = 1
	}
	if opts.Prefetch <= 0 {
		opts.Prefetch = 1
	}
	return &Consumer{source: source, parser: parser, stale: stale, opts: opts, logger: logger, now: time.Now}
}

// Run sweeps resumes left pending by a failed publish, then consumes the
// queue with one goroutine per consumer until ctx is done or one of them
// fails. A parse already started when ctx is cancelled runs to completion
// and is acked before Run returns.
func (c *Consumer) Run(ctx context.Context) error {
	if _, err := c.Sweep(ctx); err != nil {
		c.logger.Printf("worker=sweep status=error err=%v", err)
	}

	pool := NewPool(c.opts.Consumers, 0)
	pool.SetRateLimit(c.opts.RatePerSecond)
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool.Run(poolCtx)
	defer pool.Close()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.opts.Consumers; i++ {
		name := fmt.Sprintf("talentmatch-worker-%d", i+1)
		g.Go(func() error {
			c.logger.Printf("worker=consumer name=%s status=started", name)
			return c.source.Consume(gctx, name, c.opts.Prefetch, func(ctx context.Context, req queue.ParseRequest) error {
				// Shutdown stops new deliveries, not the one being parsed.
				return pool.Do(context.WithoutCancel(ctx), func(ctx context.Context) error {
					return c.parse(ctx, req.ResumeID)
				})
			})
		})
	}
	return g.Wait()
}

// Sweep parses resumes that have been pending longer than SweepAge and
// reports how many succeeded.
func (c *Consumer) Sweep(ctx context.Context) (int, error) {
	if c.stale == nil || c.opts.SweepAge <= 0 {
		return 0, nil
	}

	items, err := c.stale.ListStale(ctx, resume.StatusPending, c.now().Add(-c.opts.SweepAge), c.opts.SweepLimit)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	pool := NewPool(c.opts.Consumers, len(items))
	pool.SetRateLimit(c.opts.RatePerSecond)
	results := pool.Run(ctx)
	for _, it := range items {
		id := it.ID
		if err := pool.Submit(ctx, id.String(), func(context.Context) error {
			return c.parse(context.WithoutCancel(ctx), id)
		}); err != nil {
			break
		}
	}
	pool.Close()

	ok, failed := 0, 0
	for r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		ok++
	}
	c.logger.Printf("worker=sweep status=done found=%d ok=%d failed=%d", len(items), ok, failed)
	return ok, nil
}

func (c *Consumer) parse(ctx context.Context, resumeID uuid.UUID) error {
	start := time.Now()
	out, err := c.parser.ParseResume(ctx, resumeID)
	if errors.Is(err, usecase.ErrParseInProgress) {
		c.logger.Printf("worker=parse resume_id=%s status=skipped reason=in_progress", resumeID)
		return nil
	}
	if err != nil {
		return err
	}
	c.logger.Printf("worker=parse resume_id=%s status=ok matches=%d took=%s", resumeID, out.MatchesCreated, time.Since(start))
	return nil
}
