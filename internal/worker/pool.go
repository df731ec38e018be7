package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrPoolClosed   = errors.New("worker pool closed")
	ErrTaskPanicked = errors.New("worker task panicked")
)

type Task func(ctx context.Context) error

type Result struct {
	ID  string
	Err error
}

type job struct {
	id    string
	task  Task
	reply chan error
}

// Pool runs tasks on a fixed number of goroutines, optionally spacing task
// starts to a rate limit shared by all workers.
type Pool struct {
	workers int
	tasks   chan job
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	rateMu sync.Mutex
	rate   <-chan time.Time
	ticker *time.Ticker
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan job, buffer),
	}
}

func (p *Pool) SetRateLimit(perSecond int) {
	if p == nil {
		return
	}
	p.rateMu.Lock()
	defer p.rateMu.Unlock()
	p.stopTicker()
	if perSecond <= 0 {
		return
	}
	p.ticker = time.NewTicker(time.Second / time.Duration(perSecond))
	p.rate = p.ticker.C
}

// Submit queues a task whose outcome is reported on the Run channel.
func (p *Pool) Submit(ctx context.Context, id string, t Task) error {
	return p.enqueue(ctx, job{id: id, task: t})
}

// Do runs t on the pool and waits for its result.
func (p *Pool) Do(ctx context.Context, t Task) error {
	reply := make(chan error, 1)
	if err := p.enqueue(ctx, job{task: t, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) enqueue(ctx context.Context, j job) error {
	if p == nil || j.task == nil {
		return ErrPoolClosed
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks. Workers drain what is queued and exit. A
// Submit blocked on a full queue delays Close until a worker frees a slot.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
}

func (p *Pool) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
}

// Run starts the workers. The returned channel carries results of submitted
// tasks and closes once every worker has exited.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers*64)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.tasks:
					if !ok {
						return
					}
					err := p.exec(ctx, j.task)
					if j.reply != nil {
						j.reply <- err
						continue
					}
					select {
					case out <- Result{ID: j.id, Err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.rateMu.Lock()
		p.stopTicker()
		p.rateMu.Unlock()
		close(out)
	}()

	return out
}

// exec turns a panicking task into an error so one bad input cannot take
// down the process.
func (p *Pool) exec(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()

	p.rateMu.Lock()
	rate := p.rate
	p.rateMu.Unlock()
	if rate != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rate:
		}
	}
	return t(ctx)
}
