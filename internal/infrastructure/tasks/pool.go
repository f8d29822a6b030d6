// Package tasks implements the gateway's asynchronous execution lane: a
// single queue drained by a pool of competing worker goroutines. Callers pick
// the discipline per submission: a blocking rendezvous for critical-path
// downstream calls, or fire-and-forget for audit writes whose outcome is
// never observed by the submitter (at-most-once, best-effort, unordered).
package tasks

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Func is a unit of work executed on a pool worker.
type Func func(ctx context.Context) (interface{}, error)

// ErrPoolClosed is returned by SubmitWait after Shutdown.
var ErrPoolClosed = errors.New("task pool is closed")

type result struct {
	value interface{}
	err   error
}

type job struct {
	id      uuid.UUID
	name    string
	fn      Func
	resultC chan result // nil for fire-and-forget submissions
}

// Pool is a fixed-size worker pool consuming one shared queue. There is no
// priority distinction between blocking and fire-and-forget jobs; the
// discipline lives entirely at the call site.
type Pool struct {
	jobs   chan job
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a pool with the given number of workers and queue capacity
// and starts the workers immediately.
func NewPool(workers, queueSize int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{
		jobs:   make(chan job, queueSize),
		logger: logger,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}

	return p
}

func (p *Pool) worker(n int) {
	defer p.wg.Done()

	for j := range p.jobs {
		// Jobs run to completion once dequeued; an abandoned rendezvous
		// does not cancel in-flight work.
		value, err := j.fn(context.Background())

		if j.resultC != nil {
			j.resultC <- result{value: value, err: err}
			continue
		}

		// Fire-and-forget: failures are logged and swallowed. No retry,
		// no dead letter.
		if err != nil {
			p.logger.Warn("background task failed",
				zap.String("task_id", j.id.String()),
				zap.String("task", j.name),
				zap.Int("worker", n),
				zap.Error(err))
		} else {
			p.logger.Debug("background task completed",
				zap.String("task_id", j.id.String()),
				zap.String("task", j.name),
				zap.Int("worker", n))
		}
	}
}

// Submit enqueues work without observing its outcome. When the queue is full
// or the pool is shut down the job is dropped with a warning; the submitter
// is never blocked and never learns the result.
func (p *Pool) Submit(name string, fn Func) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id := uuid.New()
	if p.closed {
		p.logger.Warn("task dropped, pool closed",
			zap.String("task_id", id.String()),
			zap.String("task", name))
		return
	}

	select {
	case p.jobs <- job{id: id, name: name, fn: fn}:
	default:
		p.logger.Warn("task dropped, queue full",
			zap.String("task_id", id.String()),
			zap.String("task", name))
	}
}

// SubmitWait enqueues work and blocks until the worker delivers a result or
// ctx expires. The wait is bounded by ctx; on expiry the job keeps running on
// its worker but the result is discarded.
func (p *Pool) SubmitWait(ctx context.Context, name string, fn Func) (interface{}, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrPoolClosed
	}

	j := job{
		id:   uuid.New(),
		name: name,
		fn:   fn,
		// Buffered so the worker never blocks on an abandoned rendezvous.
		resultC: make(chan result, 1),
	}

	select {
	case p.jobs <- j:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case r := <-j.resultC:
		return r.value, r.err
	case <-ctx.Done():
		p.logger.Warn("rendezvous abandoned, wait bound exceeded",
			zap.String("task_id", j.id.String()),
			zap.String("task", name))
		return nil, ctx.Err()
	}
}

// Shutdown stops intake, lets the workers drain the queue, and waits for
// them to finish or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
