package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Stats summarizes the jobs of one pool.
type Stats struct {
	Jobs    int           // submitted
	Ran     int           // started before cancellation
	Failed  int           // returned an error
	Busy    time.Duration // summed run time of every job
	Elapsed time.Duration // wall time from pool creation to Wait
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Jobs += o.Jobs
	s.Ran += o.Ran
	s.Failed += o.Failed
	s.Busy += o.Busy
	s.Elapsed += o.Elapsed
}

// WorkerPool runs indexed jobs with bounded concurrency.
type WorkerPool struct {
	parent   context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	sem      chan struct{} // nil when unbounded
	failFast bool
	start    time.Time

	wg    sync.WaitGroup
	mu    sync.Mutex
	errs  map[int]error
	stats Stats
}

// NewWorkerPool creates a pool running at most maxWorkers jobs at once.
// maxWorkers <= 0 means unbounded. With failFast the pool context is
// cancelled on the first error and jobs not yet started are skipped.
func NewWorkerPool(ctx context.Context, maxWorkers int, failFast bool) *WorkerPool {
	poolCtx, cancel := context.WithCancel(ctx)
	p := &WorkerPool{
		parent:   ctx,
		ctx:      poolCtx,
		cancel:   cancel,
		failFast: failFast,
		start:    time.Now(),
		errs:     make(map[int]error),
	}
	if maxWorkers > 0 {
		p.sem = make(chan struct{}, maxWorkers)
	}
	return p
}

// Context returns the pool context. It is cancelled by Cancel, by Wait, and
// on the first error when failFast is set.
func (p *WorkerPool) Context() context.Context {
	return p.ctx
}

// Go schedules fn as job index. It does not block; the job waits for a free
// worker inside its own goroutine.
func (p *WorkerPool) Go(index int, fn func() error) {
	p.mu.Lock()
	p.stats.Jobs++
	p.mu.Unlock()

	if p.ctx.Err() != nil {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.sem != nil {
			select {
			case p.sem <- struct{}{}:
				defer func() { <-p.sem }()
			case <-p.ctx.Done():
				return
			}
		}
		if p.ctx.Err() != nil {
			return
		}

		start := time.Now()
		err := fn()
		busy := time.Since(start)

		p.mu.Lock()
		defer p.mu.Unlock()
		p.stats.Ran++
		p.stats.Busy += busy
		if err != nil {
			p.stats.Failed++
			p.errs[index] = err
			if p.failFast {
				p.cancel()
			}
		}
	}()
}

// Wait blocks until every started job has returned and releases the pool.
// The error is the failure with the lowest job index. When no job failed
// but some were skipped, it is the cancellation cause.
func (p *WorkerPool) Wait() (Stats, error) {
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	stats := p.stats
	stats.Elapsed = time.Since(p.start)

	first := -1
	for i := range p.errs {
		if first < 0 || i < first {
			first = i
		}
	}
	if first >= 0 {
		return stats, fmt.Errorf("job %d: %w", first, p.errs[first])
	}
	if stats.Ran < stats.Jobs {
		if err := p.parent.Err(); err != nil {
			return stats, err
		}
		return stats, context.Canceled
	}
	return stats, nil
}

// Cancel skips every job that has not started yet.
func (p *WorkerPool) Cancel() {
	p.cancel()
}

// Run executes jobs on a fail-fast pool of maxWorkers and waits for them.
func Run(ctx context.Context, maxWorkers int, jobs []func() error) (Stats, error) {
	if len(jobs) == 0 {
		return Stats{}, ctx.Err()
	}
	pool := NewWorkerPool(ctx, maxWorkers, true)
	for i, job := range jobs {
		pool.Go(i, job)
	}
	return pool.Wait()
}
