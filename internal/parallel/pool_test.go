package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	ctx := context.Background()

	t.Run("bounded", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 4, false)
		if cap(pool.sem) != 4 {
			t.Errorf("expected 4 worker slots, got %d", cap(pool.sem))
		}
		if pool.failFast {
			t.Error("expected failFast=false")
		}
	})

	t.Run("failFast", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, true)
		if !pool.failFast {
			t.Error("expected failFast=true")
		}
	})

	t.Run("unbounded", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 0, false)
		if pool.sem != nil {
			t.Error("expected no semaphore for unbounded pool")
		}
	})
}

func TestWorkerPool_GoAndWait(t *testing.T) {
	ctx := context.Background()

	t.Run("runs every job", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 3, false)
		done := make([]bool, 6)
		for i := range done {
			pool.Go(i, func() error {
				done[i] = true
				return nil
			})
		}

		stats, err := pool.Wait()
		if err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		if stats.Jobs != 6 || stats.Ran != 6 || stats.Failed != 0 {
			t.Errorf("unexpected stats: %+v", stats)
		}
		for i, ok := range done {
			if !ok {
				t.Errorf("job %d did not run", i)
			}
		}
	})

	t.Run("respects max workers limit", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, false)

		maxConcurrent := 0
		current := 0
		var mu sync.Mutex
		for i := 0; i < 5; i++ {
			pool.Go(i, func() error {
				mu.Lock()
				current++
				if current > maxConcurrent {
					maxConcurrent = current
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				current--
				mu.Unlock()
				return nil
			})
		}
		if _, err := pool.Wait(); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		if maxConcurrent > 2 {
			t.Errorf("expected max 2 concurrent jobs, got %d", maxConcurrent)
		}
	})

	t.Run("unbounded", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 0, false)
		var count atomic.Int32
		for i := 0; i < 10; i++ {
			pool.Go(i, func() error {
				count.Add(1)
				return nil
			})
		}
		stats, _ := pool.Wait()
		if count.Load() != 10 || stats.Ran != 10 {
			t.Errorf("expected 10 jobs, ran %d (stats %+v)", count.Load(), stats)
		}
	})

	t.Run("records busy time", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, false)
		pool.Go(0, func() error {
			time.Sleep(20 * time.Millisecond)
			return nil
		})
		stats, _ := pool.Wait()
		if stats.Busy < 20*time.Millisecond {
			t.Errorf("expected busy >= 20ms, got %v", stats.Busy)
		}
		if stats.Elapsed < stats.Busy {
			t.Errorf("elapsed %v shorter than busy %v for a single job", stats.Elapsed, stats.Busy)
		}
	})
}

func TestWorkerPool_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("lowest index wins", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 4, false)
		second := errors.New("second")
		first := errors.New("first")
		pool.Go(0, func() error { return nil })
		pool.Go(2, func() error { return second })
		pool.Go(1, func() error {
			time.Sleep(10 * time.Millisecond)
			return first
		})

		stats, err := pool.Wait()
		if !errors.Is(err, first) {
			t.Fatalf("Wait error = %v, want %v", err, first)
		}
		if err.Error() != "job 1: first" {
			t.Errorf("unexpected error text: %v", err)
		}
		if stats.Failed != 2 {
			t.Errorf("expected 2 failures, got %d", stats.Failed)
		}
	})

	t.Run("failFast skips pending jobs", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 1, true)
		var executed atomic.Int32
		for i := 0; i < 5; i++ {
			pool.Go(i, func() error {
				if executed.Add(1) == 1 {
					return errors.New("fail fast")
				}
				time.Sleep(20 * time.Millisecond)
				return nil
			})
		}

		stats, err := pool.Wait()
		if err == nil {
			t.Fatal("expected an error")
		}
		if executed.Load() == 5 || stats.Ran == stats.Jobs {
			t.Errorf("failFast did not stop execution early: %+v", stats)
		}
	})
}

func TestWorkerPool_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, false)

	var executed atomic.Int32
	for i := 0; i < 10; i++ {
		pool.Go(i, func() error {
			executed.Add(1)
			time.Sleep(20 * time.Millisecond)
			return nil
		})
	}
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := pool.Wait()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait error = %v, want context.Canceled", err)
	}
	if executed.Load() >= 10 {
		t.Errorf("expected fewer than 10 executed jobs, got %d", executed.Load())
	}
	if pool.Context().Err() == nil {
		t.Error("expected pool context to be cancelled after Wait")
	}
}

func TestRun(t *testing.T) {
	t.Run("runs every job", func(t *testing.T) {
		var count atomic.Int32
		jobs := make([]func() error, 8)
		for i := range jobs {
			jobs[i] = func() error {
				count.Add(1)
				return nil
			}
		}
		stats, err := Run(context.Background(), 3, jobs)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if count.Load() != 8 || stats.Jobs != 8 {
			t.Errorf("expected 8 jobs, ran %d (stats %+v)", count.Load(), stats)
		}
	})

	t.Run("returns job error", func(t *testing.T) {
		want := errors.New("boom")
		jobs := []func() error{
			func() error { return nil },
			func() error { return want },
		}
		if _, err := Run(context.Background(), 2, jobs); !errors.Is(err, want) {
			t.Errorf("Run error = %v, want %v", err, want)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		jobs := []func() error{func() error { return nil }}
		if _, err := Run(ctx, 1, jobs); !errors.Is(err, context.Canceled) {
			t.Errorf("Run error = %v, want context.Canceled", err)
		}
	})

	t.Run("no jobs", func(t *testing.T) {
		if _, err := Run(context.Background(), 1, nil); err != nil {
			t.Errorf("Run error = %v, want nil", err)
		}
	})
}

func TestStatsAdd(t *testing.T) {
	s := Stats{Jobs: 2, Ran: 2, Busy: time.Second}
	s.Add(Stats{Jobs: 3, Ran: 1, Failed: 1, Busy: time.Second, Elapsed: time.Millisecond})
	want := Stats{Jobs: 5, Ran: 3, Failed: 1, Busy: 2 * time.Second, Elapsed: time.Millisecond}
	if s != want {
		t.Errorf("Add = %+v, want %+v", s, want)
	}
}
