package services

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// WorkerPool fans per-resume work out over a bounded set of goroutines.
type WorkerPool interface {
	// Run calls fn(i) for every i in [0, n) and returns when all calls finish.
	Run(n int, fn func(i int))
	Release()
}

type workerPool struct {
	pool *ants.Pool
}

func NewWorkerPool(concurrency int) (WorkerPool, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &workerPool{pool: pool}, nil
}

// Run implements WorkerPool. Tasks the pool refuses run on the caller.
func (w *workerPool) Run(n int, fn func(i int)) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if err := w.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
}

// Release implements WorkerPool.
func (w *workerPool) Release() {
	w.pool.Release()
}

// sequentialPool runs tasks one by one on the caller.
type sequentialPool struct{}

func NewSequentialPool() WorkerPool {
	return sequentialPool{}
}

func (sequentialPool) Run(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}

func (sequentialPool) Release() {}
