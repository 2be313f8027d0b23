// Package parallel runs independent work items on a bounded set of goroutines.
package parallel

import (
	"fmt"
	"sync"

	"github.com/dd0wney/cluso-affinity/pkg/logging"
)

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers bounds pool size; a pool is sized to CPUs, not to work items
const MaxWorkers = 4096

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers int
	tasks   chan func()
	logger  logging.Logger

	wg      sync.WaitGroup // running workers
	pending sync.WaitGroup // submitted, unfinished tasks
	once    sync.Once
	mu      sync.RWMutex // guards tasks against close during send
	closed  bool
}

// NewWorkerPool starts workers goroutines. workers <= 0 means one.
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	wp := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
		logger:  logging.OrNop(logger).With(logging.Component("worker_pool")),
	}
	for range workers {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp, nil
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		wp.run(task)
	}
}

// run executes one task; a panic is logged and does not kill the worker
func (wp *WorkerPool) run(task func()) {
	defer wp.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("task panic recovered", logging.Any("panic", r))
		}
	}()
	task()
}

// Submit queues a task. It returns false once the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}
	wp.pending.Add(1)
	wp.tasks <- task
	return true
}

// Wait blocks until every submitted task has finished. The pool stays open.
func (wp *WorkerPool) Wait() {
	wp.pending.Wait()
}

// Close drains the queue and stops the workers. Safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Workers returns the pool size
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// For calls fn(i) for every i in [0, n) on a temporary pool of the given
// size and returns when all calls are done.
func For(workers, n int, logger logging.Logger, fn func(i int)) error {
	if n <= 0 {
		return nil
	}
	wp, err := NewWorkerPool(min(workers, n), logger)
	if err != nil {
		return err
	}
	defer wp.Close()

	for i := range n {
		wp.Submit(func() { fn(i) })
	}
	wp.Wait()
	return nil
}
