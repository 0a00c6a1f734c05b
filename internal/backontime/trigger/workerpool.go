package trigger

import (
	"context"
	"sync"

	"github.com/dimasma0305/backontime/internal/log"
)

// Job is one unit of work run by the pool.
type Job func(ctx context.Context)

// WorkerPool runs fired actions on a fixed number of goroutines.
type WorkerPool struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// NewWorkerPool creates a pool with room for workers queued jobs.
func NewWorkerPool(parent context.Context, workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)
	return &WorkerPool{
		workers: workers,
		jobs:    make(chan Job, workers),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the workers.
func (wp *WorkerPool) Start() {
	log.DebugH3("Starting worker pool with %d workers", wp.workers)

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		log.Trace("Worker %d picked up a job", id)
		job(wp.ctx)
	}
}

// Submit queues a job, blocking while the queue is full. It reports false when the
// pool is shutting down and the job was not queued. Submit and Stop must be called
// from the same goroutine.
func (wp *WorkerPool) Submit(job Job) bool {
	select {
	case <-wp.ctx.Done():
		return false
	default:
	}

	select {
	case wp.jobs <- job:
		return true
	default:
		log.Debug("Worker pool queue full, waiting for a free worker")
	}

	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Stop stops accepting jobs and waits for queued and running jobs to finish. Queued
// jobs see a cancelled context.
func (wp *WorkerPool) Stop() {
	wp.once.Do(func() {
		log.DebugH3("Stopping worker pool...")
		wp.cancel()
		close(wp.jobs)
		wp.wg.Wait()
		log.DebugH3("Worker pool stopped")
	})
}
