package concurrent

import (
	"context"
	"sync"
)

type JobFunc[T any, G any] func(job T) G

type Result[T any, G any] struct {
	Job   T
	Value G
}

type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan Result[T, G]
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: max(numWorkers, 1),
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan Result[T, G], jobQueueSize),
	}
}

// worker drains the queue. Once ctx is done the remaining jobs are dropped.
func (wp *WorkerPool[T, G]) worker(ctx context.Context, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		if ctx.Err() != nil {
			continue
		}
		wp.results <- Result[T, G]{Job: job, Value: jobFunc(job)}
	}
}

func (wp *WorkerPool[T, G]) Start(ctx context.Context, jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, jobFunc)
	}
}

// Wait blocks until every worker has returned, then closes the results.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan Result[T, G] {
	return wp.results
}

// Close stops accepting jobs.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Map runs fn over jobs on numWorkers goroutines. Results come back in
// completion order. It returns ctx.Err() when cancelled midway.
func Map[T any, G any](ctx context.Context, numWorkers int, jobs []T, fn JobFunc[T, G]) ([]Result[T, G], error) {
	wp := NewWorkerPool[T, G](numWorkers, len(jobs))
	wp.Start(ctx, fn)

	for _, job := range jobs {
		wp.AddJob(job)
	}
	wp.Close()

	go wp.Wait()

	out := make([]Result[T, G], 0, len(jobs))
	for res := range wp.CollectResults() {
		out = append(out, res)
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}
