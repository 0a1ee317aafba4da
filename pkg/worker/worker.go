package worker

import (
	"context"
	"sync"

	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
)

type WorkerHandler = func(workerIndex int, job any)

// WorkerManager fans jobs out to a fixed pool of goroutines. Jobs are
// published with Enqueue; the pool runs until Exit is called or the context
// given to Start is cancelled.
type WorkerManager struct {
	jobs           chan any
	numberOfWorker int
	do             WorkerHandler
	quit           chan struct{}
	once           sync.Once
	waiter         sync.WaitGroup
}

func NewWorkerManager(bufferSize, numberOfWorkers int) *WorkerManager {
	if numberOfWorkers <= 0 {
		numberOfWorkers = 1
	}
	return &WorkerManager{
		jobs:           make(chan any, bufferSize),
		numberOfWorker: numberOfWorkers,
		quit:           make(chan struct{}),
	}
}

func (w *WorkerManager) SetWorker(worker WorkerHandler) {
	w.do = worker
}

func (w *WorkerManager) Pending() int {
	return len(w.jobs)
}

// Enqueue blocks until a worker or the buffer accepts the job. It reports
// false when the pool is shutting down or ctx is done first.
func (w *WorkerManager) Enqueue(ctx context.Context, job any) bool {
	select {
	case w.jobs <- job:
		return true
	case <-w.quit:
		return false
	case <-ctx.Done():
		return false
	}
}

// Start runs the workers and blocks until they all stop.
func (w *WorkerManager) Start(ctx context.Context) {
	w.waiter.Add(w.numberOfWorker)
	for i := 0; i < w.numberOfWorker; i++ {
		go func(index int) {
			defer w.waiter.Done()
			for {
				select {
				case job := <-w.jobs:
					w.do(index, job)
				case <-w.quit:
					return
				case <-ctx.Done():
					return
				}
			}
		}(i)
	}
	w.waiter.Wait()
}

func (w *WorkerManager) Exit() {
	w.once.Do(func() {
		logger.Info("[worker] exit requested", "workers", w.numberOfWorker)
		close(w.quit)
	})
}
