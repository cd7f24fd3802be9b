package jobs

import (
	"time"

	"github.com/vytor/phrasecards/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool           *worker.Pool
	study          worker.CatalogReloader
	catalogTimeout time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, study worker.CatalogReloader, catalogTimeout time.Duration) JobQueue {
	return &WorkerQueue{
		pool:           pool,
		study:          study,
		catalogTimeout: catalogTimeout,
	}
}

func (q *WorkerQueue) EnqueueCatalogLoad() error {
	return q.pool.Submit(&worker.LoadCatalogJob{
		Study:   q.study,
		Timeout: q.catalogTimeout,
	})
}
