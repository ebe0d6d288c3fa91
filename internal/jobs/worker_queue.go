package jobs

import (
	"github.com/steptracker/steptracker/internal/services"
	"github.com/steptracker/steptracker/internal/worker"
)

// WorkerQueue implements JobQueue on top of a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	importer  services.CatalogImportService
	dashboard services.DashboardService
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, importer services.CatalogImportService, dashboard services.DashboardService) JobQueue {
	return &WorkerQueue{
		pool:      pool,
		importer:  importer,
		dashboard: dashboard,
	}
}

func (q *WorkerQueue) EnqueueCatalogImport(catalogPath, tagsPath string) error {
	return q.pool.Submit(&worker.CatalogImportJob{
		Importer:    q.importer,
		CatalogPath: catalogPath,
		TagsPath:    tagsPath,
	})
}

func (q *WorkerQueue) EnqueueDashboardWarm(userID string) error {
	return q.pool.Submit(&worker.DashboardWarmJob{
		Dashboard: q.dashboard,
		UserID:    userID,
	})
}
