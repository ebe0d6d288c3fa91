package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueCatalogImport(catalogPath, tagsPath string) error
	EnqueueDashboardWarm(userID string) error
}
