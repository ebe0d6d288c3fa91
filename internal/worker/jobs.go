package worker

import (
	"context"

	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/services"
)

// CatalogImportJob seeds the question catalog from the exported files.
type CatalogImportJob struct {
	Importer    services.CatalogImportService
	CatalogPath string
	TagsPath    string
}

func (j *CatalogImportJob) Name() string { return "catalog_import" }

func (j *CatalogImportJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("catalog", j.CatalogPath)
	log.Info("starting catalog import")

	imported, err := j.Importer.ImportFiles(ctx, j.CatalogPath, j.TagsPath)
	if err != nil {
		return err
	}
	log.Info("catalog import done: %d questions", imported)
	return nil
}

// DashboardWarmJob precomputes a user's dashboard into the cache so the
// next page load is served hot.
type DashboardWarmJob struct {
	Dashboard services.DashboardService
	UserID    string
}

func (j *DashboardWarmJob) Name() string { return "dashboard_warm" }

func (j *DashboardWarmJob) Run(ctx context.Context) error {
	return j.Dashboard.Warm(ctx, j.UserID)
}
