package services

import (
	"context"
	"fmt"
	"time"

	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/kv"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/repository"
	"github.com/steptracker/steptracker/internal/stats"
)

// DashboardService assembles the dashboard from the user's full attempt
// history, caching the result until a write invalidates it.
type DashboardService interface {
	Get(ctx context.Context, userID string) (models.Dashboard, error)
	// Warm recomputes the dashboard into the cache without serving it.
	Warm(ctx context.Context, userID string) error
	Invalidate(userID string)
}

type dashboardService struct {
	attempts    repository.AttemptRepository
	cache       *kv.Store
	cacheTTL    time.Duration
	windowDays  int
	recentLimit int
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(attempts repository.AttemptRepository, cache *kv.Store, cacheTTL time.Duration, windowDays, recentLimit int) DashboardService {
	if windowDays <= 0 {
		windowDays = 120
	}
	if recentLimit <= 0 {
		recentLimit = stats.DefaultRecentLimit
	}
	return &dashboardService{
		attempts:    attempts,
		cache:       cache,
		cacheTTL:    cacheTTL,
		windowDays:  windowDays,
		recentLimit: recentLimit,
	}
}

func dashboardCacheKey(userID string) string {
	return fmt.Sprintf("dashboard:%s", userID)
}

func (s *dashboardService) Get(ctx context.Context, userID string) (models.Dashboard, error) {
	log := logger.FromContext(ctx)

	var cached models.Dashboard
	ok, err := s.cache.Get(dashboardCacheKey(userID), &cached)
	if err != nil {
		log.Warn("failed to decode cached dashboard: %v", err)
	} else if ok {
		log.Debug("dashboard cache hit: user_id=%s", userID)
		return cached, nil
	}

	dashboard, err := s.compute(ctx, userID)
	if err != nil {
		return models.Dashboard{}, err
	}

	if err := s.cache.Set(dashboardCacheKey(userID), dashboard, s.cacheTTL); err != nil {
		log.Warn("failed to cache dashboard: %v", err)
	}
	return dashboard, nil
}

func (s *dashboardService) Warm(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Debug("warming dashboard cache: user_id=%s", userID)

	dashboard, err := s.compute(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cache.Set(dashboardCacheKey(userID), dashboard, s.cacheTTL); err != nil {
		log.Warn("failed to cache dashboard: %v", err)
	}
	return nil
}

func (s *dashboardService) Invalidate(userID string) {
	s.cache.Delete(dashboardCacheKey(userID))
}

func (s *dashboardService) compute(ctx context.Context, userID string) (models.Dashboard, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing dashboard: user_id=%s", userID)

	attempts, err := s.attempts.ListAllForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load attempts for dashboard: %v", err)
		return models.Dashboard{}, apperr.Internal(err)
	}

	now := time.Now().UTC()
	dashboard := models.Dashboard{
		Summary:          stats.ComputeSummary(attempts),
		Priority:         stats.ComputePriorityList(attempts),
		Recent:           stats.ComputeRecentQuestions(attempts, s.recentLimit),
		Heatmap:          stats.ComputeHeatmap(attempts, s.windowDays, now),
		HardestTag:       stats.ComputeHardestTag(attempts),
		TimeSeries:       stats.TimeSeries(attempts),
		DifficultySeries: stats.DifficultySeries(attempts),
		GeneratedAt:      now,
	}
	return dashboard, nil
}
