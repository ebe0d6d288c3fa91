package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/steptracker/steptracker/internal/api"
	"github.com/steptracker/steptracker/internal/config"
	"github.com/steptracker/steptracker/internal/db"
	"github.com/steptracker/steptracker/internal/jobs"
	"github.com/steptracker/steptracker/internal/kv"
	"github.com/steptracker/steptracker/internal/logger"
	"github.com/steptracker/steptracker/internal/refresh"
	"github.com/steptracker/steptracker/internal/repository/sqlite"
	"github.com/steptracker/steptracker/internal/services"
	"github.com/steptracker/steptracker/internal/timer"
	"github.com/steptracker/steptracker/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StepTracker Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("catalog_path=%s", cfg.CatalogPath)
	log.Debug("tags_path=%s", cfg.TagsPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("dashboard_cache_ttl=%ds", cfg.DashboardCacheTTL)
	log.Debug("refresh_debounce=%dms", cfg.RefreshDebounceMS)
	log.Debug("heatmap_window_days=%d", cfg.HeatmapWindowDays)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	draftRepo := sqlite.NewDraftRepository(database.DB)
	questionRepo := sqlite.NewQuestionRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)

	// Shared infrastructure
	cache := kv.NewStore()
	timers := timer.NewRegistry()
	refresher := refresh.NewDebouncer(time.Duration(cfg.RefreshDebounceMS) * time.Millisecond)
	pool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	// Services
	userService := services.NewUserService(userRepo)
	questionService := services.NewQuestionService(questionRepo)
	dashboardService := services.NewDashboardService(
		attemptRepo, cache,
		time.Duration(cfg.DashboardCacheTTL)*time.Second,
		cfg.HeatmapWindowDays, cfg.RecentLimit,
	)
	draftService := services.NewDraftService(draftRepo, timers)
	attemptService := services.NewAttemptService(attemptRepo, draftRepo, timers, dashboardService, refresher)
	importService := services.NewCatalogImportService(questionRepo)

	queue := jobs.NewWorkerQueue(pool, importService, dashboardService)

	srv := &api.Server{
		DB:            database,
		Users:         userService,
		Questions:     questionService,
		Attempts:      attemptService,
		Drafts:        draftService,
		Dashboard:     dashboardService,
		Queue:         queue,
		Prefs:         cache,
		PriorityLimit: cfg.PriorityLimit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	// Seed the catalog in the background so startup is not blocked on it.
	if _, err := os.Stat(cfg.CatalogPath); err == nil {
		if err := queue.EnqueueCatalogImport(cfg.CatalogPath, cfg.TagsPath); err != nil {
			log.Warn("failed to enqueue catalog import: %v", err)
		}
	} else {
		log.Warn("catalog file %s not found, skipping import", cfg.CatalogPath)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	pool.Stop()

	log.Info("===========================================")
	log.Info("StepTracker Server Stopped")
	log.Info("===========================================")
}
