package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/phrasecards/internal/api"
	"github.com/vytor/phrasecards/internal/catalog"
	"github.com/vytor/phrasecards/internal/config"
	"github.com/vytor/phrasecards/internal/db"
	"github.com/vytor/phrasecards/internal/jobs"
	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/repository/sqlite"
	"github.com/vytor/phrasecards/internal/services"
	"github.com/vytor/phrasecards/internal/worker"
)

func main() {
	cfg := config.Load()

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(
		logger.WithLevel(level),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("PhraseCards Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("catalog_source=%s", cfg.CatalogSource)
	log.Debug("catalog_timeout=%v", cfg.CatalogTimeout())
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("daily_goal=%d", cfg.DailyGoal)
	log.Debug("timezone=%s", cfg.Location())
	log.Debug("worker_count=%d queue_size=%d", cfg.WorkerCount, cfg.QueueSize)
	log.Debug("grade_rate=%d/s burst=%d", cfg.GradeRatePerSecond, cfg.GradeRateBurst)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := sqlite.NewStateRepository(database.DB)
	reviews := services.NewReviewService(repo, time.Now)
	if err := reviews.Load(ctx); err != nil {
		log.Error("failed to load review state: %v", err)
		os.Exit(1)
	}
	quota := services.NewQuotaService(repo, time.Now, cfg.Location(), cfg.DailyGoal)
	if err := quota.Load(ctx); err != nil {
		log.Error("failed to load daily quota: %v", err)
		os.Exit(1)
	}

	loader := catalog.NewLoader(catalog.NewSource(cfg.CatalogSource, cfg.CatalogTimeout()))
	study := services.NewStudyService(loader, reviews, quota)

	// Without a catalog there is nothing to study.
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.CatalogTimeout())
	err = study.LoadCatalog(loadCtx)
	loadCancel()
	if err != nil {
		log.Error("failed to load card catalog from %s: %v", cfg.CatalogSource, err)
		os.Exit(1)
	}

	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	pool.Start(ctx)

	srv := &api.Server{
		Study:   study,
		Jobs:    jobs.NewWorkerQueue(pool, study, cfg.CatalogTimeout()),
		DB:      database,
		Limiter: api.NewRateLimiter(cfg.GradeRatePerSecond, cfg.GradeRateBurst),
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	pool.Stop()

	log.Info("===========================================")
	log.Info("PhraseCards Server Stopped")
	log.Info("===========================================")
}
