// Package main is the entry point for the qscope quantum circuit
// simulation backend. It wires the simulator, analytics, education,
// qchat, cache, queue and scheduler and serves the HTTP API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/qscope/internal/analytics"
	"github.com/aristath/qscope/internal/cache"
	"github.com/aristath/qscope/internal/config"
	"github.com/aristath/qscope/internal/database"
	"github.com/aristath/qscope/internal/education"
	"github.com/aristath/qscope/internal/qchat"
	"github.com/aristath/qscope/internal/quantum"
	"github.com/aristath/qscope/internal/queue"
	"github.com/aristath/qscope/internal/scheduler"
	"github.com/aristath/qscope/internal/server"
	"github.com/aristath/qscope/internal/simulation"
	"github.com/aristath/qscope/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting qscope")

	// Cache database
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer func() {
		if err := cacheDB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close cache database")
		}
	}()

	cacheRepo := cache.NewRepository(cacheDB.Conn())
	if err := cacheRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache schema")
	}

	// Background queue for async simulations
	queueManager := queue.NewManager(cfg.QueueWorkers, log)
	queueManager.Start()
	defer queueManager.Stop()

	// Core services
	simulator := quantum.NewSimulator(cfg.MaxQubits, cfg.MaxGates, log)
	simulationSvc := simulation.NewService(simulator, cacheRepo, queueManager, cfg.MaxQubits, cfg.MaxGates, log)
	analyticsSvc := analytics.New(simulator, log)
	educationEngine := education.NewEngine(simulator, log)

	qchatClient := qchat.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, nil, log)
	qchatSvc := qchat.NewService(qchatClient, cacheRepo, cfg.QChatTimeout, log)
	if !qchatClient.Configured() {
		log.Warn().Msg("OPENROUTER_API_KEY not set, qchat serves fallback answers only")
	}

	// Scheduled maintenance
	sched := scheduler.New(log)
	cleanupJob := cache.NewCleanupJob(cacheRepo, log)
	if err := sched.AddJob("@hourly", cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule cache cleanup")
	}
	if err := sched.AddJob("@every 10m", queue.NewGCJob(queueManager, cfg.JobRetention, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule job GC")
	}
	sched.Start()
	defer sched.Stop()

	// Drop entries that expired while the service was down.
	if err := sched.RunNow(cleanupJob); err != nil {
		log.Warn().Err(err).Msg("Startup cache cleanup failed")
	}

	srv := server.New(server.Config{
		Log:          log,
		Config:       cfg,
		Simulation:   simulationSvc,
		Analytics:    analyticsSvc,
		Education:    educationEngine,
		QChat:        qchatSvc,
		QueueManager: queueManager,
		CacheRepo:    cacheRepo,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("qscope stopped")
}
