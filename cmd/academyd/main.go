package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/footballinvestment/lion-football-academy/api"
	"github.com/footballinvestment/lion-football-academy/internal/analytics"
	"github.com/footballinvestment/lion-football-academy/internal/events"
	"github.com/footballinvestment/lion-football-academy/internal/logger"
	"github.com/footballinvestment/lion-football-academy/internal/mailer"
	"github.com/footballinvestment/lion-football-academy/internal/queue"
	"github.com/footballinvestment/lion-football-academy/internal/scheduler"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/database"
	"github.com/footballinvestment/lion-football-academy/pkg/database/queries"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	bus := events.NewEventBus(cfg.Events.BufferSize)
	publisher := events.NewPublisher(bus)

	eventLogger := events.NewEventLogger(bus.SubscribeAll())
	eventLogger.Start()
	defer eventLogger.Stop()

	attendanceRepo := queries.NewAttendanceRepository(db.DB)
	sessionRepo := queries.NewSessionRepository(db.DB)
	prefRepo := queries.NewPreferenceRepository(db.DB)

	analyticsService := analytics.New(attendanceRepo, sessionRepo, publisher, analytics.Config{
		DefaultWindowWeeks: cfg.Analytics.DefaultWindowWeeks,
	})

	mail, err := mailer.New(cfg.Notifier)
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	registry := queue.NewRegistry()
	if err := queue.RegisterHandlers(registry, mail); err != nil {
		return fmt.Errorf("failed to register queue handlers: %w", err)
	}

	queueClient, rdb := queue.Connect(context.Background(), cfg.Queue, cfg.Redis, registry, publisher)
	defer queueClient.Close()

	var worker *queue.Worker
	if durable, ok := queueClient.(*queue.DurableClient); ok && rdb != nil {
		worker = queue.NewWorker(durable)
		worker.Start()
	}

	sched, err := scheduler.New(cfg.Scheduler, cfg.Analytics, analyticsService, sessionRepo, prefRepo, queueClient, publisher)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := sched.StartAll(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	server := api.NewServer(cfg.API, cfg.WebSocket, cfg.App.Mode, api.Deps{
		DB:        db,
		Analytics: analyticsService,
		Queue:     queueClient,
		Bus:       bus,
		Publisher: publisher,
		Threshold: cfg.Analytics.LowAttendancePct,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	// Shutdown order: stop firing new work, drain the worker, then close the
	// outer surfaces.
	sched.StopAll()
	if worker != nil {
		worker.Stop()
	}

	shutdownTimeout := cfg.App.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	bus.Close()
	logger.Info("Server stopped gracefully")
	return nil
}
