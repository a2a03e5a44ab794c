package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"projecthub/internal/config"
	"projecthub/internal/db"
	"projecthub/internal/event"
	redisclient "projecthub/internal/redis"
	"projecthub/internal/repository"
	"projecthub/internal/service"
	"projecthub/pkg/logger"
)

// lockTTL bounds how long a crashed sweeper instance blocks the others.
const lockTTL = 5 * time.Minute

func main() {
	cfg := config.Load()

	logg := logger.New(cfg.Log.Level, cfg.Log.File)
	defer logg.Sync()

	logg.Info("Starting sweeper...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("schedule", cfg.Sweeper.Schedule),
	)

	dbConn, err := db.NewConnection(cfg.DB, logg)
	if err != nil {
		logg.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()
	lock := redisclient.NewLock(rdb, "projecthub:sweeper:lock", lockTTL)

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, logg)
	projectRepo := repository.NewProjectRepository(dbConn, logg)
	taskRepo := repository.NewTaskRepository(dbConn, logg)
	activityRepo := repository.NewActivityRepository(dbConn, logg)
	notificationRepo := repository.NewNotificationRepository(dbConn, logg)

	// Event fan-out. Missed-task events only write activity logs, but the
	// dispatcher is wired identically to the server's.
	recorder := event.NewRecorder(event.Snapshot{
		Users:     userRepo,
		Logs:      activityRepo,
		Assignees: taskRepo,
	})
	dispatcher := event.NewDispatcher(recorder, event.NewNotifier(), activityRepo, notificationRepo, logg)

	sweeper := service.NewSweeper(taskRepo, projectRepo, dispatcher, logg)

	runSweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if !lock.Acquire(ctx) {
			logg.Info("Sweep skipped: another instance holds the lock")
			return
		}
		defer lock.Release(ctx)

		if _, err := sweeper.Sweep(ctx, time.Now()); err != nil {
			logg.Error("Sweep failed", zap.Error(err))
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Sweeper.Schedule, runSweep); err != nil {
		logg.Fatal("Invalid sweeper schedule",
			zap.String("schedule", cfg.Sweeper.Schedule),
			zap.Error(err),
		)
	}

	// Run once on startup so a long deploy gap doesn't leave stale tasks
	// waiting for the next tick.
	runSweep()
	c.Start()

	// Health and metrics endpoint
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":8081", Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logg.Info("Sweeper is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down sweeper...")

	cronCtx := c.Stop()
	<-cronCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("HTTP server shutdown error", zap.Error(err))
	}

	logg.Info("Sweeper shutdown complete")
}
