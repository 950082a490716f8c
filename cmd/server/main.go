// Command server runs the read API, the ETL job worker, and (optionally)
// the cron scheduler as one process.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/gridiron/internal/api/rest"
	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/config"
	"github.com/fortuna/gridiron/internal/jobs"
	"github.com/fortuna/gridiron/internal/scheduler"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, serving without cache")
		} else {
			defer redisCache.Close()
		}
	}

	jobsSvc := jobs.NewService(db, cfg.NflverseBaseURL, logger).WithBatchSize(cfg.UpsertBatchSize)
	jobsSvc.Start()

	server := rest.NewServer(cfg.Port, db, redisCache, jobsSvc, cfg.CorsOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("✓ API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.EnableScheduler {
		sched := scheduler.NewOrchestrator(jobsSvc, redisCache, &scheduler.Config{
			CurrentSeason: cfg.CurrentSeason,
			WeeklyCron:    cfg.WeeklyCron,
			AggregateCron: cfg.AggregateCron,
			MaxRetries:    3,
			RetryDelay:    5 * time.Second,
		}, logger)

		g.Go(func() error {
			return sched.Start(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown")
		}
		return jobsSvc.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("❌ server exited with error")
		os.Exit(1)
	}

	logger.Info("✓ shutdown complete")
}
