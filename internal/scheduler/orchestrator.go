// Package scheduler drives the recurring pipeline runs: weekly stat pulls
// after the provider publishes, followed by aggregate recomputes.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/jobs"
	"github.com/fortuna/gridiron/internal/publisher"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config holds scheduler configuration.
type Config struct {
	CurrentSeason int
	WeeklyCron    string // cron spec for the weekly stats pull
	AggregateCron string // cron spec for the aggregate recompute
	MaxRetries    int
	RetryDelay    time.Duration
}

// DefaultConfig returns default scheduler configuration. The weekly pull runs
// Tuesday mornings UTC, after Monday-night stats land; aggregates follow.
func DefaultConfig() *Config {
	return &Config{
		CurrentSeason: 2025,
		WeeklyCron:    "0 6 * * 2",
		AggregateCron: "30 6 * * 2",
		MaxRetries:    3,
		RetryDelay:    5 * time.Second,
	}
}

// Orchestrator schedules recurring ETL jobs and publishes refresh events.
type Orchestrator struct {
	jobs      *jobs.Service
	cache     *cache.RedisCache
	publisher *publisher.RedisStreamPublisher
	config    *Config
	cron      *cron.Cron
	logger    *logrus.Logger
}

// NewOrchestrator creates a scheduler over the jobs service. The cache is
// optional; when present, hot-query keys are invalidated after each refresh.
func NewOrchestrator(jobService *jobs.Service, redisCache *cache.RedisCache, config *Config, logger *logrus.Logger) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var streamPublisher *publisher.RedisStreamPublisher
	if redisCache != nil {
		streamPublisher = publisher.NewRedisStreamPublisher(redisCache.Client())
	}

	return &Orchestrator{
		jobs:      jobService,
		cache:     redisCache,
		publisher: streamPublisher,
		config:    config,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the cron entries and begins scheduling. Blocks until the
// context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.logger.WithFields(logrus.Fields{
		"season":         o.config.CurrentSeason,
		"weekly_cron":    o.config.WeeklyCron,
		"aggregate_cron": o.config.AggregateCron,
	}).Info("scheduler starting")

	if _, err := o.cron.AddFunc(o.config.WeeklyCron, func() {
		o.runWithRetry(ctx, "weekly refresh", func() error {
			return o.enqueueWeeklyRefresh(ctx)
		})
	}); err != nil {
		return fmt.Errorf("register weekly cron: %w", err)
	}

	if _, err := o.cron.AddFunc(o.config.AggregateCron, func() {
		o.runWithRetry(ctx, "aggregate refresh", func() error {
			return o.enqueueAggregateRefresh(ctx)
		})
	}); err != nil {
		return fmt.Errorf("register aggregate cron: %w", err)
	}

	o.cron.Start()

	<-ctx.Done()
	o.logger.Info("scheduler stopping")

	stopCtx := o.cron.Stop()
	<-stopCtx.Done()
	o.logger.Info("✓ scheduler stopped")
	return nil
}

// enqueueWeeklyRefresh queues plays and weekly-stats pulls for the current
// season.
func (o *Orchestrator) enqueueWeeklyRefresh(ctx context.Context) error {
	for _, jobType := range []jobs.JobType{jobs.JobTypePlays, jobs.JobTypeWeekly} {
		if _, err := o.jobs.Enqueue(ctx, jobs.Request{
			Type:   jobType,
			Season: o.config.CurrentSeason,
		}); err != nil {
			return fmt.Errorf("enqueue %s: %w", jobType, err)
		}
	}

	o.notify(ctx, publisher.RefreshEvent{Stage: "weekly", Season: o.config.CurrentSeason})
	return nil
}

// enqueueAggregateRefresh queues the derived-table recomputes.
func (o *Orchestrator) enqueueAggregateRefresh(ctx context.Context) error {
	for _, jobType := range []jobs.JobType{jobs.JobTypeSplits, jobs.JobTypeUsage, jobs.JobTypeTeamContext} {
		if _, err := o.jobs.Enqueue(ctx, jobs.Request{
			Type:   jobType,
			Season: o.config.CurrentSeason,
		}); err != nil {
			return fmt.Errorf("enqueue %s: %w", jobType, err)
		}
	}

	o.notify(ctx, publisher.RefreshEvent{Stage: "aggregates", Season: o.config.CurrentSeason})
	return nil
}

func (o *Orchestrator) notify(ctx context.Context, event publisher.RefreshEvent) {
	if o.cache != nil {
		if err := o.cache.InvalidatePrefix(ctx, "gridiron:"); err != nil {
			o.logger.WithError(err).Warn("cache invalidation failed")
		}
	}
	if o.publisher == nil {
		return
	}

	var err error
	if event.Stage == "weekly" {
		err = o.publisher.PublishWeeklyRefresh(ctx, event)
	} else {
		err = o.publisher.PublishAggregateRefresh(ctx, event)
	}
	if err != nil {
		o.logger.WithError(err).Warn("refresh event publish failed")
	}
}

func (o *Orchestrator) runWithRetry(ctx context.Context, name string, fn func() error) {
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			o.logger.Infof("✓ %s scheduled", name)
			return
		}

		o.logger.WithError(err).Warnf("%s attempt %d/%d failed", name, attempt, o.config.MaxRetries)

		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.config.RetryDelay):
			}
		}
	}

	o.logger.Errorf("❌ %s failed after %d attempts", name, o.config.MaxRetries)
}

// GetStatus returns current scheduler status for the health endpoint.
func (o *Orchestrator) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"current_season": o.config.CurrentSeason,
		"weekly_cron":    o.config.WeeklyCron,
		"aggregate_cron": o.config.AggregateCron,
		"entries":        len(o.cron.Entries()),
	}
}
