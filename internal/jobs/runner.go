package jobs

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/analytics"
	"github.com/fortuna/gridiron/internal/ingest/nflverse"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
	"github.com/sirupsen/logrus"
)

// Runner executes ETL job specs: ingest stages pull nflverse assets into the
// warehouse, aggregate stages recompute the derived tables from the bronze
// layer.
type Runner struct {
	ingester   *nflverse.Ingester
	playRepo   *repository.PlayRepository
	weeklyRepo *repository.WeeklyStatsRepository
	usageRepo  *repository.UsageRepository
	splitsRepo *repository.SplitsRepository
	ctxRepo    *repository.TeamContextRepository
	logger     *logrus.Logger
}

// NewRunner constructs a runner. An empty baseURL uses the public nflverse
// releases.
func NewRunner(db *store.Database, baseURL string, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{
		ingester:   nflverse.NewIngester(db, baseURL, logger),
		playRepo:   repository.NewPlayRepository(db),
		weeklyRepo: repository.NewWeeklyStatsRepository(db),
		usageRepo:  repository.NewUsageRepository(db),
		splitsRepo: repository.NewSplitsRepository(db),
		ctxRepo:    repository.NewTeamContextRepository(db),
		logger:     logger,
	}
}

// WithBatchSize overrides the play upsert batch size. Zero keeps the
// repository default.
func (r *Runner) WithBatchSize(n int) *Runner {
	r.playRepo.WithBatchSize(n)
	return r
}

// stages expands a spec into the ordered list of pipeline stages it runs.
// The full job rebuilds everything: raw plays and weekly stats first, then
// the derived tables that read from bronze.
func (s JobSpec) stages() []JobType {
	if s.Type == JobTypeFull {
		return []JobType{
			JobTypeReference, JobTypePlays, JobTypeWeekly,
			JobTypeSplits, JobTypeUsage, JobTypeTeamContext,
		}
	}
	return []JobType{s.Type}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter != nil {
		reporter.OnJobStart(spec)
	}

	if spec.Season == 0 {
		return fmt.Errorf("job requires a season")
	}

	if spec.DryRun {
		if reporter != nil {
			reporter.OnProgress("Dry-run mode: no data will be written", 0, 0)
			reporter.OnJobComplete()
		}
		return nil
	}

	stages := spec.stages()
	for idx, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		if reporter != nil {
			reporter.OnStageStart(string(stage), idx, len(stages))
		}

		if err := r.runStage(ctx, stage, spec); err != nil {
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return fmt.Errorf("stage %s: %w", stage, err)
		}

		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("✓ %s complete", stage), idx+1, len(stages))
		}
	}

	if reporter != nil {
		reporter.OnJobComplete()
	}

	return nil
}

func (r *Runner) runStage(ctx context.Context, stage JobType, spec JobSpec) error {
	switch stage {
	case JobTypePlays:
		_, err := r.ingester.IngestPlays(ctx, spec.Season, spec.Weeks)
		return err

	case JobTypeWeekly:
		if len(spec.Weeks) == 0 {
			_, err := r.ingester.IngestWeekly(ctx, spec.Season, 0)
			return err
		}
		for _, w := range spec.Weeks {
			if _, err := r.ingester.IngestWeekly(ctx, spec.Season, w); err != nil {
				return err
			}
		}
		return nil

	case JobTypeReference:
		return r.ingester.IngestReference(ctx, spec.Season)

	case JobTypeSplits:
		plays, err := r.loadPlays(ctx, spec)
		if err != nil {
			return err
		}
		splits := analytics.ComputeWPSplits(spec.Season, plays)
		_, err = r.splitsRepo.UpsertSplitsBatch(ctx, splits)
		return err

	case JobTypeUsage:
		plays, err := r.loadPlays(ctx, spec)
		if err != nil {
			return err
		}
		usage := analytics.ComputeUsage(spec.Season, plays)
		stats, err := r.weeklyRepo.GetSeasonStats(ctx, spec.Season)
		if err != nil {
			return fmt.Errorf("load weekly stats for usage enrichment: %w", err)
		}
		analytics.EnrichUsage(usage, stats)
		_, err = r.usageRepo.UpsertUsageBatch(ctx, usage)
		return err

	case JobTypeTeamContext:
		plays, err := r.loadPlays(ctx, spec)
		if err != nil {
			return err
		}
		offense, defense := analytics.ComputeTeamContext(spec.Season, plays)
		if _, err := r.ctxRepo.UpsertContextBatch(ctx, repository.SideOffense, offense); err != nil {
			return err
		}
		_, err = r.ctxRepo.UpsertContextBatch(ctx, repository.SideDefense, defense)
		return err

	default:
		return fmt.Errorf("unsupported job type %s", stage)
	}
}

func (r *Runner) loadPlays(ctx context.Context, spec JobSpec) ([]*store.Play, error) {
	plays, err := r.playRepo.GetSeasonPlays(ctx, spec.Season, spec.Weeks)
	if err != nil {
		return nil, fmt.Errorf("load season plays: %w", err)
	}
	if len(plays) == 0 {
		r.logger.WithField("season", spec.Season).Warn("no bronze plays loaded; run a plays job first")
	}
	return plays, nil
}
