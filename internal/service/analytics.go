package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// cacheTTL bounds staleness of hot week-level queries between pipeline runs.
const cacheTTL = 5 * time.Minute

// AnalyticsService serves the derived tables: WP splits, usage, and team
// context. A Redis cache fronts the week-level queries when configured.
type AnalyticsService struct {
	splitsRepo *repository.SplitsRepository
	usageRepo  *repository.UsageRepository
	ctxRepo    *repository.TeamContextRepository
	cache      *cache.RedisCache
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(db *store.Database, redisCache *cache.RedisCache) *AnalyticsService {
	return &AnalyticsService{
		splitsRepo: repository.NewSplitsRepository(db),
		usageRepo:  repository.NewUsageRepository(db),
		ctxRepo:    repository.NewTeamContextRepository(db),
		cache:      redisCache,
	}
}

// GetWeekSplits returns the WP splits for one week, highest total WPA first.
func (s *AnalyticsService) GetWeekSplits(ctx context.Context, season, week int) ([]*store.WPSplit, error) {
	key := fmt.Sprintf("gridiron:splits:%d:%d", season, week)

	var cached []*store.WPSplit
	if s.hit(ctx, key, &cached) {
		return cached, nil
	}

	splits, err := s.splitsRepo.GetWeekSplits(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("fetching week splits: %w", err)
	}

	s.put(ctx, key, splits)
	return splits, nil
}

// GetPlayerSplits returns one player's splits across a season.
func (s *AnalyticsService) GetPlayerSplits(ctx context.Context, season int, playerID string) ([]*store.WPSplit, error) {
	splits, err := s.splitsRepo.GetPlayerSplits(ctx, season, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetching player splits: %w", err)
	}
	return splits, nil
}

// GetWeekUsage returns per-player usage rows for one week.
func (s *AnalyticsService) GetWeekUsage(ctx context.Context, season, week int) ([]*store.UsageRecord, error) {
	key := fmt.Sprintf("gridiron:usage:%d:%d", season, week)

	var cached []*store.UsageRecord
	if s.hit(ctx, key, &cached) {
		return cached, nil
	}

	usage, err := s.usageRepo.GetWeekUsage(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("fetching week usage: %w", err)
	}

	s.put(ctx, key, usage)
	return usage, nil
}

// GetTeamContext returns one team's weekly efficiency rows for a side of
// the ball across a season.
func (s *AnalyticsService) GetTeamContext(ctx context.Context, side repository.Side, season int, team string) ([]*store.TeamContext, error) {
	records, err := s.ctxRepo.GetTeamContext(ctx, side, season, team)
	if err != nil {
		return nil, fmt.Errorf("fetching team context: %w", err)
	}
	return records, nil
}

func (s *AnalyticsService) hit(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(ctx, key, dest)
	return err == nil && ok
}

func (s *AnalyticsService) put(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	// Cache write failures only cost the next read a DB trip.
	_ = s.cache.SetJSON(ctx, key, value, cacheTTL)
}
