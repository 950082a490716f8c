package service

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// ReferenceService serves schedules, depth charts, and identity mappings.
type ReferenceService struct {
	refRepo *repository.ReferenceRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(db *store.Database) *ReferenceService {
	return &ReferenceService{
		refRepo: repository.NewReferenceRepository(db),
	}
}

// GetSchedule returns the games for a season, optionally one week (week 0
// returns the full season).
func (s *ReferenceService) GetSchedule(ctx context.Context, season, week int) ([]*store.ScheduleRecord, error) {
	games, err := s.refRepo.GetSchedule(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	return games, nil
}

// GetDepthChart returns one team's depth chart slots for a week.
func (s *ReferenceService) GetDepthChart(ctx context.Context, season, week int, team string) ([]*store.DepthChartRecord, error) {
	slots, err := s.refRepo.GetDepthChart(ctx, season, week, team)
	if err != nil {
		return nil, fmt.Errorf("fetching depth chart: %w", err)
	}
	return slots, nil
}
