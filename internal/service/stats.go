package service

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// StatsService handles weekly stat and fantasy score queries.
type StatsService struct {
	weeklyRepo *repository.WeeklyStatsRepository
}

// NewStatsService creates a new stats service
func NewStatsService(db *store.Database) *StatsService {
	return &StatsService{
		weeklyRepo: repository.NewWeeklyStatsRepository(db),
	}
}

// PlayerSeasonLine combines a player's weekly rows with season totals.
type PlayerSeasonLine struct {
	PlayerID string                  `json:"player_id"`
	Season   int                     `json:"season"`
	Weeks    []*store.PlayerWeekStat `json:"weeks"`
	Totals   SeasonTotals            `json:"totals"`
}

// SeasonTotals are summed counting stats across the returned weeks.
type SeasonTotals struct {
	Targets        int     `json:"targets"`
	Receptions     int     `json:"receptions"`
	ReceivingYards float64 `json:"receiving_yards"`
	ReceivingTDs   int     `json:"receiving_tds"`
	RushAttempts   int     `json:"rush_attempts"`
	RushingYards   float64 `json:"rushing_yards"`
	RushingTDs     int     `json:"rushing_tds"`
	PassingYards   float64 `json:"passing_yards"`
	PassingTDs     int     `json:"passing_tds"`
}

// GetPlayerSeason returns a player's weekly stat lines plus season totals.
func (s *StatsService) GetPlayerSeason(ctx context.Context, season int, playerID string) (*PlayerSeasonLine, error) {
	weeks, err := s.weeklyRepo.GetPlayerWeeklyStats(ctx, season, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetching weekly stats: %w", err)
	}

	line := &PlayerSeasonLine{
		PlayerID: playerID,
		Season:   season,
		Weeks:    weeks,
	}
	for _, w := range weeks {
		line.Totals.Targets += w.Targets
		line.Totals.Receptions += w.Receptions
		line.Totals.ReceivingYards += w.ReceivingYards
		line.Totals.ReceivingTDs += w.ReceivingTDs
		line.Totals.RushAttempts += w.RushAttempts
		line.Totals.RushingYards += w.RushingYards
		line.Totals.RushingTDs += w.RushingTDs
		line.Totals.PassingYards += w.PassingYards
		line.Totals.PassingTDs += w.PassingTDs
	}

	return line, nil
}

// GetWeekScores returns the fantasy scores for every player in a week,
// ordered by PPR points.
func (s *StatsService) GetWeekScores(ctx context.Context, season, week int) ([]*store.PlayerScore, error) {
	scores, err := s.weeklyRepo.GetWeekScores(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("fetching week scores: %w", err)
	}
	return scores, nil
}
