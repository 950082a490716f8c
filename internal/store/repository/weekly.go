package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// WeeklyStatsRepository handles player weekly stats and derived fantasy scores.
type WeeklyStatsRepository struct {
	db *store.Database
}

// NewWeeklyStatsRepository creates a new weekly stats repository.
func NewWeeklyStatsRepository(db *store.Database) *WeeklyStatsRepository {
	return &WeeklyStatsRepository{db: db}
}

// UpsertPlayerWeekStat inserts or updates one player-week row.
func (r *WeeklyStatsRepository) UpsertPlayerWeekStat(ctx context.Context, s *store.PlayerWeekStat) error {
	query := `
		INSERT INTO player_weekly_stats (season, week, player_id, player_name, team, position,
			targets, receptions, receiving_yards, receiving_tds,
			rush_attempts, rushing_yards, rushing_tds,
			pass_attempts, completions, passing_yards, passing_tds, interceptions, fumbles_lost,
			snaps, snap_share, routes_run, routes_estimated)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (season, week, player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team = EXCLUDED.team,
			position = EXCLUDED.position,
			targets = EXCLUDED.targets,
			receptions = EXCLUDED.receptions,
			receiving_yards = EXCLUDED.receiving_yards,
			receiving_tds = EXCLUDED.receiving_tds,
			rush_attempts = EXCLUDED.rush_attempts,
			rushing_yards = EXCLUDED.rushing_yards,
			rushing_tds = EXCLUDED.rushing_tds,
			pass_attempts = EXCLUDED.pass_attempts,
			completions = EXCLUDED.completions,
			passing_yards = EXCLUDED.passing_yards,
			passing_tds = EXCLUDED.passing_tds,
			interceptions = EXCLUDED.interceptions,
			fumbles_lost = EXCLUDED.fumbles_lost,
			snaps = EXCLUDED.snaps,
			snap_share = EXCLUDED.snap_share,
			routes_run = EXCLUDED.routes_run,
			routes_estimated = EXCLUDED.routes_estimated,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		s.Season, s.Week, s.PlayerID, s.PlayerName, s.Team, s.Position,
		s.Targets, s.Receptions, s.ReceivingYards, s.ReceivingTDs,
		s.RushAttempts, s.RushingYards, s.RushingTDs,
		s.PassAttempts, s.Completions, s.PassingYards, s.PassingTDs, s.Interceptions, s.FumblesLost,
		s.Snaps, s.SnapShare, s.RoutesRun, s.RoutesEstimated,
	)
	if err != nil {
		return fmt.Errorf("upserting player week stat: %w", err)
	}

	return nil
}

// UpsertPlayerScore inserts or updates one fantasy score row.
func (r *WeeklyStatsRepository) UpsertPlayerScore(ctx context.Context, s *store.PlayerScore) error {
	query := `
		INSERT INTO player_scores (season, week, player_id, player_name, team, position,
			points_ppr, points_half_ppr)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (season, week, player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team = EXCLUDED.team,
			position = EXCLUDED.position,
			points_ppr = EXCLUDED.points_ppr,
			points_half_ppr = EXCLUDED.points_half_ppr,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		s.Season, s.Week, s.PlayerID, s.PlayerName, s.Team, s.Position,
		s.PointsPPR, s.PointsHalf,
	)
	if err != nil {
		return fmt.Errorf("upserting player score: %w", err)
	}

	return nil
}

// GetPlayerWeeklyStats returns a player's rows for a season ordered by week.
func (r *WeeklyStatsRepository) GetPlayerWeeklyStats(ctx context.Context, season int, playerID string) ([]*store.PlayerWeekStat, error) {
	query := `
		SELECT season, week, player_id, player_name, team, position,
			targets, receptions, receiving_yards, receiving_tds,
			rush_attempts, rushing_yards, rushing_tds,
			pass_attempts, completions, passing_yards, passing_tds, interceptions, fumbles_lost,
			snaps, snap_share, routes_run, routes_estimated, created_at, updated_at
		FROM player_weekly_stats
		WHERE season = $1 AND player_id = $2
		ORDER BY week
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying player weekly stats: %w", err)
	}
	defer rows.Close()

	var stats []*store.PlayerWeekStat
	for rows.Next() {
		s := &store.PlayerWeekStat{}
		err := rows.Scan(
			&s.Season, &s.Week, &s.PlayerID, &s.PlayerName, &s.Team, &s.Position,
			&s.Targets, &s.Receptions, &s.ReceivingYards, &s.ReceivingTDs,
			&s.RushAttempts, &s.RushingYards, &s.RushingTDs,
			&s.PassAttempts, &s.Completions, &s.PassingYards, &s.PassingTDs, &s.Interceptions, &s.FumblesLost,
			&s.Snaps, &s.SnapShare, &s.RoutesRun, &s.RoutesEstimated, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player week stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetSeasonStats returns every player-week row for a season, ordered by
// (week, player_id). Used to join snap and route data into derived tables.
func (r *WeeklyStatsRepository) GetSeasonStats(ctx context.Context, season int) ([]*store.PlayerWeekStat, error) {
	query := `
		SELECT season, week, player_id, player_name, team, position,
			targets, receptions, receiving_yards, receiving_tds,
			rush_attempts, rushing_yards, rushing_tds,
			pass_attempts, completions, passing_yards, passing_tds, interceptions, fumbles_lost,
			snaps, snap_share, routes_run, routes_estimated, created_at, updated_at
		FROM player_weekly_stats
		WHERE season = $1
		ORDER BY week, player_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying season stats: %w", err)
	}
	defer rows.Close()

	var stats []*store.PlayerWeekStat
	for rows.Next() {
		s := &store.PlayerWeekStat{}
		err := rows.Scan(
			&s.Season, &s.Week, &s.PlayerID, &s.PlayerName, &s.Team, &s.Position,
			&s.Targets, &s.Receptions, &s.ReceivingYards, &s.ReceivingTDs,
			&s.RushAttempts, &s.RushingYards, &s.RushingTDs,
			&s.PassAttempts, &s.Completions, &s.PassingYards, &s.PassingTDs, &s.Interceptions, &s.FumblesLost,
			&s.Snaps, &s.SnapShare, &s.RoutesRun, &s.RoutesEstimated, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning season stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetWeekScores returns all fantasy scores for one (season, week) ordered by
// PPR points descending.
func (r *WeeklyStatsRepository) GetWeekScores(ctx context.Context, season, week int) ([]*store.PlayerScore, error) {
	query := `
		SELECT season, week, player_id, player_name, team, position,
			points_ppr, points_half_ppr, created_at, updated_at
		FROM player_scores
		WHERE season = $1 AND week = $2
		ORDER BY points_ppr DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("querying week scores: %w", err)
	}
	defer rows.Close()

	var scores []*store.PlayerScore
	for rows.Next() {
		s := &store.PlayerScore{}
		err := rows.Scan(
			&s.Season, &s.Week, &s.PlayerID, &s.PlayerName, &s.Team, &s.Position,
			&s.PointsPPR, &s.PointsHalf, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player score: %w", err)
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}
