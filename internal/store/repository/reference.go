package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// ReferenceRepository handles the schedule, depth chart, and identity map
// reference tables.
type ReferenceRepository struct {
	db *store.Database
}

// NewReferenceRepository creates a new reference repository.
func NewReferenceRepository(db *store.Database) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// UpsertSchedule inserts or updates one schedule row.
func (r *ReferenceRepository) UpsertSchedule(ctx context.Context, g *store.ScheduleRecord) error {
	query := `
		INSERT INTO schedule (game_id, season, week, gameday, kickoff, home_team, away_team)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (game_id) DO UPDATE SET
			season = EXCLUDED.season,
			week = EXCLUDED.week,
			gameday = EXCLUDED.gameday,
			kickoff = EXCLUDED.kickoff,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		g.GameID, g.Season, g.Week, g.Gameday, g.Kickoff, g.HomeTeam, g.AwayTeam)
	if err != nil {
		return fmt.Errorf("upserting schedule: %w", err)
	}
	return nil
}

// GetSchedule returns schedule rows for a season, optionally one week.
func (r *ReferenceRepository) GetSchedule(ctx context.Context, season int, week int) ([]*store.ScheduleRecord, error) {
	query := `
		SELECT game_id, season, week, gameday, kickoff, home_team, away_team, created_at, updated_at
		FROM schedule
		WHERE season = $1 AND ($2 = 0 OR week = $2)
		ORDER BY week, gameday, game_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var games []*store.ScheduleRecord
	for rows.Next() {
		g := &store.ScheduleRecord{}
		err := rows.Scan(&g.GameID, &g.Season, &g.Week, &g.Gameday, &g.Kickoff,
			&g.HomeTeam, &g.AwayTeam, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}

// UpsertDepthChartSlot inserts or updates one depth chart slot.
func (r *ReferenceRepository) UpsertDepthChartSlot(ctx context.Context, d *store.DepthChartRecord) error {
	query := `
		INSERT INTO depth_charts (season, week, team, position, rank, player_id, player_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (season, week, team, position, rank) DO UPDATE SET
			player_id = EXCLUDED.player_id,
			player_name = EXCLUDED.player_name,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		d.Season, d.Week, d.Team, d.Position, d.Rank, d.PlayerID, d.PlayerName)
	if err != nil {
		return fmt.Errorf("upserting depth chart slot: %w", err)
	}
	return nil
}

// GetDepthChart returns a team's depth chart for one (season, week).
func (r *ReferenceRepository) GetDepthChart(ctx context.Context, season, week int, team string) ([]*store.DepthChartRecord, error) {
	query := `
		SELECT season, week, team, position, rank, player_id, player_name, created_at, updated_at
		FROM depth_charts
		WHERE season = $1 AND week = $2 AND team = $3
		ORDER BY position, rank
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season, week, team)
	if err != nil {
		return nil, fmt.Errorf("querying depth chart: %w", err)
	}
	defer rows.Close()

	var slots []*store.DepthChartRecord
	for rows.Next() {
		d := &store.DepthChartRecord{}
		err := rows.Scan(&d.Season, &d.Week, &d.Team, &d.Position, &d.Rank,
			&d.PlayerID, &d.PlayerName, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning depth chart slot: %w", err)
		}
		slots = append(slots, d)
	}

	return slots, rows.Err()
}

// UpsertIdentityMapping inserts or updates one identity row. The season/week
// columns only move forward so the map always reflects the most recent
// team assignment.
func (r *ReferenceRepository) UpsertIdentityMapping(ctx context.Context, m *store.IdentityMapping) error {
	query := `
		INSERT INTO player_identity_map (canonical_id, gsis_id, fantasy_id, full_name, team, position, season, week)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (canonical_id) DO UPDATE SET
			gsis_id = COALESCE(EXCLUDED.gsis_id, player_identity_map.gsis_id),
			fantasy_id = COALESCE(EXCLUDED.fantasy_id, player_identity_map.fantasy_id),
			full_name = EXCLUDED.full_name,
			team = CASE
				WHEN (EXCLUDED.season, EXCLUDED.week) >= (player_identity_map.season, player_identity_map.week)
				THEN EXCLUDED.team ELSE player_identity_map.team END,
			position = EXCLUDED.position,
			season = GREATEST(EXCLUDED.season, player_identity_map.season),
			week = CASE
				WHEN EXCLUDED.season > player_identity_map.season THEN EXCLUDED.week
				WHEN EXCLUDED.season = player_identity_map.season THEN GREATEST(EXCLUDED.week, player_identity_map.week)
				ELSE player_identity_map.week END,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		m.CanonicalID, m.GsisID, m.FantasyID, m.FullName, m.Team, m.Position, m.Season, m.Week)
	if err != nil {
		return fmt.Errorf("upserting identity mapping: %w", err)
	}
	return nil
}

// GetIdentityMappings returns the whole identity map, used to seed the
// in-memory resolver at job start.
func (r *ReferenceRepository) GetIdentityMappings(ctx context.Context) ([]*store.IdentityMapping, error) {
	query := `
		SELECT canonical_id, gsis_id, fantasy_id, full_name, team, position, season, week, created_at, updated_at
		FROM player_identity_map
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying identity map: %w", err)
	}
	defer rows.Close()

	var mappings []*store.IdentityMapping
	for rows.Next() {
		m := &store.IdentityMapping{}
		err := rows.Scan(&m.CanonicalID, &m.GsisID, &m.FantasyID, &m.FullName, &m.Team,
			&m.Position, &m.Season, &m.Week, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning identity mapping: %w", err)
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}
