package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// UsageRepository handles per-player-week positional usage rows.
type UsageRepository struct {
	db *store.Database
}

// NewUsageRepository creates a new usage repository.
func NewUsageRepository(db *store.Database) *UsageRepository {
	return &UsageRepository{db: db}
}

// UpsertUsage inserts or updates one usage row.
func (r *UsageRepository) UpsertUsage(ctx context.Context, u *store.UsageRecord) error {
	query := `
		INSERT INTO player_usage (season, week, player_id, team, position,
			snap_share, target_share, carry_share, route_participation,
			targets, carries, gap_carries, zone_carries, team_pass_plays, team_rush_plays)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (season, week, player_id) DO UPDATE SET
			team = EXCLUDED.team,
			position = EXCLUDED.position,
			snap_share = EXCLUDED.snap_share,
			target_share = EXCLUDED.target_share,
			carry_share = EXCLUDED.carry_share,
			route_participation = EXCLUDED.route_participation,
			targets = EXCLUDED.targets,
			carries = EXCLUDED.carries,
			gap_carries = EXCLUDED.gap_carries,
			zone_carries = EXCLUDED.zone_carries,
			team_pass_plays = EXCLUDED.team_pass_plays,
			team_rush_plays = EXCLUDED.team_rush_plays,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		u.Season, u.Week, u.PlayerID, u.Team, u.Position,
		u.SnapShare, u.TargetShare, u.CarryShare, u.RouteParticipation,
		u.Targets, u.Carries, u.GapCarries, u.ZoneCarries, u.TeamPassPlays, u.TeamRushPlays,
	)
	if err != nil {
		return fmt.Errorf("upserting usage: %w", err)
	}

	return nil
}

// UpsertUsageBatch writes usage rows one statement per row inside a single
// transaction per fixed-size batch.
func (r *UsageRepository) UpsertUsageBatch(ctx context.Context, records []*store.UsageRecord) (int, error) {
	written := 0
	for start := 0; start < len(records); start += DefaultBatchSize {
		end := start + DefaultBatchSize
		if end > len(records) {
			end = len(records)
		}

		tx, err := r.db.DB().BeginTx(ctx, nil)
		if err != nil {
			return written, fmt.Errorf("begin tx: %w", err)
		}

		for _, u := range records[start:end] {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO player_usage (season, week, player_id, team, position,
					snap_share, target_share, carry_share, route_participation,
					targets, carries, gap_carries, zone_carries, team_pass_plays, team_rush_plays)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
				ON CONFLICT (season, week, player_id) DO UPDATE SET
					team = EXCLUDED.team,
					position = EXCLUDED.position,
					snap_share = EXCLUDED.snap_share,
					target_share = EXCLUDED.target_share,
					carry_share = EXCLUDED.carry_share,
					route_participation = EXCLUDED.route_participation,
					targets = EXCLUDED.targets,
					carries = EXCLUDED.carries,
					gap_carries = EXCLUDED.gap_carries,
					zone_carries = EXCLUDED.zone_carries,
					team_pass_plays = EXCLUDED.team_pass_plays,
					team_rush_plays = EXCLUDED.team_rush_plays,
					updated_at = NOW()
			`,
				u.Season, u.Week, u.PlayerID, u.Team, u.Position,
				u.SnapShare, u.TargetShare, u.CarryShare, u.RouteParticipation,
				u.Targets, u.Carries, u.GapCarries, u.ZoneCarries, u.TeamPassPlays, u.TeamRushPlays,
			); err != nil {
				tx.Rollback()
				return written, fmt.Errorf("upserting usage batch: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return written, fmt.Errorf("commit usage batch: %w", err)
		}
		written += end - start
	}

	return written, nil
}

// GetWeekUsage returns usage rows for one (season, week) ordered by target share.
func (r *UsageRepository) GetWeekUsage(ctx context.Context, season, week int) ([]*store.UsageRecord, error) {
	query := `
		SELECT season, week, player_id, team, position,
			snap_share, target_share, carry_share, route_participation,
			targets, carries, gap_carries, zone_carries, team_pass_plays, team_rush_plays,
			created_at, updated_at
		FROM player_usage
		WHERE season = $1 AND week = $2
		ORDER BY target_share DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("querying week usage: %w", err)
	}
	defer rows.Close()

	var records []*store.UsageRecord
	for rows.Next() {
		u := &store.UsageRecord{}
		err := rows.Scan(
			&u.Season, &u.Week, &u.PlayerID, &u.Team, &u.Position,
			&u.SnapShare, &u.TargetShare, &u.CarryShare, &u.RouteParticipation,
			&u.Targets, &u.Carries, &u.GapCarries, &u.ZoneCarries, &u.TeamPassPlays, &u.TeamRushPlays,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning usage: %w", err)
		}
		records = append(records, u)
	}

	return records, rows.Err()
}
