package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// SplitsRepository handles the wp_splits_weekly warehouse table.
type SplitsRepository struct {
	db *store.Database
}

// NewSplitsRepository creates a new splits repository.
func NewSplitsRepository(db *store.Database) *SplitsRepository {
	return &SplitsRepository{db: db}
}

// UpsertSplitsBatch writes WP split rows in fixed-size batches, one
// transaction per batch. A batch failure rolls back that batch only.
func (r *SplitsRepository) UpsertSplitsBatch(ctx context.Context, splits []*store.WPSplit) (int, error) {
	written := 0
	for start := 0; start < len(splits); start += DefaultBatchSize {
		end := start + DefaultBatchSize
		if end > len(splits) {
			end = len(splits)
		}

		tx, err := r.db.DB().BeginTx(ctx, nil)
		if err != nil {
			return written, fmt.Errorf("begin tx: %w", err)
		}

		for _, s := range splits[start:end] {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO wp_splits_weekly (season, week, player_id, team, plays,
					mean_wp, wpa_sum, high_leverage_plays,
					q4_one_score_plays, q4_one_score_epa, kneels)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
				ON CONFLICT (season, week, player_id) DO UPDATE SET
					team = EXCLUDED.team,
					plays = EXCLUDED.plays,
					mean_wp = EXCLUDED.mean_wp,
					wpa_sum = EXCLUDED.wpa_sum,
					high_leverage_plays = EXCLUDED.high_leverage_plays,
					q4_one_score_plays = EXCLUDED.q4_one_score_plays,
					q4_one_score_epa = EXCLUDED.q4_one_score_epa,
					kneels = EXCLUDED.kneels,
					updated_at = NOW()
			`,
				s.Season, s.Week, s.PlayerID, s.Team, s.Plays,
				s.MeanWP, s.WPASum, s.HighLeveragePlays,
				s.Q4OneScorePlays, s.Q4OneScoreEPA, s.Kneels,
			); err != nil {
				tx.Rollback()
				return written, fmt.Errorf("upserting splits batch: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return written, fmt.Errorf("commit splits batch: %w", err)
		}
		written += end - start
	}

	return written, nil
}

// GetWeekSplits returns WP split rows for one (season, week) ordered by
// summed WPA descending.
func (r *SplitsRepository) GetWeekSplits(ctx context.Context, season, week int) ([]*store.WPSplit, error) {
	query := `
		SELECT season, week, player_id, team, plays,
			mean_wp, wpa_sum, high_leverage_plays,
			q4_one_score_plays, q4_one_score_epa, kneels,
			created_at, updated_at
		FROM wp_splits_weekly
		WHERE season = $1 AND week = $2
		ORDER BY wpa_sum DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("querying week splits: %w", err)
	}
	defer rows.Close()

	var splits []*store.WPSplit
	for rows.Next() {
		s := &store.WPSplit{}
		err := rows.Scan(
			&s.Season, &s.Week, &s.PlayerID, &s.Team, &s.Plays,
			&s.MeanWP, &s.WPASum, &s.HighLeveragePlays,
			&s.Q4OneScorePlays, &s.Q4OneScoreEPA, &s.Kneels,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		splits = append(splits, s)
	}

	return splits, rows.Err()
}

// GetPlayerSplits returns a player's split rows for a season ordered by week.
func (r *SplitsRepository) GetPlayerSplits(ctx context.Context, season int, playerID string) ([]*store.WPSplit, error) {
	query := `
		SELECT season, week, player_id, team, plays,
			mean_wp, wpa_sum, high_leverage_plays,
			q4_one_score_plays, q4_one_score_epa, kneels,
			created_at, updated_at
		FROM wp_splits_weekly
		WHERE season = $1 AND player_id = $2
		ORDER BY week
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying player splits: %w", err)
	}
	defer rows.Close()

	var splits []*store.WPSplit
	for rows.Next() {
		s := &store.WPSplit{}
		err := rows.Scan(
			&s.Season, &s.Week, &s.PlayerID, &s.Team, &s.Plays,
			&s.MeanWP, &s.WPASum, &s.HighLeveragePlays,
			&s.Q4OneScorePlays, &s.Q4OneScoreEPA, &s.Kneels,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		splits = append(splits, s)
	}

	return splits, rows.Err()
}
