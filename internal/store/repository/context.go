package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// Side selects which side-of-ball context table a write targets.
type Side string

const (
	SideOffense Side = "offense"
	SideDefense Side = "defense"
)

func (s Side) table() string {
	if s == SideDefense {
		return "team_defensive_context"
	}
	return "team_offensive_context"
}

// TeamContextRepository handles the team_offensive_context and
// team_defensive_context tables. Both share one row shape.
type TeamContextRepository struct {
	db *store.Database
}

// NewTeamContextRepository creates a new team context repository.
func NewTeamContextRepository(db *store.Database) *TeamContextRepository {
	return &TeamContextRepository{db: db}
}

// UpsertContextBatch writes context rows for one side of the ball, one
// transaction per fixed-size batch.
func (r *TeamContextRepository) UpsertContextBatch(ctx context.Context, side Side, records []*store.TeamContext) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (season, week, team, plays,
			epa_per_play, pass_epa_per_play, rush_epa_per_play, success_rate, pass_rate)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (season, week, team) DO UPDATE SET
			plays = EXCLUDED.plays,
			epa_per_play = EXCLUDED.epa_per_play,
			pass_epa_per_play = EXCLUDED.pass_epa_per_play,
			rush_epa_per_play = EXCLUDED.rush_epa_per_play,
			success_rate = EXCLUDED.success_rate,
			pass_rate = EXCLUDED.pass_rate,
			updated_at = NOW()
	`, side.table())

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

		for _, c := range records[start:end] {
			if _, err := tx.ExecContext(ctx, query,
				c.Season, c.Week, c.Team, c.Plays,
				c.EPAPerPlay, c.PassEPA, c.RushEPA, c.SuccessRate, c.PassRate,
			); err != nil {
				tx.Rollback()
				return written, fmt.Errorf("upserting %s context batch: %w", side, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return written, fmt.Errorf("commit %s context batch: %w", side, err)
		}
		written += end - start
	}

	return written, nil
}

// GetTeamContext returns one team's rows for a season ordered by week.
func (r *TeamContextRepository) GetTeamContext(ctx context.Context, side Side, season int, team string) ([]*store.TeamContext, error) {
	query := fmt.Sprintf(`
		SELECT season, week, team, plays,
			epa_per_play, pass_epa_per_play, rush_epa_per_play, success_rate, pass_rate,
			created_at, updated_at
		FROM %s
		WHERE season = $1 AND team = $2
		ORDER BY week
	`, side.table())

	rows, err := r.db.DB().QueryContext(ctx, query, season, team)
	if err != nil {
		return nil, fmt.Errorf("querying %s context: %w", side, err)
	}
	defer rows.Close()

	var records []*store.TeamContext
	for rows.Next() {
		c := &store.TeamContext{}
		err := rows.Scan(
			&c.Season, &c.Week, &c.Team, &c.Plays,
			&c.EPAPerPlay, &c.PassEPA, &c.RushEPA, &c.SuccessRate, &c.PassRate,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning team context: %w", err)
		}
		records = append(records, c)
	}

	return records, rows.Err()
}
