package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/lib/pq"
)

// DefaultBatchSize bounds the rows written per transaction. A failure
// mid-job rolls back the active batch only; prior batches stay committed.
const DefaultBatchSize = 500

// PlayRepository handles the bronze play-by-play layer.
type PlayRepository struct {
	db        *store.Database
	batchSize int
}

// NewPlayRepository creates a new play repository.
func NewPlayRepository(db *store.Database) *PlayRepository {
	return &PlayRepository{db: db, batchSize: DefaultBatchSize}
}

// WithBatchSize overrides the batch size (useful for tests).
func (r *PlayRepository) WithBatchSize(n int) *PlayRepository {
	if n > 0 {
		r.batchSize = n
	}
	return r
}

const playColumns = `game_id, play_id, season, week, season_type, posteam, defteam,
	play_type, passer_id, rusher_id, receiver_id, yards_gained, wp, wpa, epa,
	down, ydstogo, yardline_100, qtr, score_differential,
	complete_pass, touchdown, interception, sack, qb_kneel, run_gap`

const playColumnCount = 26

// UpsertBatch writes plays in fixed-size batches, each in its own
// transaction. Returns the number of rows written before any error.
func (r *PlayRepository) UpsertBatch(ctx context.Context, plays []*store.Play) (int, error) {
	written := 0
	for start := 0; start < len(plays); start += r.batchSize {
		end := start + r.batchSize
		if end > len(plays) {
			end = len(plays)
		}

		if err := r.upsertChunk(ctx, plays[start:end]); err != nil {
			return written, fmt.Errorf("upserting plays batch [%d:%d]: %w", start, end, err)
		}
		written += end - start
	}

	return written, nil
}

func (r *PlayRepository) upsertChunk(ctx context.Context, plays []*store.Play) error {
	if len(plays) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	placeholders := make([]string, 0, len(plays))
	args := make([]interface{}, 0, len(plays)*playColumnCount)
	for i, p := range plays {
		base := i * playColumnCount
		marks := make([]string, playColumnCount)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ",")+")")

		args = append(args,
			p.GameID, p.PlayID, p.Season, p.Week, p.SeasonType, p.Posteam, p.Defteam,
			p.PlayType, p.PasserID, p.RusherID, p.ReceiverID, p.YardsGained, p.WP, p.WPA, p.EPA,
			p.Down, p.YardsToGo, p.YardLine, p.Quarter, p.ScoreDifferential,
			p.CompletePass, p.Touchdown, p.Interception, p.Sack, p.QBKneel, p.RunGap,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO bronze_pbp_plays (%s)
		VALUES %s
		ON CONFLICT (game_id, play_id) DO UPDATE SET
			season = EXCLUDED.season,
			week = EXCLUDED.week,
			season_type = EXCLUDED.season_type,
			posteam = EXCLUDED.posteam,
			defteam = EXCLUDED.defteam,
			play_type = EXCLUDED.play_type,
			passer_id = EXCLUDED.passer_id,
			rusher_id = EXCLUDED.rusher_id,
			receiver_id = EXCLUDED.receiver_id,
			yards_gained = EXCLUDED.yards_gained,
			wp = EXCLUDED.wp,
			wpa = EXCLUDED.wpa,
			epa = EXCLUDED.epa,
			down = EXCLUDED.down,
			ydstogo = EXCLUDED.ydstogo,
			yardline_100 = EXCLUDED.yardline_100,
			qtr = EXCLUDED.qtr,
			score_differential = EXCLUDED.score_differential,
			complete_pass = EXCLUDED.complete_pass,
			touchdown = EXCLUDED.touchdown,
			interception = EXCLUDED.interception,
			sack = EXCLUDED.sack,
			qb_kneel = EXCLUDED.qb_kneel,
			run_gap = EXCLUDED.run_gap,
			updated_at = NOW()
	`, playColumns, strings.Join(placeholders, ","))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec upsert: %w", err)
	}

	return tx.Commit()
}

// GetSeasonPlays returns all plays for a season, optionally filtered to
// specific weeks. Rows come back ordered by (week, game_id, play_id).
func (r *PlayRepository) GetSeasonPlays(ctx context.Context, season int, weeks []int) ([]*store.Play, error) {
	query := fmt.Sprintf(`
		SELECT %s, created_at, updated_at
		FROM bronze_pbp_plays
		WHERE season = $1 AND ($2::int[] IS NULL OR week = ANY($2))
		ORDER BY week, game_id, play_id
	`, playColumns)

	var weekArg interface{}
	if len(weeks) > 0 {
		weekArg = pq.Array(weeks)
	}

	rows, err := r.db.DB().QueryContext(ctx, query, season, weekArg)
	if err != nil {
		return nil, fmt.Errorf("querying season plays: %w", err)
	}
	defer rows.Close()

	var plays []*store.Play
	for rows.Next() {
		p := &store.Play{}
		err := rows.Scan(
			&p.GameID, &p.PlayID, &p.Season, &p.Week, &p.SeasonType, &p.Posteam, &p.Defteam,
			&p.PlayType, &p.PasserID, &p.RusherID, &p.ReceiverID, &p.YardsGained, &p.WP, &p.WPA, &p.EPA,
			&p.Down, &p.YardsToGo, &p.YardLine, &p.Quarter, &p.ScoreDifferential,
			&p.CompletePass, &p.Touchdown, &p.Interception, &p.Sack, &p.QBKneel, &p.RunGap,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		plays = append(plays, p)
	}

	return plays, rows.Err()
}

// CountSeasonPlays returns the bronze row count for a season.
func (r *PlayRepository) CountSeasonPlays(ctx context.Context, season int) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bronze_pbp_plays WHERE season = $1`, season).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting season plays: %w", err)
	}
	return count, nil
}
