package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weeklyUpsertPattern = `INSERT INTO player_weekly_stats .* ON CONFLICT \(season, week, player_id\) DO UPDATE SET`

func TestUpsertPlayerWeekStatRepeatable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWeeklyStatsRepository(db)

	stat := &store.PlayerWeekStat{
		Season:         2025,
		Week:           1,
		PlayerID:       "00-0031234",
		PlayerName:     "Test Receiver",
		Team:           "KC",
		Position:       "WR",
		Targets:        8,
		Receptions:     5,
		ReceivingYards: 80,
		ReceivingTDs:   1,
	}

	for i := 0; i < 2; i++ {
		mock.ExpectExec(weeklyUpsertPattern).WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, repo.UpsertPlayerWeekStat(context.Background(), stat))
	require.NoError(t, repo.UpsertPlayerWeekStat(context.Background(), stat))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPlayerScoreRepeatable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWeeklyStatsRepository(db)

	score := &store.PlayerScore{
		Season:     2025,
		Week:       1,
		PlayerID:   "00-0031234",
		PlayerName: "Test Receiver",
		Team:       "KC",
		Position:   "WR",
		PointsPPR:  19.0,
		PointsHalf: 16.5,
	}

	pattern := `INSERT INTO player_scores .* ON CONFLICT \(season, week, player_id\) DO UPDATE SET`
	for i := 0; i < 2; i++ {
		mock.ExpectExec(pattern).WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, repo.UpsertPlayerScore(context.Background(), score))
	require.NoError(t, repo.UpsertPlayerScore(context.Background(), score))
	assert.NoError(t, mock.ExpectationsWereMet())
}
