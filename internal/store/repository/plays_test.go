package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playUpsertPattern = `INSERT INTO bronze_pbp_plays .* ON CONFLICT \(game_id, play_id\) DO UPDATE SET`

func newMockDB(t *testing.T) (*store.Database, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return store.NewDatabaseFromConn(conn), mock
}

func bronzePlay(playID int) *store.Play {
	return &store.Play{
		GameID:     "2025_01_KC_BUF",
		PlayID:     playID,
		Season:     2025,
		Week:       1,
		SeasonType: "REG",
		Posteam:    "KC",
		Defteam:    "BUF",
		Quarter:    1,
		WP:         sql.NullFloat64{Float64: 0.52, Valid: true},
	}
}

func TestUpsertBatchReappliesSameRowWithoutError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlayRepository(db)
	play := bronzePlay(55)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(playUpsertPattern).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	first, err := repo.UpsertBatch(context.Background(), []*store.Play{play})
	require.NoError(t, err)

	second, err := repo.UpsertBatch(context.Background(), []*store.Play{play})
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatchChunksPerTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlayRepository(db).WithBatchSize(1)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(playUpsertPattern).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	written, err := repo.UpsertBatch(context.Background(), []*store.Play{bronzePlay(55), bronzePlay(56)})
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatchKeepsPriorChunksOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlayRepository(db).WithBatchSize(1)

	mock.ExpectBegin()
	mock.ExpectExec(playUpsertPattern).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(playUpsertPattern).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	written, err := repo.UpsertBatch(context.Background(), []*store.Play{bronzePlay(55), bronzePlay(56)})
	assert.Error(t, err)
	assert.Equal(t, 1, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}
