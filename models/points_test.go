package models

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsStore_AwardPoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPointsStore(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_points").
			WithArgs(1, 50).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO points_history").
			WithArgs(1, 50, "quiz_passed", "42").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, store.AwardPoints(1, 50, "quiz_passed", "42"))
	})

	t.Run("HistoryInsertFailureRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_points").
			WithArgs(1, 50).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO points_history").
			WithArgs(1, 50, "quiz_passed", "42").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := store.AwardPoints(1, 50, "quiz_passed", "42")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "points history")
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsStore_UpdateScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPointsStore(db)

	t.Run("FirstEntryInsertsAndGrantsPoints", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT score FROM leaderboard_entries").
			WithArgs(7, "budget_blitz").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO leaderboard_entries").
			WithArgs(7, "budget_blitz", 120).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO user_points").
			WithArgs(7, 120).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO points_history").
			WithArgs(7, 120, "leaderboard_score", "budget_blitz").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		improved, err := store.UpdateScore(7, "budget_blitz", 120)
		require.NoError(t, err)
		assert.True(t, improved)
	})

	t.Run("LowerScoreIsNoOp", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT score FROM leaderboard_entries").
			WithArgs(7, "budget_blitz").
			WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(120))
		mock.ExpectCommit()

		improved, err := store.UpdateScore(7, "budget_blitz", 100)
		require.NoError(t, err)
		assert.False(t, improved)
	})

	t.Run("EqualScoreIsNoOp", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT score FROM leaderboard_entries").
			WithArgs(7, "budget_blitz").
			WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(120))
		mock.ExpectCommit()

		improved, err := store.UpdateScore(7, "budget_blitz", 120)
		require.NoError(t, err)
		assert.False(t, improved)
	})

	t.Run("HigherScoreUpdates", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT score FROM leaderboard_entries").
			WithArgs(7, "budget_blitz").
			WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(120))
		mock.ExpectExec("UPDATE leaderboard_entries").
			WithArgs(150, 7, "budget_blitz").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		improved, err := store.UpdateScore(7, "budget_blitz", 150)
		require.NoError(t, err)
		assert.True(t, improved)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsStore_GetUserRank(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPointsStore(db)

	t.Run("NoEntryReturnsNil", func(t *testing.T) {
		mock.ExpectQuery("SELECT score FROM leaderboard_entries").
			WithArgs(3, "stock_sim").
			WillReturnError(sql.ErrNoRows)

		rank, err := store.GetUserRank(3, "stock_sim")
		require.NoError(t, err)
		assert.Nil(t, rank)
	})

	t.Run("RankCountsStrictlyGreaterScores", func(t *testing.T) {
		mock.ExpectQuery("SELECT score FROM leaderboard_entries").
			WithArgs(3, "stock_sim").
			WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(80))
		mock.ExpectQuery(`SELECT COUNT\(DISTINCT user_id\) FROM leaderboard_entries`).
			WithArgs("stock_sim", 80).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		rank, err := store.GetUserRank(3, "stock_sim")
		require.NoError(t, err)
		require.NotNil(t, rank)
		assert.Equal(t, 5, rank.Rank)
		assert.Equal(t, 80, rank.Score)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsStore_GetUserPoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPointsStore(db)

	t.Run("MissingRowIsZero", func(t *testing.T) {
		mock.ExpectQuery("SELECT total_points, challenges_won, challenges_played").
			WithArgs(9).
			WillReturnError(sql.ErrNoRows)

		points, err := store.GetUserPoints(9)
		require.NoError(t, err)
		require.NotNil(t, points)
		assert.Equal(t, 9, points.UserID)
		assert.Equal(t, 0, points.TotalPoints)
	})

	t.Run("ExistingRow", func(t *testing.T) {
		mock.ExpectQuery("SELECT total_points, challenges_won, challenges_played").
			WithArgs(9).
			WillReturnRows(sqlmock.NewRows([]string{"total_points", "challenges_won", "challenges_played"}).
				AddRow(340, 2, 5))

		points, err := store.GetUserPoints(9)
		require.NoError(t, err)
		assert.Equal(t, 340, points.TotalPoints)
		assert.Equal(t, 2, points.ChallengesWon)
		assert.Equal(t, 5, points.ChallengesPlayed)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsStore_GetTopPlayers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPointsStore(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"user_id", "name", "game_type", "score", "total_points", "created_at", "updated_at"}).
		AddRow(2, "Ava", "budget_blitz", 200, 500, now, now).
		AddRow(1, "Ben", "budget_blitz", 150, 300, now, now)

	mock.ExpectQuery("SELECT l.user_id, u.name, l.game_type, l.score").
		WithArgs("budget_blitz", 10).
		WillReturnRows(rows)

	entries, err := store.GetTopPlayers("budget_blitz", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ava", entries[0].Name)
	assert.Equal(t, 200, entries[0].Score)
	assert.Equal(t, 500, entries[0].Points)

	require.NoError(t, mock.ExpectationsWereMet())
}
