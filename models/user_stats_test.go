package models

import (
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userStatsRowColumns = []string{
	"user_id", "quizzes_completed", "questions_answered", "streak_days",
	"challenges_sent", "challenges_won", "courses_completed", "points_earned", "points_spent",
}

func TestUserStatsStore_InitializeForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewUserStatsStore(db)

	mock.ExpectExec("INSERT INTO user_stats").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM user_stats").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(userStatsRowColumns).
			AddRow(4, 0, 0, 0, 0, 0, 0, 0, 0))

	stats, err := store.InitializeForUser(4)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.UserID)
	assert.Equal(t, 0, stats.QuizzesCompleted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStatsStore_GetByUserID_MissingRowIsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewUserStatsStore(db)

	mock.ExpectQuery("SELECT (.+) FROM user_stats").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(userStatsRowColumns))

	stats, err := store.GetByUserID(4)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.UserID)
	assert.Equal(t, 0, stats.StreakDays)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStatsStore_UpdateStat(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewUserStatsStore(db)

	t.Run("UnknownStatRejected", func(t *testing.T) {
		_, err := store.UpdateStat(4, "bank_heists", 1, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("IncrementWithoutSweep", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO user_stats").
			WithArgs(4, 1).
			WillReturnRows(sqlmock.NewRows(userStatsRowColumns).
				AddRow(4, 3, 0, 0, 0, 0, 0, 0, 0))
		mock.ExpectCommit()

		result, err := store.UpdateStat(4, "quizzes_completed", 1, false)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Stats.QuizzesCompleted)
		assert.Empty(t, result.UpdatedAchievements)
	})

	t.Run("SweepCollectsNewlyCompleted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO user_stats").
			WithArgs(4, 1).
			WillReturnRows(sqlmock.NewRows(userStatsRowColumns).
				AddRow(4, 10, 0, 0, 0, 0, 0, 0, 0))
		mock.ExpectCommit()

		// One achievement keyed to this counter; the new value completes it.
		mock.ExpectQuery("SELECT id, name, description, category, icon").
			WithArgs("quizzes_completed").
			WillReturnRows(sqlmock.NewRows(achievementRowColumns).
				AddRow(2, "Quiz Whiz", "Complete 10 quizzes", "quiz", "🧠", 200, "quizzes_completed", 10))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, description, category, icon").
			WithArgs(2).
			WillReturnRows(quizWhizRow())
		mock.ExpectExec("INSERT INTO user_achievements").
			WithArgs(4, 2).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT completed, completed_at FROM user_achievements").
			WithArgs(4, 2).
			WillReturnRows(sqlmock.NewRows([]string{"completed", "completed_at"}).AddRow(false, nil))
		mock.ExpectExec("UPDATE user_achievements SET progress").
			WithArgs(10, 4, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE user_achievements SET completed").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO user_points").
			WithArgs(4, 200).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO points_history").
			WithArgs(4, 200, "achievement", "2").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := store.UpdateStat(4, "quizzes_completed", 1, true)
		require.NoError(t, err)
		assert.Equal(t, 10, result.Stats.QuizzesCompleted)
		require.Len(t, result.UpdatedAchievements, 1)
		assert.Equal(t, "Quiz Whiz", result.UpdatedAchievements[0].Name)
		assert.True(t, result.UpdatedAchievements[0].Completed)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStatsStore_TrackHelpersDoNotSweep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewUserStatsStore(db)

	// Each helper issues exactly one counter upsert and never touches the
	// achievements table.
	helpers := []struct {
		name string
		call func(int) error
		row  []driver.Value
	}{
		{"ChallengeSent", store.TrackChallengeSent, []driver.Value{4, 0, 0, 0, 3, 0, 0, 0, 0}},
		{"ChallengeWon", store.TrackChallengeWon, []driver.Value{4, 0, 0, 0, 0, 2, 0, 0, 0}},
		{"CourseCompleted", store.TrackCourseCompleted, []driver.Value{4, 0, 0, 0, 0, 0, 1, 0, 0}},
	}
	for _, h := range helpers {
		t.Run(h.name, func(t *testing.T) {
			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO user_stats").
				WithArgs(4, 1).
				WillReturnRows(sqlmock.NewRows(userStatsRowColumns).AddRow(h.row...))
			mock.ExpectCommit()

			require.NoError(t, h.call(4))
		})
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStatsStore_SweepStat(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewUserStatsStore(db)

	t.Run("UnknownStatRejected", func(t *testing.T) {
		_, err := store.SweepStat(4, "bank_heists")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("EvaluatesAgainstCurrentCounter", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM user_stats").
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows(userStatsRowColumns).
				AddRow(4, 10, 0, 0, 0, 0, 0, 0, 0))
		mock.ExpectQuery("SELECT id, name, description, category, icon").
			WithArgs("quizzes_completed").
			WillReturnRows(sqlmock.NewRows(achievementRowColumns).
				AddRow(2, "Quiz Whiz", "Complete 10 quizzes", "quiz", "🧠", 200, "quizzes_completed", 10))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, description, category, icon").
			WithArgs(2).
			WillReturnRows(quizWhizRow())
		mock.ExpectExec("INSERT INTO user_achievements").
			WithArgs(4, 2).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT completed, completed_at FROM user_achievements").
			WithArgs(4, 2).
			WillReturnRows(sqlmock.NewRows([]string{"completed", "completed_at"}).AddRow(false, nil))
		mock.ExpectExec("UPDATE user_achievements SET progress").
			WithArgs(10, 4, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE user_achievements SET completed").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO user_points").
			WithArgs(4, 200).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO points_history").
			WithArgs(4, 200, "achievement", "2").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		completed, err := store.SweepStat(4, "quizzes_completed")
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, "Quiz Whiz", completed[0].Name)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementStatTx_RejectsUnknownColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()
	mock.ExpectRollback()

	err = incrementStatTx(tx, 4, "drop_tables", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
