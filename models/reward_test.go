package models

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goldenPiggyRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "type", "points_cost", "is_premium"}).
		AddRow(2, "Golden Piggy Avatar", "avatar", 500, false)
}

func TestRewardStore_PurchaseReward(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewRewardStore(db)

	t.Run("UnknownReward", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, type, points_cost, is_premium FROM rewards").
			WithArgs(99).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		result, err := store.PurchaseReward(1, 99)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Reward not found", result.Message)
	})

	t.Run("AlreadyOwned", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, type, points_cost, is_premium FROM rewards").
			WithArgs(2).
			WillReturnRows(goldenPiggyRow())
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		result, err := store.PurchaseReward(1, 2)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Reward already owned", result.Message)
	})

	t.Run("InsufficientPointsTouchesNothing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, type, points_cost, is_premium FROM rewards").
			WithArgs(2).
			WillReturnRows(goldenPiggyRow())
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("SELECT total_points FROM user_points").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"total_points"}).AddRow(300))
		mock.ExpectRollback()

		result, err := store.PurchaseReward(1, 2)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Not enough points to purchase this reward", result.Message)
	})

	t.Run("NoBalanceRowCountsAsZero", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, type, points_cost, is_premium FROM rewards").
			WithArgs(2).
			WillReturnRows(goldenPiggyRow())
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("SELECT total_points FROM user_points").
			WithArgs(1).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		result, err := store.PurchaseReward(1, 2)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Not enough points to purchase this reward", result.Message)
	})

	t.Run("SuccessDebitsAndRecordsOwnership", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, type, points_cost, is_premium FROM rewards").
			WithArgs(2).
			WillReturnRows(goldenPiggyRow())
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("SELECT total_points FROM user_points").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"total_points"}).AddRow(800))
		mock.ExpectExec("INSERT INTO user_points").
			WithArgs(1, -500).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO points_history").
			WithArgs(1, -500, "reward_purchase", "2").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO user_stats").
			WithArgs(1, 500).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO user_rewards").
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		// Once the purchase is durable the points_spent counter is swept; this
		// spend hits 500, which unlocks Big Spender.
		mock.ExpectQuery("SELECT (.+) FROM user_stats").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(userStatsRowColumns).
				AddRow(1, 0, 0, 0, 0, 0, 0, 0, 500))
		mock.ExpectQuery("SELECT id, name, description, category, icon").
			WithArgs("points_spent").
			WillReturnRows(sqlmock.NewRows(achievementRowColumns).
				AddRow(9, "Big Spender", "Spend 500 points on rewards", "points", "💸", 50, "points_spent", 500))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, name, description, category, icon").
			WithArgs(9).
			WillReturnRows(sqlmock.NewRows(achievementRowColumns).
				AddRow(9, "Big Spender", "Spend 500 points on rewards", "points", "💸", 50, "points_spent", 500))
		mock.ExpectExec("INSERT INTO user_achievements").
			WithArgs(1, 9).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT completed, completed_at FROM user_achievements").
			WithArgs(1, 9).
			WillReturnRows(sqlmock.NewRows([]string{"completed", "completed_at"}).AddRow(false, nil))
		mock.ExpectExec("UPDATE user_achievements SET progress").
			WithArgs(500, 1, 9).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE user_achievements SET completed").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO user_points").
			WithArgs(1, 50).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO points_history").
			WithArgs(1, 50, "achievement", "9").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := store.PurchaseReward(1, 2)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Reward)
		assert.Equal(t, "Golden Piggy Avatar", result.Reward.Name)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRewardStore_ToggleEquipStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewRewardStore(db)

	t.Run("NotOwned", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT r.type").
			WithArgs(1, 2).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		result, err := store.ToggleEquipStatus(1, 2, true)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Reward not owned", result.Message)
	})

	t.Run("EquipUnequipsSameTypeFirst", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT r.type").
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"type"}).AddRow("avatar"))
		mock.ExpectExec("UPDATE user_rewards ur").
			WithArgs(1, "avatar").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("UPDATE user_rewards SET is_equipped").
			WithArgs(true, 1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := store.ToggleEquipStatus(1, 2, true)
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("UnequipSkipsTheSweep", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT r.type").
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"type"}).AddRow("avatar"))
		mock.ExpectExec("UPDATE user_rewards SET is_equipped").
			WithArgs(false, 1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := store.ToggleEquipStatus(1, 2, false)
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
