package models

import (
	"database/sql"
	"fmt"
)

// PointsStore owns the user_points running totals, the append-only
// points_history ledger and the per-game leaderboard entries.
type PointsStore struct {
	db *sql.DB
}

func NewPointsStore(db *sql.DB) *PointsStore {
	return &PointsStore{db: db}
}

// awardPointsTx applies a signed point delta inside an open transaction:
// an upsert of the running total plus an insert into the history log.
// Both statements succeed or the caller's rollback discards both, which is
// what keeps total_points equal to the sum of history deltas.
func awardPointsTx(tx *sql.Tx, userID int, points int, reason string, referenceID string) error {
	_, err := tx.Exec(`
		INSERT INTO user_points (user_id, total_points)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET total_points = user_points.total_points + EXCLUDED.total_points
	`, userID, points)
	if err != nil {
		return fmt.Errorf("failed to update total points: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO points_history (user_id, points, reason, reference_id)
		VALUES ($1, $2, $3, $4)
	`, userID, points, reason, referenceID)
	if err != nil {
		return fmt.Errorf("failed to insert points history: %w", err)
	}
	return nil
}

// AwardPoints grants (or debits, with a negative delta) points in its own transaction.
func (s *PointsStore) AwardPoints(userID int, points int, reason string, referenceID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := awardPointsTx(tx, userID, points, reason, referenceID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateScore upserts the per-user-per-gameType high score. The stored score
// only ever increases: a submission at or below the current value is a no-op
// and returns false. The first entry for a game also grants the score as
// points through the ledger.
func (s *PointsStore) UpdateScore(userID int, gameType string, score int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRow(`
		SELECT score FROM leaderboard_entries
		WHERE user_id = $1 AND game_type = $2
		FOR UPDATE
	`, userID, gameType).Scan(&current)

	if err == sql.ErrNoRows {
		_, err = tx.Exec(`
			INSERT INTO leaderboard_entries (user_id, game_type, score)
			VALUES ($1, $2, $3)
		`, userID, gameType, score)
		if err != nil {
			return false, fmt.Errorf("failed to insert leaderboard entry: %w", err)
		}
		if err := awardPointsTx(tx, userID, score, "leaderboard_score", gameType); err != nil {
			return false, err
		}
		return true, tx.Commit()
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch leaderboard entry: %w", err)
	}

	if score <= current {
		return false, tx.Commit()
	}

	_, err = tx.Exec(`
		UPDATE leaderboard_entries
		SET score = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND game_type = $3
	`, score, userID, gameType)
	if err != nil {
		return false, fmt.Errorf("failed to update leaderboard entry: %w", err)
	}
	return true, tx.Commit()
}

// GetTopPlayers returns leaderboard entries for a game ordered by score,
// ties broken by insertion order, joined with current point totals.
func (s *PointsStore) GetTopPlayers(gameType string, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(`
		SELECT l.user_id, u.name, l.game_type, l.score, COALESCE(p.total_points, 0),
		       l.created_at, l.updated_at
		FROM leaderboard_entries l
		JOIN users u ON u.id = l.user_id
		LEFT JOIN user_points p ON p.user_id = l.user_id
		WHERE l.game_type = $1
		ORDER BY l.score DESC, l.created_at ASC
		LIMIT $2
	`, gameType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.GameType, &e.Score, &e.Points,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UserRank is a user's position on one game's leaderboard.
type UserRank struct {
	Rank  int `json:"rank"`
	Score int `json:"score"`
}

// GetUserRank returns nil when the user has no entry for the game.
// Rank is 1 + the number of users with a strictly greater score.
func (s *PointsStore) GetUserRank(userID int, gameType string) (*UserRank, error) {
	var score int
	err := s.db.QueryRow(`
		SELECT score FROM leaderboard_entries
		WHERE user_id = $1 AND game_type = $2
	`, userID, gameType).Scan(&score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var greater int
	err = s.db.QueryRow(`
		SELECT COUNT(DISTINCT user_id) FROM leaderboard_entries
		WHERE game_type = $1 AND score > $2
	`, gameType, score).Scan(&greater)
	if err != nil {
		return nil, err
	}
	return &UserRank{Rank: greater + 1, Score: score}, nil
}

// GetPointsLeaderboard returns users ordered by total points.
func (s *PointsStore) GetPointsLeaderboard(limit int) ([]UserPoints, error) {
	rows, err := s.db.Query(`
		SELECT user_id, total_points, challenges_won, challenges_played
		FROM user_points
		ORDER BY total_points DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaders := []UserPoints{}
	for rows.Next() {
		var p UserPoints
		if err := rows.Scan(&p.UserID, &p.TotalPoints, &p.ChallengesWon, &p.ChallengesPlayed); err != nil {
			return nil, err
		}
		leaders = append(leaders, p)
	}
	return leaders, rows.Err()
}

// GetUserPoints returns a zero-valued row for users with no grants yet.
func (s *PointsStore) GetUserPoints(userID int) (*UserPoints, error) {
	p := UserPoints{UserID: userID}
	err := s.db.QueryRow(`
		SELECT total_points, challenges_won, challenges_played
		FROM user_points WHERE user_id = $1
	`, userID).Scan(&p.TotalPoints, &p.ChallengesWon, &p.ChallengesPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return &p, nil
}

// GetPointsHistory returns the newest ledger entries for a user.
func (s *PointsStore) GetPointsHistory(userID int, limit int) ([]PointsHistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, points, reason, reference_id, created_at
		FROM points_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []PointsHistoryEntry{}
	for rows.Next() {
		var h PointsHistoryEntry
		if err := rows.Scan(&h.ID, &h.UserID, &h.Points, &h.Reason, &h.ReferenceID, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
