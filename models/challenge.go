package models

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Challenge status values. Transitions only move forward.
const (
	ChallengeStatusPending   = "pending"
	ChallengeStatusAccepted  = "accepted"
	ChallengeStatusCompleted = "completed"
)

// ErrValidation marks malformed caller input; handlers map it to a 400.
var ErrValidation = errors.New("validation failed")

// ChallengeStore manages the two-player asynchronous challenge lifecycle.
type ChallengeStore struct {
	db    *sql.DB
	stats *UserStatsStore
}

func NewChallengeStore(db *sql.DB) *ChallengeStore {
	return &ChallengeStore{db: db, stats: NewUserStatsStore(db)}
}

const challengeColumns = `id, challenger_id, challenged_id, game_type, game_mode,
	quiz_settings, prize_points, status, challenger_score, challenged_score,
	winner_id, created_at, challenged_at, completed_at`

func scanChallenge(row interface {
	Scan(dest ...interface{}) error
}) (*Challenge, error) {
	var ch Challenge
	err := row.Scan(
		&ch.ID, &ch.ChallengerID, &ch.ChallengedID, &ch.GameType, &ch.GameMode,
		&ch.QuizSettings, &ch.PrizePoints, &ch.Status, &ch.ChallengerScore,
		&ch.ChallengedScore, &ch.WinnerID, &ch.CreatedAt, &ch.ChallengedAt, &ch.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// Create inserts a pending challenge. quizSettings is stored opaquely.
func (s *ChallengeStore) Create(challengerID, challengedID int, gameType, gameMode, quizSettings string, prizePoints int) (*Challenge, error) {
	if challengerID == 0 || challengedID == 0 {
		return nil, fmt.Errorf("%w: challenger and challenged ids are required", ErrValidation)
	}
	if prizePoints < 0 {
		return nil, fmt.Errorf("%w: prize points cannot be negative", ErrValidation)
	}
	if quizSettings == "" {
		quizSettings = "{}"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO challenges (id, challenger_id, challenged_id, game_type, game_mode, quiz_settings, prize_points, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		RETURNING `+challengeColumns,
		uuid.New(), challengerID, challengedID, gameType, gameMode, quizSettings, prizePoints,
	)
	ch, err := scanChallenge(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ch, nil
}

// Accept moves a pending challenge to accepted, stamping challenged_at.
// A challenge that is not currently pending yields (nil, nil): no state
// changed, and the caller decides how to report that.
func (s *ChallengeStore) Accept(challengeID uuid.UUID) (*Challenge, error) {
	row := s.db.QueryRow(`
		UPDATE challenges
		SET status = 'accepted', challenged_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = 'pending'
		RETURNING `+challengeColumns,
		challengeID,
	)
	ch, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept challenge: %w", err)
	}
	return ch, nil
}

// UpdateScore records one participant's score. When the second score lands the
// challenge completes in the same transaction: the winner is the strictly
// higher score (equal scores complete with a NULL winner), completed_at is
// stamped, both players' challenge counters move and the prize is paid out
// through the ledger.
func (s *ChallengeStore) UpdateScore(challengeID uuid.UUID, participantID int, score int) (*Challenge, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+challengeColumns+` FROM challenges WHERE id = $1 FOR UPDATE`, challengeID)
	ch, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}
	if ch.Status == ChallengeStatusCompleted {
		return nil, fmt.Errorf("challenge already completed")
	}
	// Scores only land on accepted challenges; pending ones must be accepted
	// first so the lifecycle never skips a stage.
	if ch.Status != ChallengeStatusAccepted {
		return nil, fmt.Errorf("challenge has not been accepted")
	}

	var column string
	switch participantID {
	case ch.ChallengerID:
		if ch.ChallengerScore != nil {
			return nil, fmt.Errorf("score already recorded for this participant")
		}
		column = "challenger_score"
		ch.ChallengerScore = &score
	case ch.ChallengedID:
		if ch.ChallengedScore != nil {
			return nil, fmt.Errorf("score already recorded for this participant")
		}
		column = "challenged_score"
		ch.ChallengedScore = &score
	default:
		return nil, fmt.Errorf("user %d is not a participant in this challenge", participantID)
	}

	_, err = tx.Exec(`UPDATE challenges SET `+column+` = $1 WHERE id = $2`, score, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	if ch.ChallengerScore != nil && ch.ChallengedScore != nil {
		if err := s.completeTx(tx, ch); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// The winner's counter moved inside the transaction; evaluate the
	// achievements keyed to it now that the move is durable.
	if ch.Status == ChallengeStatusCompleted && ch.WinnerID != nil {
		if _, err := s.stats.SweepStat(*ch.WinnerID, "challenges_won"); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

// completeTx resolves the winner and pays out inside the caller's transaction.
func (s *ChallengeStore) completeTx(tx *sql.Tx, ch *Challenge) error {
	var winnerID *int
	if *ch.ChallengerScore > *ch.ChallengedScore {
		winnerID = &ch.ChallengerID
	} else if *ch.ChallengedScore > *ch.ChallengerScore {
		winnerID = &ch.ChallengedID
	}

	now := time.Now()
	_, err := tx.Exec(`
		UPDATE challenges
		SET status = 'completed', winner_id = $1, completed_at = $2
		WHERE id = $3
	`, winnerID, now, ch.ID)
	if err != nil {
		return fmt.Errorf("failed to complete challenge: %w", err)
	}
	ch.Status = ChallengeStatusCompleted
	ch.WinnerID = winnerID
	ch.CompletedAt = &now

	for _, userID := range []int{ch.ChallengerID, ch.ChallengedID} {
		won := 0
		if winnerID != nil && *winnerID == userID {
			won = 1
		}
		_, err = tx.Exec(`
			INSERT INTO user_points (user_id, challenges_played, challenges_won)
			VALUES ($1, 1, $2)
			ON CONFLICT (user_id)
			DO UPDATE SET challenges_played = user_points.challenges_played + 1,
			              challenges_won = user_points.challenges_won + EXCLUDED.challenges_won
		`, userID, won)
		if err != nil {
			return fmt.Errorf("failed to update challenge counters: %w", err)
		}
	}

	// A tie pays nobody.
	if winnerID != nil {
		if ch.PrizePoints > 0 {
			if err := awardPointsTx(tx, *winnerID, ch.PrizePoints, "challenge_win", ch.ID.String()); err != nil {
				return err
			}
		}
		if err := incrementStatTx(tx, *winnerID, "challenges_won", 1); err != nil {
			return err
		}
	}
	return nil
}

// AwardPoints wraps a ledger grant in its own transaction; a failed grant
// rolls back and the error propagates.
func (s *ChallengeStore) AwardPoints(userID int, points int, reason string, referenceID string) error {
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

// FindByUserID returns challenges where the user is either participant,
// newest first. Empty status means all statuses; limit <= 0 means no cap.
func (s *ChallengeStore) FindByUserID(userID int, status string, limit int) ([]Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE (challenger_id = $1 OR challenged_id = $1)`
	args := []interface{}{userID}
	argID := 2

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, status)
		argID++
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := []Challenge{}
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *ch)
	}
	return challenges, rows.Err()
}
