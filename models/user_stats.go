package models

import (
	"database/sql"
	"fmt"
)

// statColumns whitelists counter names before they are interpolated into SQL.
var statColumns = map[string]bool{
	"quizzes_completed":  true,
	"questions_answered": true,
	"streak_days":        true,
	"challenges_sent":    true,
	"challenges_won":     true,
	"courses_completed":  true,
	"points_earned":      true,
	"points_spent":       true,
}

// UserStatsStore owns the denormalized per-user gameplay counters and is the
// sole bridge from raw counters to achievement unlocks.
type UserStatsStore struct {
	db           *sql.DB
	achievements *AchievementStore
}

func NewUserStatsStore(db *sql.DB) *UserStatsStore {
	return &UserStatsStore{db: db, achievements: NewAchievementStore(db)}
}

const userStatsColumns = `user_id, quizzes_completed, questions_answered, streak_days,
	challenges_sent, challenges_won, courses_completed, points_earned, points_spent`

func scanUserStats(row interface {
	Scan(dest ...interface{}) error
}) (*UserStats, error) {
	var st UserStats
	err := row.Scan(&st.UserID, &st.QuizzesCompleted, &st.QuestionsAnswered, &st.StreakDays,
		&st.ChallengesSent, &st.ChallengesWon, &st.CoursesCompleted, &st.PointsEarned, &st.PointsSpent)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// incrementStatTx bumps one counter inside an open transaction, creating the
// zero row on first touch. Counters are never overwritten, only incremented.
func incrementStatTx(tx *sql.Tx, userID int, statName string, increment int) error {
	if !statColumns[statName] {
		return fmt.Errorf("%w: unknown stat %q", ErrValidation, statName)
	}
	_, err := tx.Exec(fmt.Sprintf(`
		INSERT INTO user_stats (user_id, %s)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET %s = user_stats.%s + EXCLUDED.%s
	`, statName, statName, statName, statName), userID, increment)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", statName, err)
	}
	return nil
}

// InitializeForUser creates a zero-valued stats row if none exists and
// returns the row either way.
func (s *UserStatsStore) InitializeForUser(userID int) (*UserStats, error) {
	_, err := s.db.Exec(`
		INSERT INTO user_stats (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats: %w", err)
	}
	return s.GetByUserID(userID)
}

func (s *UserStatsStore) GetByUserID(userID int) (*UserStats, error) {
	row := s.db.QueryRow(`SELECT `+userStatsColumns+` FROM user_stats WHERE user_id = $1`, userID)
	st, err := scanUserStats(row)
	if err == sql.ErrNoRows {
		return &UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// StatUpdateResult carries the updated counters plus any achievements this
// update pushed over their threshold.
type StatUpdateResult struct {
	Stats               *UserStats            `json:"stats"`
	UpdatedAchievements []UserAchievementView `json:"updatedAchievements"`
}

// UpdateStat atomically increments the named counter. With checkAchievements
// set, every achievement keyed to that counter is re-evaluated against the
// new value and the ones completed by this call are collected.
func (s *UserStatsStore) UpdateStat(userID int, statName string, increment int, checkAchievements bool) (*StatUpdateResult, error) {
	if !statColumns[statName] {
		return nil, fmt.Errorf("%w: unknown stat %q", ErrValidation, statName)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(fmt.Sprintf(`
		INSERT INTO user_stats (user_id, %s)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET %s = user_stats.%s + EXCLUDED.%s
		RETURNING `+userStatsColumns,
		statName, statName, statName, statName), userID, increment)
	stats, err := scanUserStats(row)
	if err != nil {
		return nil, fmt.Errorf("failed to increment %s: %w", statName, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result := &StatUpdateResult{Stats: stats, UpdatedAchievements: []UserAchievementView{}}
	if !checkAchievements {
		return result, nil
	}

	completed, err := s.sweep(userID, statName, statValue(stats, statName))
	if err != nil {
		return nil, err
	}
	result.UpdatedAchievements = completed
	return result, nil
}

// SweepStat re-evaluates every achievement keyed to one counter against the
// user's current value and returns the ones this call completed. Gameplay
// flows that bump a counter inside their own transaction call this after
// committing, so thresholds crossed by the bump still unlock.
func (s *UserStatsStore) SweepStat(userID int, statName string) ([]UserAchievementView, error) {
	if !statColumns[statName] {
		return nil, fmt.Errorf("%w: unknown stat %q", ErrValidation, statName)
	}
	stats, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.sweep(userID, statName, statValue(stats, statName))
}

func (s *UserStatsStore) sweep(userID int, statName string, newValue int) ([]UserAchievementView, error) {
	related, err := s.achievements.GetByRequirementType(statName)
	if err != nil {
		return nil, err
	}
	completed := []UserAchievementView{}
	for _, a := range related {
		view, completedNow, err := s.achievements.UpdateUserProgress(userID, a.ID, newValue)
		if err != nil {
			return nil, err
		}
		if completedNow {
			completed = append(completed, *view)
		}
	}
	return completed, nil
}

func statValue(st *UserStats, statName string) int {
	switch statName {
	case "quizzes_completed":
		return st.QuizzesCompleted
	case "questions_answered":
		return st.QuestionsAnswered
	case "streak_days":
		return st.StreakDays
	case "challenges_sent":
		return st.ChallengesSent
	case "challenges_won":
		return st.ChallengesWon
	case "courses_completed":
		return st.CoursesCompleted
	case "points_earned":
		return st.PointsEarned
	case "points_spent":
		return st.PointsSpent
	}
	return 0
}

// Thin counter bumps for high-frequency events. None of these evaluate
// achievements; the keyed achievements unlock on the next sweep.

func (s *UserStatsStore) TrackChallengeSent(userID int) error {
	_, err := s.UpdateStat(userID, "challenges_sent", 1, false)
	return err
}

func (s *UserStatsStore) TrackChallengeWon(userID int) error {
	_, err := s.UpdateStat(userID, "challenges_won", 1, false)
	return err
}

func (s *UserStatsStore) TrackCourseCompleted(userID int) error {
	_, err := s.UpdateStat(userID, "courses_completed", 1, false)
	return err
}
