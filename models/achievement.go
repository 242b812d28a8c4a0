package models

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"
)

// AchievementStore tracks progress against the immutable achievement catalog
// and grants point rewards when a requirement threshold is crossed.
type AchievementStore struct {
	db *sql.DB
}

func NewAchievementStore(db *sql.DB) *AchievementStore {
	return &AchievementStore{db: db}
}

func progressPercentage(progress, requirement int) int {
	if requirement <= 0 {
		return 100
	}
	pct := int(math.Round(100 * float64(progress) / float64(requirement)))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// UpdateUserProgress sets a user's progress on an achievement to an absolute
// value. Crossing the requirement threshold marks the row completed, stamps
// completed_at and grants the point reward through the ledger, all in one
// transaction. Completion is terminal: later calls keep updating progress but
// never grant points again. The second return value reports whether this call
// completed the achievement.
func (s *AchievementStore) UpdateUserProgress(userID, achievementID, newProgress int) (*UserAchievementView, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var a Achievement
	err = tx.QueryRow(`
		SELECT id, name, description, category, icon, points_reward, requirement_type, requirement_value
		FROM achievements WHERE id = $1
	`, achievementID).Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Icon,
		&a.PointsReward, &a.RequirementType, &a.RequirementValue)
	if err == sql.ErrNoRows {
		return nil, false, fmt.Errorf("achievement not found")
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch achievement: %w", err)
	}

	// Zero-progress row for first touch, then lock it for the update.
	_, err = tx.Exec(`
		INSERT INTO user_achievements (user_id, achievement_id, progress)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`, userID, achievementID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to init progress row: %w", err)
	}

	var completed bool
	var completedAt *time.Time
	err = tx.QueryRow(`
		SELECT completed, completed_at FROM user_achievements
		WHERE user_id = $1 AND achievement_id = $2
		FOR UPDATE
	`, userID, achievementID).Scan(&completed, &completedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch progress: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE user_achievements SET progress = $1
		WHERE user_id = $2 AND achievement_id = $3
	`, newProgress, userID, achievementID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update progress: %w", err)
	}

	completedNow := false
	if !completed && newProgress >= a.RequirementValue {
		now := time.Now()
		_, err = tx.Exec(`
			UPDATE user_achievements SET completed = true, completed_at = $1
			WHERE user_id = $2 AND achievement_id = $3
		`, now, userID, achievementID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to mark completed: %w", err)
		}
		if a.PointsReward > 0 {
			if err := awardPointsTx(tx, userID, a.PointsReward, "achievement", strconv.Itoa(a.ID)); err != nil {
				return nil, false, err
			}
		}
		completed = true
		completedAt = &now
		completedNow = true
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &UserAchievementView{
		Achievement:        a,
		Progress:           newProgress,
		Completed:          completed,
		CompletedAt:        completedAt,
		ProgressPercentage: progressPercentage(newProgress, a.RequirementValue),
	}, completedNow, nil
}

// GetUserAchievements returns the full catalog joined with the user's
// progress; achievements the user never touched show zero progress.
func (s *AchievementStore) GetUserAchievements(userID int) ([]UserAchievementView, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.name, a.description, a.category, a.icon, a.points_reward,
		       a.requirement_type, a.requirement_value,
		       COALESCE(ua.progress, 0), COALESCE(ua.completed, false), ua.completed_at
		FROM achievements a
		LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
		ORDER BY a.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []UserAchievementView{}
	for rows.Next() {
		var v UserAchievementView
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Category, &v.Icon,
			&v.PointsReward, &v.RequirementType, &v.RequirementValue,
			&v.Progress, &v.Completed, &v.CompletedAt); err != nil {
			return nil, err
		}
		v.ProgressPercentage = progressPercentage(v.Progress, v.RequirementValue)
		views = append(views, v)
	}
	return views, rows.Err()
}

// GetByRequirementType returns the achievements triggered by one stat counter.
func (s *AchievementStore) GetByRequirementType(requirementType string) ([]Achievement, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, category, icon, points_reward, requirement_type, requirement_value
		FROM achievements
		WHERE requirement_type = $1
		ORDER BY requirement_value ASC
	`, requirementType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := []Achievement{}
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Icon,
			&a.PointsReward, &a.RequirementType, &a.RequirementValue); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

var defaultAchievements = []Achievement{
	{Name: "First Steps", Description: "Complete your first quiz", Category: "quiz", Icon: "👣", PointsReward: 50, RequirementType: "quizzes_completed", RequirementValue: 1},
	{Name: "Quiz Whiz", Description: "Complete 10 quizzes", Category: "quiz", Icon: "🧠", PointsReward: 200, RequirementType: "quizzes_completed", RequirementValue: 10},
	{Name: "Scholar", Description: "Answer 100 questions", Category: "quiz", Icon: "📚", PointsReward: 150, RequirementType: "questions_answered", RequirementValue: 100},
	{Name: "Streak Starter", Description: "Keep a 3-day learning streak", Category: "streak", Icon: "🔥", PointsReward: 75, RequirementType: "streak_days", RequirementValue: 3},
	{Name: "Week Warrior", Description: "Keep a 7-day learning streak", Category: "streak", Icon: "⚡", PointsReward: 250, RequirementType: "streak_days", RequirementValue: 7},
	{Name: "Challenger", Description: "Send 5 challenges to friends", Category: "social", Icon: "⚔️", PointsReward: 100, RequirementType: "challenges_sent", RequirementValue: 5},
	{Name: "Champion", Description: "Win 5 challenges", Category: "social", Icon: "🏆", PointsReward: 300, RequirementType: "challenges_won", RequirementValue: 5},
	{Name: "Course Graduate", Description: "Finish your first course", Category: "course", Icon: "🎓", PointsReward: 150, RequirementType: "courses_completed", RequirementValue: 1},
	{Name: "Money Maker", Description: "Earn 1000 points", Category: "points", Icon: "💰", PointsReward: 100, RequirementType: "points_earned", RequirementValue: 1000},
	{Name: "Big Spender", Description: "Spend 500 points in the reward shop", Category: "points", Icon: "🛍️", PointsReward: 50, RequirementType: "points_spent", RequirementValue: 500},
}

// InitDefaultAchievements seeds the canonical catalog. Names already present
// are left untouched, so the seed can run at every boot.
func (s *AchievementStore) InitDefaultAchievements() error {
	for _, a := range defaultAchievements {
		_, err := s.db.Exec(`
			INSERT INTO achievements (name, description, category, icon, points_reward, requirement_type, requirement_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name) DO NOTHING
		`, a.Name, a.Description, a.Category, a.Icon, a.PointsReward, a.RequirementType, a.RequirementValue)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", a.Name, err)
		}
	}
	return nil
}
