package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"time"
)

// User model
type User struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Password          string    `json:"-"`
	Role              string    `json:"role"`
	PasswordChangedAt time.Time `json:"passwordChangedAt"`
	Deleted           bool      `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TriviaQuestion model
//
// CorrectAnswer is the normalized answer: an int for multiple-choice and
// true-false questions (index into Options, 0/1 for true/false), a string for
// everything else. Terms, Definitions and CorrectMatches are only populated
// for matching questions.
type TriviaQuestion struct {
	ID             int               `json:"id"`
	Question       string            `json:"question"`
	QuestionType   string            `json:"type"`
	Options        pq.StringArray    `json:"options"`
	CorrectAnswer  interface{}       `json:"correctAnswer"`
	Terms          pq.StringArray    `json:"terms,omitempty"`
	Definitions    pq.StringArray    `json:"definitions,omitempty"`
	CorrectMatches map[string]string `json:"correctMatches,omitempty"`
	Difficulty     string            `json:"difficulty"`
	Category       string            `json:"category"`
	Explanation    *string           `json:"explanation"`
	Active         bool              `json:"active"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Challenge model
type Challenge struct {
	ID              uuid.UUID  `json:"id"`
	ChallengerID    int        `json:"challengerId"`
	ChallengedID    int        `json:"challengedId"`
	GameType        string     `json:"gameType"`
	GameMode        string     `json:"gameMode"`
	QuizSettings    string     `json:"quizSettings"`
	PrizePoints     int        `json:"prizePoints"`
	Status          string     `json:"status"`
	ChallengerScore *int       `json:"challengerScore"`
	ChallengedScore *int       `json:"challengedScore"`
	WinnerID        *int       `json:"winnerId"`
	CreatedAt       time.Time  `json:"createdAt"`
	ChallengedAt    *time.Time `json:"challengedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
}

// UserPoints running totals, one row per user
type UserPoints struct {
	UserID           int `json:"userId"`
	TotalPoints      int `json:"totalPoints"`
	ChallengesWon    int `json:"challengesWon"`
	ChallengesPlayed int `json:"challengesPlayed"`
}

// PointsHistoryEntry is one append-only ledger record
type PointsHistoryEntry struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Points      int       `json:"points"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"referenceId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LeaderboardEntry is a per-user-per-gameType monotonic high score
type LeaderboardEntry struct {
	UserID    int       `json:"userId"`
	Name      string    `json:"name"`
	GameType  string    `json:"gameType"`
	Score     int       `json:"score"`
	Points    int       `json:"totalPoints"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Achievement catalog entry, immutable after seeding
type Achievement struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Icon             string `json:"icon"`
	PointsReward     int    `json:"pointsReward"`
	RequirementType  string `json:"requirementType"`
	RequirementValue int    `json:"requirementValue"`
}

// UserAchievement progress row
type UserAchievement struct {
	UserID        int        `json:"userId"`
	AchievementID int        `json:"achievementId"`
	Progress      int        `json:"progress"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt"`
}

// UserAchievementView is an achievement definition joined with one user's progress
type UserAchievementView struct {
	Achievement
	Progress           int        `json:"progress"`
	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completedAt"`
	ProgressPercentage int        `json:"progressPercentage"`
}

// UserStats denormalized per-user counters
type UserStats struct {
	UserID            int `json:"userId"`
	QuizzesCompleted  int `json:"quizzesCompleted"`
	QuestionsAnswered int `json:"questionsAnswered"`
	StreakDays        int `json:"streakDays"`
	ChallengesSent    int `json:"challengesSent"`
	ChallengesWon     int `json:"challengesWon"`
	CoursesCompleted  int `json:"coursesCompleted"`
	PointsEarned      int `json:"pointsEarned"`
	PointsSpent       int `json:"pointsSpent"`
}

// Reward catalog entry
type Reward struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	RewardType string `json:"type"`
	PointsCost int    `json:"pointsCost"`
	IsPremium  bool   `json:"isPremium"`
}

// UserReward ownership record
type UserReward struct {
	UserID     int       `json:"userId"`
	RewardID   int       `json:"rewardId"`
	Name       string    `json:"name"`
	RewardType string    `json:"type"`
	AcquiredAt time.Time `json:"acquiredAt"`
	IsEquipped bool      `json:"isEquipped"`
}

// QuizResult is one graded quiz submission
type QuizResult struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	Category       string    `json:"category"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Score          int       `json:"score"`
	Passed         bool      `json:"passed"`
	CreatedAt      time.Time `json:"createdAt"`
}
