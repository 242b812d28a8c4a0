package util

import (
	"fmt"
)

func ddlStrings() []string {
	sqlStrings := []string{}
	sqlStrings = append(sqlStrings,
		`CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(128) NOT NULL,
    email VARCHAR(128) UNIQUE NOT NULL,
    password VARCHAR(512),
    role VARCHAR(50) NOT NULL CHECK(role='admin' or role='user' or role='owner') DEFAULT 'user',
    password_changed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted BOOLEAN DEFAULT false,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS trivia_questions (
    id SERIAL PRIMARY KEY,
    question TEXT NOT NULL,
    question_type VARCHAR(50) NOT NULL CHECK (question_type IN ('multiple-choice', 'true-false', 'fill-blank', 'matching', 'calculation')),
    options TEXT[] NOT NULL DEFAULT '{}',
    correct_answer TEXT NOT NULL DEFAULT '',
    terms TEXT[] NOT NULL DEFAULT '{}',
    definitions TEXT[] NOT NULL DEFAULT '{}',
    correct_matches TEXT NOT NULL DEFAULT '{}',
    difficulty VARCHAR(50) NOT NULL DEFAULT 'medium',
    category VARCHAR(128) NOT NULL,
    explanation TEXT,
    active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS challenges (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    challenger_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    challenged_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    game_type VARCHAR(128) NOT NULL,
    game_mode VARCHAR(128) NOT NULL,
    quiz_settings TEXT NOT NULL DEFAULT '{}',
    prize_points INT NOT NULL DEFAULT 0 CHECK (prize_points >= 0),
    status VARCHAR(50) NOT NULL CHECK (status IN ('pending', 'accepted', 'completed')) DEFAULT 'pending',
    challenger_score INT,
    challenged_score INT,
    winner_id INT REFERENCES users(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    challenged_at TIMESTAMP,
    completed_at TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS user_points (
    user_id INT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    total_points INT NOT NULL DEFAULT 0,
    challenges_won INT NOT NULL DEFAULT 0,
    challenges_played INT NOT NULL DEFAULT 0
)`,
		`CREATE TABLE IF NOT EXISTS points_history (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    points INT NOT NULL,
    reason VARCHAR(128) NOT NULL,
    reference_id VARCHAR(128) NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS leaderboard_entries (
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    game_type VARCHAR(128) NOT NULL,
    score INT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, game_type)
)`,
		`CREATE TABLE IF NOT EXISTS achievements (
    id SERIAL PRIMARY KEY,
    name VARCHAR(128) UNIQUE NOT NULL,
    description TEXT NOT NULL,
    category VARCHAR(128) NOT NULL,
    icon VARCHAR(16) NOT NULL DEFAULT '',
    points_reward INT NOT NULL DEFAULT 0,
    requirement_type VARCHAR(128) NOT NULL,
    requirement_value INT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS user_achievements (
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    achievement_id INT NOT NULL REFERENCES achievements(id) ON DELETE CASCADE,
    progress INT NOT NULL DEFAULT 0,
    completed BOOLEAN NOT NULL DEFAULT false,
    completed_at TIMESTAMP,
    PRIMARY KEY (user_id, achievement_id)
)`,
		`CREATE TABLE IF NOT EXISTS user_stats (
    user_id INT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    quizzes_completed INT NOT NULL DEFAULT 0,
    questions_answered INT NOT NULL DEFAULT 0,
    streak_days INT NOT NULL DEFAULT 0,
    challenges_sent INT NOT NULL DEFAULT 0,
    challenges_won INT NOT NULL DEFAULT 0,
    courses_completed INT NOT NULL DEFAULT 0,
    points_earned INT NOT NULL DEFAULT 0,
    points_spent INT NOT NULL DEFAULT 0
)`,
		`CREATE TABLE IF NOT EXISTS rewards (
    id SERIAL PRIMARY KEY,
    name VARCHAR(128) UNIQUE NOT NULL,
    type VARCHAR(50) NOT NULL,
    points_cost INT NOT NULL DEFAULT 0,
    is_premium BOOLEAN NOT NULL DEFAULT false
)`,
		`CREATE TABLE IF NOT EXISTS user_rewards (
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    reward_id INT NOT NULL REFERENCES rewards(id) ON DELETE CASCADE,
    acquired_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    is_equipped BOOLEAN NOT NULL DEFAULT false,
    PRIMARY KEY (user_id, reward_id)
)`,
		`CREATE TABLE IF NOT EXISTS quiz_results (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category VARCHAR(128) NOT NULL DEFAULT '',
    total_questions INT NOT NULL,
    correct_answers INT NOT NULL,
    score INT NOT NULL,
    passed BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_challenger ON challenges(challenger_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_challenged ON challenges(challenged_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_points_history_user ON points_history(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_game_score ON leaderboard_entries(game_type, score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_trivia_questions_category ON trivia_questions(category) WHERE active`,
	)
	return sqlStrings
}

func CreateTableIfNotExists() error {
	sqlStrings := ddlStrings()
	for i, sql := range sqlStrings {
		_, err := DB.Exec(sql)
		if err != nil {
			return fmt.Errorf("error creating table %d: %w", i, err)
		}
	}
	return nil
}

func dropTables() []string {
	return []string{
		"DROP TABLE IF EXISTS quiz_results",
		"DROP TABLE IF EXISTS user_rewards",
		"DROP TABLE IF EXISTS rewards",
		"DROP TABLE IF EXISTS user_stats",
		"DROP TABLE IF EXISTS user_achievements",
		"DROP TABLE IF EXISTS achievements",
		"DROP TABLE IF EXISTS leaderboard_entries",
		"DROP TABLE IF EXISTS points_history",
		"DROP TABLE IF EXISTS user_points",
		"DROP TABLE IF EXISTS challenges",
		"DROP TABLE IF EXISTS trivia_questions",
		"DROP TABLE IF EXISTS users",
	}
}
