package models

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// QuizStore grades quiz submissions against stored questions and feeds the
// outcome into stats, achievements and the points ledger.
type QuizStore struct {
	db        *sql.DB
	questions *TriviaQuestionStore
	stats     *UserStatsStore
}

func NewQuizStore(db *sql.DB) *QuizStore {
	return &QuizStore{
		db:        db,
		questions: NewTriviaQuestionStore(db),
		stats:     NewUserStatsStore(db),
	}
}

// QuizAnswer is one submitted answer keyed by question id.
type QuizAnswer struct {
	QuestionID int         `json:"questionId"`
	Answer     interface{} `json:"answer"`
}

// QuizSubmissionResult is the graded outcome of one quiz.
type QuizSubmissionResult struct {
	Result              *QuizResult           `json:"result"`
	PointsAwarded       int                   `json:"pointsAwarded"`
	UpdatedAchievements []UserAchievementView `json:"updatedAchievements"`
}

const defaultPassingScore = 70

// isAnswerCorrect compares a submitted answer to the normalized stored one.
// Choice types compare option indexes, matching compares the full pair map,
// everything else compares trimmed, case-folded strings.
func isAnswerCorrect(q *TriviaQuestion, answer interface{}) bool {
	if isChoiceType(q.QuestionType) {
		correct, ok := q.CorrectAnswer.(int)
		if !ok {
			return false
		}
		switch v := answer.(type) {
		case float64:
			return int(v) == correct
		case int:
			return v == correct
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			return err == nil && n == correct
		}
		return false
	}

	if q.QuestionType == QuestionTypeMatching {
		submitted, ok := answer.(map[string]interface{})
		if !ok || len(submitted) != len(q.CorrectMatches) {
			return false
		}
		for term, def := range q.CorrectMatches {
			got, ok := submitted[term].(string)
			if !ok || !strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(def)) {
				return false
			}
		}
		return true
	}

	correct, _ := q.CorrectAnswer.(string)
	var given string
	switch v := answer.(type) {
	case string:
		given = v
	case float64:
		given = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return false
	}
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(correct))
}

// SubmitQuiz grades the submission, persists the result and bumps the quiz
// counters with an achievement sweep. A passing quiz earns the score as
// points. Score is the rounded percentage of correct answers.
func (s *QuizStore) SubmitQuiz(userID int, category string, answers []QuizAnswer, passingScore int) (*QuizSubmissionResult, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers submitted", ErrValidation)
	}
	if passingScore <= 0 {
		passingScore = defaultPassingScore
	}

	correct := 0
	for _, a := range answers {
		q, err := s.questions.GetByID(a.QuestionID)
		if err != nil {
			return nil, err
		}
		if q == nil || !q.Active {
			return nil, fmt.Errorf("%w: question %d not found", ErrValidation, a.QuestionID)
		}
		if isAnswerCorrect(q, a.Answer) {
			correct++
		}
	}

	total := len(answers)
	score := int(math.Round(100 * float64(correct) / float64(total)))
	passed := score >= passingScore

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := &QuizResult{
		UserID:         userID,
		Category:       category,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          score,
		Passed:         passed,
	}
	err = tx.QueryRow(`
		INSERT INTO quiz_results (user_id, category, total_questions, correct_answers, score, passed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, userID, category, total, correct, score, passed).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record quiz result: %w", err)
	}

	pointsAwarded := 0
	if passed {
		if err := awardPointsTx(tx, userID, score, "quiz_passed", strconv.Itoa(result.ID)); err != nil {
			return nil, err
		}
		if err := incrementStatTx(tx, userID, "points_earned", score); err != nil {
			return nil, err
		}
		pointsAwarded = score
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	submission := &QuizSubmissionResult{
		Result:              result,
		PointsAwarded:       pointsAwarded,
		UpdatedAchievements: []UserAchievementView{},
	}
	if passed {
		completed, err := s.stats.SweepStat(userID, "points_earned")
		if err != nil {
			return nil, err
		}
		submission.UpdatedAchievements = append(submission.UpdatedAchievements, completed...)
	}
	for _, bump := range []struct {
		stat string
		inc  int
	}{
		{"quizzes_completed", 1},
		{"questions_answered", total},
	} {
		update, err := s.stats.UpdateStat(userID, bump.stat, bump.inc, true)
		if err != nil {
			return nil, err
		}
		submission.UpdatedAchievements = append(submission.UpdatedAchievements, update.UpdatedAchievements...)
	}
	return submission, nil
}

// GetHistory returns the user's graded quizzes, newest first.
func (s *QuizStore) GetHistory(userID int, limit int) ([]QuizResult, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, category, total_questions, correct_answers, score, passed, created_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []QuizResult{}
	for rows.Next() {
		var r QuizResult
		if err := rows.Scan(&r.ID, &r.UserID, &r.Category, &r.TotalQuestions,
			&r.CorrectAnswers, &r.Score, &r.Passed, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
