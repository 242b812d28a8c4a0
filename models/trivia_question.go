package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Trivia question types
const (
	QuestionTypeMultipleChoice = "multiple-choice"
	QuestionTypeTrueFalse      = "true-false"
	QuestionTypeFillBlank      = "fill-blank"
	QuestionTypeMatching       = "matching"
	QuestionTypeCalculation    = "calculation"
)

var questionTypes = map[string]bool{
	QuestionTypeMultipleChoice: true,
	QuestionTypeTrueFalse:      true,
	QuestionTypeFillBlank:      true,
	QuestionTypeMatching:       true,
	QuestionTypeCalculation:    true,
}

// TriviaQuestionStore persists quiz questions, normalizing the heterogeneous
// per-type payloads on the way in so readers always see well-formed records.
type TriviaQuestionStore struct {
	db *sql.DB
}

func NewTriviaQuestionStore(db *sql.DB) *TriviaQuestionStore {
	return &TriviaQuestionStore{db: db}
}

// isChoiceType reports whether the correct answer is an option index.
func isChoiceType(questionType string) bool {
	return questionType == QuestionTypeMultipleChoice || questionType == QuestionTypeTrueFalse
}

// normalize trims type/category, guarantees non-nil sequences and coerces the
// correct answer: an option index for choice types, a string otherwise.
func (s *TriviaQuestionStore) normalize(q *TriviaQuestion) error {
	q.QuestionType = strings.ToLower(strings.TrimSpace(q.QuestionType))
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	q.Difficulty = strings.ToLower(strings.TrimSpace(q.Difficulty))

	if !questionTypes[q.QuestionType] {
		return fmt.Errorf("%w: unknown question type %q", ErrValidation, q.QuestionType)
	}
	if q.Options == nil {
		q.Options = pq.StringArray{}
	}
	if q.Terms == nil {
		q.Terms = pq.StringArray{}
	}
	if q.Definitions == nil {
		q.Definitions = pq.StringArray{}
	}

	if isChoiceType(q.QuestionType) {
		switch v := q.CorrectAnswer.(type) {
		case float64:
			q.CorrectAnswer = int(v)
		case int:
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: correct answer for %s must be numeric", ErrValidation, q.QuestionType)
			}
			q.CorrectAnswer = n
		default:
			return fmt.Errorf("%w: correct answer for %s must be numeric", ErrValidation, q.QuestionType)
		}
	} else {
		switch v := q.CorrectAnswer.(type) {
		case string:
			q.CorrectAnswer = v
		case float64:
			q.CorrectAnswer = strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
			if q.QuestionType != QuestionTypeMatching {
				return fmt.Errorf("%w: correct answer is required", ErrValidation)
			}
			q.CorrectAnswer = ""
		default:
			return fmt.Errorf("%w: correct answer must be a string", ErrValidation)
		}
	}

	if q.QuestionType == QuestionTypeMatching {
		if len(q.Terms) == 0 || len(q.Definitions) == 0 || len(q.CorrectMatches) == 0 {
			return fmt.Errorf("%w: matching questions need terms, definitions and correct matches", ErrValidation)
		}
	} else {
		q.Terms = pq.StringArray{}
		q.Definitions = pq.StringArray{}
		q.CorrectMatches = nil
	}
	return nil
}

// answerText is the storage form of the correct answer.
func answerText(q *TriviaQuestion) string {
	switch v := q.CorrectAnswer.(type) {
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	}
	return ""
}

// restoreAnswer converts the stored text back to the normalized shape.
func restoreAnswer(q *TriviaQuestion, stored string) {
	if isChoiceType(q.QuestionType) {
		if n, err := strconv.Atoi(stored); err == nil {
			q.CorrectAnswer = n
			return
		}
	}
	q.CorrectAnswer = stored
}

func matchesJSON(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts one question after normalization and sets its id.
func (s *TriviaQuestionStore) Create(q *TriviaQuestion) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.createTx(tx, q); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateMany bulk-imports questions in a single transaction; one bad record
// rolls back the whole batch.
func (s *TriviaQuestionStore) CreateMany(questions []TriviaQuestion) ([]int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := []int{}
	for i := range questions {
		if err := s.createTx(tx, &questions[i]); err != nil {
			return nil, err
		}
		ids = append(ids, questions[i].ID)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *TriviaQuestionStore) createTx(tx *sql.Tx, q *TriviaQuestion) error {
	if err := s.normalize(q); err != nil {
		return err
	}
	matches, err := matchesJSON(q.CorrectMatches)
	if err != nil {
		return err
	}
	err = tx.QueryRow(`
		INSERT INTO trivia_questions (
			question, question_type, options, correct_answer, terms, definitions,
			correct_matches, difficulty, category, explanation, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
		RETURNING id, active, created_at, updated_at
	`, q.Question, q.QuestionType, q.Options, answerText(q), q.Terms, q.Definitions,
		matches, q.Difficulty, q.Category, q.Explanation,
	).Scan(&q.ID, &q.Active, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

const triviaColumns = `id, question, question_type, options, correct_answer, terms,
	definitions, correct_matches, difficulty, category, explanation, active,
	created_at, updated_at`

func scanTriviaQuestion(row interface {
	Scan(dest ...interface{}) error
}) (*TriviaQuestion, error) {
	var q TriviaQuestion
	var storedAnswer, matches string
	err := row.Scan(&q.ID, &q.Question, &q.QuestionType, &q.Options, &storedAnswer,
		&q.Terms, &q.Definitions, &matches, &q.Difficulty, &q.Category,
		&q.Explanation, &q.Active, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	restoreAnswer(&q, storedAnswer)
	if matches != "" && matches != "{}" {
		if err := json.Unmarshal([]byte(matches), &q.CorrectMatches); err != nil {
			return nil, fmt.Errorf("failed to decode correct matches: %w", err)
		}
	}
	if q.Options == nil {
		q.Options = pq.StringArray{}
	}
	return &q, nil
}

func (s *TriviaQuestionStore) GetByID(id int) (*TriviaQuestion, error) {
	row := s.db.QueryRow(`SELECT `+triviaColumns+` FROM trivia_questions WHERE id = $1`, id)
	q, err := scanTriviaQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return q, err
}

// QuestionFilter narrows Find results. Zero values mean "no filter";
// inactive questions are excluded unless IncludeInactive is set.
type QuestionFilter struct {
	Category        string
	Difficulty      string
	QuestionType    string
	IncludeInactive bool
	Limit           int
	Offset          int
}

func (s *TriviaQuestionStore) Find(filter QuestionFilter) ([]TriviaQuestion, error) {
	query := `SELECT ` + triviaColumns + ` FROM trivia_questions`
	var conditions []string
	var args []interface{}
	argID := 1

	if !filter.IncludeInactive {
		conditions = append(conditions, "active = true")
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", argID))
		args = append(args, filter.Difficulty)
		argID++
	}
	if filter.QuestionType != "" {
		conditions = append(conditions, fmt.Sprintf("question_type = $%d", argID))
		args = append(args, filter.QuestionType)
		argID++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []TriviaQuestion{}
	for rows.Next() {
		q, err := scanTriviaQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// Update rewrites a question in place after re-normalization.
func (s *TriviaQuestionStore) Update(q *TriviaQuestion) error {
	if err := s.normalize(q); err != nil {
		return err
	}
	matches, err := matchesJSON(q.CorrectMatches)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`
		UPDATE trivia_questions SET
			question = $1, question_type = $2, options = $3, correct_answer = $4,
			terms = $5, definitions = $6, correct_matches = $7, difficulty = $8,
			category = $9, explanation = $10, updated_at = CURRENT_TIMESTAMP
		WHERE id = $11
	`, q.Question, q.QuestionType, q.Options, answerText(q), q.Terms, q.Definitions,
		matches, q.Difficulty, q.Category, q.Explanation, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question not found")
	}
	return nil
}

// Deactivate soft-deletes a question by clearing the active flag.
func (s *TriviaQuestionStore) Deactivate(id int) error {
	res, err := s.db.Exec(`UPDATE trivia_questions SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question not found")
	}
	return nil
}
