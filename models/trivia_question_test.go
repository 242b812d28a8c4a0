package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriviaQuestionStore_Normalize(t *testing.T) {
	store := NewTriviaQuestionStore(nil)

	t.Run("ChoiceAnswerCoercedToIndex", func(t *testing.T) {
		q := &TriviaQuestion{
			QuestionType:  " Multiple-Choice ",
			Category:      "Saving",
			Difficulty:    "EASY",
			Options:       pq.StringArray{"Spend", "Save"},
			CorrectAnswer: "1",
		}
		require.NoError(t, store.normalize(q))
		assert.Equal(t, QuestionTypeMultipleChoice, q.QuestionType)
		assert.Equal(t, "saving", q.Category)
		assert.Equal(t, "easy", q.Difficulty)
		assert.Equal(t, 1, q.CorrectAnswer)
	})

	t.Run("ChoiceAnswerMustBeNumeric", func(t *testing.T) {
		q := &TriviaQuestion{
			QuestionType:  QuestionTypeTrueFalse,
			CorrectAnswer: "definitely",
		}
		err := store.normalize(q)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("UnknownTypeRejected", func(t *testing.T) {
		q := &TriviaQuestion{QuestionType: "essay", CorrectAnswer: "x"}
		err := store.normalize(q)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("FloatAnswerStringifiedForNonChoice", func(t *testing.T) {
		q := &TriviaQuestion{
			QuestionType:  QuestionTypeCalculation,
			CorrectAnswer: float64(150),
		}
		require.NoError(t, store.normalize(q))
		assert.Equal(t, "150", q.CorrectAnswer)
	})

	t.Run("MatchingRequiresPairs", func(t *testing.T) {
		q := &TriviaQuestion{
			QuestionType: QuestionTypeMatching,
			Terms:        pq.StringArray{"asset"},
		}
		err := store.normalize(q)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("NonMatchingClearsPairFields", func(t *testing.T) {
		q := &TriviaQuestion{
			QuestionType:   QuestionTypeFillBlank,
			CorrectAnswer:  "budget",
			Terms:          pq.StringArray{"leftover"},
			Definitions:    pq.StringArray{"junk"},
			CorrectMatches: map[string]string{"a": "b"},
		}
		require.NoError(t, store.normalize(q))
		assert.Empty(t, q.Terms)
		assert.Empty(t, q.Definitions)
		assert.Nil(t, q.CorrectMatches)
	})
}

func TestTriviaQuestionStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTriviaQuestionStore(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO trivia_questions").
			WillReturnRows(sqlmock.NewRows([]string{"id", "active", "created_at", "updated_at"}).
				AddRow(7, true, now, now))
		mock.ExpectCommit()

		q := &TriviaQuestion{
			Question:      "What grows savings fastest?",
			QuestionType:  QuestionTypeMultipleChoice,
			Options:       pq.StringArray{"Spending", "Investing", "Hoarding"},
			CorrectAnswer: 1,
			Difficulty:    "easy",
			Category:      "saving",
		}
		require.NoError(t, store.Create(q))
		assert.Equal(t, 7, q.ID)
		assert.True(t, q.Active)
	})

	t.Run("InvalidQuestionRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		q := &TriviaQuestion{Question: "?", QuestionType: "essay", CorrectAnswer: "x"}
		err := store.Create(q)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTriviaQuestionStore_CreateMany_BadRecordRollsBackBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTriviaQuestionStore(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO trivia_questions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "created_at", "updated_at"}).
			AddRow(1, true, now, now))
	mock.ExpectRollback()

	questions := []TriviaQuestion{
		{Question: "ok", QuestionType: QuestionTypeFillBlank, CorrectAnswer: "budget", Category: "saving", Difficulty: "easy"},
		{Question: "bad", QuestionType: "essay", CorrectAnswer: "x"},
	}
	_, err = store.CreateMany(questions)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTriviaQuestionStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewTriviaQuestionStore(db)

	t.Run("MissingReturnsNil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM trivia_questions").
			WithArgs(99).
			WillReturnError(sql.ErrNoRows)

		q, err := store.GetByID(99)
		require.NoError(t, err)
		assert.Nil(t, q)
	})

	t.Run("RestoresChoiceAnswerAsIndex", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM trivia_questions").
			WithArgs(1).
			WillReturnRows(mcQuestionRow(1))

		q, err := store.GetByID(1)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, 1, q.CorrectAnswer)
		assert.Equal(t, pq.StringArray{"Spending", "Investing", "Hoarding"}, q.Options)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
