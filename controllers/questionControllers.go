package controllers

import (
	"encoding/json"
	"strconv"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateQuestion handles single inserts and bulk imports of trivia questions.
func CreateQuestion(c *fiber.Ctx) error {
	validate := validator.New()
	store := models.NewTriviaQuestionStore(util.DB)

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found in context",
		})
	}
	if user.Role != "admin" && user.Role != "owner" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Only admins can create questions",
		})
	}

	body := c.Body()

	// Try parsing as an array first
	var questions []models.TriviaQuestion
	if err := json.Unmarshal(body, &questions); err != nil {
		// Try parsing as a single question
		var single models.TriviaQuestion
		if err := json.Unmarshal(body, &single); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to parse request body",
				"error":   err.Error(),
			})
		}
		questions = append(questions, single)
	}

	for _, q := range questions {
		err := validate.Struct(struct {
			Question     string `json:"question" validate:"required"`
			QuestionType string `json:"type" validate:"required"`
			Category     string `json:"category" validate:"required"`
			Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		}{
			Question:     q.Question,
			QuestionType: q.QuestionType,
			Category:     q.Category,
			Difficulty:   q.Difficulty,
		})
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
	}

	ids, err := store.CreateMany(questions)
	if err != nil {
		if isValidationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to insert questions",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "success",
		"message":   "Question(s) created successfully",
		"questions": ids,
	})
}

func GetQuestions(c *fiber.Ctx) error {
	store := models.NewTriviaQuestionStore(util.DB)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}

	filter := models.QuestionFilter{
		Category:        c.Query("category"),
		Difficulty:      c.Query("difficulty"),
		QuestionType:    c.Query("type"),
		IncludeInactive: c.Query("includeInactive") == "true",
		Limit:           limit,
		Offset:          (page - 1) * limit,
	}

	questions, err := store.Find(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to retrieve questions",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "success",
		"questions": questions,
		"page":      page,
		"limit":     limit,
	})
}

func GetQuestionByID(c *fiber.Ctx) error {
	store := models.NewTriviaQuestionStore(util.DB)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Question ID is required",
		})
	}

	question, err := store.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch question",
			"error":   err.Error(),
		})
	}
	if question == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Question not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "success",
		"question": question,
	})
}

func EditQuestion(c *fiber.Ctx) error {
	store := models.NewTriviaQuestionStore(util.DB)

	user := c.Locals("user").(models.User)
	if user.Role != "admin" && user.Role != "owner" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Only admins can edit questions",
		})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Question ID is required",
		})
	}

	var updated models.TriviaQuestion
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	updated.ID = id

	if err := store.Update(&updated); err != nil {
		if isValidationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update question",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Question updated successfully",
	})
}

// DeleteQuestion performs a soft delete by clearing the active flag.
func DeleteQuestion(c *fiber.Ctx) error {
	store := models.NewTriviaQuestionStore(util.DB)

	user := c.Locals("user").(models.User)
	if user.Role != "admin" && user.Role != "owner" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "You are not authorized to delete this question",
		})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Question ID is required",
		})
	}

	if err := store.Deactivate(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to delete question",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Question deleted successfully",
	})
}
