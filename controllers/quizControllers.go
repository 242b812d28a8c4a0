package controllers

import (
	"strconv"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func SubmitQuiz(c *fiber.Ctx) error {
	validate := validator.New()
	store := models.NewQuizStore(util.DB)

	user := c.Locals("user").(models.User)

	type submitInput struct {
		Category     string              `json:"category" validate:"required"`
		Answers      []models.QuizAnswer `json:"answers" validate:"required,min=1"`
		PassingScore int                 `json:"passingScore" validate:"gte=0,lte=100"`
	}
	var input submitInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	result, err := store.SubmitQuiz(user.ID, input.Category, input.Answers, input.PassingScore)
	if err != nil {
		if isValidationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to submit quiz",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":              "success",
		"result":              result.Result,
		"pointsAwarded":       result.PointsAwarded,
		"updatedAchievements": result.UpdatedAchievements,
	})
}

func GetQuizHistory(c *fiber.Ctx) error {
	store := models.NewQuizStore(util.DB)

	user := c.Locals("user").(models.User)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	history, err := store.GetHistory(user.ID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch quiz history",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"history": history,
	})
}
