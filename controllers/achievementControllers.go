package controllers

import (
	"strconv"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func GetUserAchievements(c *fiber.Ctx) error {
	store := models.NewAchievementStore(util.DB)

	user := c.Locals("user").(models.User)

	achievements, err := store.GetUserAchievements(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch achievements",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       "success",
		"achievements": achievements,
	})
}

func UpdateAchievementProgress(c *fiber.Ctx) error {
	validate := validator.New()
	store := models.NewAchievementStore(util.DB)

	user := c.Locals("user").(models.User)

	achievementID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Achievement ID is required",
		})
	}

	type progressInput struct {
		Progress int `json:"progress" validate:"gte=0"`
	}
	var input progressInput
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

	view, completedNow, err := store.UpdateUserProgress(user.ID, achievementID, input.Progress)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update progress",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       "success",
		"achievement":  view,
		"completedNow": completedNow,
	})
}
