package controllers

import (
	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func GetUserStats(c *fiber.Ctx) error {
	store := models.NewUserStatsStore(util.DB)

	user := c.Locals("user").(models.User)

	stats, err := store.GetByUserID(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch stats",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"stats":  stats,
	})
}

func TrackStat(c *fiber.Ctx) error {
	validate := validator.New()
	store := models.NewUserStatsStore(util.DB)

	user := c.Locals("user").(models.User)

	type trackInput struct {
		StatName  string `json:"statName" validate:"required"`
		Increment int    `json:"increment" validate:"gte=1"`
	}
	var input trackInput
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

	result, err := store.UpdateStat(user.ID, input.StatName, input.Increment, true)
	if err != nil {
		if isValidationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update stat",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":              "success",
		"stats":               result.Stats,
		"updatedAchievements": result.UpdatedAchievements,
	})
}
