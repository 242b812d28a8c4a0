package controllers

import (
	"strconv"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func SubmitScore(c *fiber.Ctx) error {
	validate := validator.New()
	store := models.NewPointsStore(util.DB)

	user := c.Locals("user").(models.User)

	type scoreInput struct {
		GameType string `json:"gameType" validate:"required"`
		Score    int    `json:"score" validate:"gte=0"`
	}
	var input scoreInput
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

	improved, err := store.UpdateScore(user.ID, input.GameType, input.Score)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to submit score",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "success",
		"improved": improved,
	})
}

func GetTopPlayers(c *fiber.Ctx) error {
	store := models.NewPointsStore(util.DB)

	gameType := c.Params("gameType")
	if gameType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Game type is required",
		})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	entries, err := store.GetTopPlayers(gameType, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch leaderboard",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":      "success",
		"leaderboard": entries,
	})
}

func GetUserRank(c *fiber.Ctx) error {
	store := models.NewPointsStore(util.DB)

	user := c.Locals("user").(models.User)
	gameType := c.Params("gameType")
	if gameType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Game type is required",
		})
	}

	rank, err := store.GetUserRank(user.ID, gameType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch rank",
			"error":   err.Error(),
		})
	}
	if rank == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "No score recorded for this game type",
			"rank":    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"rank":   rank,
	})
}

func GetPointsLeaderboard(c *fiber.Ctx) error {
	store := models.NewPointsStore(util.DB)

	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	entries, err := store.GetPointsLeaderboard(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch points leaderboard",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":      "success",
		"leaderboard": entries,
	})
}

func GetUserPoints(c *fiber.Ctx) error {
	store := models.NewPointsStore(util.DB)

	user := c.Locals("user").(models.User)

	points, err := store.GetUserPoints(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch points",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"points": points,
	})
}

func GetPointsHistory(c *fiber.Ctx) error {
	store := models.NewPointsStore(util.DB)

	user := c.Locals("user").(models.User)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	history, err := store.GetPointsHistory(user.ID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch points history",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"history": history,
	})
}
