package controllers

import (
	"errors"
	"strconv"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func isValidationErr(err error) bool {
	return errors.Is(err, models.ErrValidation)
}

func CreateChallenge(c *fiber.Ctx) error {
	validate := validator.New()
	store := models.NewChallengeStore(util.DB)
	stats := models.NewUserStatsStore(util.DB)

	user := c.Locals("user").(models.User)

	type createChallengeInput struct {
		ChallengedID int    `json:"challengedId" validate:"required"`
		GameType     string `json:"gameType" validate:"required"`
		GameMode     string `json:"gameMode" validate:"required"`
		QuizSettings string `json:"quizSettings"`
		PrizePoints  int    `json:"prizePoints" validate:"gte=0"`
	}
	var input createChallengeInput
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

	challenge, err := store.Create(user.ID, input.ChallengedID, input.GameType, input.GameMode, input.QuizSettings, input.PrizePoints)
	if err != nil {
		if isValidationErr(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to create challenge",
			"error":   err.Error(),
		})
	}

	if err := stats.TrackChallengeSent(user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to track challenge",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "success",
		"challenge": challenge,
	})
}

func AcceptChallenge(c *fiber.Ctx) error {
	store := models.NewChallengeStore(util.DB)

	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Challenge ID is required",
		})
	}

	challenge, err := store.Accept(challengeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to accept challenge",
			"error":   err.Error(),
		})
	}
	if challenge == nil {
		// Not pending: nothing changed, report it as a normal outcome.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "Challenge is not pending, no change applied",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "success",
		"challenge": challenge,
	})
}

func UpdateChallengeScore(c *fiber.Ctx) error {
	store := models.NewChallengeStore(util.DB)

	user := c.Locals("user").(models.User)

	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Challenge ID is required",
		})
	}

	type scoreInput struct {
		Score int `json:"score"`
	}
	var input scoreInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	challenge, err := store.UpdateScore(challengeID, user.ID, input.Score)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to record score",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "success",
		"challenge": challenge,
	})
}

func GetUserChallenges(c *fiber.Ctx) error {
	store := models.NewChallengeStore(util.DB)

	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "User ID is required",
		})
	}
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	challenges, err := store.FindByUserID(userID, status, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch challenges",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     "success",
		"challenges": challenges,
	})
}
