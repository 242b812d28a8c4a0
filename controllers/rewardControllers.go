package controllers

import (
	"strconv"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/gofiber/fiber/v2"
)

func GetRewards(c *fiber.Ctx) error {
	store := models.NewRewardStore(util.DB)

	rewards, err := store.GetRewards()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch rewards",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"rewards": rewards,
	})
}

func GetUserRewards(c *fiber.Ctx) error {
	store := models.NewRewardStore(util.DB)

	user := c.Locals("user").(models.User)

	rewards, err := store.GetUserRewards(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch user rewards",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"rewards": rewards,
	})
}

func PurchaseReward(c *fiber.Ctx) error {
	store := models.NewRewardStore(util.DB)

	user := c.Locals("user").(models.User)

	rewardID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Reward ID is required",
		})
	}

	result, err := store.PurchaseReward(user.ID, rewardID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to purchase reward",
			"error":   err.Error(),
		})
	}
	if !result.Success {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "error",
			"message": result.Message,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": result.Message,
		"reward":  result.Reward,
	})
}

func ToggleRewardEquip(c *fiber.Ctx) error {
	store := models.NewRewardStore(util.DB)

	user := c.Locals("user").(models.User)

	rewardID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Reward ID is required",
		})
	}

	type equipInput struct {
		Equip bool `json:"equip"`
	}
	var input equipInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	result, err := store.ToggleEquipStatus(user.ID, rewardID, input.Equip)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update reward",
			"error":   err.Error(),
		})
	}
	if !result.Success {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "error",
			"message": result.Message,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": result.Message,
	})
}
