package middlewares

import (
	"database/sql"
	"strconv"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/gofiber/fiber/v2"
)

func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "error",
		"message": "Not Found",
	})
}

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("token")
		if token == "" {
			token = c.Get("Authorization")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "No token provided",
			})
		}
		claims, err := util.ParseJWT(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token " + err.Error()})
		}

		userID, err := strconv.Atoi(claims["id"].(string))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token payload",
			})
		}

		var user models.User
		query := `SELECT id, name, email, password, role, password_changed_at, deleted, created_at, updated_at
		          FROM users WHERE id = $1 AND deleted = false`

		row := util.DB.QueryRow(query, userID)
		err = row.Scan(
			&user.ID, &user.Name, &user.Email, &user.Password, &user.Role,
			&user.PasswordChangedAt, &user.Deleted, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status":  "error",
					"message": "User not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Database error",
				"error":   err.Error(),
			})
		}

		if err := util.IsTokenValid(claims, user); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}
