package controllers

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/finquest/finquest_backend/models"
	"github.com/finquest/finquest_backend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Index(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "page": "index page"})
}

func CreateUser(c *fiber.Ctx) error {
	validate := validator.New()

	type registerInput struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	var input registerInput
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

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to hash password",
		})
	}

	var user models.User
	err = util.DB.QueryRow(`
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, 'user')
		RETURNING id, name, email, role, password_changed_at, created_at, updated_at
	`, input.Name, input.Email, string(hash)).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role,
		&user.PasswordChangedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to create user",
			"error":   err.Error(),
		})
	}

	// New players start with a zero stats row so achievement sweeps have a base.
	if _, err := models.NewUserStatsStore(util.DB).InitializeForUser(user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to initialize user stats",
			"error":   err.Error(),
		})
	}

	token, err := util.JwtGenerate(user, strconv.Itoa(user.ID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to generate token",
		})
	}

	c.Cookie(&fiber.Cookie{Name: "token", Value: token, Expires: time.Now().Add(72 * time.Hour), HTTPOnly: true})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "User Created",
		"token":   token,
		"user":    user,
	})
}

func LoginUser(c *fiber.Ctx) error {
	type loginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "error": err.Error()})
	}

	var user models.User
	err := util.DB.QueryRow(`
		SELECT id, name, email, password, role, password_changed_at, created_at, updated_at
		FROM users WHERE email = $1 AND deleted = false
	`, input.Email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.PasswordChangedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "error": err.Error()})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "invalid credentials"})
	}

	token, err := util.JwtGenerate(user, strconv.Itoa(user.ID))
	if err != nil || token == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "internal server error"})
	}

	c.Cookie(&fiber.Cookie{Name: "token", Value: token, Expires: time.Now().Add(72 * time.Hour), HTTPOnly: true})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "token": token})
}

func GetUserDetails(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"user":   user,
	})
}
