package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inkwell/internal/models"
	"inkwell/internal/services"
)

// AuthHandler handles account registration, login, and profile requests
type AuthHandler struct {
	users *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register creates a new account
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	resp, err := h.users.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err, "Registration failed.")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login verifies credentials and issues tokens
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	resp, err := h.users.Login(c.Context(), req)
	if err != nil {
		return respondError(c, err, "Login failed.")
	}

	return c.JSON(resp)
}

// Me returns the caller's profile including usage stats
// GET /api/users/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to load profile.")
	}

	return c.JSON(user.ToResponse())
}
