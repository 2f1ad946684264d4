package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/services"
)

// respondError maps a service error to the stable boundary shape
// {message, errorDetail}. Detail is included for client-correctable
// failures and upstream faults; storage internals stay out of responses.
func respondError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":     message,
			"errorDetail": err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Content not found.",
		})
	case errors.Is(err, services.ErrNotConfigured):
		log.Printf("❌ [API] Completion service misconfigured: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message":     message,
			"errorDetail": "AI service is not configured",
		})
	case errors.Is(err, services.ErrUpstream):
		log.Printf("❌ [API] Upstream failure: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message":     message,
			"errorDetail": err.Error(),
		})
	default:
		log.Printf("❌ [API] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
		})
	}
}

// requireUserID pulls the verified caller identity set by the auth
// middleware. Handlers never derive identity any other way.
func requireUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}
