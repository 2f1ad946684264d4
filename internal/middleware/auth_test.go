package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"inkwell/pkg/auth"
)

func setupAuthApp(t *testing.T) (*fiber.App, *auth.JWTAuth) {
	t.Helper()

	jwtAuth, err := auth.NewJWTAuth("test-secret", 0, 0)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}

	app := fiber.New()
	app.Get("/protected", RequireAuth(jwtAuth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"email":   c.Locals("user_email"),
		})
	})

	return app, jwtAuth
}

func TestRequireAuth_ValidToken(t *testing.T) {
	app, jwtAuth := setupAuthApp(t)

	accessToken, _, err := jwtAuth.GenerateTokens("user-123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	app, _ := setupAuthApp(t)

	otherAuth, _ := auth.NewJWTAuth("other-secret", 0, 0)
	foreignToken, _, err := otherAuth.GenerateTokens("user-123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "abc123"},
		{"wrong scheme", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", resp.StatusCode)
			}
		})
	}
}
