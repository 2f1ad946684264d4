package auth

import (
	"strings"
	"testing"
	"time"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"lowercase bearer", "bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"no scheme", "abc123", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"empty token", "Bearer   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for header %q", tt.header)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractToken failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected token %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewJWTAuth_EmptySecret(t *testing.T) {
	if _, err := NewJWTAuth("", 0, 0); err == nil {
		t.Fatal("Expected error for empty secret")
	}
}

func TestJWTAuth_TokenRoundtrip(t *testing.T) {
	jwtAuth, err := NewJWTAuth("test-secret", 0, 0)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}

	accessToken, refreshToken, err := jwtAuth.GenerateTokens("user-123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	user, err := jwtAuth.VerifyAccessToken(accessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if user.ID != "user-123" || user.Email != "user@example.com" {
		t.Errorf("Unexpected user: %+v", user)
	}

	claims, err := jwtAuth.VerifyRefreshToken(refreshToken)
	if err != nil {
		t.Fatalf("VerifyRefreshToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("Unexpected refresh claims: %+v", claims)
	}
	if claims.TokenID == "" {
		t.Error("Refresh token must carry a jti")
	}

	// Access tokens carry no jti and must not pass as refresh tokens
	if _, err := jwtAuth.VerifyRefreshToken(accessToken); err == nil {
		t.Error("Access token should not verify as refresh token")
	}
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	issuer, _ := NewJWTAuth("secret-one", 0, 0)
	verifier, _ := NewJWTAuth("secret-two", 0, 0)

	accessToken, _, err := issuer.GenerateTokens("user-123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(accessToken); err == nil {
		t.Fatal("Expected verification failure with wrong secret")
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	jwtAuth, _ := NewJWTAuth("test-secret", time.Nanosecond, 0)

	accessToken, _, err := jwtAuth.GenerateTokens("user-123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := jwtAuth.VerifyAccessToken(accessToken); err == nil {
		t.Fatal("Expected verification failure for expired token")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "argon2id$") {
		t.Errorf("Unexpected hash format: %q", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("Expected correct password to verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("Expected wrong password to fail")
	}

	// Salted: same password hashes differently
	hash2, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == hash2 {
		t.Error("Expected unique salt per hash")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, bad := range []string{"", "plainhash", "bcrypt$abc$def", "argon2id$only-two-parts"} {
		if _, err := VerifyPassword(bad, "password"); err == nil {
			t.Errorf("Expected error for malformed hash %q", bad)
		}
	}
}
