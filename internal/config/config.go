package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration. It is loaded once at
// startup and passed into constructors; nothing else reads the
// environment directly.
type Config struct {
	Port           string
	Environment    string
	MongoURI       string
	JWTSecret      string
	AllowedOrigins string

	Completion CompletionConfig
	Fetch      FetchConfig
}

// CompletionConfig configures the external text-completion service
// (any OpenAI-compatible chat completions endpoint).
type CompletionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// FetchConfig configures the URL-to-text fetcher used for
// summarize-by-URL requests.
type FetchConfig struct {
	Timeout     time.Duration
	MaxBodySize int
	UserAgent   string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3001"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		MongoURI:       getEnv("MONGODB_URI", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),

		Completion: CompletionConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getDurationEnv("COMPLETION_TIMEOUT", 120*time.Second),
		},

		Fetch: FetchConfig{
			Timeout:     getDurationEnv("FETCH_TIMEOUT", 60*time.Second),
			MaxBodySize: getIntEnv("FETCH_MAX_BODY_SIZE", 10*1024*1024),
			UserAgent:   getEnv("FETCH_USER_AGENT", "Inkwell-Bot/1.0 (+https://inkwell.example.com/bot)"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
