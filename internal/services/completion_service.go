package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
)

// Token budgets per requested length
const (
	budgetShort     = 300
	budgetMedium    = 700
	budgetLong      = 1200
	budgetSummarize = 400
)

const (
	generateTemperature  = 0.7
	summarizeTemperature = 0.5
)

// placeholderAPIKey is the value shipped in .env.example; treat it the
// same as no key at all.
const placeholderAPIKey = "your_openai_api_key_here"

// CompletionService wraps the external OpenAI-compatible completion API
// for the two tasks the app needs: free-form generation and
// summarization. It does not retry, cache, or stream; failures pass
// through to the caller.
type CompletionService struct {
	cfg        config.CompletionConfig
	httpClient *http.Client
	metrics    *Metrics
}

// NewCompletionService creates a completion service from explicit
// configuration. Credentials are never read from the environment here.
func NewCompletionService(cfg config.CompletionConfig, metrics *Metrics) *CompletionService {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &CompletionService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

// Generate produces free-form content for a prompt. Tone and length are
// embedded verbatim into the instruction; length also picks the output
// token budget.
func (s *CompletionService) Generate(ctx context.Context, prompt, tone, length string) (string, error) {
	maxTokens := budgetMedium
	switch length {
	case models.LengthShort:
		maxTokens = budgetShort
	case models.LengthLong:
		maxTokens = budgetLong
	}

	userPrompt := fmt.Sprintf("Generate a %s %s article/blog/post about: %s", length, tone, prompt)

	return s.complete(ctx, "generate", []chatMessage{
		{Role: "system", Content: "You are a helpful content writer."},
		{Role: "user", Content: userPrompt},
	}, maxTokens, generateTemperature)
}

// Summarize condenses the given text into a paragraph or bullet points
func (s *CompletionService) Summarize(ctx context.Context, text, format string) (string, error) {
	systemPrompt := "Summarize the following text in a concise paragraph:"
	if format == models.FormatBullets {
		systemPrompt = "Summarize the following text in bullet points:"
	}

	return s.complete(ctx, "summarize", []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: text},
	}, budgetSummarize, summarizeTemperature)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// complete performs a single blocking chat-completions call
func (s *CompletionService) complete(ctx context.Context, task string, messages []chatMessage, maxTokens int, temperature float64) (string, error) {
	if s.cfg.APIKey == "" || s.cfg.APIKey == placeholderAPIKey {
		return "", fmt.Errorf("%w: no API key set", ErrNotConfigured)
	}

	reqJSON, err := json.Marshal(chatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.observe(task, "transport_error", start)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.observe(task, fmt.Sprintf("http_%d", resp.StatusCode), start)
		return "", fmt.Errorf("%w: API error (status %d): %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.observe(task, "decode_error", start)
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		s.observe(task, "empty_response", start)
		return "", fmt.Errorf("%w: empty completion response", ErrUpstream)
	}

	content := result.Choices[0].Message.Content
	s.observe(task, "ok", start)
	log.Printf("📡 [COMPLETION] %s finished: %d chars in %dms", task, len(content), time.Since(start).Milliseconds())

	return content, nil
}

func (s *CompletionService) observe(task, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.CompletionRequests.WithLabelValues(task, outcome).Inc()
	s.metrics.CompletionLatency.WithLabelValues(task).Observe(time.Since(start).Seconds())
}
