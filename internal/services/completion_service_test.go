package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"
)

func newTestCompletionServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *CompletionService) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewCompletionService(config.CompletionConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
	}, nil)

	return server, svc
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + jsonString(content) + `}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCompletionService_Generate(t *testing.T) {
	var captured chatCompletionRequest
	_, svc := newTestCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("An article.")))
	})

	output, err := svc.Generate(context.Background(), "space travel", models.ToneCasual, models.LengthLong)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if output != "An article." {
		t.Errorf("Unexpected output: %q", output)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("Expected model gpt-4o-mini, got %q", captured.Model)
	}
	if captured.MaxTokens != budgetLong {
		t.Errorf("Expected max_tokens %d for long, got %d", budgetLong, captured.MaxTokens)
	}
	if captured.Temperature != generateTemperature {
		t.Errorf("Expected temperature %v, got %v", generateTemperature, captured.Temperature)
	}
	if captured.Stream {
		t.Error("Streaming must be disabled")
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("Expected system+user messages, got %+v", captured.Messages)
	}
	if captured.Messages[1].Content != "Generate a long casual article/blog/post about: space travel" {
		t.Errorf("Unexpected user prompt: %q", captured.Messages[1].Content)
	}
}

func TestCompletionService_Generate_TokenBudgets(t *testing.T) {
	tests := []struct {
		length string
		want   int
	}{
		{models.LengthShort, budgetShort},
		{models.LengthMedium, budgetMedium},
		{models.LengthLong, budgetLong},
		{"", budgetMedium},
	}

	for _, tt := range tests {
		t.Run("length "+tt.length, func(t *testing.T) {
			var captured chatCompletionRequest
			_, svc := newTestCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&captured)
				w.Write([]byte(completionResponse("ok")))
			})

			if _, err := svc.Generate(context.Background(), "x", "", tt.length); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if captured.MaxTokens != tt.want {
				t.Errorf("Expected max_tokens %d, got %d", tt.want, captured.MaxTokens)
			}
		})
	}
}

func TestCompletionService_Summarize(t *testing.T) {
	tests := []struct {
		format     string
		wantSystem string
	}{
		{models.FormatBullets, "Summarize the following text in bullet points:"},
		{models.FormatParagraph, "Summarize the following text in a concise paragraph:"},
		{"", "Summarize the following text in a concise paragraph:"},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			var captured chatCompletionRequest
			_, svc := newTestCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&captured)
				w.Write([]byte(completionResponse("A summary.")))
			})

			output, err := svc.Summarize(context.Background(), "long text here", tt.format)
			if err != nil {
				t.Fatalf("Summarize failed: %v", err)
			}
			if output != "A summary." {
				t.Errorf("Unexpected output: %q", output)
			}
			if captured.Messages[0].Content != tt.wantSystem {
				t.Errorf("Expected system prompt %q, got %q", tt.wantSystem, captured.Messages[0].Content)
			}
			if captured.MaxTokens != budgetSummarize {
				t.Errorf("Expected max_tokens %d, got %d", budgetSummarize, captured.MaxTokens)
			}
			if captured.Temperature != summarizeTemperature {
				t.Errorf("Expected temperature %v, got %v", summarizeTemperature, captured.Temperature)
			}
		})
	}
}

func TestCompletionService_NotConfigured(t *testing.T) {
	for _, key := range []string{"", placeholderAPIKey} {
		svc := NewCompletionService(config.CompletionConfig{
			APIKey:  key,
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		}, nil)

		_, err := svc.Generate(context.Background(), "hello", "", "")
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("key %q: expected ErrNotConfigured, got %v", key, err)
		}
	}
}

func TestCompletionService_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"http error status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			},
		},
		{
			"empty choices",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			"empty content",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionResponse("")))
			},
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newTestCompletionServer(t, tt.handler)

			_, err := svc.Summarize(context.Background(), "text", "")
			if !errors.Is(err, ErrUpstream) {
				t.Fatalf("Expected ErrUpstream, got %v", err)
			}
		})
	}
}
