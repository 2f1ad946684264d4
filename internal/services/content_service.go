package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"inkwell/internal/models"
)

// CompletionClient is the slice of the completion service the content
// service depends on
type CompletionClient interface {
	Generate(ctx context.Context, prompt, tone, length string) (string, error)
	Summarize(ctx context.Context, text, format string) (string, error)
}

// TextFetcher resolves a URL into plain text
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// ContentService orchestrates the content lifecycle: validate input,
// call the completion service, persist the record, bump the owner's
// usage counter, and expose owner-scoped query/update/delete.
type ContentService struct {
	completion CompletionClient
	fetcher    TextFetcher
	store      ContentStore
	usage      UsageCounter
	metrics    *Metrics
}

// NewContentService creates a new content service
func NewContentService(completion CompletionClient, fetcher TextFetcher, store ContentStore, usage UsageCounter, metrics *Metrics) *ContentService {
	return &ContentService{
		completion: completion,
		fetcher:    fetcher,
		store:      store,
		usage:      usage,
		metrics:    metrics,
	}
}

// Generate produces free-form content from a prompt and persists it for
// the caller. Nothing is persisted if the completion call fails.
func (s *ContentService) Generate(ctx context.Context, ownerID string, req models.GenerateRequest) (*models.Content, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if err := validateTone(req.Tone); err != nil {
		return nil, err
	}
	if err := validateLength(req.Length); err != nil {
		return nil, err
	}

	outputText, err := s.completion.Generate(ctx, prompt, req.Tone, req.Length)
	if err != nil {
		return nil, err
	}

	content, err := s.store.Create(ctx, &models.Content{
		OwnerID:    ownerID,
		Kind:       models.KindGenerated,
		Prompt:     prompt,
		OutputText: outputText,
		Tone:       req.Tone,
		Length:     req.Length,
	})
	if err != nil {
		return nil, err
	}

	if err := s.usage.Increment(ctx, ownerID, models.KindGenerated); err != nil {
		// The record is already durable; the counter lags until the
		// caller retries or the next creation succeeds end to end.
		log.Printf("⚠️  [CONTENT] Usage increment failed for user %s: %v", ownerID, err)
		return nil, err
	}

	s.countCreated(models.KindGenerated)
	log.Printf("✅ [CONTENT] Generated %d chars for user %s", len(outputText), ownerID)

	return content, nil
}

// Summarize condenses pasted text or a fetched URL and persists the
// result for the caller. When SourceURL is set the fetched text becomes
// both the summarizer input and the persisted inputText.
func (s *ContentService) Summarize(ctx context.Context, ownerID string, req models.SummarizeRequest) (*models.Content, error) {
	if err := validateFormat(req.Format); err != nil {
		return nil, err
	}

	inputText := strings.TrimSpace(req.InputText)
	sourceURL := strings.TrimSpace(req.SourceURL)

	if inputText == "" && sourceURL == "" {
		return nil, fmt.Errorf("%w: either inputText or sourceUrl is required", ErrValidation)
	}

	if sourceURL != "" {
		fetched, err := s.fetcher.FetchText(ctx, sourceURL)
		if err != nil {
			return nil, err
		}
		inputText = fetched
	}

	if inputText == "" {
		return nil, fmt.Errorf("%w: nothing to summarize", ErrValidation)
	}

	outputText, err := s.completion.Summarize(ctx, inputText, req.Format)
	if err != nil {
		return nil, err
	}

	content, err := s.store.Create(ctx, &models.Content{
		OwnerID:    ownerID,
		Kind:       models.KindSummarized,
		SourceURL:  sourceURL,
		InputText:  inputText,
		OutputText: outputText,
		Format:     req.Format,
	})
	if err != nil {
		return nil, err
	}

	if err := s.usage.Increment(ctx, ownerID, models.KindSummarized); err != nil {
		log.Printf("⚠️  [CONTENT] Usage increment failed for user %s: %v", ownerID, err)
		return nil, err
	}

	s.countCreated(models.KindSummarized)
	log.Printf("✅ [CONTENT] Summarized %d chars into %d for user %s", len(inputText), len(outputText), ownerID)

	return content, nil
}

// ListHistory returns the caller's records matching the filter, newest
// first. An empty slice is a valid result.
func (s *ContentService) ListHistory(ctx context.Context, ownerID string, filter models.ContentFilter) ([]models.Content, error) {
	return s.store.QueryByOwner(ctx, ownerID, filter)
}

// UpdateContent replaces a record's output text. Only the owner can
// update; anyone else sees ErrNotFound.
func (s *ContentService) UpdateContent(ctx context.Context, id, ownerID, newOutputText string) (*models.Content, error) {
	if strings.TrimSpace(newOutputText) == "" {
		return nil, fmt.Errorf("%w: outputText is required", ErrValidation)
	}
	return s.store.UpdateOutputText(ctx, id, ownerID, newOutputText)
}

// DeleteContent removes a record. Only the owner can delete; anyone
// else sees ErrNotFound. The usage counters are lifetime tallies and
// are not decremented.
func (s *ContentService) DeleteContent(ctx context.Context, id, ownerID string) error {
	return s.store.Delete(ctx, id, ownerID)
}

func (s *ContentService) countCreated(kind models.ContentKind) {
	if s.metrics == nil {
		return
	}
	s.metrics.ContentCreated.WithLabelValues(string(kind)).Inc()
}

func validateTone(tone string) error {
	switch tone {
	case "", models.ToneFormal, models.ToneCasual, models.ToneProfessional:
		return nil
	}
	return fmt.Errorf("%w: unknown tone %q", ErrValidation, tone)
}

func validateLength(length string) error {
	switch length {
	case "", models.LengthShort, models.LengthMedium, models.LengthLong:
		return nil
	}
	return fmt.Errorf("%w: unknown length %q", ErrValidation, length)
}

func validateFormat(format string) error {
	switch format {
	case "", models.FormatParagraph, models.FormatBullets:
		return nil
	}
	return fmt.Errorf("%w: unknown format %q", ErrValidation, format)
}
