package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/markusmobius/go-trafilatura"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"inkwell/internal/config"
)

// FetcherService turns a user-supplied article URL into plain text for
// summarization: SSRF validation, robots.txt compliance, per-host
// politeness, size-limited fetch, then main-content extraction.
type FetcherService struct {
	client        *FetcherClient
	robotsChecker *RobotsChecker
	contentCache  *cache.Cache
	hostLimiters  sync.Map // map[string]*rate.Limiter
	maxBodySize   int
	metrics       *Metrics
}

// NewFetcherService creates a fetcher from explicit configuration
func NewFetcherService(cfg config.FetchConfig, metrics *Metrics) *FetcherService {
	maxBody := cfg.MaxBodySize
	if maxBody == 0 {
		maxBody = 10 * 1024 * 1024
	}
	return &FetcherService{
		client:        NewFetcherClient(cfg.UserAgent, cfg.Timeout),
		robotsChecker: NewRobotsChecker(cfg.UserAgent),
		contentCache:  cache.New(1*time.Hour, 10*time.Minute),
		maxBodySize:   maxBody,
		metrics:       metrics,
	}
}

// FetchText fetches a URL and returns the page's main text content
func (s *FetcherService) FetchText(ctx context.Context, urlStr string) (string, error) {
	startTime := time.Now()

	if err := s.validateURL(urlStr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL: %v", ErrValidation, err)
	}

	if cached, found := s.contentCache.Get(urlStr); found {
		log.Printf("✅ [FETCH] Cache hit for URL: %s", urlStr)
		s.observeFetch("cache_hit")
		return cached.(string), nil
	}

	allowed, crawlDelay, err := s.robotsChecker.CanFetch(ctx, urlStr)
	if err != nil {
		log.Printf("⚠️  [FETCH] Failed to check robots.txt for %s: %v", urlStr, err)
		crawlDelay = 1 * time.Second
	}
	if !allowed {
		s.observeFetch("robots_blocked")
		return "", fmt.Errorf("%w: access blocked by robots.txt for %s", ErrUpstream, urlStr)
	}

	if err := s.waitForHost(ctx, parsedURL.Host, crawlDelay); err != nil {
		s.observeFetch("rate_limited")
		return "", fmt.Errorf("%w: rate limit wait: %v", ErrUpstream, err)
	}

	resp, err := s.client.Get(ctx, urlStr)
	if err != nil {
		log.Printf("❌ [FETCH] Failed to fetch URL %s: %v", urlStr, err)
		s.observeFetch("transport_error")
		return "", fmt.Errorf("%w: failed to fetch URL: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		s.observeFetch(fmt.Sprintf("http_%d", resp.StatusCode))
		return "", fmt.Errorf("%w: HTTP error %d fetching %s", ErrUpstream, resp.StatusCode, urlStr)
	}

	contentType := resp.Header.Get("Content-Type")
	if !s.isSupportedContentType(contentType) {
		s.observeFetch("unsupported_type")
		return "", fmt.Errorf("%w: unsupported content type: %s", ErrUpstream, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.maxBodySize)))
	if err != nil {
		s.observeFetch("read_error")
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
	}

	// Plain text pages need no extraction
	if strings.Contains(strings.ToLower(contentType), "text/plain") {
		text := strings.TrimSpace(string(body))
		if text == "" {
			s.observeFetch("empty")
			return "", fmt.Errorf("%w: empty document at %s", ErrUpstream, urlStr)
		}
		s.contentCache.Set(urlStr, text, cache.DefaultExpiration)
		s.observeFetch("ok")
		return text, nil
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: parsedURL,
	})
	if err != nil {
		s.observeFetch("extract_error")
		return "", fmt.Errorf("%w: failed to extract content: %v", ErrUpstream, err)
	}

	if result == nil || result.ContentText == "" {
		s.observeFetch("empty")
		return "", fmt.Errorf("%w: no content extracted from %s", ErrUpstream, urlStr)
	}

	text := result.ContentText
	s.contentCache.Set(urlStr, text, cache.DefaultExpiration)
	s.observeFetch("ok")

	log.Printf("✅ [FETCH] Extracted %d chars from %s (latency: %dms)",
		len(text), urlStr, time.Since(startTime).Milliseconds())

	return text, nil
}

// waitForHost applies per-host politeness derived from the robots.txt
// crawl-delay (capped between 0.2 and 5 req/s)
func (s *FetcherService) waitForHost(ctx context.Context, host string, crawlDelay time.Duration) error {
	limiter, ok := s.hostLimiters.Load(host)
	if !ok {
		requestsPerSecond := 1.0 / crawlDelay.Seconds()
		if requestsPerSecond > 5.0 {
			requestsPerSecond = 5.0
		}
		if requestsPerSecond < 0.2 {
			requestsPerSecond = 0.2
		}
		limiter, _ = s.hostLimiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(requestsPerSecond), 1))
	}
	return limiter.(*rate.Limiter).Wait(ctx)
}

// validateURL checks if the URL is safe to fetch (SSRF protection)
func (s *FetcherService) validateURL(urlStr string) error {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %v", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("only HTTP/HTTPS URLs are supported, got: %s", parsedURL.Scheme)
	}

	hostname := strings.ToLower(parsedURL.Hostname())

	if hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1" {
		return fmt.Errorf("localhost URLs are not allowed")
	}

	privateRanges := []string{
		"192.168.", "10.", "172.16.", "172.17.", "172.18.", "172.19.",
		"172.20.", "172.21.", "172.22.", "172.23.", "172.24.", "172.25.",
		"172.26.", "172.27.", "172.28.", "172.29.", "172.30.", "172.31.",
		"169.254.", // Link-local
		"fd",       // IPv6 private
	}

	for _, prefix := range privateRanges {
		if strings.HasPrefix(hostname, prefix) {
			return fmt.Errorf("private IP addresses are not allowed")
		}
	}

	return nil
}

// isSupportedContentType checks if the content type is supported
func (s *FetcherService) isSupportedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)

	supported := []string{
		"text/html",
		"text/plain",
		"application/xhtml+xml",
	}

	for _, ct := range supported {
		if strings.Contains(contentType, ct) {
			return true
		}
	}

	return false
}

func (s *FetcherService) observeFetch(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.FetchRequests.WithLabelValues(outcome).Inc()
}
