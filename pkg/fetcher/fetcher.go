// Package fetcher acquires content for url-type documents: a rate-limited
// HTTP GET plus HTML-to-text extraction. The ingestion pipeline itself reads
// content from the document store; fetcher fills that content in beforehand.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Config struct {
	// RateLimit is the maximum requests per second against remote hosts.
	RateLimit float64
	Timeout   time.Duration
	UserAgent string
}

type Fetcher struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewWithConfig(config Config, logger *zap.Logger) *Fetcher {
	if config.RateLimit <= 0 {
		config.RateLimit = 2
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "chatforge-rag/1.0"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		logger:  logger,
	}
}

func New() *Fetcher {
	return NewWithConfig(Config{}, nil)
}

// Fetch downloads rawURL and returns the page title and its visible text,
// whitespace-collapsed. Script, style and nav content is stripped.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (title, text string, err error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse %s: %w", rawURL, err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript, nav, header, footer").Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	text = cleanContent(body.Text())

	f.logger.Debug("fetched page",
		zap.String("url", rawURL), zap.String("title", title), zap.Int("chars", len(text)))
	return title, text, nil
}

func cleanContent(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
