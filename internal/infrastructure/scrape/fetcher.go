package scrape

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gapscan/internal/config"
)

// Fetcher retrieves target pages and parses them into goquery documents.
type Fetcher struct {
	client     *http.Client
	maxRetries int
	userAgent  string
}

// NewFetcher wires an HTTP client from fetcher configuration.
func NewFetcher(cfg config.FetcherConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "gapscan/1.0"
	}
	return &Fetcher{
		client:     client,
		maxRetries: cfg.MaxRetries,
		userAgent:  ua,
	}
}

// Fetch downloads the page and parses its DOM. Transient failures are
// retried with a short growing delay; the last error is surfaced once
// retries are exhausted.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		doc, err := f.fetchDocument(ctx, pageURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch %s: %w", pageURL, lastErr)
}

func (f *Fetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("target returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
