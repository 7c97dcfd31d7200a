package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gapscan/internal/domain"
	"gapscan/internal/ports"
)

// ErrNoContent signals that a page produced neither a title nor any content
// blocks. There is no safe default for an empty page, so callers treat this
// as a terminal input failure.
var ErrNoContent = errors.New("no meaningful content extracted")

// ContentExtractor orchestrates page fetching and structure extraction.
type ContentExtractor struct {
	fetcher *Fetcher
	scraper *Scraper
}

var _ ports.ContentSource = (*ContentExtractor)(nil)

// NewContentExtractor wires the fetcher and scraper.
func NewContentExtractor(fetcher *Fetcher) *ContentExtractor {
	return &ContentExtractor{
		fetcher: fetcher,
		scraper: NewScraper(),
	}
}

// Extract fetches the URL and returns its structured content.
func (e *ContentExtractor) Extract(ctx context.Context, pageURL string) (domain.ExtractedContent, error) {
	doc, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return domain.ExtractedContent{}, err
	}

	return e.structure(doc, pageURL)
}

// ExtractFromHTML structures raw markup directly, bypassing fetching.
func (e *ContentExtractor) ExtractFromHTML(markup, pageURL string) (domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("parse markup: %w", err)
	}

	return e.structure(doc, pageURL)
}

func (e *ContentExtractor) structure(doc *goquery.Document, pageURL string) (domain.ExtractedContent, error) {
	content := e.scraper.ExtractStructure(doc, pageURL)

	if content.Title == "" && len(content.ContentBlocks) == 0 {
		return domain.ExtractedContent{}, fmt.Errorf("%w from %s", ErrNoContent, pageURL)
	}

	return content, nil
}
