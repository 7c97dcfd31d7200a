package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Target</title></head><body><h1>Intro</h1><p>Body text.</p></body></html>`))
	}))
	defer server.Close()

	e := NewContentExtractor(NewFetcher(testFetcherConfig(), server.Client()))

	content, err := e.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if content.Title != "Target" {
		t.Errorf("title = %q", content.Title)
	}
	if content.URL != server.URL {
		t.Errorf("url = %q", content.URL)
	}
	if len(content.ContentBlocks) != 1 || content.ContentBlocks[0].Heading != "Intro" {
		t.Errorf("blocks = %+v", content.ContentBlocks)
	}
}

func TestExtractFromHTMLEmptyPage(t *testing.T) {
	e := NewContentExtractor(NewFetcher(testFetcherConfig(), nil))

	_, err := e.ExtractFromHTML(`<html><head></head><body></body></html>`, "https://example.com")
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("error = %v, want ErrNoContent", err)
	}
}

func TestExtractFromHTML(t *testing.T) {
	e := NewContentExtractor(NewFetcher(testFetcherConfig(), nil))

	content, err := e.ExtractFromHTML(`<html><head><title>Inline</title></head><body></body></html>`, "https://example.com")
	if err != nil {
		t.Fatalf("ExtractFromHTML() error = %v", err)
	}
	if content.Title != "Inline" {
		t.Errorf("title = %q", content.Title)
	}
}
