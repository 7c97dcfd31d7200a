package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gapscan/internal/config"
)

func testFetcherConfig() config.FetcherConfig {
	return config.FetcherConfig{TimeoutSeconds: 5, MaxRetries: 1, UserAgent: "gapscan-test"}
}

func TestFetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><head><title>Fetched</title></head><body></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(testFetcherConfig(), server.Client())
	doc, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if title := doc.Find("title").Text(); title != "Fetched" {
		t.Errorf("title = %q", title)
	}
	if gotUA != "gapscan-test" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`<html><head><title>OK</title></head></html>`))
	}))
	defer server.Close()

	f := NewFetcher(testFetcherConfig(), server.Client())
	if _, err := f.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestFetchSurfacesLastError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(testFetcherConfig(), server.Client())
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for persistent 404")
	}
}
