package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gapscan/internal/domain"
)

type fakeService struct {
	result domain.GapAnalysisResult
	err    error

	gotKeyword string
	gotPath    string
	gotURL     string
}

func (f *fakeService) RunFull(_ context.Context, keyword, keywordsPath, targetURL string) (domain.GapAnalysisResult, error) {
	f.gotKeyword = keyword
	f.gotPath = keywordsPath
	f.gotURL = targetURL
	return f.result, f.err
}

func (f *fakeService) RunGap(_ context.Context, hierarchyPath, contentPath, keyword string) (domain.GapAnalysisResult, error) {
	f.gotPath = hierarchyPath
	f.gotKeyword = keyword
	return f.result, f.err
}

func testRouter(svc AnalysisService) http.Handler {
	return NewRouter(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)

	testRouter(&fakeService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestAnalyze(t *testing.T) {
	svc := &fakeService{result: domain.GapAnalysisResult{AnalysisID: "id-1", OverallScore: 50}}

	payload := `{"keyword": "seo", "keywords_file": "keywords.csv", "target_url": "https://example.com"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(payload))

	testRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.gotKeyword != "seo" || svc.gotPath != "keywords.csv" || svc.gotURL != "https://example.com" {
		t.Errorf("service args = %q %q %q", svc.gotKeyword, svc.gotPath, svc.gotURL)
	}

	var result domain.GapAnalysisResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if result.AnalysisID != "id-1" {
		t.Errorf("result = %+v", result)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"missing keyword", `{"keywords_file": "k.csv", "target_url": "https://example.com"}`},
		{"missing file", `{"keyword": "seo", "target_url": "https://example.com"}`},
		{"bad url", `{"keyword": "seo", "keywords_file": "k.csv", "target_url": "not a url"}`},
		{"bad json", `{`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(c.payload))

			testRouter(&fakeService{}).ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAnalyzeServiceFailure(t *testing.T) {
	svc := &fakeService{err: errors.New("boom")}

	payload := `{"keyword": "seo", "keywords_file": "k.csv", "target_url": "https://example.com"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(payload))

	testRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body errResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body.Error, "boom") {
		t.Errorf("error body = %+v", body)
	}
}

func TestGap(t *testing.T) {
	svc := &fakeService{result: domain.GapAnalysisResult{AnalysisID: "id-2"}}

	payload := `{"hierarchy_file": "h.json", "content_file": "c.json", "keyword": "seo"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/gap", strings.NewReader(payload))

	testRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.gotPath != "h.json" || svc.gotKeyword != "seo" {
		t.Errorf("service args = %q %q", svc.gotPath, svc.gotKeyword)
	}
}

func TestGapValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/gap", strings.NewReader(`{"keyword": "seo"}`))

	testRouter(&fakeService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
