package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"gapscan/internal/domain"
)

type fakeKeywords struct {
	data []domain.KeywordData
	err  error
}

func (f *fakeKeywords) Load(string) ([]domain.KeywordData, error) { return f.data, f.err }

type fakeDimensions struct {
	err error
}

func (f *fakeDimensions) ExtractDimensions(markup string) (domain.RawDimensions, error) {
	if f.err != nil {
		return domain.RawDimensions{}, f.err
	}
	return domain.FlatDimensions([]string{"topic from " + markup}), nil
}

type fakeContent struct {
	content domain.ExtractedContent
	err     error
}

func (f *fakeContent) Extract(context.Context, string) (domain.ExtractedContent, error) {
	return f.content, f.err
}

type fakeSynthesizer struct {
	hierarchy domain.DimensionHierarchy
	gotInputs []domain.KeywordData
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _ string, inputs []domain.KeywordData) domain.DimensionHierarchy {
	f.gotInputs = inputs
	return f.hierarchy
}

type fakeAnalyzer struct {
	result     domain.GapAnalysisResult
	gotKeyword string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ domain.ExtractedContent, _ domain.DimensionHierarchy, keyword string) domain.GapAnalysisResult {
	f.gotKeyword = keyword
	return f.result
}

type fakeArtifacts struct {
	savedKeywords  []domain.KeywordData
	savedHierarchy domain.DimensionHierarchy
	savedContent   domain.ExtractedContent
	savedReport    domain.GapAnalysisResult
	hierarchy      domain.DimensionHierarchy
	content        domain.ExtractedContent
	loadErr        error
}

func (f *fakeArtifacts) SaveKeywordDimensions(k []domain.KeywordData) error {
	f.savedKeywords = k
	return nil
}

func (f *fakeArtifacts) SaveHierarchy(h domain.DimensionHierarchy) error {
	f.savedHierarchy = h
	return nil
}

func (f *fakeArtifacts) SaveContent(c domain.ExtractedContent) error {
	f.savedContent = c
	return nil
}

func (f *fakeArtifacts) SaveReport(r domain.GapAnalysisResult) (string, error) {
	f.savedReport = r
	return "output/gap_analysis_test.json", nil
}

func (f *fakeArtifacts) LoadHierarchy(string) (domain.DimensionHierarchy, error) {
	return f.hierarchy, f.loadErr
}

func (f *fakeArtifacts) LoadContent(string) (domain.ExtractedContent, error) {
	return f.content, f.loadErr
}

func testPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewPipeline(deps)
}

func TestRunFull(t *testing.T) {
	synth := &fakeSynthesizer{hierarchy: domain.NewHierarchy("seo", "seo\n  - audits")}
	analyzer := &fakeAnalyzer{result: domain.GapAnalysisResult{AnalysisID: "id-1", OverallScore: 75.0}}
	store := &fakeArtifacts{}

	p := testPipeline(PipelineDeps{
		Keywords:    &fakeKeywords{data: []domain.KeywordData{{Keyword: "seo audit", AioHTML: "<x>"}}},
		Dimensions:  &fakeDimensions{},
		Content:     &fakeContent{content: domain.ExtractedContent{URL: "https://example.com", Title: "T"}},
		Synthesizer: synth,
		Analyzer:    analyzer,
		Artifacts:   store,
	})

	result, err := p.RunFull(context.Background(), "seo", "keywords.csv", "https://example.com")
	if err != nil {
		t.Fatalf("RunFull() error = %v", err)
	}
	if result.AnalysisID != "id-1" {
		t.Errorf("result = %+v", result)
	}

	// Every stage artifact is persisted.
	if len(store.savedKeywords) != 1 || store.savedKeywords[0].Dimensions.IsEmpty() {
		t.Errorf("saved keywords = %+v", store.savedKeywords)
	}
	if store.savedHierarchy.Keyword != "seo" {
		t.Errorf("saved hierarchy = %+v", store.savedHierarchy)
	}
	if store.savedContent.Title != "T" {
		t.Errorf("saved content = %+v", store.savedContent)
	}
	if store.savedReport.AnalysisID != "id-1" {
		t.Errorf("saved report = %+v", store.savedReport)
	}

	// The synthesizer receives inputs with extracted dimensions attached.
	if len(synth.gotInputs) != 1 || synth.gotInputs[0].Dimensions.IsEmpty() {
		t.Errorf("synthesizer inputs = %+v", synth.gotInputs)
	}
}

func TestRunFullKeywordLoadFailureAborts(t *testing.T) {
	p := testPipeline(PipelineDeps{
		Keywords: &fakeKeywords{err: errors.New("bad csv")},
	})

	if _, err := p.RunFull(context.Background(), "seo", "x.csv", "https://example.com"); err == nil {
		t.Fatal("expected error when keyword loading fails")
	}
}

func TestRunFullContentFailureAborts(t *testing.T) {
	p := testPipeline(PipelineDeps{
		Keywords:    &fakeKeywords{data: []domain.KeywordData{{Keyword: "k"}}},
		Dimensions:  &fakeDimensions{},
		Content:     &fakeContent{err: errors.New("empty page")},
		Synthesizer: &fakeSynthesizer{hierarchy: domain.NewHierarchy("seo", "seo")},
		Analyzer:    &fakeAnalyzer{},
		Artifacts:   &fakeArtifacts{},
	})

	if _, err := p.RunFull(context.Background(), "seo", "x.csv", "https://example.com"); err == nil {
		t.Fatal("expected error when content extraction fails")
	}
}

func TestRunGap(t *testing.T) {
	analyzer := &fakeAnalyzer{result: domain.GapAnalysisResult{AnalysisID: "id-2"}}
	store := &fakeArtifacts{
		hierarchy: domain.NewHierarchy("saved keyword", "saved keyword\n  - a"),
		content:   domain.ExtractedContent{URL: "https://example.com"},
	}

	p := testPipeline(PipelineDeps{
		Analyzer:  analyzer,
		Artifacts: store,
	})

	result, err := p.RunGap(context.Background(), "h.json", "c.json", "")
	if err != nil {
		t.Fatalf("RunGap() error = %v", err)
	}
	if result.AnalysisID != "id-2" {
		t.Errorf("result = %+v", result)
	}
	// Empty keyword falls back to the saved hierarchy's root.
	if analyzer.gotKeyword != "saved keyword" {
		t.Errorf("analyzer keyword = %q", analyzer.gotKeyword)
	}

	if _, err := p.RunGap(context.Background(), "h.json", "c.json", "override"); err != nil {
		t.Fatalf("RunGap() error = %v", err)
	}
	if analyzer.gotKeyword != "override" {
		t.Errorf("analyzer keyword = %q, want override", analyzer.gotKeyword)
	}
}

func TestRunGapLoadFailure(t *testing.T) {
	p := testPipeline(PipelineDeps{
		Artifacts: &fakeArtifacts{loadErr: errors.New("missing artifact")},
	})

	if _, err := p.RunGap(context.Background(), "h.json", "c.json", ""); err == nil {
		t.Fatal("expected error when artifacts cannot be loaded")
	}
}
