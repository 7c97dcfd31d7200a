package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"gapscan/internal/domain"
	"gapscan/internal/ports"
)

// PipelineDeps wires all driven adapters into the analysis workflow.
type PipelineDeps struct {
	Keywords    ports.KeywordSource
	Dimensions  ports.DimensionExtractor
	Content     ports.ContentSource
	Synthesizer ports.HierarchySynthesizer
	Analyzer    ports.GapAnalyzer
	Artifacts   ports.ArtifactStore
	Logger      *slog.Logger
}

// Pipeline implements the content-gap-analysis workflow: ingest keywords,
// extract dimensions, synthesize the hierarchy, extract page content, and
// score the gaps. Every stage persists its artifact so the gap stage can
// later be re-run from saved state.
type Pipeline struct {
	keywords    ports.KeywordSource
	dimensions  ports.DimensionExtractor
	content     ports.ContentSource
	synthesizer ports.HierarchySynthesizer
	analyzer    ports.GapAnalyzer
	artifacts   ports.ArtifactStore
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		keywords:    deps.Keywords,
		dimensions:  deps.Dimensions,
		content:     deps.Content,
		synthesizer: deps.Synthesizer,
		analyzer:    deps.Analyzer,
		artifacts:   deps.Artifacts,
		logger:      deps.Logger,
	}
}

// RunFull executes the complete workflow. Input failures (bad CSV, empty
// page) abort the run; oracle failures degrade inside the synthesizer and
// analyzer instead of propagating here.
func (p *Pipeline) RunFull(ctx context.Context, keyword, keywordsPath, targetURL string) (domain.GapAnalysisResult, error) {
	p.logger.Info("starting full analysis", "keyword", keyword, "url", targetURL)

	inputs, err := p.keywords.Load(keywordsPath)
	if err != nil {
		return domain.GapAnalysisResult{}, fmt.Errorf("load keywords: %w", err)
	}

	for i := range inputs {
		dims, err := p.dimensions.ExtractDimensions(inputs[i].AioHTML)
		if err != nil {
			return domain.GapAnalysisResult{}, fmt.Errorf("extract dimensions for %q: %w", inputs[i].Keyword, err)
		}
		inputs[i].Dimensions = dims
		p.logger.Info("keyword loaded", "keyword", inputs[i].Keyword, "main_topics", len(dims.MainTopics(-1)))
	}

	if err := p.artifacts.SaveKeywordDimensions(inputs); err != nil {
		return domain.GapAnalysisResult{}, err
	}

	hierarchy := p.synthesizer.Synthesize(ctx, keyword, inputs)
	if err := p.artifacts.SaveHierarchy(hierarchy); err != nil {
		return domain.GapAnalysisResult{}, err
	}

	content, err := p.content.Extract(ctx, targetURL)
	if err != nil {
		return domain.GapAnalysisResult{}, fmt.Errorf("extract content: %w", err)
	}
	if err := p.artifacts.SaveContent(content); err != nil {
		return domain.GapAnalysisResult{}, err
	}

	return p.analyze(ctx, content, hierarchy, keyword)
}

// RunGap resumes from saved hierarchy and content artifacts without
// re-invoking the synthesizer. An empty keyword falls back to the saved
// hierarchy's root keyword.
func (p *Pipeline) RunGap(ctx context.Context, hierarchyPath, contentPath, keyword string) (domain.GapAnalysisResult, error) {
	p.logger.Info("running gap analysis from saved artifacts", "hierarchy", hierarchyPath, "content", contentPath)

	hierarchy, err := p.artifacts.LoadHierarchy(hierarchyPath)
	if err != nil {
		return domain.GapAnalysisResult{}, err
	}

	content, err := p.artifacts.LoadContent(contentPath)
	if err != nil {
		return domain.GapAnalysisResult{}, err
	}

	if keyword == "" {
		keyword = hierarchy.Keyword
	}

	return p.analyze(ctx, content, hierarchy, keyword)
}

func (p *Pipeline) analyze(ctx context.Context, content domain.ExtractedContent, hierarchy domain.DimensionHierarchy, keyword string) (domain.GapAnalysisResult, error) {
	result := p.analyzer.Analyze(ctx, content, hierarchy, keyword)

	path, err := p.artifacts.SaveReport(result)
	if err != nil {
		return domain.GapAnalysisResult{}, err
	}

	p.logger.Info("analysis complete", "overall_score", result.OverallScore, "report", path)
	return result, nil
}
