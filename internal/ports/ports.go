package ports

import (
	"context"

	"gapscan/internal/domain"
)

// Message is one role-tagged entry in an oracle conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemUser builds the common system+user prompt pair.
func SystemUser(system, user string) []Message {
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// Completer invokes the reasoning oracle. Complete returns free text;
// CompleteJSON constrains the response to a JSON object and decodes it,
// extracting an embedded object when the raw payload is not strictly valid.
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
	CompleteJSON(ctx context.Context, messages []Message, temperature float64) (map[string]any, error)
}

// DimensionExtractor pulls main-topic/sub-topic dimensions out of a
// keyword's raw overview markup.
type DimensionExtractor interface {
	ExtractDimensions(markup string) (domain.RawDimensions, error)
}

// ContentSource fetches and structures the target page.
type ContentSource interface {
	Extract(ctx context.Context, url string) (domain.ExtractedContent, error)
}

// KeywordSource loads keyword rows with their overview markup.
type KeywordSource interface {
	Load(path string) ([]domain.KeywordData, error)
}

// HierarchySynthesizer merges per-keyword dimension sets into one canonical
// hierarchy. It never fails: oracle errors degrade to a deterministic merge.
type HierarchySynthesizer interface {
	Synthesize(ctx context.Context, keyword string, inputs []domain.KeywordData) domain.DimensionHierarchy
}

// GapAnalyzer scores extracted content against a hierarchy and aggregates
// the final report. Per-node oracle failures degrade that node to zero.
type GapAnalyzer interface {
	Analyze(ctx context.Context, content domain.ExtractedContent, hierarchy domain.DimensionHierarchy, keyword string) domain.GapAnalysisResult
}

// ArtifactStore persists intermediate stage outputs and final reports as
// JSON files so the gap stage can be re-run from saved state.
type ArtifactStore interface {
	SaveKeywordDimensions(keywords []domain.KeywordData) error
	SaveHierarchy(hierarchy domain.DimensionHierarchy) error
	SaveContent(content domain.ExtractedContent) error
	SaveReport(result domain.GapAnalysisResult) (string, error)
	LoadHierarchy(path string) (domain.DimensionHierarchy, error)
	LoadContent(path string) (domain.ExtractedContent, error)
}
