package artifacts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gapscan/internal/domain"
	"gapscan/internal/ports"
)

// Stage artifact file names. Each stage writes its output here so the gap
// stage can later resume without re-running synthesis or extraction.
const (
	keywordDimensionsFile = "keywords_dimensions.json"
	hierarchyFile         = "dimension_hierarchy.json"
	contentFile           = "extracted_content.json"
)

// Store writes intermediate and final artifacts as indented JSON files
// under a single output directory.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.ArtifactStore = (*Store)(nil)

// NewStore creates the output directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger, now: time.Now}, nil
}

type keywordArtifact struct {
	Keywords []domain.KeywordData `json:"keywords"`
}

// SaveKeywordDimensions persists the per-keyword dimension sets.
func (s *Store) SaveKeywordDimensions(keywords []domain.KeywordData) error {
	return s.write(keywordDimensionsFile, keywordArtifact{Keywords: keywords})
}

// SaveHierarchy persists the synthesized hierarchy with its parsed nodes.
func (s *Store) SaveHierarchy(hierarchy domain.DimensionHierarchy) error {
	return s.write(hierarchyFile, hierarchy)
}

// SaveContent persists the extracted page structure.
func (s *Store) SaveContent(content domain.ExtractedContent) error {
	return s.write(contentFile, content)
}

// SaveReport writes the final report under a timestamped name and returns
// the file path.
func (s *Store) SaveReport(result domain.GapAnalysisResult) (string, error) {
	name := fmt.Sprintf("gap_analysis_%s.json", s.now().Format("20060102_150405"))
	if err := s.write(name, result); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// LoadHierarchy reads a saved hierarchy artifact. Nodes are reparsed from
// the raw text when the file carries none.
func (s *Store) LoadHierarchy(path string) (domain.DimensionHierarchy, error) {
	var hierarchy domain.DimensionHierarchy
	if err := s.read(path, &hierarchy); err != nil {
		return domain.DimensionHierarchy{}, err
	}
	if len(hierarchy.Nodes) == 0 {
		hierarchy.Reparse()
	}
	return hierarchy, nil
}

// LoadContent reads a saved content artifact.
func (s *Store) LoadContent(path string) (domain.ExtractedContent, error) {
	var content domain.ExtractedContent
	if err := s.read(path, &content); err != nil {
		return domain.ExtractedContent{}, err
	}
	return content, nil
}

func (s *Store) write(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}

	if s.logger != nil {
		s.logger.Info("artifact saved", "path", path)
	}
	return nil
}

func (s *Store) read(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return nil
}
