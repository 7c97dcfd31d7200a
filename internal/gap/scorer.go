package gap

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"gapscan/internal/config"
	"gapscan/internal/domain"
	"gapscan/internal/ports"
)

// Only nodes between these depths are scored: the root restates the keyword
// and depth-3+ nodes would multiply oracle calls without adding signal.
const (
	minScoredLevel = 1
	maxScoredLevel = 2

	scoringTemperature = 0.3
	maxRecommendations = 5
)

// Scorer analyzes how well extracted content covers each hierarchy node and
// aggregates the final gap report.
type Scorer struct {
	oracle          ports.Completer
	logger          *slog.Logger
	maxContentChars int
	now             func() time.Time
	newID           func() string
}

var _ ports.GapAnalyzer = (*Scorer)(nil)

// NewScorer wires the oracle client and scoring limits.
func NewScorer(oracle ports.Completer, cfg config.ScoringConfig, logger *slog.Logger) *Scorer {
	return &Scorer{
		oracle:          oracle,
		logger:          logger,
		maxContentChars: cfg.MaxContentChars,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// scoredDimension couples a selected node with its direct children.
type scoredDimension struct {
	node     domain.DimensionNode
	children []domain.DimensionNode
}

// Analyze scores every selected node sequentially and aggregates the
// result. A node whose oracle call fails contributes a zero score with the
// failure as reasoning; it never aborts the remaining nodes.
func (s *Scorer) Analyze(ctx context.Context, content domain.ExtractedContent, hierarchy domain.DimensionHierarchy, keyword string) domain.GapAnalysisResult {
	dimensions := selectDimensions(hierarchy)

	s.logger.Info("analyzing content gaps", "keyword", keyword, "url", content.URL, "dimensions", len(dimensions))

	scores := make([]domain.DimensionScore, 0, len(dimensions))
	for _, dim := range dimensions {
		scores = append(scores, s.scoreDimension(ctx, content, dim))
	}

	strengths, weaknesses := identifyStrengthsWeaknesses(scores)

	return domain.GapAnalysisResult{
		AnalysisID:      s.newID(),
		CreatedAt:       s.now(),
		KeyWord:         keyword,
		TargetURL:       content.URL,
		DimensionScores: scores,
		OverallScore:    overallScore(scores),
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendations: buildRecommendations(scores),
	}
}

// selectDimensions picks nodes with level 1..2 and attaches each node's
// direct children (immediate descendants only).
func selectDimensions(hierarchy domain.DimensionHierarchy) []scoredDimension {
	childrenByParent := make(map[string][]domain.DimensionNode)
	for _, node := range hierarchy.Nodes {
		if node.Level == 0 {
			continue
		}
		if idx := strings.LastIndex(node.Path, domain.PathSeparator); idx >= 0 {
			parent := node.Path[:idx]
			childrenByParent[parent] = append(childrenByParent[parent], node)
		}
	}

	var dimensions []scoredDimension
	for _, node := range hierarchy.Nodes {
		if node.Level < minScoredLevel || node.Level > maxScoredLevel {
			continue
		}
		dimensions = append(dimensions, scoredDimension{
			node:     node,
			children: childrenByParent[node.Path],
		})
	}

	return dimensions
}

// scoreDimension runs one oracle call and validates its verdict.
func (s *Scorer) scoreDimension(ctx context.Context, content domain.ExtractedContent, dim scoredDimension) domain.DimensionScore {
	messages := s.buildScoringPrompt(content, dim)

	response, err := s.oracle.CompleteJSON(ctx, messages, scoringTemperature)
	if err != nil {
		s.logger.Warn("dimension scoring failed", "dimension", dim.node.Path, "error", err)
		return domain.DimensionScore{
			DimensionPath: dim.node.Path,
			Score:         domain.ScoreMissing,
			Reasoning:     fmt.Sprintf("Analysis failed: %v", err),
		}
	}

	score, ok := intField(response, "score")
	if !ok || !domain.ValidScore(score) {
		s.logger.Warn("invalid score from oracle, defaulting to 0", "dimension", dim.node.Path, "score", response["score"])
		score = domain.ScoreMissing
	}

	reasoning, _ := response["reasoning"].(string)
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}

	// child_coverage is oracle free text; carried through untouched and
	// never parsed.
	childCoverage, _ := response["child_coverage"].(string)

	return domain.DimensionScore{
		DimensionPath: dim.node.Path,
		Score:         score,
		Reasoning:     reasoning,
		ChildCoverage: childCoverage,
	}
}

const scoringSystemPrompt = `You are analyzing how well a webpage covers a specific topic/dimension.

SCORING CRITERIA:
- 100 = Excellent: Comprehensive coverage, all or most sub-topics covered with detail
- 75 = Good: Clear coverage with good detail, most sub-topics mentioned
- 50 = Average: Basic coverage, about half of sub-topics covered
- 25 = Poor: Minimal mention, few sub-topics covered
- 0 = Missing: No evidence of this topic

When a dimension has sub-topics (children), base your score primarily on how many and how well those sub-topics are covered in the content.

Return JSON with this structure:
{
    "score": <0|25|50|75|100>,
    "reasoning": "<brief explanation>",
    "child_coverage": "<X/Y subtopics covered>" // only if dimension has children
}`

func (s *Scorer) buildScoringPrompt(content domain.ExtractedContent, dim scoredDimension) []ports.Message {
	sample := content.AllText()
	if len(sample) > s.maxContentChars {
		sample = sample[:s.maxContentChars]
	}

	childNames := make([]string, 0, len(dim.children))
	for _, child := range dim.children {
		childNames = append(childNames, child.Name)
	}

	subTopicLine := "This is a leaf dimension with no sub-topics."
	scoringHint := "Score based on how well this specific topic is covered."
	if len(childNames) > 0 {
		subTopicLine = "SUB-TOPICS TO CHECK FOR: " + strings.Join(childNames, ", ")
		scoringHint = "For scoring, check how many and how well the sub-topics are covered in the content."
	}

	user := fmt.Sprintf(`Analyze how well this content covers the dimension: %q

CONTENT FROM PAGE:
Title: %s
Meta: %s

Main Content Sample:
%s

DIMENSION TO ANALYZE: %s
%s

%s

Score the coverage and provide reasoning.`,
		dim.node.Path, content.Title, content.MetaDescription, sample, dim.node.Path, subTopicLine, scoringHint)

	return ports.SystemUser(scoringSystemPrompt, user)
}

// overallScore is the mean of all node scores rounded to one decimal, or
// 0.0 when nothing was scored.
func overallScore(scores []domain.DimensionScore) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	total := 0
	for _, ds := range scores {
		total += ds.Score
	}

	mean := float64(total) / float64(len(scores))
	return math.Round(mean*10) / 10
}

// identifyStrengthsWeaknesses lists nodes scoring at the extremes by their
// leaf name, with generic statements when no node qualifies outright.
func identifyStrengthsWeaknesses(scores []domain.DimensionScore) (strengths, weaknesses []string) {
	for _, ds := range scores {
		leaf := leafOf(ds.DimensionPath)
		if ds.Score >= domain.ScoreGood {
			strengths = append(strengths, "Strong coverage of "+leaf)
		} else if ds.Score <= domain.ScorePoor {
			weaknesses = append(weaknesses, "Weak/missing coverage of "+leaf)
		}
	}

	if len(strengths) == 0 && anyScore(scores, func(v int) bool { return v >= domain.ScoreAverage }) {
		strengths = append(strengths, "Some topics covered at a basic level")
	}
	if len(weaknesses) == 0 && anyScore(scores, func(v int) bool { return v < domain.ScoreAverage }) {
		weaknesses = append(weaknesses, "Several topics need more depth")
	}

	return strengths, weaknesses
}

// buildRecommendations orders actions by severity: missing topics first,
// then poor coverage, then average coverage when room remains. Never more
// than five entries; a generic positive note when nothing needs work.
func buildRecommendations(scores []domain.DimensionScore) []string {
	var missing, poor, average []string
	for _, ds := range scores {
		switch ds.Score {
		case domain.ScoreMissing:
			missing = append(missing, leafOf(ds.DimensionPath))
		case domain.ScorePoor:
			poor = append(poor, leafOf(ds.DimensionPath))
		case domain.ScoreAverage:
			average = append(average, leafOf(ds.DimensionPath))
		}
	}

	var recommendations []string
	if len(missing) > 0 {
		recommendations = append(recommendations, "Add sections covering: "+strings.Join(capNames(missing, 3), ", "))
	}
	if len(poor) > 0 {
		recommendations = append(recommendations, "Expand content on: "+strings.Join(capNames(poor, 3), ", "))
	}
	if len(average) > 0 && len(recommendations) < 3 {
		recommendations = append(recommendations, "Add more detail to: "+strings.Join(capNames(average, 2), ", "))
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Content covers most topics well - consider adding more examples and case studies")
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func leafOf(path string) string {
	if idx := strings.LastIndex(path, domain.PathSeparator); idx >= 0 {
		return path[idx+len(domain.PathSeparator):]
	}
	return path
}

func anyScore(scores []domain.DimensionScore, match func(int) bool) bool {
	for _, ds := range scores {
		if match(ds.Score) {
			return true
		}
	}
	return false
}

func capNames(names []string, max int) []string {
	if len(names) > max {
		return names[:max]
	}
	return names
}

// intField reads a numeric JSON field, accepting the float64 values the
// decoder produces.
func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
