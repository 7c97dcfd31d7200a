package domain

import "time"

// Coverage scores form a closed five-point ordinal scale.
const (
	ScoreMissing   = 0
	ScorePoor      = 25
	ScoreAverage   = 50
	ScoreGood      = 75
	ScoreExcellent = 100
)

// ValidScore reports whether v belongs to the five-point score scale.
func ValidScore(v int) bool {
	switch v {
	case ScoreMissing, ScorePoor, ScoreAverage, ScoreGood, ScoreExcellent:
		return true
	}
	return false
}

// DimensionScore is the oracle's coverage verdict for one hierarchy node.
// ChildCoverage is free text populated by the oracle and must be treated as
// display-only; it is never parsed.
type DimensionScore struct {
	DimensionPath string `json:"path"`
	Score         int    `json:"score"`
	Reasoning     string `json:"reasoning"`
	ChildCoverage string `json:"child_coverage,omitempty"`
}

// GapAnalysisResult is the pipeline's terminal artifact. It is immutable
// once constructed.
type GapAnalysisResult struct {
	AnalysisID      string           `json:"analysis_id"`
	CreatedAt       time.Time        `json:"created_at"`
	KeyWord         string           `json:"key_word"`
	TargetURL       string           `json:"target_url"`
	DimensionScores []DimensionScore `json:"dimension_scores"`
	OverallScore    float64          `json:"overall_score"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Recommendations []string         `json:"recommendations"`
}
