package usecase

import (
	"fmt"
	"sort"
	"strings"

	"gapscan/internal/domain"
)

// Summary renders the analysis result for console display: overall score,
// strengths, weaknesses, ranked recommendations, and per-dimension bars
// sorted worst-first.
func Summary(result domain.GapAnalysisResult) string {
	var sb strings.Builder

	divider := strings.Repeat("=", 60)
	sb.WriteString(divider + "\n")
	sb.WriteString("ANALYSIS SUMMARY\n")
	sb.WriteString(divider + "\n")

	fmt.Fprintf(&sb, "\nOverall Score: %.1f/100\n", result.OverallScore)

	fmt.Fprintf(&sb, "\nStrengths (%d):\n", len(result.Strengths))
	for _, s := range result.Strengths {
		fmt.Fprintf(&sb, "  + %s\n", s)
	}

	fmt.Fprintf(&sb, "\nWeaknesses (%d):\n", len(result.Weaknesses))
	for _, w := range result.Weaknesses {
		fmt.Fprintf(&sb, "  - %s\n", w)
	}

	fmt.Fprintf(&sb, "\nRecommendations (%d):\n", len(result.Recommendations))
	for i, r := range result.Recommendations {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, r)
	}

	scores := make([]domain.DimensionScore, len(result.DimensionScores))
	copy(scores, result.DimensionScores)
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score < scores[j].Score })

	sb.WriteString("\nDimension Scores:\n")
	for _, ds := range scores {
		fmt.Fprintf(&sb, "  %-40s [%s] %d/100\n", ds.DimensionPath, scoreBar(ds.Score), ds.Score)
	}

	return sb.String()
}

func scoreBar(score int) string {
	filled := score / 10
	return strings.Repeat("#", filled) + strings.Repeat(".", 10-filled)
}
