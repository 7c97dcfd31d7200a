package synth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gapscan/internal/domain"
	"gapscan/internal/ports"
)

// Prompt caps bound the oracle context size; the fallback cap bounds the
// synthetic hierarchy when the oracle is unavailable.
const (
	maxMainTopics       = 5
	maxSubTopicsPerMain = 3
	maxFlatTopics       = 8
	maxFallbackTopics   = 3

	synthesisTemperature = 0.3
)

// Synthesizer merges per-keyword dimension sets into one canonical
// hierarchy rooted at the central keyword.
type Synthesizer struct {
	oracle ports.Completer
	logger *slog.Logger
}

var _ ports.HierarchySynthesizer = (*Synthesizer)(nil)

// NewSynthesizer wires the oracle client.
func NewSynthesizer(oracle ports.Completer, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{oracle: oracle, logger: logger}
}

// Synthesize asks the oracle for a unified hierarchy and parses it. Any
// oracle failure, or a response with no extractable hierarchy, degrades to
// a deterministic merge of the inputs. The returned hierarchy is always
// usable; this method never fails.
func (s *Synthesizer) Synthesize(ctx context.Context, keyword string, inputs []domain.KeywordData) domain.DimensionHierarchy {
	messages := buildSynthesisPrompt(keyword, inputs)

	s.logger.Info("synthesizing hierarchy", "keyword", keyword, "inputs", len(inputs))

	text := ""
	response, err := s.oracle.Complete(ctx, messages, synthesisTemperature)
	if err != nil {
		s.logger.Warn("oracle synthesis failed, using fallback hierarchy", "keyword", keyword, "error", err)
	} else {
		text = ExtractHierarchy(response, keyword)
		if text == "" {
			s.logger.Warn("no hierarchy found in oracle response, using fallback", "keyword", keyword)
		}
	}

	if text == "" {
		text = FallbackHierarchy(keyword, inputs)
	}

	hierarchy := domain.NewHierarchy(keyword, text)
	if orphans := domain.CountOrphans(hierarchy.Nodes); orphans > 0 {
		s.logger.Warn("hierarchy contains orphaned nodes", "keyword", keyword, "orphans", orphans)
	}

	return hierarchy
}

// buildSynthesisPrompt produces the instruction and content messages. The
// instruction pins the output format: keyword root, two-space indents,
// "- " item prefixes, at most three levels, no prose.
func buildSynthesisPrompt(keyword string, inputs []domain.KeywordData) []ports.Message {
	system := fmt.Sprintf(`You must create ONLY a hierarchical structure with '%[1]s' as the root.

FORMAT RULES:
1. Start with '%[1]s' on the first line
2. Use EXACTLY 2 spaces per indentation level
3. Use "- " before each item (except the root)
4. Maximum 3 levels deep
5. Return ONLY the hierarchy - no explanations, no markdown, no extra text

CORRECT EXAMPLE:
%[1]s
  - category one
    - subcategory one
    - subcategory two
  - category two
    - subcategory three

DO NOT add any text before or after the hierarchy.`, keyword)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a hierarchy for '%s' from these dimensions:\n", keyword)

	for _, input := range inputs {
		fmt.Fprintf(&sb, "\nFrom '%s':\n", input.Keyword)

		if input.Dimensions.IsMapped() {
			for _, group := range capGroups(input.Dimensions.Groups, maxMainTopics) {
				fmt.Fprintf(&sb, "* %s\n", group.Topic)
				for _, sub := range capStrings(group.SubTopics, maxSubTopicsPerMain) {
					fmt.Fprintf(&sb, "  - %s\n", sub)
				}
			}
		} else {
			for _, topic := range capStrings(input.Dimensions.Flat, maxFlatTopics) {
				fmt.Fprintf(&sb, "* %s\n", topic)
			}
		}
	}

	fmt.Fprintf(&sb, "\nOrganize these into a single hierarchy under '%s'. Return ONLY the hierarchy structure, nothing else.", keyword)

	return ports.SystemUser(system, sb.String())
}

// FallbackHierarchy deterministically merges the inputs: one level-1 node
// per keyword, with up to three of its main topics underneath.
func FallbackHierarchy(keyword string, inputs []domain.KeywordData) string {
	lines := []string{keyword}

	for _, input := range inputs {
		lines = append(lines, "  - "+input.Keyword)
		for _, topic := range input.Dimensions.MainTopics(maxFallbackTopics) {
			lines = append(lines, "    - "+topic)
		}
	}

	return strings.Join(lines, "\n")
}

func capGroups(groups []domain.TopicGroup, max int) []domain.TopicGroup {
	if len(groups) > max {
		return groups[:max]
	}
	return groups
}

func capStrings(values []string, max int) []string {
	if len(values) > max {
		return values[:max]
	}
	return values
}
