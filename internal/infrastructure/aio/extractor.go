package aio

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gapscan/internal/domain"
	"gapscan/internal/ports"
)

// Extractor pulls dimension hierarchies out of AI-overview HTML snippets.
// The snippets carry headed lists: main topics in "pyPiTc" heading divs,
// sub-topics as bold list items ("K3KsMc"), grouped in "WaaZC" blocks.
type Extractor struct{}

var _ ports.DimensionExtractor = (*Extractor)(nil)

// NewExtractor builds the overview extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractDimensions returns the ordered main-topic to sub-topic mapping
// found in the snippet. Snippets with no recognizable structure yield an
// empty result, not an error.
func (e *Extractor) ExtractDimensions(markup string) (domain.RawDimensions, error) {
	if strings.TrimSpace(markup) == "" {
		return domain.RawDimensions{}, nil
	}

	markup = unescapeSnippet(markup)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return domain.RawDimensions{}, fmt.Errorf("parse overview markup: %w", err)
	}

	var groups []domain.TopicGroup
	current := -1

	doc.Find("div.WaaZC").Each(func(_ int, block *goquery.Selection) {
		if heading := block.Find("div.pyPiTc").First(); heading.Length() > 0 {
			if text := cleanText(heading.Text()); text != "" {
				groups = append(groups, domain.TopicGroup{Topic: text})
				current = len(groups) - 1
			}
		}

		// Sub-topic lists may live in the same block as their heading or in
		// a following block; they always attach to the latest main topic.
		if current < 0 {
			return
		}
		block.Find("ul").First().Find("li.K3KsMc").Each(func(_ int, item *goquery.Selection) {
			if sub := cleanText(item.Find("strong").First().Text()); sub != "" {
				groups[current].SubTopics = append(groups[current].SubTopics, sub)
			}
		})
	})

	if len(groups) == 0 {
		return domain.RawDimensions{}, nil
	}
	return domain.MappedDimensions(groups), nil
}

// unescapeSnippet handles markup stored as a quoted string literal.
func unescapeSnippet(markup string) string {
	if !strings.Contains(markup, `\"`) {
		return markup
	}
	markup = strings.TrimSpace(markup)
	markup = strings.Trim(markup, `"'`)
	markup = strings.ReplaceAll(markup, `\"`, `"`)
	markup = strings.ReplaceAll(markup, `\n`, "\n")
	return markup
}

// cleanText collapses whitespace and strips trailing colons.
func cleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ":")
	return strings.TrimSpace(text)
}
