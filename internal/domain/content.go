package domain

import "strings"

// ContentBlock is one heading-anchored section of an extracted page.
// Level is the source tag name (h1/h2/h3) or "navigation" for the menu block.
type ContentBlock struct {
	Level      string   `json:"level"`
	Heading    string   `json:"heading"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Links      []string `json:"links,omitempty"`
	Buttons    []string `json:"buttons,omitempty"`
}

// ExtractedContent is the structured view of a target webpage, consumed
// read-only by the gap scorer.
type ExtractedContent struct {
	URL             string         `json:"url"`
	Title           string         `json:"title"`
	MetaDescription string         `json:"meta_description"`
	ContentBlocks   []ContentBlock `json:"content_blocks"`
}

// AllText flattens the page into a single space-joined string: title, meta
// description, then every block's heading, paragraphs, and link texts.
// Empty values are filtered out.
func (c ExtractedContent) AllText() string {
	texts := make([]string, 0, 2+len(c.ContentBlocks)*3)
	texts = appendNonEmpty(texts, c.Title, c.MetaDescription)

	for _, block := range c.ContentBlocks {
		texts = appendNonEmpty(texts, block.Heading)
		texts = appendNonEmpty(texts, block.Paragraphs...)
		texts = appendNonEmpty(texts, block.Links...)
	}

	return strings.Join(texts, " ")
}

func appendNonEmpty(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
