package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gapscan/internal/domain"
)

const maxNavTextLen = 50

// Scraper walks a page DOM in document order and groups content under its
// headings, producing the block structure the gap scorer consumes.
type Scraper struct{}

// NewScraper builds a stateless scraper.
func NewScraper() *Scraper {
	return &Scraper{}
}

// ExtractStructure pulls title, meta description, a navigation block, and
// heading-anchored content blocks from the document. Footer content is
// skipped; only internal links are collected.
func (s *Scraper) ExtractStructure(doc *goquery.Document, pageURL string) domain.ExtractedContent {
	baseDomain := hostOf(pageURL)

	content := domain.ExtractedContent{
		URL:             pageURL,
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: metaDescription(doc),
	}

	if nav := extractNavigation(doc, baseDomain); nav != nil {
		content.ContentBlocks = append(content.ContentBlocks, *nav)
	}
	content.ContentBlocks = append(content.ContentBlocks, traverseBody(doc, baseDomain)...)

	return content
}

func metaDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

// extractNavigation collects internal links and buttons from nav and header
// elements into a single synthetic block.
func extractNavigation(doc *goquery.Document, baseDomain string) *domain.ContentBlock {
	var links, buttons []string

	doc.Find("nav, header").Each(func(_ int, nav *goquery.Selection) {
		nav.Find("a").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			text := strings.TrimSpace(link.Text())
			if href != "" && isInternalLink(href, baseDomain) && navTextOK(text) && !contains(links, text) {
				links = append(links, text)
			}
		})
		nav.Find("button").Slice(0, min(nav.Find("button").Length(), 10)).Each(func(_ int, btn *goquery.Selection) {
			text := strings.TrimSpace(btn.Text())
			if navTextOK(text) && !contains(buttons, text) {
				buttons = append(buttons, text)
			}
		})
	})

	if len(links) == 0 && len(buttons) == 0 {
		return nil
	}
	return &domain.ContentBlock{
		Level:   "navigation",
		Heading: "Main Navigation",
		Links:   links,
		Buttons: buttons,
	}
}

// traverseBody visits headings, paragraphs, links, and buttons in document
// order and groups everything under the nearest preceding heading.
func traverseBody(doc *goquery.Document, baseDomain string) []domain.ContentBlock {
	var blocks []domain.ContentBlock
	var current *domain.ContentBlock

	flush := func() {
		if current != nil {
			blocks = append(blocks, cleanBlock(*current))
			current = nil
		}
	}

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	root.Find("h1, h2, h3, p, a, button, input").Each(func(_ int, el *goquery.Selection) {
		if el.Closest("nav, header").Length() > 0 || isFooterContent(el) {
			return
		}

		tag := goquery.NodeName(el)
		switch tag {
		case "h1", "h2", "h3":
			flush()
			current = &domain.ContentBlock{
				Level:   tag,
				Heading: strings.TrimSpace(el.Text()),
			}
		case "p":
			// Paragraph bodies are only collected under the page's top
			// heading; deeper sections contribute headings and links.
			if current != nil && current.Level == "h1" {
				if text := strings.TrimSpace(el.Text()); text != "" {
					current.Paragraphs = append(current.Paragraphs, text)
				}
			}
		case "a":
			if current == nil {
				return
			}
			href, _ := el.Attr("href")
			text := strings.TrimSpace(el.Text())
			if href == "" || text == "" || !isInternalLink(href, baseDomain) {
				return
			}
			if buttonStyled(el) {
				if !contains(current.Buttons, text) && !contains(current.Links, text) {
					current.Buttons = append(current.Buttons, text)
				}
				return
			}
			if !contains(current.Links, text) {
				current.Links = append(current.Links, text)
			}
		case "button":
			if current == nil {
				return
			}
			if text := strings.TrimSpace(el.Text()); text != "" && !contains(current.Buttons, text) {
				current.Buttons = append(current.Buttons, text)
			}
		case "input":
			if current == nil {
				return
			}
			kind, _ := el.Attr("type")
			if kind != "button" && kind != "submit" {
				return
			}
			if text := strings.TrimSpace(el.AttrOr("value", "")); text != "" && !contains(current.Buttons, text) {
				current.Buttons = append(current.Buttons, text)
			}
		}
	})
	flush()

	return blocks
}

// cleanBlock drops paragraph bodies outside h1 sections.
func cleanBlock(block domain.ContentBlock) domain.ContentBlock {
	if block.Level != "h1" {
		block.Paragraphs = nil
	}
	return block
}

// buttonStyled reports whether a link carries a button-like class token.
func buttonStyled(el *goquery.Selection) bool {
	class := strings.ToLower(el.AttrOr("class", ""))
	for _, token := range strings.Fields(class) {
		if strings.Contains(token, "btn") || strings.Contains(token, "button") {
			return true
		}
	}
	return false
}

// isFooterContent checks the footer ancestor and the immediate parent class.
func isFooterContent(el *goquery.Selection) bool {
	if el.Closest("footer").Length() > 0 {
		return true
	}
	parentClass := strings.ToLower(el.Parent().AttrOr("class", ""))
	return strings.Contains(parentClass, "footer")
}

// isInternalLink classifies anchors, relative paths, and same-host URLs as
// internal; mailto/tel/javascript schemes are external.
func isInternalLink(href, baseDomain string) bool {
	if href == "" {
		return false
	}
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/") {
		return true
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	if parsed.Scheme == "" {
		return true
	}
	switch parsed.Scheme {
	case "mailto", "tel", "javascript":
		return false
	}
	return baseDomain != "" && parsed.Host == baseDomain
}

func hostOf(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func navTextOK(text string) bool {
	return text != "" && len(text) < maxNavTextLen
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
