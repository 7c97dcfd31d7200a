package domain

import "testing"

func TestAllText(t *testing.T) {
	content := ExtractedContent{
		Title:           "SEO Guide",
		MetaDescription: "Learn SEO",
		ContentBlocks: []ContentBlock{
			{Level: "h1", Heading: "Basics", Paragraphs: []string{"First", ""}},
			{Level: "h2", Heading: "Links", Links: []string{"Pricing"}},
		},
	}

	want := "SEO Guide Learn SEO Basics First Links Pricing"
	if got := content.AllText(); got != want {
		t.Errorf("AllText() = %q, want %q", got, want)
	}
}

func TestAllTextEmptyPage(t *testing.T) {
	if got := (ExtractedContent{}).AllText(); got != "" {
		t.Errorf("AllText() on empty page = %q, want empty", got)
	}
}
