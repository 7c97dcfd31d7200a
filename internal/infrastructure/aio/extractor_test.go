package aio

import (
	"reflect"
	"testing"

	"gapscan/internal/domain"
)

const sampleSnippet = `
<div>
  <div class="WaaZC">
    <div class="pyPiTc">Technical SEO:</div>
    <ul>
      <li class="K3KsMc"><strong>Crawling</strong>: how bots discover pages</li>
      <li class="K3KsMc"><strong>Indexing</strong>: storing pages</li>
    </ul>
  </div>
  <div class="WaaZC">
    <div class="pyPiTc">Content quality</div>
  </div>
  <div class="WaaZC">
    <ul>
      <li class="K3KsMc"><strong>Readability</strong></li>
    </ul>
  </div>
</div>`

func TestExtractDimensions(t *testing.T) {
	e := NewExtractor()

	dims, err := e.ExtractDimensions(sampleSnippet)
	if err != nil {
		t.Fatalf("ExtractDimensions() error = %v", err)
	}

	want := []domain.TopicGroup{
		{Topic: "Technical SEO", SubTopics: []string{"Crawling", "Indexing"}},
		{Topic: "Content quality", SubTopics: []string{"Readability"}},
	}

	if !dims.IsMapped() {
		t.Fatal("expected mapped dimensions")
	}
	if !reflect.DeepEqual(dims.Groups, want) {
		t.Errorf("groups = %+v, want %+v", dims.Groups, want)
	}
}

func TestExtractDimensionsEscapedSnippet(t *testing.T) {
	e := NewExtractor()

	escaped := `"<div class=\"WaaZC\"><div class=\"pyPiTc\">Audits:</div><ul><li class=\"K3KsMc\"><strong>Site audit</strong></li></ul></div>"`

	dims, err := e.ExtractDimensions(escaped)
	if err != nil {
		t.Fatalf("ExtractDimensions() error = %v", err)
	}
	if len(dims.Groups) != 1 || dims.Groups[0].Topic != "Audits" {
		t.Fatalf("groups = %+v", dims.Groups)
	}
	if len(dims.Groups[0].SubTopics) != 1 || dims.Groups[0].SubTopics[0] != "Site audit" {
		t.Errorf("sub-topics = %v", dims.Groups[0].SubTopics)
	}
}

func TestExtractDimensionsNoStructure(t *testing.T) {
	e := NewExtractor()

	dims, err := e.ExtractDimensions("<p>Just a paragraph.</p>")
	if err != nil {
		t.Fatalf("ExtractDimensions() error = %v", err)
	}
	if !dims.IsEmpty() {
		t.Errorf("expected empty dimensions, got %+v", dims)
	}

	dims, err = e.ExtractDimensions("   ")
	if err != nil {
		t.Fatalf("ExtractDimensions() on blank markup error = %v", err)
	}
	if !dims.IsEmpty() {
		t.Errorf("expected empty dimensions for blank markup, got %+v", dims)
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Technical   SEO: ", "Technical SEO"},
		{"Plain", "Plain"},
		{"::", ""},
	}
	for _, c := range cases {
		if got := cleanText(c.in); got != c.want {
			t.Errorf("cleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
