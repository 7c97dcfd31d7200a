package csvio

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gapscan/internal/domain"
	"gapscan/internal/ports"
)

// KeywordSource reads keyword rows from CSV. Two layouts are accepted:
// a "Keyword"/"Aio" pair where Aio holds the exported overview JSON
// ({"aio":{"html":...}}), or a "keyword"/"aio_html" pair with raw markup.
type KeywordSource struct{}

var _ ports.KeywordSource = (*KeywordSource)(nil)

// NewKeywordSource builds the CSV loader.
func NewKeywordSource() *KeywordSource {
	return &KeywordSource{}
}

type aioExport struct {
	Aio struct {
		HTML string `json:"html"`
	} `json:"aio"`
}

// Load parses the file and returns one KeywordData per row. A malformed
// row is a terminal input failure: there is no safe default for missing
// overview markup.
func (s *KeywordSource) Load(path string) ([]domain.KeywordData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := indexColumns(header)
	keywordCol, ok := cols.pick("keyword")
	if !ok {
		return nil, fmt.Errorf("csv is missing a Keyword column")
	}
	aioJSONCol, hasJSON := cols.pick("aio")
	aioHTMLCol, hasHTML := cols.pick("aio_html")
	if !hasJSON && !hasHTML {
		return nil, fmt.Errorf("csv is missing an Aio or aio_html column")
	}

	var keywords []domain.KeywordData
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		keyword := strings.TrimSpace(field(record, keywordCol))
		if keyword == "" {
			continue
		}

		markup := ""
		if hasJSON {
			raw := field(record, aioJSONCol)
			var export aioExport
			if err := json.Unmarshal([]byte(raw), &export); err != nil {
				return nil, fmt.Errorf("keyword %q: parse embedded overview JSON: %w", keyword, err)
			}
			markup = export.Aio.HTML
		} else {
			markup = field(record, aioHTMLCol)
		}

		keywords = append(keywords, domain.KeywordData{
			Keyword: keyword,
			AioHTML: markup,
		})
	}

	return keywords, nil
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func (c columnIndex) pick(name string) (int, bool) {
	idx, ok := c[name]
	return idx, ok
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
