package domain

import "strings"

// PathSeparator joins breadcrumb segments of a dimension path.
const PathSeparator = " > "

// DimensionNode is a single topic inside a synthesized hierarchy.
type DimensionNode struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Path  string `json:"path"`
}

// Leaf returns the last segment of the node path.
func (n DimensionNode) Leaf() string {
	if idx := strings.LastIndex(n.Path, PathSeparator); idx >= 0 {
		return n.Path[idx+len(PathSeparator):]
	}
	if n.Path != "" {
		return n.Path
	}
	return n.Name
}

// DimensionHierarchy owns the raw hierarchy text and its parsed nodes.
// Nodes are derived from RawText and can be regenerated at any time.
type DimensionHierarchy struct {
	Keyword string          `json:"key_word"`
	RawText string          `json:"hierarchy_text"`
	Nodes   []DimensionNode `json:"structured"`
}

// NewHierarchy builds a hierarchy and parses its nodes immediately.
func NewHierarchy(keyword, rawText string) DimensionHierarchy {
	return DimensionHierarchy{
		Keyword: keyword,
		RawText: rawText,
		Nodes:   ParseHierarchy(rawText),
	}
}

// Reparse regenerates Nodes from RawText.
func (h *DimensionHierarchy) Reparse() {
	h.Nodes = ParseHierarchy(h.RawText)
}

// ParseHierarchy converts indented hierarchy text into an ordered node list.
// Two leading spaces encode one level of depth. Leading '-' and whitespace
// are stripped from names; lines that end up with an empty name are dropped.
// A node whose parent level is missing keeps its own name as path.
func ParseHierarchy(raw string) []DimensionNode {
	var nodes []DimensionNode

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		level := indent / 2

		name := strings.TrimLeft(strings.TrimSpace(line), "- ")
		if name == "" {
			continue
		}

		nodes = append(nodes, DimensionNode{
			Name:  name,
			Level: level,
			Path:  buildPath(nodes, name, level),
		})
	}

	return nodes
}

// buildPath resolves the breadcrumb for a node: the parent is the nearest
// preceding node one level up. Orphans degrade to their own name.
func buildPath(existing []DimensionNode, name string, level int) string {
	if level == 0 {
		return name
	}

	for i := len(existing) - 1; i >= 0; i-- {
		if existing[i].Level == level-1 {
			return existing[i].Path + PathSeparator + name
		}
	}

	return name
}

// CountOrphans reports how many non-root nodes lack a resolvable parent.
func CountOrphans(nodes []DimensionNode) int {
	orphans := 0
	for _, n := range nodes {
		if n.Level > 0 && n.Path == n.Name {
			orphans++
		}
	}
	return orphans
}

// RenderHierarchy writes nodes back to canonical indented text: the root on
// its own line, every deeper node prefixed with "- " under two spaces per
// level. Parsing the rendered text reproduces the same nodes.
func RenderHierarchy(nodes []DimensionNode) string {
	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Level == 0 {
			lines = append(lines, n.Name)
			continue
		}
		lines = append(lines, strings.Repeat("  ", n.Level)+"- "+n.Name)
	}
	return strings.Join(lines, "\n")
}
