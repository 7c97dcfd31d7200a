package synth

import "strings"

// ExtractHierarchy scrapes the indented hierarchy out of a free-text oracle
// response. Capture begins at the line equal to the keyword, or at the first
// line starting with the keyword (case-insensitive) before an exact match is
// seen; the root line is replaced with the clean keyword. While capturing,
// blank lines are skipped and lines starting with whitespace or '-' are kept
// with trailing whitespace trimmed. The first non-indented non-empty line
// after capture starts terminates the scan (trailing oracle commentary).
// Returns "" when no hierarchy was found.
func ExtractHierarchy(response, keyword string) string {
	if strings.TrimSpace(response) == "" {
		return ""
	}

	var captured []string
	capturing := false
	lowerKeyword := strings.ToLower(keyword)

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		trimmed := strings.TrimSpace(line)

		if !capturing {
			if trimmed != "" && (trimmed == keyword || strings.HasPrefix(strings.ToLower(trimmed), lowerKeyword)) {
				capturing = true
				captured = append(captured, keyword)
			}
			continue
		}

		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "-") {
			captured = append(captured, strings.TrimRight(line, " \t"))
			continue
		}
		break
	}

	if !capturing {
		return ""
	}
	return strings.Join(captured, "\n")
}
