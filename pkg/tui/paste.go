package tui

import (
	"regexp"
	"strings"
)

// PasteHelper cleans text pasted from a terminal, such as a copy of another
// editor pane with its borders and line numbers
type PasteHelper struct {
	borderOnly  *regexp.Regexp
	borderEdges *regexp.Regexp
	lineNumber  *regexp.Regexp
}

func NewPasteHelper() *PasteHelper {
	return &PasteHelper{
		borderOnly:  regexp.MustCompile(`^[│├└┌┐┘┤┬┴┼─╭╮╰╯\s]+$`),
		borderEdges: regexp.MustCompile(`^[│┃]\s?|\s*[│┃]$`),
		lineNumber:  regexp.MustCompile(`^\s*\d+[:|\s]\s+`),
	}
}

// CleanPastedContent strips borders and line numbers and normalizes line
// endings. Whitespace-only content is returned as is.
func (ph *PasteHelper) CleanPastedContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if ph.borderOnly.MatchString(line) && strings.TrimSpace(line) != "" {
			continue
		}
		kept = append(kept, ph.borderEdges.ReplaceAllString(line, ""))
	}

	if ph.hasLineNumbers(kept) {
		for i, line := range kept {
			kept[i] = ph.lineNumber.ReplaceAllString(line, "")
		}
	}
	for i, line := range kept {
		kept[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(kept, "\n")
}

// CleanSingleLine joins pasted lines for a one-line field
func (ph *PasteHelper) CleanSingleLine(content string) string {
	return strings.Join(strings.Fields(ph.CleanPastedContent(content)), " ")
}

// hasLineNumbers reports whether most of the first five lines are numbered
func (ph *PasteHelper) hasLineNumbers(lines []string) bool {
	if len(lines) < 3 {
		return false
	}
	matches := 0
	for i, line := range lines {
		if i > 4 {
			break
		}
		if ph.lineNumber.MatchString(line) {
			matches++
		}
	}
	return matches >= 3
}
