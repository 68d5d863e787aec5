package composer

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/pluqqy/coursekit/pkg/files"
)

// ToMarkdown converts a composed overview for terminal preview
func ToMarkdown(html string) (string, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert overview to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

// WriteOverviewFile writes a composed overview to path
func WriteOverviewFile(content, path string) error {
	if path == "" {
		path = files.DefaultOverviewFile
	}
	if err := files.WriteFile(path, content); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}
	return nil
}
