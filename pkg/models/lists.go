package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseList decodes one of the JSON encoded catalogue lists (objectives,
// course_prerequisites, instructors, instructor_designers). Blank input is
// an empty list.
func ParseList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", truncate(raw, 40), err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// EncodeList is the inverse of ParseList
func EncodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
