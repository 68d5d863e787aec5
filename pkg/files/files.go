package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	DefaultDataDir      = ".coursekit"
	CoursesDir          = "courses"
	AssetsDir           = "assets"
	ArchiveDir          = "archive"
	DefaultOverviewFile = "OVERVIEW.html"
	ConfigFile          = "coursekit.yaml"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// InitProjectStructure creates the data directory layout under dataDir
func InitProjectStructure(dataDir string) error {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	dirs := []string{
		dataDir,
		filepath.Join(dataDir, CoursesDir),
		filepath.Join(dataDir, AssetsDir),
		filepath.Join(dataDir, ArchiveDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Slugify converts a course id or display name to a valid filename
// Examples:
//
//	"course-v1:Org+CS101+2024" → "course-v1-org-cs101-2024"
//	"Intro to Go!"             → "intro-to-go"
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")

	if slug == "" {
		slug = "unnamed"
	}

	return slug
}

// WriteFile writes content to a file, creating parent directories
func WriteFile(path string, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
