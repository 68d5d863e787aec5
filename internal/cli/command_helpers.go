package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pluqqy/coursekit/internal/config"
	"github.com/pluqqy/coursekit/internal/logger"
	"github.com/pluqqy/coursekit/pkg/directory"
	"github.com/pluqqy/coursekit/pkg/files"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/settings"
)

// CommandContext manages project validation and the collaborators shared
// by commands
type CommandContext struct {
	Config *config.Config
	Store  *files.CourseStore
	Logger *logger.Logger

	validated bool
}

// NewCommandContext loads the configuration. Logs go to the configured file
// so they never interleave with command output.
func NewCommandContext(cfgFile string, flags *pflag.FlagSet) (*CommandContext, error) {
	cfg, err := config.Load(cfgFile, flags)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Config: cfg,
		Store:  files.NewCourseStore(cfg.DataDir),
	}, nil
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}
	if _, err := os.Stat(c.Config.DataDir); os.IsNotExist(err) {
		return fmt.Errorf("no %s directory found. Run 'coursekit init' first", c.Config.DataDir)
	}
	c.validated = true
	return nil
}

// Log returns the command logger, opening it on first use. A logger that
// cannot be opened falls back to a no-op one.
func (c *CommandContext) Log() *logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	log, err := logger.New(c.Config.Log.Mode, c.Config.LogFile())
	if err != nil {
		PrintWarning("logging disabled: %v", err)
		log = logger.Nop()
	}
	c.Logger = log
	return log
}

// Close flushes the logger
func (c *CommandContext) Close() {
	if c.Logger != nil {
		c.Logger.Sync()
	}
}

// LoadCourse resolves ref and loads the course
func (c *CommandContext) LoadCourse(ctx context.Context, ref string) (*models.Course, error) {
	id, err := c.ResolveCourse(ref)
	if err != nil {
		return nil, err
	}
	return c.Store.Load(ctx, id)
}

// ResolveCourse finds a course by exact id, then by unique case-insensitive
// prefix or slug
func (c *CommandContext) ResolveCourse(ref string) (string, error) {
	if err := ValidateCourseID(ref); err != nil {
		return "", err
	}
	ids, err := c.Store.List()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(strings.ToLower(id), strings.ToLower(ref)) || files.Slugify(id) == ref {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s. Run 'coursekit list' to see available courses", files.ErrCourseNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("multiple courses match '%s': %s", ref, strings.Join(matches, ", "))
}

// Directory returns the configured directory client, or nil when no
// directory URL is set
func (c *CommandContext) Directory() directory.Lookup {
	if c.Config.Directory.URL == "" {
		return nil
	}
	return directory.NewClient(directory.Config{
		Endpoint:      c.Config.Directory.URL,
		Timeout:       c.Config.Directory.Timeout,
		DefaultAvatar: c.Config.Directory.DefaultAvatar,
		Logger:        c.Log(),
	})
}

// ViewOptions returns settings view options built from the configuration
func (c *CommandContext) ViewOptions() settings.Options {
	return settings.Options{
		Store:               c.Store,
		Directory:           c.Directory(),
		Uploader:            files.NewAssetStore(c.Config.DataDir, ""),
		ImagePreviewDelay:   c.Config.Preview.ImageDelay,
		VideoPreviewDelay:   c.Config.Preview.VideoDelay,
		LookupTimeout:       c.Config.Directory.Timeout,
		ShowMinGradeWarning: c.Config.Warnings.MinGrade,
		Logger:              c.Log(),
	}
}

// IsNotFound reports whether err means a course is missing
func IsNotFound(err error) bool {
	return errors.Is(err, files.ErrCourseNotFound)
}

// EditorLauncher handles all editor-related operations
type EditorLauncher struct {
	DefaultEditor string
}

// NewEditorLauncher creates a new editor launcher
func NewEditorLauncher() *EditorLauncher {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	return &EditorLauncher{DefaultEditor: editor}
}

// OpenFile opens a file in the configured editor
func (e *EditorLauncher) OpenFile(path string) error {
	parts := strings.Fields(e.DefaultEditor)
	editorCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// EditString opens content in the editor and returns the saved result
func (e *EditorLauncher) EditString(name, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", name)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmpFile.Name()
	defer os.Remove(path)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := e.OpenFile(path); err != nil {
		return "", err
	}
	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return strings.TrimRight(string(edited), "\n"), nil
}
