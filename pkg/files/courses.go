package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/coursekit/pkg/models"
)

var ErrCourseNotFound = errors.New("course not found")

type courseFile struct {
	ID       string                 `yaml:"id"`
	Settings map[string]interface{} `yaml:"settings"`
}

// CourseStore keeps one YAML file per course under <dataDir>/courses.
// Saving keeps the previous version under <dataDir>/archive.
type CourseStore struct {
	dir string
}

func NewCourseStore(dataDir string) *CourseStore {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	return &CourseStore{dir: dataDir}
}

func (s *CourseStore) coursePath(id string) string {
	return filepath.Join(s.dir, CoursesDir, Slugify(id)+".yaml")
}

func (s *CourseStore) archivePath(id string) string {
	return filepath.Join(s.dir, ArchiveDir, Slugify(id)+".yaml")
}

// Fetch reads the stored settings of a course
func (s *CourseStore) Fetch(ctx context.Context, id string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readCourseFile(s.coursePath(id), id)
}

// FetchArchived reads the version replaced by the last save
func (s *CourseStore) FetchArchived(ctx context.Context, id string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readCourseFile(s.archivePath(id), id)
}

func readCourseFile(path, id string) (map[string]interface{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
		}
		return nil, fmt.Errorf("failed to read course %s: %w", id, err)
	}

	var f courseFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("failed to parse course YAML %s: %w", path, err)
	}
	if f.ID != "" && f.ID != id {
		return nil, fmt.Errorf("course file %s belongs to %s, not %s", path, f.ID, id)
	}
	if f.Settings == nil {
		f.Settings = map[string]interface{}{}
	}
	return f.Settings, nil
}

// Save writes the settings of a course
func (s *CourseStore) Save(ctx context.Context, id string, values map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.coursePath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for course: %w", err)
	}

	content, err := yaml.Marshal(courseFile{ID: id, Settings: values})
	if err != nil {
		return fmt.Errorf("failed to marshal course to YAML: %w", err)
	}

	if previous, err := os.ReadFile(path); err == nil {
		archive := s.archivePath(id)
		if err := os.MkdirAll(filepath.Dir(archive), 0755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
		if err := os.WriteFile(archive, previous, 0644); err != nil {
			return fmt.Errorf("failed to archive course %s: %w", id, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("failed to write course %s: %w", id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write course %s: %w", id, err)
	}
	return nil
}

// Create stores a new course with schema defaults. It fails if the course exists.
func (s *CourseStore) Create(ctx context.Context, id string, values map[string]interface{}) error {
	if _, err := os.Stat(s.coursePath(id)); err == nil {
		return fmt.Errorf("course %s already exists", id)
	}
	return s.Save(ctx, id, models.NewCourse(id, values).Snapshot())
}

// List returns the ids of every stored course
func (s *CourseStore) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, CoursesDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, CoursesDir, entry.Name()))
		if err != nil {
			continue
		}
		var f courseFile
		if yaml.Unmarshal(content, &f) != nil || f.ID == "" {
			continue
		}
		ids = append(ids, f.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Load fetches a course into a model
func (s *CourseStore) Load(ctx context.Context, id string) (*models.Course, error) {
	values, err := s.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewCourse(id, values), nil
}
