package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/coursekit/internal/cli"
	"github.com/pluqqy/coursekit/pkg/files"
	"github.com/pluqqy/coursekit/pkg/models"
)

const testCourse = "course-v1:Org+GO101+2030"

// execute runs the root command with args and returns everything printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--no-color"))
	cli.SetOutput(&out, &out)
	t.Cleanup(func() { cli.SetOutput(os.Stdout, os.Stderr) })

	err := root.Execute()
	return out.String(), err
}

// setupProject initializes a project with one course in a temporary directory
func setupProject(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("COURSEKIT_DIRECTORY_URL", "")

	_, err := execute(t, "init")
	require.NoError(t, err)
	_, err = execute(t, "create", testCourse, "--title", "Intro to Go", "--start", "2030-01-01")
	require.NoError(t, err)
}

func TestInitCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created .coursekit folder structure")
	assert.FileExists(t, files.ConfigFile)
	assert.DirExists(t, filepath.Join(files.DefaultDataDir, files.CoursesDir))

	// A second run keeps the existing config
	require.NoError(t, os.WriteFile(files.ConfigFile, []byte("data_dir: .coursekit\n"), 0644))
	out, err = execute(t, "init")
	require.NoError(t, err)
	assert.NotContains(t, out, "Wrote")
	content, err := os.ReadFile(files.ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "data_dir: .coursekit\n", string(content))
}

func TestCommandsRequireProject(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, args := range [][]string{
		{"list"},
		{"show", testCourse},
		{"set", testCourse, "title", "x"},
	} {
		_, err := execute(t, args...)
		assert.Error(t, err, "args %v", args)
	}
}

func TestCreateCommand(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "show", testCourse, "-o", "json")
	require.NoError(t, err)

	var result ShowResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, testCourse, result.ID)
	assert.Equal(t, "Org", result.Settings[models.AttrOrg])
	assert.Equal(t, "GO101", result.Settings[models.AttrCourseID])
	assert.Equal(t, "2030", result.Settings[models.AttrRun])
	assert.Equal(t, "Intro to Go", result.Settings[models.AttrTitle])

	_, err = execute(t, "create", testCourse)
	assert.Error(t, err, "creating a duplicate should fail")

	_, err = execute(t, "create", "other", "--start", "soon")
	assert.ErrorContains(t, err, "invalid start date")
}

func TestListCommand(t *testing.T) {
	setupProject(t)
	_, err := execute(t, "create", "course-v1:Org+RUST1+2031", "--title", "Rust")
	require.NoError(t, err)

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, testCourse)
	assert.Contains(t, out, "Rust")
	assert.Contains(t, out, "2 course(s)")

	out, err = execute(t, "list", "-o", "json")
	require.NoError(t, err)
	var result ListResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Count)
	assert.False(t, result.Items[0].HasArchive)
}

func TestSetCommand(t *testing.T) {
	setupProject(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
		field   string
		want    string
	}{
		{
			name:  "plain text",
			args:  []string{"title", "Advanced Go"},
			field: "title",
			want:  "Advanced Go",
		},
		{
			name:  "boolean",
			args:  []string{"entrance_exam_enabled", "true"},
			field: "entrance_exam_enabled",
			want:  "true",
		},
		{
			name:  "catalogue list",
			args:  []string{"objectives", `["Write Go", "Test Go"]`},
			field: "objectives",
			want:  `["Write Go","Test Go"]`,
		},
		{
			name:    "invalid video id",
			args:    []string{"intro_video", "not a key!"},
			wantErr: "not saved",
		},
		{
			name:    "end before start",
			args:    []string{"end_date", "2029-01-01"},
			wantErr: "not saved",
		},
		{
			name:    "unknown field",
			args:    []string{"colour", "blue"},
			wantErr: "unknown field",
		},
		{
			name:    "malformed list",
			args:    []string{"instructors", "Ada"},
			wantErr: "invalid list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"set", "go101"}, tt.args...)...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			out, err := execute(t, "show", "go101", "--field", tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestSetUnchangedSkipsSave(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "set", testCourse, "title", "Intro to Go")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")

	_, err = execute(t, "restore", testCourse, "-y")
	assert.ErrorContains(t, err, "no archived version")
}

func TestValidateCommand(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "validate", testCourse)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	// Break the stored course behind the command's back
	store := files.NewCourseStore(files.DefaultDataDir)
	course, err := store.Load(t.Context(), testCourse)
	require.NoError(t, err)
	course.Set(models.AttrEntranceExamMinimumScorePct, "120")
	require.NoError(t, store.Save(t.Context(), testCourse, course.Snapshot()))

	out, err = execute(t, "validate", testCourse, "-o", "json")
	require.Error(t, err)
	var result ValidateResult
	require.NoError(t, json.Unmarshal([]byte(out[:strings.LastIndex(out, "}")+1]), &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.AttrEntranceExamMinimumScorePct, result.Errors[0].Field)
}

func TestOverviewCommand(t *testing.T) {
	setupProject(t)
	_, err := execute(t, "set", testCourse, "objectives", `["Write Go"]`)
	require.NoError(t, err)

	out, err := execute(t, "overview", testCourse, "--markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "About This Course")
	assert.Contains(t, out, "Write Go")
	assert.NotContains(t, out, "<h2")

	path := filepath.Join("out", "overview.html")
	_, err = execute(t, "overview", testCourse, "--write", "--output-file", path)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `<h2 class="main-header">You Will Learn To</h2>`)

	out, err = execute(t, "show", testCourse, "--field", "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "You Will Learn To")
}

func TestOverviewWithoutDirectoryProfiles(t *testing.T) {
	setupProject(t)
	_, err := execute(t, "set", testCourse, "objectives", `["Write Go"]`)
	require.NoError(t, err)
	_, err = execute(t, "set", testCourse, "instructors", `["Ada Lovelace"]`)
	require.NoError(t, err)

	out, err := execute(t, "overview", testCourse)
	require.NoError(t, err)
	assert.Contains(t, out, "no directory profile for Ada Lovelace")
	assert.Contains(t, out, "<li>Write Go</li>")
	assert.Contains(t, out, "Course Staff")
	assert.NotContains(t, out, "staff-member")

	_, err = execute(t, "overview", testCourse, "--write", "--output-file", "overview.html")
	require.NoError(t, err)
	out, err = execute(t, "show", testCourse, "--field", "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "You Will Learn To")
}

func TestRestoreCommand(t *testing.T) {
	setupProject(t)
	_, err := execute(t, "set", testCourse, "title", "Second Title")
	require.NoError(t, err)

	_, err = execute(t, "restore", "go101", "-y")
	require.NoError(t, err)
	out, err := execute(t, "show", testCourse, "--field", "title")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", strings.TrimSpace(out))

	// Restoring again swaps back
	_, err = execute(t, "restore", "go101", "-y")
	require.NoError(t, err)
	out, err = execute(t, "show", testCourse, "--field", "title")
	require.NoError(t, err)
	assert.Equal(t, "Second Title", strings.TrimSpace(out))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "coursekit version test\n", out)
}

func TestParseCourseKey(t *testing.T) {
	tests := []struct {
		id                string
		org, number, run string
	}{
		{"course-v1:Org+GO101+2030", "Org", "GO101", "2030"},
		{"course-v1:Org+GO101", "", "", ""},
		{"go101", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			org, number, run := parseCourseKey(tt.id)
			assert.Equal(t, tt.org, org)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.run, run)
		})
	}
}

func TestParseFieldValue(t *testing.T) {
	lookup := func(name string) models.Attribute {
		attr, ok := models.LookupAttribute(name)
		require.True(t, ok, name)
		return attr
	}

	tests := []struct {
		name    string
		field   string
		raw     string
		want    interface{}
		wantErr bool
	}{
		{"bool", models.AttrSelfPaced, " true\n", true, false},
		{"bad bool", models.AttrSelfPaced, "maybe", nil, true},
		{"lines", models.AttrLearningInfo, "one\n\n two \n", []string{"one", "two"}, false},
		{"json list", models.AttrLearningInfo, `["a","b"]`, []string{"a", "b"}, false},
		{"catalogue", models.AttrObjectives, `[ "x" ]`, `["x"]`, false},
		{"bad catalogue", models.AttrObjectives, "x", nil, true},
		{"text", models.AttrTitle, "Go", "Go", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFieldValue(lookup(tt.field), tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
