package editor

import (
	"errors"
	"testing"

	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/surface"
)

type fieldMap map[string]string

func (m fieldMap) Field(control string) (string, bool) {
	f, ok := m[control]
	return f, ok
}

type countingCommitter struct {
	course  *models.Course
	commits int
}

func (c *countingCommitter) Commit(attr string, value interface{}) bool {
	c.commits++
	c.course.Set(attr, value)
	return true
}

func setup() (*Manager, *models.Course, *countingCommitter, *surface.Document) {
	doc := surface.NewDocument()
	course := models.NewCourse("c", map[string]interface{}{models.AttrOverview: "<p>old</p>"})
	doc.SetValue("course-overview", "<p>old</p>")
	commit := &countingCommitter{course: course}
	m := NewManager(doc, course, fieldMap{"course-overview": models.AttrOverview}, commit, nil, nil)
	return m, course, commit, doc
}

func TestAttachIsIdempotent(t *testing.T) {
	m, course, commit, _ := setup()

	first, err := m.Attach("course-overview")
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	second, err := m.Attach("course-overview")
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if first != second {
		t.Fatalf("second attach created a new editor")
	}
	if commit.commits != 0 {
		t.Fatalf("seeding with the stored value should not commit")
	}

	first.(*Buffer).Type("<p>new</p>")

	if commit.commits != 1 {
		t.Errorf("one edit propagated %d times, want 1", commit.commits)
	}
	if course.String(models.AttrOverview) != "<p>new</p>" {
		t.Errorf("overview = %q", course.String(models.AttrOverview))
	}
}

func TestSetContentPushesToModel(t *testing.T) {
	m, course, commit, doc := setup()
	ed, _ := m.Attach("course-overview")

	ed.SetContent("<h1>Composed</h1>")

	if commit.commits != 1 || course.String(models.AttrOverview) != "<h1>Composed</h1>" {
		t.Errorf("commits=%d overview=%q", commit.commits, course.String(models.AttrOverview))
	}
	if doc.Value("course-overview") != "<h1>Composed</h1>" {
		t.Errorf("control should mirror editor content")
	}
}

func TestUnchangedContentDoesNotCommit(t *testing.T) {
	m, _, commit, _ := setup()
	ed, _ := m.Attach("course-overview")

	ed.(*Buffer).Type("<p>old</p>")
	if commit.commits != 0 {
		t.Errorf("identical content committed %d times", commit.commits)
	}
}

func TestAttachUnmappedControl(t *testing.T) {
	m, _, _, _ := setup()
	if _, err := m.Attach("course-title-x"); !errors.Is(err, ErrUnmappedControl) {
		t.Errorf("err = %v, want ErrUnmappedControl", err)
	}
	if m.Attached("course-title-x") {
		t.Errorf("failed attach should not register")
	}
}

func TestReseedAfterReset(t *testing.T) {
	m, course, commit, _ := setup()
	ed, _ := m.Attach("course-overview")
	ed.(*Buffer).Type("<p>draft</p>")
	commits := commit.commits

	course.Reset(map[string]interface{}{models.AttrOverview: "<p>saved</p>"})
	m.Reseed()

	if ed.Content() != "<p>saved</p>" {
		t.Errorf("content = %q, want reseeded value", ed.Content())
	}
	if commit.commits != commits {
		t.Errorf("reseeding should not commit")
	}
}
