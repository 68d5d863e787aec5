package settings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pluqqy/coursekit/pkg/directory"
	"github.com/pluqqy/coursekit/pkg/editor"
	"github.com/pluqqy/coursekit/pkg/fieldsync"
	"github.com/pluqqy/coursekit/pkg/files"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/validation"
)

type memoryStore struct {
	courses map[string]map[string]interface{}
	saves   int
}

func newMemoryStore(id string, values map[string]interface{}) *memoryStore {
	return &memoryStore{courses: map[string]map[string]interface{}{
		id: models.NewCourse(id, values).Snapshot(),
	}}
}

func (s *memoryStore) Fetch(_ context.Context, id string) (map[string]interface{}, error) {
	values, ok := s.courses[id]
	if !ok {
		return nil, files.ErrCourseNotFound
	}
	return models.NewCourse(id, values).Snapshot(), nil
}

func (s *memoryStore) Save(_ context.Context, id string, values map[string]interface{}) error {
	s.saves++
	s.courses[id] = values
	return nil
}

type fakeDirectory map[string]directory.Profile

func (f fakeDirectory) Lookup(_ context.Context, name string) (directory.Profile, error) {
	p, ok := f[name]
	if !ok {
		return directory.Profile{}, directory.ErrNotFound
	}
	return p, nil
}

type fakeUploader struct {
	asset files.Asset
	err   error
	paths []string
}

func (u *fakeUploader) Upload(_ context.Context, path string, _ []string) (files.Asset, error) {
	u.paths = append(u.paths, path)
	return u.asset, u.err
}

var baseValues = map[string]interface{}{
	models.AttrStartDate: "2030-01-01",
	models.AttrTitle:     "Intro to Go",
	models.AttrOrg:       "Org",
	models.AttrCourseID:  "GO101",
	models.AttrRun:       "2030",
}

func newView(t *testing.T, opts Options) (*View, *memoryStore) {
	t.Helper()
	store := newMemoryStore("c1", baseValues)
	opts.Store = store
	opts.ImagePreviewDelay = time.Millisecond
	opts.VideoPreviewDelay = time.Millisecond
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2029, 6, 1, 0, 0, 0, 0, time.UTC) }
	}
	course, err := store.Fetch(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	v, err := New(models.NewCourse("c1", course), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(v.Close)
	return v, store
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(models.NewCourse("c", nil), Options{}); !errors.Is(err, ErrNoStore) {
		t.Errorf("err = %v, want ErrNoStore", err)
	}
}

func TestLayoutMatchesFieldMap(t *testing.T) {
	fields := fieldsync.DefaultFieldMap()
	inLayout := make(map[string]bool)

	for _, section := range DefaultLayout() {
		for _, row := range section.Rows {
			inLayout[row.Control] = true
			switch row.Input {
			case InputButton, InputReadOnly, InputNote:
				continue
			}
			if _, _, ok := fields.Resolve(row.Control + suffixFor(row)); !ok {
				t.Errorf("row %q control %q is not bound", row.Label, row.Control)
			}
		}
	}
	for _, b := range fields.Bindings() {
		if !inLayout[b.Control] {
			t.Errorf("control %q has no row", b.Control)
		}
	}
}

func suffixFor(row Row) string {
	if row.Input == InputList {
		return "0"
	}
	return ""
}

func TestRenderFillsReadOnlyFields(t *testing.T) {
	v, _ := newView(t, Options{})
	doc := v.Document()

	if doc.Value(ElementOrganization) != "Org" || doc.Value(ElementNumber) != "GO101" || doc.Value(ElementRun) != "2030" {
		t.Errorf("read-only fields not rendered")
	}
	v.Input(ElementOrganization, "Other")
	if doc.Value(ElementOrganization) != "Org" {
		t.Errorf("read-only field accepted an edit")
	}
	if v.Banner().Visible() {
		t.Errorf("banner should stay hidden")
	}
}

func TestEditShowsBannerAndSaveClearsIt(t *testing.T) {
	v, store := newView(t, Options{})

	v.Input(fieldsync.ControlTitle, "Advanced Go")
	if !v.Banner().Visible() || !v.Course().Dirty() {
		t.Fatalf("edit should dirty the course and show the banner")
	}

	if err := Drain(context.Background(), v, v.Click(ButtonSave)); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if store.saves != 1 || store.courses["c1"][models.AttrTitle] != "Advanced Go" {
		t.Errorf("save did not reach the store: %v", store.courses["c1"])
	}
	if v.Course().Dirty() || v.Banner().Visible() {
		t.Errorf("successful save should clear dirty state and hide the banner")
	}
}

func TestSaveRefusedWhileInvalid(t *testing.T) {
	v, store := newView(t, Options{})

	v.Input("course-start", "")
	if cmd := v.Click(ButtonSave); cmd != nil {
		t.Fatalf("save should be refused")
	}
	if store.saves != 0 {
		t.Errorf("store should not be called")
	}
	status, isErr := v.Status()
	if !isErr || !strings.Contains(status, "start_date") {
		t.Errorf("status = %q (error %v)", status, isErr)
	}
	if v.Gate().State() != validation.Invalid || !v.Banner().Visible() {
		t.Errorf("gate should be invalid and the banner visible")
	}

	v.Input("course-start", "2030-02-01")
	if v.Gate().State() != validation.Valid {
		t.Errorf("correcting the date should clear the error, state %s", v.Gate().State())
	}
}

func TestRevertRerendersAndResets(t *testing.T) {
	v, _ := newView(t, Options{})
	doc := v.Document()

	ed, err := v.Focus(fieldsync.ControlOverview)
	if err != nil || ed == nil {
		t.Fatalf("Focus: %v", err)
	}
	ed.SetContent("<p>draft</p>")
	v.Input(fieldsync.ControlTitle, "Changed")
	v.Input("course-end", "2020-01-01")
	v.Click(ButtonSave)
	if v.Gate().State() != validation.Invalid {
		t.Fatalf("end before start should be invalid")
	}

	if err := Drain(context.Background(), v, v.Click(ButtonRevert)); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if doc.Value(fieldsync.ControlTitle) != "Intro to Go" {
		t.Errorf("title = %q after revert", doc.Value(fieldsync.ControlTitle))
	}
	if ed.Content() != "" {
		t.Errorf("editor should be reseeded from the stored overview, got %q", ed.Content())
	}
	if v.Course().Dirty() || v.Gate().State() != validation.Pending || v.Banner().Visible() {
		t.Errorf("revert should leave a clean, unvalidated, hidden state")
	}
}

func TestFocusOnlyAttachesRichText(t *testing.T) {
	v, _ := newView(t, Options{})
	ed, err := v.Focus(fieldsync.ControlTitle)
	if ed != nil || err != nil {
		t.Errorf("plain control should not get an editor")
	}
	if v.Editors().Attached(fieldsync.ControlTitle) {
		t.Errorf("no editor should be registered")
	}
}

func TestComposeOverviewFillsEditorAndCourse(t *testing.T) {
	var buf *editor.Buffer
	v, _ := newView(t, Options{
		Directory: fakeDirectory{"ann": {Name: "Ann Lee", Description: "Gopher"}},
		EditorFactory: func(string) editor.Editor {
			buf = editor.NewBuffer()
			return buf
		},
	})
	v.Input(fieldsync.CustomControl(models.AttrInstructors), `["ann","bob"]`)

	if err := Drain(context.Background(), v, v.Click(ButtonComposeOverview)); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if buf == nil || !strings.Contains(buf.Content(), "Ann Lee") {
		t.Fatalf("overview editor missing the instructor")
	}
	if v.Course().String(models.AttrOverview) != buf.Content() {
		t.Errorf("editor content should be committed to the course")
	}
	status, isErr := v.Status()
	if isErr || !strings.Contains(status, "1 people") {
		t.Errorf("status = %q", status)
	}
}

func TestComposeOverviewMalformed(t *testing.T) {
	v, _ := newView(t, Options{})
	v.Input(fieldsync.CustomControl(models.AttrObjectives), `["oops`)

	if cmd := v.Click(ButtonComposeOverview); cmd != nil {
		t.Errorf("malformed objectives should not start lookups")
	}
	status, isErr := v.Status()
	if !isErr || !strings.Contains(status, models.AttrObjectives) {
		t.Errorf("status = %q", status)
	}
	if v.Editors().Attached(fieldsync.ControlOverview) {
		t.Errorf("editor should not be touched")
	}
}

func TestUploadWritesModelAndPreview(t *testing.T) {
	up := &fakeUploader{asset: files.Asset{DisplayName: "cover.png", URL: "/assets/abc.png"}}
	v, _ := newView(t, Options{Uploader: up})

	req, ok := v.Click(UploadCourseImage)().(UploadRequestMsg)
	if !ok || req.Target != UploadCourseImage || len(req.MimeTypes) != 2 {
		t.Fatalf("expected an upload request, got %#v", req)
	}

	if err := Drain(context.Background(), v, v.Upload(req.Target, "/tmp/cover.png")); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	c := v.Course()
	if c.String(models.AttrCourseImageName) != "cover.png" || c.String(models.AttrCourseImageAssetPath) != "/assets/abc.png" {
		t.Errorf("course image not stored")
	}
	doc := v.Document()
	if doc.Value(fieldsync.ControlCourseImage) != "/assets/abc.png" || doc.Attr(fieldsync.ElementCourseImage, "src") != "/assets/abc.png" {
		t.Errorf("controls not updated")
	}
}

func TestUploadFailureReported(t *testing.T) {
	up := &fakeUploader{err: files.ErrUnsupportedType}
	v, _ := newView(t, Options{Uploader: up})

	if err := Drain(context.Background(), v, v.Upload(UploadBannerImage, "/tmp/x.gif")); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	status, isErr := v.Status()
	if !isErr || !strings.Contains(status, "upload failed") {
		t.Errorf("status = %q", status)
	}
	if v.Course().Dirty() {
		t.Errorf("failed upload should not change the course")
	}
}

func TestImagePreviewThroughDrain(t *testing.T) {
	v, _ := newView(t, Options{})

	cmd := v.Input(fieldsync.ControlBannerImage, "/assets/banner.jpg")
	if v.Document().Attr(fieldsync.ElementBannerImage, "src") != "" {
		t.Fatalf("preview should wait for the debounce")
	}
	if err := Drain(context.Background(), v, cmd); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if got := v.Document().Attr(fieldsync.ElementBannerImage, "src"); got != "/assets/banner.jpg" {
		t.Errorf("preview src = %q", got)
	}
}

func TestEditValidatesImmediately(t *testing.T) {
	v, _ := newView(t, Options{})
	if v.Gate().State() != validation.Pending {
		t.Fatalf("fresh view should not be validated yet")
	}

	v.Input(fieldsync.CustomControl(models.AttrPrice), "not-a-number")
	if _, failed := v.Gate().ErrorFor(models.AttrPrice); !failed {
		t.Errorf("price error should be recorded without a save, errors %v", v.Gate().Errors())
	}
	if v.Gate().State() != validation.Invalid || !v.Banner().Visible() {
		t.Errorf("gate should be invalid and the banner visible")
	}

	v.Input(fieldsync.CustomControl(models.AttrPrice), "49")
	if v.Gate().State() != validation.Valid {
		t.Errorf("correcting the price should validate, state %s", v.Gate().State())
	}
}

func TestVideoEditRevalidates(t *testing.T) {
	v, _ := newView(t, Options{})
	v.Input("course-start", "")
	if !v.Gate().Invalid() {
		t.Fatalf("expected invalid state")
	}

	v.Input(fieldsync.ControlIntroVideo, "https://www.youtube.com/watch?v=abc123")
	if _, failed := v.Gate().ErrorFor(models.AttrStartDate); !failed || !v.Gate().Invalid() {
		t.Errorf("blank start date should still be reported after a video edit, errors %v", v.Gate().Errors())
	}

	v.Input(fieldsync.ControlIntroVideo, "bad id!!")
	if _, failed := v.Gate().ErrorFor(models.AttrIntroVideo); !failed {
		t.Errorf("bad video id should be reported, errors %v", v.Gate().Errors())
	}

	// Later edits keep validating
	v.Input("course-start", "2030-02-01")
	v.Input(fieldsync.ControlTitle, "Changed")
	errs := v.Gate().Errors()
	if len(errs) != 1 || errs[0].Field != models.AttrIntroVideo {
		t.Errorf("errors = %v, want only intro_video", errs)
	}
}

func TestMinGradeWarningShownOnce(t *testing.T) {
	v, _ := newView(t, Options{ShowMinGradeWarning: true})
	notices := v.Notices()
	if len(notices) != 1 || notices[0].Title != MinGradeWarningTitle {
		t.Fatalf("notices = %v", notices)
	}
	if len(v.Notices()) != 0 {
		t.Errorf("notice should only be delivered once")
	}
}

func TestListButtonsAddEntries(t *testing.T) {
	v, _ := newView(t, Options{})
	v.Click(ButtonAddLearningInfo)
	v.Click(ButtonAddInstructor)

	if got := ListEntries(v.Document(), fieldsync.PrefixLearningInfo); len(got) != 1 {
		t.Errorf("learning info entries = %v", got)
	}
	if got := ListEntries(v.Document(), "course-instructor-name-"); len(got) != 1 {
		t.Errorf("instructor entries = %v", got)
	}
	if !v.Banner().Visible() {
		t.Errorf("adding entries should show the banner")
	}
}
