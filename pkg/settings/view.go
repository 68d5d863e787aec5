// Package settings assembles the course settings page: the control
// document, the field sync engine, validation, the save banner, lazily
// attached editors and the overview composer. A View is driven by a Bubble
// Tea program or, headless, by Drain.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/coursekit/internal/logger"
	"github.com/pluqqy/coursekit/pkg/composer"
	"github.com/pluqqy/coursekit/pkg/debounce"
	"github.com/pluqqy/coursekit/pkg/directory"
	"github.com/pluqqy/coursekit/pkg/editor"
	"github.com/pluqqy/coursekit/pkg/fieldsync"
	"github.com/pluqqy/coursekit/pkg/files"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/notify"
	"github.com/pluqqy/coursekit/pkg/surface"
	"github.com/pluqqy/coursekit/pkg/validation"
)

const (
	MinGradeWarningTitle   = "Course Credit Requirements"
	MinGradeWarningMessage = "The minimum grade for course credit is not set."
)

var ErrNoStore = errors.New("settings view needs a course store")

// Notice is a one-off message for the user
type Notice struct {
	Title   string
	Message string
}

// Uploader stores a local file as a course asset
type Uploader interface {
	Upload(ctx context.Context, path string, mimeTypes []string) (files.Asset, error)
}

// UploadRequestMsg asks the front end for a file to upload into Target
type UploadRequestMsg struct {
	Target    string
	Title     string
	Message   string
	MimeTypes []string
}

// UploadedMsg is the outcome of an upload
type UploadedMsg struct {
	Target string
	Asset  files.Asset
	Err    error
}

type uploadTarget struct {
	title    string
	preview  string
	nameAttr string
	pathAttr string
}

var uploadTargets = map[string]uploadTarget{
	UploadCourseImage: {
		title:    "Upload your course image.",
		preview:  fieldsync.ElementCourseImage,
		nameAttr: models.AttrCourseImageName,
		pathAttr: models.AttrCourseImageAssetPath,
	},
	UploadBannerImage: {
		title:    "Upload your banner image.",
		preview:  fieldsync.ElementBannerImage,
		nameAttr: models.AttrBannerImageName,
		pathAttr: models.AttrBannerImageAssetPath,
	},
	UploadVideoThumbnailImage: {
		title:    "Upload your video thumbnail image.",
		preview:  fieldsync.ElementThumbnailImage,
		nameAttr: models.AttrVideoThumbnailImageName,
		pathAttr: models.AttrVideoThumbnailImageAssetPath,
	},
}

// Options configures a View
type Options struct {
	Store     notify.Persistence
	Directory directory.Lookup
	Uploader  Uploader
	// EditorFactory builds the rich editor; nil uses headless buffers
	EditorFactory editor.Factory

	// DisplayName is shown in the title control while the title is empty
	DisplayName string

	ImagePreviewDelay   time.Duration
	VideoPreviewDelay   time.Duration
	SaveTimeout         time.Duration
	LookupTimeout       time.Duration
	ShowMinGradeWarning bool

	Now    func() time.Time
	Logger *logger.Logger
}

// View is one open course settings page
type View struct {
	course *models.Course
	doc    *surface.Document
	layout []Section

	engine    *fieldsync.Engine
	debouncer *debounce.Debouncer
	gate      *validation.Gate
	banner    *notify.Banner
	editors   *editor.Manager
	composer  *composer.Composer
	uploader  Uploader

	now     func() time.Time
	log     *logger.Logger
	timeout time.Duration

	status      string
	statusErr   error
	notices     []Notice
	unsubscribe func()
}

// New builds the page for course and renders it
func New(course *models.Course, opts Options) (*View, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	if opts.Directory == nil {
		opts.Directory = unconfigured{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = notify.DefaultTimeout
	}
	log := logger.OrNop(opts.Logger).With("course", course.ID)

	v := &View{
		course:   course,
		doc:      surface.NewDocument(),
		layout:   DefaultLayout(),
		uploader: opts.Uploader,
		now:      opts.Now,
		log:      log,
		timeout:  opts.SaveTimeout,
	}
	buildDocument(v.doc, v.layout)
	v.doc.SetAttr(fieldsync.ControlTitle, "data-display-name", opts.DisplayName)

	fields := fieldsync.DefaultFieldMap()
	v.debouncer = debounce.New()
	v.gate = validation.NewGate(course, log)
	v.engine = fieldsync.New(v.doc, course, fields, v.debouncer, fieldsync.Options{
		ImagePreviewDelay: opts.ImagePreviewDelay,
		VideoPreviewDelay: opts.VideoPreviewDelay,
		Logger:            log,
		OnVideoEdit:       v.gate.Clear,
	})
	v.editors = editor.NewManager(v.doc, course, fields, v.gate, opts.EditorFactory, log)
	v.composer = composer.New(course, opts.Directory, v.editors, composer.Options{
		Control: fieldsync.ControlOverview,
		Timeout: opts.LookupTimeout,
		Logger:  log,
	})
	v.banner = notify.NewBanner(course, opts.Store, v.gate, notify.Options{
		Timeout:    opts.SaveTimeout,
		Logger:     log,
		OnReverted: v.rerender,
	})
	v.unsubscribe = course.ObserveAll(func(string, interface{}) { v.validate() })

	v.Render()
	if opts.ShowMinGradeWarning {
		v.notices = append(v.notices, Notice{Title: MinGradeWarningTitle, Message: MinGradeWarningMessage})
	}
	return v, nil
}

// Render writes the course into every control
func (v *View) Render() {
	v.engine.Render(v.now())
	v.doc.SetValue(ElementOrganization, v.course.String(models.AttrOrg))
	v.doc.SetValue(ElementNumber, v.course.String(models.AttrCourseID))
	v.doc.SetValue(ElementRun, v.course.String(models.AttrRun))
}

func (v *View) rerender() {
	v.Render()
	v.editors.Reseed()
}

// validate rechecks the course and refreshes the banner. It runs after
// every course mutation.
func (v *View) validate() {
	v.gate.Validate()
	v.banner.Sync()
}

// sync refreshes the banner without validating
func (v *View) sync() {
	v.banner.Sync()
}

// Input applies a user edit of a control and validates the result, even
// when the edit left the course unchanged
func (v *View) Input(controlID, raw string) tea.Cmd {
	cmd := v.engine.OnUserEdit(controlID, raw)
	v.validate()
	return cmd
}

// Focus attaches the rich editor when controlID is a rich text control
func (v *View) Focus(controlID string) (editor.Editor, error) {
	if v.doc.Attr(controlID, "type") != InputRichText.String() {
		return nil, nil
	}
	return v.editors.Attach(controlID)
}

// Click performs the action of a button
func (v *View) Click(id string) tea.Cmd {
	v.statusErr = nil
	switch id {
	case ButtonComposeOverview:
		return v.ComposeOverview()
	case fieldsync.ElementRemoveVideo:
		v.engine.RemoveVideo()
	case ButtonAddLearningInfo:
		v.engine.AddLearningInfo()
	case ButtonAddInstructor:
		v.engine.AddInstructor()
	case ButtonSave:
		cmd := v.banner.Save()
		if cmd == nil {
			v.setError(v.banner.Err())
		}
		return cmd
	case ButtonRevert:
		return v.banner.Revert()
	case UploadCourseImage, UploadBannerImage, UploadVideoThumbnailImage:
		target := uploadTargets[id]
		req := UploadRequestMsg{
			Target:    id,
			Title:     target.title,
			Message:   "Files must be in JPEG or PNG format.",
			MimeTypes: files.ImageTypes,
		}
		return func() tea.Msg { return req }
	default:
		v.log.Debug("ignoring click on unknown button", "id", id)
	}
	v.sync()
	return nil
}

// ComposeOverview starts an overview composition. A malformed source list
// is reported in the status line and leaves the editor untouched.
func (v *View) ComposeOverview() tea.Cmd {
	cmd, err := v.composer.Compose()
	if err != nil {
		v.setError(err)
		return nil
	}
	v.status = "Composing course overview"
	return cmd
}

// Upload stores the file at path for an upload target
func (v *View) Upload(target, path string) tea.Cmd {
	if _, ok := uploadTargets[target]; !ok {
		return nil
	}
	if v.uploader == nil {
		return func() tea.Msg {
			return UploadedMsg{Target: target, Err: errors.New("uploads are not configured")}
		}
	}
	up := v.uploader
	timeout := v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		asset, err := up.Upload(ctx, path, files.ImageTypes)
		return UploadedMsg{Target: target, Asset: asset, Err: err}
	}
}

// Update applies an asynchronous result. It reports whether msg was handled.
func (v *View) Update(msg tea.Msg) (tea.Cmd, bool) {
	var handled bool
	switch msg := msg.(type) {
	case debounce.FiredMsg:
		handled = v.engine.Handle(msg)
	case composer.LookupMsg:
		var err error
		handled, err = v.composer.Update(msg)
		if err != nil {
			v.setError(err)
		} else if d := v.composer.Draft(); d != nil && d.Invocation == msg.Invocation && d.Outstanding() == 0 {
			v.status = overviewStatus(d)
		}
	case notify.SavedMsg, notify.RevertedMsg:
		handled = v.banner.Update(msg)
		if err := v.banner.Err(); err != nil {
			v.setError(err)
		} else if _, ok := msg.(notify.SavedMsg); ok {
			v.status = "Your changes have been saved."
		} else {
			v.status = "Your changes have been reverted."
		}
	case UploadedMsg:
		handled = true
		v.applyUpload(msg)
	default:
		return nil, false
	}
	v.sync()
	return nil, handled
}

func (v *View) applyUpload(msg UploadedMsg) {
	target, ok := uploadTargets[msg.Target]
	if !ok {
		return
	}
	if msg.Err != nil {
		v.setError(fmt.Errorf("upload failed: %w", msg.Err))
		return
	}
	v.course.SetMany(map[string]interface{}{
		target.nameAttr: msg.Asset.DisplayName,
		target.pathAttr: msg.Asset.URL,
	})
	v.Render()
	v.doc.SetAttr(target.preview, "src", v.course.String(target.pathAttr))
	v.status = "Uploaded " + msg.Asset.DisplayName
}

func overviewStatus(d *composer.Draft) string {
	if missing := d.Missing(); len(missing) > 0 {
		return fmt.Sprintf("Course overview composed; no directory profile for %d people", len(missing))
	}
	return "Course overview composed"
}

func (v *View) setError(err error) {
	if err == nil {
		return
	}
	v.statusErr = err
	v.status = err.Error()
	v.log.Warn("settings action failed", "error", err)
}

// Close drops pending previews and observers
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.engine.Close()
}

// Notices returns pending one-off notices and forgets them
func (v *View) Notices() []Notice {
	out := v.notices
	v.notices = nil
	return out
}

// Status returns the last status line and whether it reports an error
func (v *View) Status() (string, bool) {
	return v.status, v.statusErr != nil
}

func (v *View) Course() *models.Course { return v.course }

func (v *View) Document() *surface.Document { return v.doc }

func (v *View) Layout() []Section { return v.layout }

func (v *View) Gate() *validation.Gate { return v.gate }

func (v *View) Banner() *notify.Banner { return v.banner }

func (v *View) Editors() *editor.Manager { return v.editors }

func (v *View) Composer() *composer.Composer { return v.composer }

func (v *View) Fields() *fieldsync.FieldMap { return v.engine.Fields() }

type unconfigured struct{}

func (unconfigured) Lookup(context.Context, string) (directory.Profile, error) {
	return directory.Profile{}, directory.ErrNotConfigured
}
