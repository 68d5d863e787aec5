// Package fieldsync keeps the course model and the settings controls in step.
// Edits flow control -> model through OnUserEdit; Render writes the model
// back into every control.
package fieldsync

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/coursekit/internal/logger"
	"github.com/pluqqy/coursekit/pkg/debounce"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/surface"
)

const (
	DefaultImagePreviewDelay = time.Second
	DefaultVideoPreviewDelay = time.Second

	videoChannel       = "video"
	imageChannelPrefix = "image:"

	PaceLockedTip = "Course pacing cannot be changed once a course has started."
)

// Options configures an Engine
type Options struct {
	ImagePreviewDelay time.Duration
	VideoPreviewDelay time.Duration
	Logger            *logger.Logger

	// OnVideoEdit runs before a video source edit is applied
	OnVideoEdit func()
}

type handler func(b *Binding, index int, el *surface.Element) tea.Cmd

// Engine applies control edits to the course and renders the course into
// the controls
type Engine struct {
	doc       *surface.Document
	course    *models.Course
	fields    *FieldMap
	debouncer *debounce.Debouncer
	opts      Options
	log       *logger.Logger

	handlers    map[ControlKind]handler
	unsubscribe []func()
}

// New creates an engine and subscribes it to list attribute changes so list
// item controls follow whole-list replacements
func New(doc *surface.Document, course *models.Course, fields *FieldMap, d *debounce.Debouncer, opts Options) *Engine {
	if opts.ImagePreviewDelay <= 0 {
		opts.ImagePreviewDelay = DefaultImagePreviewDelay
	}
	if opts.VideoPreviewDelay <= 0 {
		opts.VideoPreviewDelay = DefaultVideoPreviewDelay
	}
	e := &Engine{
		doc:       doc,
		course:    course,
		fields:    fields,
		debouncer: d,
		opts:      opts,
		log:       logger.OrNop(opts.Logger),
	}
	e.handlers = map[ControlKind]handler{
		PlainField:    e.editPlain,
		ToggleField:   e.editToggle,
		ListItemField: e.editListItem,
		ImageField:    e.editImage,
		VideoField:    e.editVideo,
	}
	for _, b := range fields.Bindings() {
		if b.Radio && doc.Attr(b.Control, "value") == "" {
			doc.SetAttr(b.Control, "value", b.RadioValue)
		}
	}
	for _, b := range fields.Lists() {
		e.unsubscribe = append(e.unsubscribe, course.Observe(b.Field, func(string, interface{}) {
			e.renderLists(false)
		}))
	}
	return e
}

// Fields returns the engine's field map
func (e *Engine) Fields() *FieldMap {
	return e.fields
}

// OnUserEdit records raw as the control's new state and applies it to the
// course. Toggles interpret raw as the checked state. Unmapped and disabled
// controls are ignored. The returned command, if any, drives a debounced preview.
func (e *Engine) OnUserEdit(controlID, raw string) tea.Cmd {
	b, index, ok := e.fields.Resolve(controlID)
	if !ok {
		e.log.Debug("ignoring edit on unmapped control", "control", controlID)
		if el, exists := e.doc.Element(controlID); exists && !el.Disabled {
			el.Value = raw
		}
		return nil
	}

	el := e.doc.Ensure(controlID)
	if el.Disabled {
		return nil
	}
	if b.Kind == ToggleField {
		el.Checked = parseChecked(raw)
	} else {
		el.Value = raw
	}
	return e.handlers[b.Kind](b, index, el)
}

// Handle routes a debounce tick to its pending effect
func (e *Engine) Handle(msg debounce.FiredMsg) bool {
	return e.debouncer.Handle(msg)
}

func (e *Engine) editPlain(b *Binding, _ int, el *surface.Element) tea.Cmd {
	value, ok := e.coerce(b, el, el.Value)
	if ok {
		e.course.Set(b.Field, value)
	}
	return nil
}

func (e *Engine) editToggle(b *Binding, _ int, el *surface.Element) tea.Cmd {
	if b.Radio {
		if !el.Checked {
			return nil
		}
		for _, sibling := range e.fields.Bindings() {
			if sibling.Radio && sibling.Field == b.Field && sibling.Control != b.Control {
				e.doc.SetChecked(sibling.Control, false)
			}
		}
	}
	if b.Reveal != "" {
		if el.Checked {
			e.doc.Show(b.Reveal)
		} else {
			e.doc.Hide(b.Reveal)
		}
	}
	value, ok := e.coerce(b, el, strconv.FormatBool(el.Checked))
	if ok {
		e.course.Set(b.Field, value)
	}
	return nil
}

func (e *Engine) editImage(b *Binding, _ int, el *surface.Element) tea.Cmd {
	e.course.Set(b.Field, el.Value)
	if b.NameField != "" {
		e.course.Set(b.NameField, ImageName(el.Value))
	}
	return e.schedulePreview(b.Preview, el.ID)
}

func (e *Engine) editVideo(b *Binding, _ int, el *surface.Element) tea.Cmd {
	if e.opts.OnVideoEdit != nil {
		e.opts.OnVideoEdit()
	}
	source := e.course.SetVideoSource(el.Value)
	return e.debouncer.Schedule(videoChannel, e.opts.VideoPreviewDelay, func() {
		e.doc.SetAttr(ElementVideoPreview, "src", source)
		e.showRemoveVideo()
	})
}

func (e *Engine) editListItem(b *Binding, index int, el *surface.Element) tea.Cmd {
	switch b.Field {
	case models.AttrInstructorInfo:
		instructors := e.course.Instructors()
		if index >= len(instructors) {
			e.log.Debug("ignoring edit past end of list", "control", el.ID, "len", len(instructors))
			return nil
		}
		setInstructorField(&instructors[index], b.SubField, el.Value)
		e.course.Set(b.Field, models.InstructorInfo{Instructors: instructors})
	default:
		items := e.course.StringList(b.Field)
		if index >= len(items) {
			e.log.Debug("ignoring edit past end of list", "control", el.ID, "len", len(items))
			return nil
		}
		items[index] = el.Value
		e.course.Set(b.Field, items)
	}
	if b.Preview != "" {
		return e.schedulePreview(b.Preview+strconv.Itoa(index), el.ID)
	}
	return nil
}

// The preview reads the input when the timer fires, so it shows whatever
// the last edit left there.
func (e *Engine) schedulePreview(previewID, inputID string) tea.Cmd {
	if previewID == "" {
		return nil
	}
	return e.debouncer.Schedule(imageChannelPrefix+previewID, e.opts.ImagePreviewDelay, func() {
		e.doc.SetAttr(previewID, "src", e.doc.Value(inputID))
	})
}

func (e *Engine) coerce(b *Binding, el *surface.Element, fallback string) (interface{}, bool) {
	if b.Coerce != nil {
		return b.Coerce(e.course, el)
	}
	return fallback, true
}

// RemoveVideo clears the intro video and its preview
func (e *Engine) RemoveVideo() {
	if !e.course.Has(models.AttrIntroVideo) {
		return
	}
	e.debouncer.Cancel(videoChannel)
	e.course.SetVideoSource("")
	e.doc.SetAttr(ElementVideoPreview, "src", "")
	e.doc.SetValue(ControlIntroVideo, "")
	e.doc.Hide(ElementRemoveVideo)
}

// AddLearningInfo appends an empty learning outcome
func (e *Engine) AddLearningInfo() {
	items := e.course.StringList(models.AttrLearningInfo)
	e.course.Set(models.AttrLearningInfo, append(items, ""))
}

// AddInstructor appends an empty instructor entry
func (e *Engine) AddInstructor() {
	instructors := append(e.course.Instructors(), models.Instructor{})
	e.course.Set(models.AttrInstructorInfo, models.InstructorInfo{Instructors: instructors})
}

// Close unsubscribes from the course and drops every pending preview
func (e *Engine) Close() {
	for _, fn := range e.unsubscribe {
		fn()
	}
	e.unsubscribe = nil
	e.debouncer.CancelAll()
}

func (e *Engine) showRemoveVideo() {
	if e.course.Has(models.AttrIntroVideo) {
		e.doc.Show(ElementRemoveVideo)
	} else {
		e.doc.Hide(ElementRemoveVideo)
	}
}

// ImageName derives the stored image name from an asset URL. Asset keys
// typed in directly carry a "block@" prefix that is stripped as well.
func ImageName(url string) string {
	name := url[strings.LastIndex(url, "/")+1:]
	if i := strings.LastIndex(name, "block@"); i >= 0 {
		name = name[i+len("block@"):]
	}
	return name
}

func parseChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes", "checked":
		return true
	}
	return false
}

func setInstructorField(in *models.Instructor, field, value string) {
	switch field {
	case "name":
		in.Name = value
	case "title":
		in.Title = value
	case "organization":
		in.Organization = value
	case "bio":
		in.Bio = value
	case "image":
		in.Image = value
	}
}

func instructorField(in models.Instructor, field string) string {
	switch field {
	case "name":
		return in.Name
	case "title":
		return in.Title
	case "organization":
		return in.Organization
	case "bio":
		return in.Bio
	case "image":
		return in.Image
	}
	return ""
}
