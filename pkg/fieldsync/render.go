package fieldsync

import (
	"strconv"
	"strings"
	"time"

	"github.com/pluqqy/coursekit/pkg/models"
)

// Render writes every mapped attribute into its control. Pending image
// previews are dropped since the inputs they read are being overwritten.
func (e *Engine) Render(now time.Time) {
	e.debouncer.CancelPrefix(imageChannelPrefix)

	for _, b := range e.fields.Bindings() {
		switch {
		case b.Radio:
			e.doc.SetChecked(b.Control, e.doc.Attr(b.Control, "value") == e.course.String(b.Field))
		case b.Field == models.AttrTitle:
			title := e.course.String(b.Field)
			if title == "" {
				title = e.doc.Attr(b.Control, "data-display-name")
			}
			e.doc.SetValue(b.Control, title)
		case b.Field == models.AttrPreRequisiteCourses:
			value := ""
			if courses := e.course.StringList(b.Field); len(courses) > 0 {
				value = courses[0]
			}
			e.doc.SetValue(b.Control, value)
		case b.Kind == ToggleField:
			checked := e.course.Bool(b.Field)
			e.doc.SetChecked(b.Control, checked)
			if b.Reveal != "" {
				if checked {
					e.doc.Show(b.Reveal)
				} else {
					e.doc.Hide(b.Reveal)
				}
			}
		case b.Kind == ImageField:
			url := e.course.String(b.Field)
			e.doc.SetValue(b.Control, url)
			e.doc.SetAttr(b.Preview, "src", url)
		case b.Kind == VideoField:
			e.doc.SetAttr(ElementVideoPreview, "src", e.course.VideoSourceSample())
			e.doc.SetValue(b.Control, e.course.String(b.Field))
			e.showRemoveVideo()
		default:
			e.doc.SetValue(b.Control, e.course.String(b.Field))
		}
	}

	e.renderPace(now)
	e.renderLists(true)
}

func (e *Engine) renderPace(now time.Time) {
	locked := !e.course.CanTogglePace(now)
	for _, control := range []string{ControlSelfPaced, ControlInstructorPaced} {
		if _, ok := e.fields.Field(control); ok {
			e.doc.SetDisabled(control, locked)
		}
	}
	if locked {
		e.doc.SetText(ElementPaceTip, PaceLockedTip)
	} else {
		e.doc.SetText(ElementPaceTip, "")
	}
}

// renderLists creates or updates one control per list entry and removes
// controls left over from longer lists. Previews are only refreshed on a
// full render; edits update them through the debouncer.
func (e *Engine) renderLists(previews bool) {
	instructors := e.course.Instructors()
	for _, b := range e.fields.Lists() {
		var values []string
		if b.Field == models.AttrInstructorInfo {
			for _, in := range instructors {
				values = append(values, instructorField(in, b.SubField))
			}
		} else {
			values = e.course.StringList(b.Field)
		}

		for i, value := range values {
			id := ListControl(b, i)
			el := e.doc.Ensure(id)
			el.Value = value
			el.SetAttr("data-index", strconv.Itoa(i))
			if b.SubField != "" {
				el.SetAttr("data-field", b.SubField)
			}
			if previews && b.Preview != "" {
				e.doc.SetAttr(b.Preview+strconv.Itoa(i), "src", value)
			}
		}
		e.pruneList(b.Prefix, len(values))
		if b.Preview != "" {
			e.pruneList(b.Preview, len(values))
		}
	}
}

func (e *Engine) pruneList(prefix string, n int) {
	for _, id := range e.doc.IDsWithPrefix(prefix) {
		idx, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if idx >= n {
			e.doc.Remove(id)
		}
	}
}
