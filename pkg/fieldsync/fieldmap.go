package fieldsync

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/surface"
)

// ControlKind selects the handler used for a control
type ControlKind int

const (
	PlainField ControlKind = iota
	ToggleField
	ListItemField
	ImageField
	VideoField
)

func (k ControlKind) String() string {
	switch k {
	case PlainField:
		return "plain"
	case ToggleField:
		return "toggle"
	case ListItemField:
		return "list-item"
	case ImageField:
		return "image"
	case VideoField:
		return "video"
	}
	return "unknown"
}

// Binding associates a model attribute with a control
type Binding struct {
	Field   string
	Control string
	Kind    ControlKind

	// Prefix addresses list item controls as Prefix+index; Control is empty.
	Prefix   string
	SubField string

	// Radio marks one of several controls sharing Field. Radios are excluded
	// from the field to control direction.
	Radio      bool
	RadioValue string

	NameField string // image: attribute receiving the derived file name
	Preview   string // image: element (or element prefix for list items) whose src mirrors the value
	Reveal    string // toggle: element shown while checked

	// Coerce converts the edited control into the stored value; false skips
	// the write. Nil means the raw value (plain) or "true"/"false" (toggle).
	Coerce func(c *models.Course, el *surface.Element) (interface{}, bool)
}

// FieldMap is the fixed association between attributes and controls
type FieldMap struct {
	fixed     []*Binding
	byField   map[string]*Binding
	byControl map[string]*Binding
	lists     []*Binding
}

// NewFieldMap validates bindings and builds both lookup directions.
// No two fields may share a control and no field may map to two controls.
func NewFieldMap(bindings ...Binding) (*FieldMap, error) {
	m := &FieldMap{
		byField:   make(map[string]*Binding),
		byControl: make(map[string]*Binding),
	}
	prefixes := make(map[string]bool)

	for i := range bindings {
		b := bindings[i]
		if b.Field == "" {
			return nil, fmt.Errorf("binding %d has no field", i)
		}
		if b.Prefix != "" {
			if b.Kind != ListItemField {
				return nil, fmt.Errorf("binding for %s has a prefix but kind %s", b.Field, b.Kind)
			}
			if prefixes[b.Prefix] {
				return nil, fmt.Errorf("duplicate list prefix %q", b.Prefix)
			}
			prefixes[b.Prefix] = true
			m.lists = append(m.lists, &b)
			continue
		}
		if b.Control == "" {
			return nil, fmt.Errorf("binding for %s has no control", b.Field)
		}
		if existing, ok := m.byControl[b.Control]; ok {
			return nil, fmt.Errorf("control %q bound to both %s and %s", b.Control, existing.Field, b.Field)
		}
		if !b.Radio {
			if existing, ok := m.byField[b.Field]; ok {
				return nil, fmt.Errorf("field %s bound to both %q and %q", b.Field, existing.Control, b.Control)
			}
			m.byField[b.Field] = &b
		}
		m.byControl[b.Control] = &b
		m.fixed = append(m.fixed, &b)
	}

	return m, nil
}

// Control returns the control bound to field
func (m *FieldMap) Control(field string) (string, bool) {
	b, ok := m.byField[field]
	if !ok {
		return "", false
	}
	return b.Control, true
}

// Field returns the field bound to a fixed control
func (m *FieldMap) Field(control string) (string, bool) {
	b, ok := m.byControl[control]
	if !ok {
		return "", false
	}
	return b.Field, true
}

// Fields lists the fields of the one-to-one bindings, in declaration order
func (m *FieldMap) Fields() []string {
	var out []string
	for _, b := range m.fixed {
		if !b.Radio {
			out = append(out, b.Field)
		}
	}
	return out
}

// Bindings returns the fixed bindings in declaration order
func (m *FieldMap) Bindings() []*Binding {
	return append([]*Binding(nil), m.fixed...)
}

// Lists returns the list item bindings
func (m *FieldMap) Lists() []*Binding {
	return append([]*Binding(nil), m.lists...)
}

// Resolve finds the binding for a control id. List item controls also
// return the index encoded in the id.
func (m *FieldMap) Resolve(control string) (*Binding, int, bool) {
	if b, ok := m.byControl[control]; ok {
		return b, -1, true
	}
	for _, b := range m.lists {
		if !strings.HasPrefix(control, b.Prefix) {
			continue
		}
		idx, err := strconv.Atoi(control[len(b.Prefix):])
		if err != nil || idx < 0 {
			continue
		}
		return b, idx, true
	}
	return nil, 0, false
}

// ListControl returns the control id of list item index for b
func ListControl(b *Binding, index int) string {
	return b.Prefix + strconv.Itoa(index)
}

// Control ids and elements of the course settings page
const (
	ControlOverview         = "course-overview"
	ControlTitle            = "course-title"
	ControlPreRequisite     = "pre-requisite-course"
	ControlEntranceExam     = "entrance-exam-enabled"
	ControlEntranceExamPct  = "entrance-exam-minimum-score-pct"
	ControlIntroVideo       = "course-introduction-video"
	ControlSelfPaced        = "course-pace-self-paced"
	ControlInstructorPaced  = "course-pace-instructor-paced"
	ControlCourseImage      = "course-image-url"
	ControlBannerImage      = "banner-image-url"
	ControlThumbnailImage   = "video-thumbnail-image-url"
	ElementGradePanel       = "div-grade-requirements"
	ElementVideoPreview     = "course-introduction-video-preview"
	ElementRemoveVideo      = "remove-course-introduction-video"
	ElementPaceTip          = "course-pace-toggle-tip"
	ElementCourseImage      = "course-image"
	ElementBannerImage      = "banner-image"
	ElementThumbnailImage   = "video-thumbnail-image"
	PrefixLearningInfo      = "course-learning-info-"
	PrefixInstructorImage   = "course-instructor-image-"
	PrefixInstructorPreview = "course-instructor-image-preview-"
	customPrefix            = "course-custom-"
)

// CustomControl returns the control id for one of the catalogue fields
func CustomControl(field string) string {
	return customPrefix + field
}

// DefaultBindings returns the bindings of the course settings page
func DefaultBindings() []Binding {
	plain := func(field, control string) Binding {
		return Binding{Field: field, Control: control, Kind: PlainField}
	}
	toggle := func(field string) Binding {
		return Binding{Field: field, Control: CustomControl(field), Kind: ToggleField}
	}
	image := func(field, control, name, preview string) Binding {
		return Binding{Field: field, Control: control, Kind: ImageField, NameField: name, Preview: preview}
	}
	instructor := func(sub string) Binding {
		b := Binding{Field: models.AttrInstructorInfo, Prefix: "course-instructor-" + sub + "-", SubField: sub, Kind: ListItemField}
		if sub == "image" {
			b.Preview = PrefixInstructorPreview
		}
		return b
	}

	bindings := []Binding{
		plain(models.AttrLanguage, "course-language"),
		plain(models.AttrStartDate, "course-start"),
		plain(models.AttrEndDate, "course-end"),
		plain(models.AttrEnrollmentStart, "enrollment-start"),
		plain(models.AttrEnrollmentEnd, "enrollment-end"),
		plain(models.AttrOverview, ControlOverview),
		plain(models.AttrTitle, ControlTitle),
		plain(models.AttrSubtitle, "course-subtitle"),
		plain(models.AttrDuration, "course-duration"),
		plain(models.AttrDescription, "course-description"),
		plain(models.AttrShortDescription, "course-short-description"),
		{Field: models.AttrIntroVideo, Control: ControlIntroVideo, Kind: VideoField},
		plain(models.AttrEffort, "course-effort"),
		plain(models.AttrLicense, "course-license"),
		image(models.AttrCourseImageAssetPath, ControlCourseImage, models.AttrCourseImageName, ElementCourseImage),
		image(models.AttrBannerImageAssetPath, ControlBannerImage, models.AttrBannerImageName, ElementBannerImage),
		image(models.AttrVideoThumbnailImageAssetPath, ControlThumbnailImage, models.AttrVideoThumbnailImageName, ElementThumbnailImage),
		{Field: models.AttrPreRequisiteCourses, Control: ControlPreRequisite, Kind: PlainField, Coerce: coercePrerequisite},
		{Field: models.AttrEntranceExamEnabled, Control: ControlEntranceExam, Kind: ToggleField, Reveal: ElementGradePanel},
		{Field: models.AttrEntranceExamMinimumScorePct, Control: ControlEntranceExamPct, Kind: PlainField, Coerce: coerceMinimumScore},
		{Field: models.AttrSelfPaced, Control: ControlSelfPaced, Kind: ToggleField, Radio: true, RadioValue: "true", Coerce: coercePace},
		{Field: models.AttrSelfPaced, Control: ControlInstructorPaced, Kind: ToggleField, Radio: true, RadioValue: "false", Coerce: coercePace},
		toggle(models.AttrMobile),
		toggle(models.AttrPathway),
		toggle(models.AttrVerified),
		toggle(models.AttrVREnabled),
	}
	for _, field := range []string{
		models.AttrYammer,
		models.AttrLevel,
		models.AttrAvailabilityStatus,
		models.AttrStreams,
		models.AttrTags,
		models.AttrObjectives,
		models.AttrCoursePrerequisites,
		models.AttrInstructors,
		models.AttrInstructorDesigners,
		models.AttrStandard,
		models.AttrPrice,
	} {
		bindings = append(bindings, plain(field, CustomControl(field)))
	}
	bindings = append(bindings,
		Binding{Field: models.AttrLearningInfo, Prefix: PrefixLearningInfo, Kind: ListItemField},
		instructor("name"),
		instructor("title"),
		instructor("organization"),
		instructor("bio"),
		instructor("image"),
	)
	return bindings
}

// DefaultFieldMap builds the field map of the course settings page
func DefaultFieldMap() *FieldMap {
	m, err := NewFieldMap(DefaultBindings()...)
	if err != nil {
		panic(err)
	}
	return m
}

func coercePrerequisite(_ *models.Course, el *surface.Element) (interface{}, bool) {
	if el.Value == "" {
		return []string{}, true
	}
	return []string{el.Value}, true
}

// An empty score restores the schema default rather than storing "".
func coerceMinimumScore(c *models.Course, el *surface.Element) (interface{}, bool) {
	if el.Value == "" {
		return c.Default(models.AttrEntranceExamMinimumScorePct), true
	}
	return el.Value, true
}

func coercePace(_ *models.Course, el *surface.Element) (interface{}, bool) {
	selfPaced, err := strconv.ParseBool(el.Attr("value"))
	if err != nil {
		return nil, false
	}
	return selfPaced, true
}
