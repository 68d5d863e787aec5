package settings

import (
	"strconv"

	"github.com/pluqqy/coursekit/pkg/fieldsync"
	"github.com/pluqqy/coursekit/pkg/models"
	"github.com/pluqqy/coursekit/pkg/surface"
)

// InputType tells the terminal UI how to draw and edit a row
type InputType int

const (
	InputText InputType = iota
	InputTextArea
	InputRichText
	InputCheckbox
	InputRadio
	InputSelect
	InputImage
	InputVideo
	InputReadOnly
	InputNote
	InputList
	InputButton
)

func (t InputType) String() string {
	switch t {
	case InputText:
		return "text"
	case InputTextArea:
		return "textarea"
	case InputRichText:
		return "richtext"
	case InputCheckbox:
		return "checkbox"
	case InputRadio:
		return "radio"
	case InputSelect:
		return "select"
	case InputImage:
		return "image"
	case InputVideo:
		return "video"
	case InputReadOnly:
		return "readonly"
	case InputNote:
		return "note"
	case InputList:
		return "list"
	case InputButton:
		return "button"
	}
	return "unknown"
}

// Row is one line of the settings page. List rows use a control prefix and
// expand to one line per entry.
type Row struct {
	Label   string
	Control string
	Input   InputType
	Help    string
	// Panel is a container element; the row is drawn only while it is visible
	Panel string
}

// Section groups rows under a heading
type Section struct {
	Title string
	Rows  []Row
}

// Buttons and read-only elements of the settings page
const (
	ButtonComposeOverview = "course-overview-update-btn"
	ButtonAddLearningInfo = "add-course-learning-info"
	ButtonAddInstructor   = "add-course-instructor-info"
	ButtonSave            = "action-save"
	ButtonRevert          = "action-cancel"

	UploadCourseImage         = "upload-course-image"
	UploadBannerImage         = "upload-banner-image"
	UploadVideoThumbnailImage = "upload-video-thumbnail-image"

	ElementOrganization = "course-organization"
	ElementNumber       = "course-number"
	ElementRun          = "course-name"
)

func custom(label, field string, input InputType) Row {
	return Row{Label: label, Control: fieldsync.CustomControl(field), Input: input}
}

// DefaultLayout returns the sections of the course settings page
func DefaultLayout() []Section {
	return []Section{
		{
			Title: "Basic Information",
			Rows: []Row{
				{Label: "Organization", Control: ElementOrganization, Input: InputReadOnly},
				{Label: "Course Number", Control: ElementNumber, Input: InputReadOnly},
				{Label: "Course Run", Control: ElementRun, Input: InputReadOnly},
				{Label: "Course Language", Control: "course-language", Input: InputText},
			},
		},
		{
			Title: "Course Schedule",
			Rows: []Row{
				{Label: "Course Start Date", Control: "course-start", Input: InputText, Help: "YYYY-MM-DD or RFC 3339"},
				{Label: "Course End Date", Control: "course-end", Input: InputText},
				{Label: "Enrollment Start Date", Control: "enrollment-start", Input: InputText},
				{Label: "Enrollment End Date", Control: "enrollment-end", Input: InputText},
			},
		},
		{
			Title: "Course Pacing",
			Rows: []Row{
				{Label: "Instructor-Paced", Control: fieldsync.ControlInstructorPaced, Input: InputRadio},
				{Label: "Self-Paced", Control: fieldsync.ControlSelfPaced, Input: InputRadio},
				{Control: fieldsync.ElementPaceTip, Input: InputNote},
			},
		},
		{
			Title: "Introducing Your Course",
			Rows: []Row{
				{Label: "Course Title", Control: fieldsync.ControlTitle, Input: InputText},
				{Label: "Course Subtitle", Control: "course-subtitle", Input: InputText},
				{Label: "Course Duration", Control: "course-duration", Input: InputText},
				{Label: "Course Description", Control: "course-description", Input: InputTextArea},
				{Label: "Course Short Description", Control: "course-short-description", Input: InputTextArea},
				{Label: "Course Overview", Control: fieldsync.ControlOverview, Input: InputRichText},
				{Label: "Generate Overview", Control: ButtonComposeOverview, Input: InputButton},
				{Label: "Course Image", Control: fieldsync.ControlCourseImage, Input: InputImage},
				{Label: "Upload Course Image", Control: UploadCourseImage, Input: InputButton},
				{Label: "Course Banner Image", Control: fieldsync.ControlBannerImage, Input: InputImage},
				{Label: "Upload Banner Image", Control: UploadBannerImage, Input: InputButton},
				{Label: "Course Video Thumbnail Image", Control: fieldsync.ControlThumbnailImage, Input: InputImage},
				{Label: "Upload Video Thumbnail", Control: UploadVideoThumbnailImage, Input: InputButton},
				{Label: "Course Introduction Video", Control: fieldsync.ControlIntroVideo, Input: InputVideo, Help: "YouTube URL or video id"},
				{Label: "Delete Current Video", Control: fieldsync.ElementRemoveVideo, Input: InputButton},
			},
		},
		{
			Title: "Learning Outcomes",
			Rows: []Row{
				{Label: "Learning Outcome", Control: fieldsync.PrefixLearningInfo, Input: InputList},
				{Label: "Add Learning Outcome", Control: ButtonAddLearningInfo, Input: InputButton},
			},
		},
		{
			Title: "Instructors",
			Rows: []Row{
				{Label: "Name", Control: "course-instructor-name-", Input: InputList},
				{Label: "Title", Control: "course-instructor-title-", Input: InputList},
				{Label: "Organization", Control: "course-instructor-organization-", Input: InputList},
				{Label: "Biography", Control: "course-instructor-bio-", Input: InputList},
				{Label: "Photo", Control: fieldsync.PrefixInstructorImage, Input: InputList},
				{Label: "Add Instructor", Control: ButtonAddInstructor, Input: InputButton},
			},
		},
		{
			Title: "Requirements",
			Rows: []Row{
				{Label: "Hours of Effort per Week", Control: "course-effort", Input: InputText},
				{Label: "Prerequisite Course", Control: fieldsync.ControlPreRequisite, Input: InputSelect},
				{Label: "Require students to pass an exam before beginning the course", Control: fieldsync.ControlEntranceExam, Input: InputCheckbox},
				{Label: "Minimum Score (%)", Control: fieldsync.ControlEntranceExamPct, Input: InputText, Panel: fieldsync.ElementGradePanel},
			},
		},
		{
			Title: "License",
			Rows: []Row{
				{Label: "Course Content License", Control: "course-license", Input: InputText},
			},
		},
		{
			Title: "Catalogue",
			Rows: []Row{
				custom("Mobile Available", models.AttrMobile, InputCheckbox),
				custom("Pathway", models.AttrPathway, InputCheckbox),
				custom("Verified", models.AttrVerified, InputCheckbox),
				custom("VR Enabled", models.AttrVREnabled, InputCheckbox),
				custom("Yammer Group", models.AttrYammer, InputText),
				custom("Level", models.AttrLevel, InputText),
				custom("Availability Status", models.AttrAvailabilityStatus, InputText),
				custom("Streams", models.AttrStreams, InputText),
				custom("Tags", models.AttrTags, InputText),
				custom("Standard", models.AttrStandard, InputText),
				custom("Price", models.AttrPrice, InputText),
			},
		},
		{
			Title: "Overview Sources",
			Rows: []Row{
				custom("Objectives", models.AttrObjectives, InputTextArea),
				custom("Course Prerequisites", models.AttrCoursePrerequisites, InputTextArea),
				custom("Instructors", models.AttrInstructors, InputText),
				custom("Instructional Designers", models.AttrInstructorDesigners, InputText),
			},
		},
	}
}

// buildDocument creates an element for every fixed row and tags it with its
// label and input type
func buildDocument(doc *surface.Document, layout []Section) {
	for _, section := range layout {
		for _, row := range section.Rows {
			if row.Control == "" || row.Input == InputList {
				continue
			}
			el := doc.Ensure(row.Control)
			el.SetAttr("label", row.Label)
			el.SetAttr("type", row.Input.String())
			if row.Input == InputReadOnly {
				el.Disabled = true
			}
		}
	}
}

// ListEntries returns the control ids currently rendered for a list row
func ListEntries(doc *surface.Document, prefix string) []string {
	var ids []string
	for i := 0; ; i++ {
		id := prefix + strconv.Itoa(i)
		if _, ok := doc.Element(id); !ok {
			return ids
		}
		ids = append(ids, id)
	}
}
