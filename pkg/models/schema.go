package models

// Kind describes the shape of a course attribute value
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindStringList
	KindInstructors
)

// Attribute describes one recognized course attribute
type Attribute struct {
	Name    string
	Kind    Kind
	Default interface{}
}

// Instructor is one entry of the instructor_info record
type Instructor struct {
	Name         string `yaml:"name" json:"name"`
	Title        string `yaml:"title" json:"title"`
	Organization string `yaml:"organization" json:"organization"`
	Image        string `yaml:"image" json:"image"`
	Bio          string `yaml:"bio" json:"bio"`
}

// InstructorInfo is the value stored under instructor_info
type InstructorInfo struct {
	Instructors []Instructor `yaml:"instructors" json:"instructors"`
}

// Attribute names referenced outside the schema table
const (
	AttrLanguage                     = "language"
	AttrStartDate                    = "start_date"
	AttrEndDate                      = "end_date"
	AttrEnrollmentStart              = "enrollment_start"
	AttrEnrollmentEnd                = "enrollment_end"
	AttrOverview                     = "overview"
	AttrTitle                        = "title"
	AttrSubtitle                     = "subtitle"
	AttrDuration                     = "duration"
	AttrDescription                  = "description"
	AttrShortDescription             = "short_description"
	AttrIntroVideo                   = "intro_video"
	AttrEffort                       = "effort"
	AttrLicense                      = "license"
	AttrCourseImageName              = "course_image_name"
	AttrCourseImageAssetPath         = "course_image_asset_path"
	AttrBannerImageName              = "banner_image_name"
	AttrBannerImageAssetPath         = "banner_image_asset_path"
	AttrVideoThumbnailImageName      = "video_thumbnail_image_name"
	AttrVideoThumbnailImageAssetPath = "video_thumbnail_image_asset_path"
	AttrPreRequisiteCourses          = "pre_requisite_courses"
	AttrEntranceExamEnabled          = "entrance_exam_enabled"
	AttrEntranceExamMinimumScorePct  = "entrance_exam_minimum_score_pct"
	AttrSelfPaced                    = "self_paced"
	AttrLearningInfo                 = "learning_info"
	AttrInstructorInfo               = "instructor_info"
	AttrMobile                       = "mobile"
	AttrPathway                      = "pathway"
	AttrVerified                     = "verified"
	AttrVREnabled                    = "vr_enabled"
	AttrYammer                       = "yammer"
	AttrLevel                        = "level"
	AttrAvailabilityStatus           = "availability_status"
	AttrStreams                      = "streams"
	AttrTags                         = "tags"
	AttrObjectives                   = "objectives"
	AttrCoursePrerequisites          = "course_prerequisites"
	AttrInstructors                  = "instructors"
	AttrInstructorDesigners          = "instructor_designers"
	AttrStandard                     = "standard"
	AttrPrice                        = "price"
	AttrOrg                          = "org"
	AttrCourseID                     = "course_id"
	AttrRun                          = "run"
)

// Schema lists every attribute a course recognizes, in display order
var Schema = []Attribute{
	{AttrOrg, KindString, ""},
	{AttrCourseID, KindString, ""},
	{AttrRun, KindString, ""},
	{AttrLanguage, KindString, ""},
	{AttrStartDate, KindString, ""},
	{AttrEndDate, KindString, ""},
	{AttrEnrollmentStart, KindString, ""},
	{AttrEnrollmentEnd, KindString, ""},
	{AttrTitle, KindString, ""},
	{AttrSubtitle, KindString, ""},
	{AttrDuration, KindString, ""},
	{AttrDescription, KindString, ""},
	{AttrShortDescription, KindString, ""},
	{AttrOverview, KindString, ""},
	{AttrIntroVideo, KindString, ""},
	{AttrEffort, KindString, ""},
	{AttrLicense, KindString, ""},
	{AttrCourseImageName, KindString, ""},
	{AttrCourseImageAssetPath, KindString, ""},
	{AttrBannerImageName, KindString, ""},
	{AttrBannerImageAssetPath, KindString, ""},
	{AttrVideoThumbnailImageName, KindString, ""},
	{AttrVideoThumbnailImageAssetPath, KindString, ""},
	{AttrPreRequisiteCourses, KindStringList, []string{}},
	{AttrEntranceExamEnabled, KindString, "false"},
	{AttrEntranceExamMinimumScorePct, KindString, "50"},
	{AttrSelfPaced, KindBool, false},
	{AttrLearningInfo, KindStringList, []string{}},
	{AttrInstructorInfo, KindInstructors, InstructorInfo{Instructors: []Instructor{}}},
	{AttrMobile, KindString, "false"},
	{AttrPathway, KindString, "false"},
	{AttrVerified, KindString, "false"},
	{AttrVREnabled, KindString, "false"},
	{AttrYammer, KindString, ""},
	{AttrLevel, KindString, ""},
	{AttrAvailabilityStatus, KindString, ""},
	{AttrStreams, KindString, ""},
	{AttrTags, KindString, ""},
	{AttrObjectives, KindString, "[]"},
	{AttrCoursePrerequisites, KindString, "[]"},
	{AttrInstructors, KindString, "[]"},
	{AttrInstructorDesigners, KindString, "[]"},
	{AttrStandard, KindString, ""},
	{AttrPrice, KindString, ""},
}

var schemaIndex = func() map[string]Attribute {
	idx := make(map[string]Attribute, len(Schema))
	for _, attr := range Schema {
		idx[attr.Name] = attr
	}
	return idx
}()

// LookupAttribute returns the schema entry for name
func LookupAttribute(name string) (Attribute, bool) {
	attr, ok := schemaIndex[name]
	return attr, ok
}
