// Package validation checks the course after edits and keeps the resulting
// per-attribute error messages until they are corrected or the course reloads.
package validation

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pluqqy/coursekit/internal/logger"
	"github.com/pluqqy/coursekit/pkg/models"
)

// State is the outcome of the last validation
type State int

const (
	Pending State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "pending"
}

// FieldError is a validation failure for one attribute
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Error carries every failing attribute
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "invalid course settings: " + strings.Join(parts, "; ")
}

type schedule struct {
	StartDate       string `json:"start_date" validate:"required,coursedate"`
	EndDate         string `json:"end_date" validate:"omitempty,coursedate"`
	EnrollmentStart string `json:"enrollment_start" validate:"omitempty,coursedate"`
	EnrollmentEnd   string `json:"enrollment_end" validate:"omitempty,coursedate"`
}

type record struct {
	Schedule                    schedule `json:"schedule"`
	IntroVideo                  string   `json:"intro_video" validate:"omitempty,videoid"`
	EntranceExamMinimumScorePct string   `json:"entrance_exam_minimum_score_pct" validate:"omitempty,percent"`
	Objectives                  string   `json:"objectives" validate:"jsonlist"`
	CoursePrerequisites         string   `json:"course_prerequisites" validate:"jsonlist"`
	Instructors                 string   `json:"instructors" validate:"jsonlist"`
	InstructorDesigners         string   `json:"instructor_designers" validate:"jsonlist"`
	Price                       string   `json:"price" validate:"omitempty,numeric"`
}

func recordOf(c *models.Course) record {
	return record{
		Schedule: schedule{
			StartDate:       c.String(models.AttrStartDate),
			EndDate:         c.String(models.AttrEndDate),
			EnrollmentStart: c.String(models.AttrEnrollmentStart),
			EnrollmentEnd:   c.String(models.AttrEnrollmentEnd),
		},
		IntroVideo:                  c.String(models.AttrIntroVideo),
		EntranceExamMinimumScorePct: c.String(models.AttrEntranceExamMinimumScorePct),
		Objectives:                  c.String(models.AttrObjectives),
		CoursePrerequisites:         c.String(models.AttrCoursePrerequisites),
		Instructors:                 c.String(models.AttrInstructors),
		InstructorDesigners:         c.String(models.AttrInstructorDesigners),
		Price:                       strings.TrimSpace(c.String(models.AttrPrice)),
	}
}

// Gate writes attributes and tracks whether the course is valid.
// Writes always land; failures only record messages.
type Gate struct {
	course *models.Course
	log    *logger.Logger
	errors map[string]string
	state  State
}

func NewGate(course *models.Course, log *logger.Logger) *Gate {
	return &Gate{
		course: course,
		log:    logger.OrNop(log),
		errors: make(map[string]string),
	}
}

// Commit writes value and revalidates. It reports whether attr is valid.
func (g *Gate) Commit(attr string, value interface{}) bool {
	if !g.course.Set(attr, value) {
		g.log.Debug("commit to unknown attribute ignored", "attr", attr)
	}
	g.Validate()
	_, failed := g.errors[attr]
	return !failed
}

// Validate recomputes the error set from the current course
func (g *Gate) Validate() bool {
	errs := make(map[string]string)
	err := Validate.Struct(recordOf(g.course))

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = fe.Translate(Translator)
			}
		}
	} else if err != nil {
		g.log.Error("validation failed to run", "error", err)
		errs["_"] = err.Error()
	}

	g.errors = errs
	if len(errs) > 0 {
		g.state = Invalid
		return false
	}
	g.state = Valid
	return true
}

// State reports the outcome of the last validation
func (g *Gate) State() State {
	return g.state
}

// Invalid reports whether the last validation failed
func (g *Gate) Invalid() bool {
	return g.state == Invalid
}

// Errors returns the recorded failures sorted by attribute
func (g *Gate) Errors() []FieldError {
	out := make([]FieldError, 0, len(g.errors))
	for field, msg := range g.errors {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// ErrorFor returns the message recorded for attr
func (g *Gate) ErrorFor(attr string) (string, bool) {
	msg, ok := g.errors[attr]
	return msg, ok
}

// Err returns the recorded failures as an error, or nil
func (g *Gate) Err() error {
	if len(g.errors) == 0 {
		return nil
	}
	return &Error{Fields: g.Errors()}
}

// Clear drops displayed errors until the next validation
func (g *Gate) Clear() {
	g.errors = make(map[string]string)
	if g.state == Invalid {
		g.state = Pending
	}
}

// Reset forgets every error, used when the course is reloaded
func (g *Gate) Reset() {
	g.errors = make(map[string]string)
	g.state = Pending
}

// parse returns the date and whether it parsed
func parse(s string) (time.Time, bool) {
	t, err := models.ParseDate(s)
	return t, err == nil
}
