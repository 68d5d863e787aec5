package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/pluqqy/coursekit/pkg/models"
)

func validCourse() *models.Course {
	return models.NewCourse("c", map[string]interface{}{
		models.AttrStartDate:       "2030-02-01",
		models.AttrEndDate:         "2030-06-01",
		models.AttrEnrollmentStart: "2030-01-01",
		models.AttrEnrollmentEnd:   "2030-05-01",
	})
}

func TestGateStates(t *testing.T) {
	g := NewGate(validCourse(), nil)
	if g.State() != Pending {
		t.Fatalf("new gate should be pending, got %s", g.State())
	}
	if !g.Validate() || g.State() != Valid {
		t.Fatalf("valid course reported %s: %v", g.State(), g.Errors())
	}
	// idempotent
	if !g.Validate() || len(g.Errors()) != 0 {
		t.Errorf("second validation changed the outcome")
	}
}

func TestGateRules(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		value   interface{}
		errAttr string
		message string
	}{
		{"missing start", models.AttrStartDate, "", models.AttrStartDate, "required"},
		{"unparseable end", models.AttrEndDate, "next june", models.AttrEndDate, "must be a date"},
		{"end before start", models.AttrEndDate, "2030-01-15", models.AttrEndDate, "later than the course start date"},
		{"enrollment inverted", models.AttrEnrollmentStart, "2030-05-15", models.AttrEnrollmentStart, "cannot be after the enrollment end"},
		{"start before enrollment", models.AttrStartDate, "2029-12-01", models.AttrStartDate, "later than the enrollment start"},
		{"enrollment ends after course", models.AttrEnrollmentEnd, "2030-07-01", models.AttrEnrollmentEnd, "cannot be after the course end"},
		{"video key", models.AttrIntroVideo, "not a key!", models.AttrIntroVideo, "letters, numbers"},
		{"score range", models.AttrEntranceExamMinimumScorePct, "101", models.AttrEntranceExamMinimumScorePct, "between 0 and 100"},
		{"score text", models.AttrEntranceExamMinimumScorePct, "half", models.AttrEntranceExamMinimumScorePct, "between 0 and 100"},
		{"objectives json", models.AttrObjectives, `["unterminated`, models.AttrObjectives, "JSON list"},
		{"instructors json", models.AttrInstructors, `{"a":1}`, models.AttrInstructors, "JSON list"},
		{"price", models.AttrPrice, "ten", models.AttrPrice, "numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(validCourse(), nil)
			if g.Commit(tt.attr, tt.value) && tt.attr == tt.errAttr {
				t.Errorf("Commit reported %s valid", tt.attr)
			}
			if g.State() != Invalid {
				t.Fatalf("state = %s, want invalid", g.State())
			}
			msg, ok := g.ErrorFor(tt.errAttr)
			if !ok {
				t.Fatalf("no error for %s, got %v", tt.errAttr, g.Errors())
			}
			if !strings.Contains(msg, tt.message) {
				t.Errorf("message %q does not contain %q", msg, tt.message)
			}
		})
	}
}

func TestCommitAlwaysWrites(t *testing.T) {
	course := validCourse()
	g := NewGate(course, nil)

	g.Commit(models.AttrPrice, "free")
	if course.String(models.AttrPrice) != "free" {
		t.Errorf("invalid value should still be stored")
	}
}

func TestErrorsAccumulateUntilCorrected(t *testing.T) {
	g := NewGate(validCourse(), nil)
	g.Commit(models.AttrPrice, "ten")
	g.Commit(models.AttrObjectives, "[")

	if n := len(g.Errors()); n != 2 {
		t.Fatalf("got %d errors, want 2: %v", n, g.Errors())
	}

	g.Commit(models.AttrPrice, "10")
	errs := g.Errors()
	if len(errs) != 1 || errs[0].Field != models.AttrObjectives {
		t.Errorf("errors = %v, want only objectives", errs)
	}

	var verr *Error
	if !errors.As(g.Err(), &verr) || len(verr.Fields) != 1 {
		t.Errorf("Err() = %v", g.Err())
	}
}

func TestResetAndClear(t *testing.T) {
	g := NewGate(validCourse(), nil)
	g.Commit(models.AttrPrice, "ten")

	g.Clear()
	if g.State() != Pending || len(g.Errors()) != 0 {
		t.Errorf("Clear should drop errors")
	}
	if g.Validate() {
		t.Errorf("clearing must not hide the error from the next validation")
	}

	g.Reset()
	if g.State() != Pending || g.Err() != nil {
		t.Errorf("Reset should return to pending")
	}
}
