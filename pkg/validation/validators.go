package validation

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/pluqqy/coursekit/pkg/models"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	dateTag             = "coursedate"
	videoIDTag          = "videoid"
	percentTag          = "percent"
	jsonListTag         = "jsonlist"
	endAfterStartTag    = "end_after_start"
	enrollOrderTag      = "enrollment_order"
	startAfterEnrollTag = "start_after_enrollment"
	enrollEndTag        = "enrollment_end_before_end"

	customMessages = map[string]string{
		dateTag:             "must be a date (YYYY-MM-DD or RFC 3339)",
		videoIDTag:          "Key should only contain letters, numbers, _, or -",
		percentTag:          "Please enter an integer between 0 and 100.",
		jsonListTag:         "must be a JSON list of strings",
		endAfterStartTag:    "The course end date must be later than the course start date.",
		enrollOrderTag:      "The enrollment start date cannot be after the enrollment end date.",
		startAfterEnrollTag: "The course start date must be later than the enrollment start date.",
		enrollEndTag:        "The enrollment end date cannot be after the course end date.",
	}

	videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// report errors under the course attribute name
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(dateTag, dateValidation)
	_ = Validate.RegisterValidation(videoIDTag, videoIDValidation)
	_ = Validate.RegisterValidation(percentTag, percentValidation)
	_ = Validate.RegisterValidation(jsonListTag, jsonListValidation)
	Validate.RegisterStructValidation(scheduleValidation, schedule{})

	registerFn := func(ut.Translator) error { return nil }
	for tag := range customMessages {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	return customMessages[fe.Tag()]
}

func dateValidation(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

func videoIDValidation(fl validator.FieldLevel) bool {
	return videoIDPattern.MatchString(fl.Field().String())
}

func percentValidation(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= 0 && n <= 100
}

func jsonListValidation(fl validator.FieldLevel) bool {
	_, err := models.ParseList(fl.Field().String())
	return err == nil
}

// scheduleValidation checks the ordering of the course and enrollment dates.
// Dates that do not parse are left to the field validators.
func scheduleValidation(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(schedule)
	if !ok {
		return
	}
	start, startOK := parse(s.StartDate)
	end, endOK := parse(s.EndDate)
	enrollStart, enrollStartOK := parse(s.EnrollmentStart)
	enrollEnd, enrollEndOK := parse(s.EnrollmentEnd)

	if startOK && endOK && !end.After(start) {
		sl.ReportError(s.EndDate, "end_date", "EndDate", endAfterStartTag, "")
	}
	if enrollStartOK && enrollEndOK && enrollStart.After(enrollEnd) {
		sl.ReportError(s.EnrollmentStart, "enrollment_start", "EnrollmentStart", enrollOrderTag, "")
	}
	if startOK && enrollStartOK && start.Before(enrollStart) {
		sl.ReportError(s.StartDate, "start_date", "StartDate", startAfterEnrollTag, "")
	}
	if endOK && enrollEndOK && enrollEnd.After(end) {
		sl.ReportError(s.EnrollmentEnd, "enrollment_end", "EnrollmentEnd", enrollEndTag, "")
	}
}
