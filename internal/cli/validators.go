package cli

import (
	"fmt"
	"strings"

	"github.com/pluqqy/coursekit/pkg/models"
)

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateCourseID validates a course id given on the command line
func ValidateCourseID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("course id cannot be empty")
	}

	invalidChars := []string{"/", "\\", "..", "~", "$", "`"}
	for _, char := range invalidChars {
		if strings.Contains(id, char) {
			return fmt.Errorf("course id contains invalid character: %s", char)
		}
	}
	return nil
}

// ValidateField checks that field is a course attribute that can be set
// from a single string
func ValidateField(field string) (models.Attribute, error) {
	attr, ok := models.LookupAttribute(field)
	if !ok {
		return models.Attribute{}, fmt.Errorf("unknown field: %s", field)
	}
	if attr.Kind == models.KindInstructors {
		return models.Attribute{}, fmt.Errorf("field %s is a record; edit it with 'coursekit edit'", field)
	}
	return attr, nil
}
