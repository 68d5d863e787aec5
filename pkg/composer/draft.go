package composer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/pluqqy/coursekit/pkg/directory"
	"github.com/pluqqy/coursekit/pkg/models"
)

// ErrMalformedList is returned when a catalogue list is not valid JSON
var ErrMalformedList = errors.New("malformed list")

// Role is the staff section a person is listed under
type Role int

const (
	RoleInstructor Role = iota
	RoleDesigner
)

func (r Role) String() string {
	if r == RoleDesigner {
		return "instructional designer"
	}
	return "instructor"
}

// Sources are the course fields an overview is built from
type Sources struct {
	Description   string
	Objectives    []string
	Prerequisites []string
	Instructors   []string
	Designers     []string
}

// HasStaff reports whether any person is referenced
func (s Sources) HasStaff() bool {
	return len(s.Instructors) > 0 || len(s.Designers) > 0
}

// ParseSources reads and decodes the overview inputs. Any malformed list
// fails the whole parse.
func ParseSources(c *models.Course) (Sources, error) {
	s := Sources{Description: c.String(models.AttrShortDescription)}
	for _, f := range []struct {
		attr string
		dst  *[]string
	}{
		{models.AttrObjectives, &s.Objectives},
		{models.AttrCoursePrerequisites, &s.Prerequisites},
		{models.AttrInstructors, &s.Instructors},
		{models.AttrInstructorDesigners, &s.Designers},
	} {
		items, err := models.ParseList(c.String(f.attr))
		if err != nil {
			return Sources{}, fmt.Errorf("%w in %s: %v", ErrMalformedList, f.attr, err)
		}
		*f.dst = items
	}
	return s, nil
}

type slot struct {
	Role    Role
	Name    string
	Profile *directory.Profile
	Failed  bool
}

// Draft accumulates one overview composition. Staff slots keep reference
// order so the result does not depend on lookup arrival order.
type Draft struct {
	Invocation uint64
	Sources    Sources
	slots      []slot
	pushed     bool
}

func newDraft(invocation uint64, s Sources) *Draft {
	d := &Draft{Invocation: invocation, Sources: s}
	for _, name := range s.Instructors {
		d.slots = append(d.slots, slot{Role: RoleInstructor, Name: name})
	}
	for _, name := range s.Designers {
		d.slots = append(d.slots, slot{Role: RoleDesigner, Name: name})
	}
	return d
}

// Outstanding counts lookups that have neither resolved nor failed
func (d *Draft) Outstanding() int {
	n := 0
	for _, s := range d.slots {
		if s.Profile == nil && !s.Failed {
			n++
		}
	}
	return n
}

// Pushed reports whether the draft has been written to the overview editor
func (d *Draft) Pushed() bool {
	return d.pushed
}

// Missing lists the people whose lookup failed
func (d *Draft) Missing() []string {
	var out []string
	for _, s := range d.slots {
		if s.Failed {
			out = append(out, s.Name)
		}
	}
	return out
}

type person struct {
	Name        string
	Description string
	Image       string
}

type view struct {
	Description     template.HTML
	Objectives      []template.HTML
	Prerequisites   []template.HTML
	Staff           bool
	ShowInstructors bool
	ShowDesigners   bool
	Instructors     []person
	Designers       []person
}

var overviewTemplate = template.Must(template.New("overview").Parse(`<section class="course-description">
<h2 class="main-header">About This Course</h2>
{{.Description}}
</section>
{{- if .Objectives}}
<section class="learning-objectives">
<h2 class="main-header">You Will Learn To</h2>
<ul>{{range .Objectives}}<li>{{.}}</li>{{end}}</ul>
</section>
{{- end}}
{{- if .Prerequisites}}
<section class="pre-requisites">
<h2 class="main-header">Pre-requisites</h2>
<ul>{{range .Prerequisites}}<li>{{.}}</li>{{end}}</ul>
</section>
{{- end}}
{{- if .Staff}}
<section class="course-staff">
<h2 class="main-header">Course Staff</h2>
{{- if .ShowInstructors}}
<section class="course-staff-instructor">
<h3 class="sub-header">Instructors</h3>
{{- range .Instructors}}{{template "person" .}}{{end}}
</section>
{{- end}}
{{- if .ShowDesigners}}
<section class="course-staff-instructional-designer">
<h3 class="sub-header">Instructional Designer</h3>
{{- range .Designers}}{{template "person" .}}{{end}}
</section>
{{- end}}
</section>
{{- end}}
{{define "person"}}
<div class="staff-member">
{{- if .Image}}
<span><img src="{{.Image}}" alt="{{.Name}}"></span>
{{- end}}
<span class="name">{{.Name}}</span><br>
<span class="description">{{.Description}}</span>
</div>
<hr>
{{- end}}`))

func authored(items []string) []template.HTML {
	out := make([]template.HTML, len(items))
	for i, item := range items {
		out[i] = template.HTML(item)
	}
	return out
}

// Render produces the overview HTML for the profiles resolved so far.
// The short description, objectives and prerequisites are authored HTML
// and are kept as is; directory data is escaped.
func (d *Draft) Render() (string, error) {
	v := view{
		Description:     template.HTML(d.Sources.Description),
		Objectives:      authored(d.Sources.Objectives),
		Prerequisites:   authored(d.Sources.Prerequisites),
		Staff:           d.Sources.HasStaff(),
		ShowInstructors: len(d.Sources.Instructors) > 0,
		ShowDesigners:   len(d.Sources.Designers) > 0,
	}
	for _, s := range d.slots {
		if s.Profile == nil {
			continue
		}
		p := person{Name: s.Profile.Name, Description: s.Profile.Description, Image: s.Profile.ImageURL}
		if s.Role == RoleDesigner {
			v.Designers = append(v.Designers, p)
		} else {
			v.Instructors = append(v.Instructors, p)
		}
	}

	var buf bytes.Buffer
	if err := overviewTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render overview: %w", err)
	}
	return buf.String(), nil
}
