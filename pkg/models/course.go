package models

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ChangeFunc is called after an attribute value changes
type ChangeFunc func(name string, value interface{})

type observer struct {
	id int
	fn ChangeFunc
}

// Course is the in-memory course settings model.
// It is not safe for concurrent use; every mutation happens on the UI loop.
type Course struct {
	ID string

	attrs     map[string]interface{}
	changed   map[string]struct{}
	revision  uint64
	observers map[string][]observer
	catchAll  []observer
	nextID    int
}

// NewCourse builds a course from raw values, filling defaults for every
// schema attribute. Unknown keys are dropped.
func NewCourse(id string, values map[string]interface{}) *Course {
	c := &Course{
		ID:        id,
		observers: make(map[string][]observer),
	}
	c.load(values)
	return c
}

func (c *Course) load(values map[string]interface{}) {
	c.attrs = make(map[string]interface{}, len(Schema))
	c.changed = make(map[string]struct{})
	for _, attr := range Schema {
		c.attrs[attr.Name] = copyValue(attr.Default)
	}
	for name, raw := range values {
		attr, ok := schemaIndex[name]
		if !ok {
			continue
		}
		c.attrs[name] = coerce(attr.Kind, raw)
	}
}

// Known reports whether name is a schema attribute
func (c *Course) Known(name string) bool {
	_, ok := schemaIndex[name]
	return ok
}

// Get returns a copy of the attribute value, or nil for unknown names
func (c *Course) Get(name string) interface{} {
	v, ok := c.attrs[name]
	if !ok {
		return nil
	}
	return copyValue(v)
}

// String returns the attribute rendered as a string
func (c *Course) String(name string) string {
	switch v := c.attrs[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the attribute as a bool. String flags are true only when "true".
func (c *Course) Bool(name string) bool {
	switch v := c.attrs[name].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// StringList returns a copy of a list attribute
func (c *Course) StringList(name string) []string {
	v, _ := c.attrs[name].([]string)
	return append([]string(nil), v...)
}

// Instructors returns a copy of instructor_info.instructors
func (c *Course) Instructors() []Instructor {
	info, _ := c.attrs[AttrInstructorInfo].(InstructorInfo)
	return append([]Instructor(nil), info.Instructors...)
}

// Has reports whether the attribute holds a non-empty value
func (c *Course) Has(name string) bool {
	switch v := c.attrs[name].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	case InstructorInfo:
		return len(v.Instructors) > 0
	}
	return true
}

// Default returns the schema default for name
func (c *Course) Default(name string) interface{} {
	attr, ok := schemaIndex[name]
	if !ok {
		return nil
	}
	return copyValue(attr.Default)
}

// Set writes an attribute. Writing an unknown key is a no-op that returns false.
// Observers fire only when the stored value actually changes.
func (c *Course) Set(name string, value interface{}) bool {
	attr, ok := schemaIndex[name]
	if !ok {
		return false
	}
	next := coerce(attr.Kind, value)
	if reflect.DeepEqual(c.attrs[name], next) {
		return true
	}
	c.attrs[name] = next
	c.changed[name] = struct{}{}
	c.revision++
	c.notify(name, next)
	return true
}

// SetMany writes several attributes, firing observers per attribute in key order
func (c *Course) SetMany(values map[string]interface{}) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.Set(name, values[name])
	}
}

func (c *Course) notify(name string, value interface{}) {
	for _, o := range c.observers[name] {
		o.fn(name, copyValue(value))
	}
	for _, o := range c.catchAll {
		o.fn(name, copyValue(value))
	}
}

// Observe registers fn for changes of one attribute and returns an unsubscribe func
func (c *Course) Observe(name string, fn ChangeFunc) func() {
	c.nextID++
	id := c.nextID
	c.observers[name] = append(c.observers[name], observer{id: id, fn: fn})
	return func() {
		list := c.observers[name]
		for i, o := range list {
			if o.id == id {
				c.observers[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// ObserveAll registers fn for changes of any attribute
func (c *Course) ObserveAll(fn ChangeFunc) func() {
	c.nextID++
	id := c.nextID
	c.catchAll = append(c.catchAll, observer{id: id, fn: fn})
	return func() {
		for i, o := range c.catchAll {
			if o.id == id {
				c.catchAll = append(c.catchAll[:i:i], c.catchAll[i+1:]...)
				return
			}
		}
	}
}

// Dirty reports whether any attribute changed since the last clean point
func (c *Course) Dirty() bool {
	return len(c.changed) > 0
}

// ChangedAttributes lists attributes changed since the last clean point
func (c *Course) ChangedAttributes() []string {
	names := make([]string, 0, len(c.changed))
	for name := range c.changed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Revision increases on every effective change
func (c *Course) Revision() uint64 {
	return c.revision
}

// MarkClean clears dirty state if nothing changed after revision rev
func (c *Course) MarkClean(rev uint64) bool {
	if c.revision != rev {
		return false
	}
	c.changed = make(map[string]struct{})
	return true
}

// Snapshot returns a deep copy of every attribute
func (c *Course) Snapshot() map[string]interface{} {
	out := make(map[string]interface{}, len(c.attrs))
	for name, v := range c.attrs {
		out[name] = copyValue(v)
	}
	return out
}

// Reset replaces every attribute without notifying observers and clears dirty state
func (c *Course) Reset(values map[string]interface{}) {
	c.load(values)
	c.revision++
}

// CanTogglePace reports whether pacing may still change: only before the course starts
func (c *Course) CanTogglePace(now time.Time) bool {
	start, err := ParseDate(c.String(AttrStartDate))
	if err != nil {
		return true
	}
	return now.Before(start)
}

// ParseDate accepts RFC 3339 timestamps and plain dates
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func coerce(kind Kind, v interface{}) interface{} {
	switch kind {
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b
		case string:
			return b == "true"
		}
		return false
	case KindStringList:
		return toStringList(v)
	case KindInstructors:
		return toInstructorInfo(v)
	default:
		switch s := v.(type) {
		case nil:
			return ""
		case string:
			return s
		case bool:
			return strconv.FormatBool(s)
		default:
			return fmt.Sprint(s)
		}
	}
}

func toStringList(v interface{}) []string {
	switch l := v.(type) {
	case []string:
		return append([]string{}, l...)
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if l == "" {
			return []string{}
		}
		return []string{l}
	}
	return []string{}
}

func toInstructorInfo(v interface{}) InstructorInfo {
	switch info := v.(type) {
	case InstructorInfo:
		return InstructorInfo{Instructors: append([]Instructor{}, info.Instructors...)}
	case []Instructor:
		return InstructorInfo{Instructors: append([]Instructor{}, info...)}
	case map[string]interface{}:
		items, _ := info["instructors"].([]interface{})
		out := InstructorInfo{Instructors: make([]Instructor, 0, len(items))}
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			out.Instructors = append(out.Instructors, Instructor{
				Name:         stringField(m, "name"),
				Title:        stringField(m, "title"),
				Organization: stringField(m, "organization"),
				Image:        stringField(m, "image"),
				Bio:          stringField(m, "bio"),
			})
		}
		return out
	}
	return InstructorInfo{Instructors: []Instructor{}}
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []string:
		return append([]string{}, t...)
	case InstructorInfo:
		return InstructorInfo{Instructors: append([]Instructor{}, t.Instructors...)}
	}
	return v
}
