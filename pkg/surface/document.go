// Package surface holds the form controls a settings view binds to.
// It plays the role of the page: every element has a stable id, a value,
// checked/disabled/hidden flags, display text and free-form attributes
// such as data-display-name or src.
package surface

import "sort"

// Element is one addressable control or container
type Element struct {
	ID       string
	Value    string
	Checked  bool
	Disabled bool
	Hidden   bool
	Text     string
	Attrs    map[string]string
}

// Attr returns an attribute value
func (e *Element) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// SetAttr sets an attribute value
func (e *Element) SetAttr(name, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
}

// Document is an ordered collection of elements keyed by id
type Document struct {
	elements map[string]*Element
	order    []string
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Ensure returns the element with id, creating it when missing
func (d *Document) Ensure(id string) *Element {
	if el, ok := d.elements[id]; ok {
		return el
	}
	el := &Element{ID: id}
	d.elements[id] = el
	d.order = append(d.order, id)
	return el
}

// Element looks up an element
func (d *Document) Element(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// IDs returns element ids in insertion order
func (d *Document) IDs() []string {
	return append([]string(nil), d.order...)
}

// IDsWithPrefix returns matching element ids sorted lexically
func (d *Document) IDsWithPrefix(prefix string) []string {
	var ids []string
	for _, id := range d.order {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Remove deletes an element
func (d *Document) Remove(id string) {
	if _, ok := d.elements[id]; !ok {
		return
	}
	delete(d.elements, id)
	for i, existing := range d.order {
		if existing == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Value returns the value of id, or "" when missing
func (d *Document) Value(id string) string {
	if el, ok := d.elements[id]; ok {
		return el.Value
	}
	return ""
}

// SetValue writes the value of id
func (d *Document) SetValue(id, value string) {
	d.Ensure(id).Value = value
}

// Checked reports the checked flag of id
func (d *Document) Checked(id string) bool {
	if el, ok := d.elements[id]; ok {
		return el.Checked
	}
	return false
}

// SetChecked writes the checked flag of id
func (d *Document) SetChecked(id string, checked bool) {
	d.Ensure(id).Checked = checked
}

// SetDisabled writes the disabled flag of id
func (d *Document) SetDisabled(id string, disabled bool) {
	d.Ensure(id).Disabled = disabled
}

// Show makes id visible
func (d *Document) Show(id string) {
	d.Ensure(id).Hidden = false
}

// Hide makes id invisible
func (d *Document) Hide(id string) {
	d.Ensure(id).Hidden = true
}

// Visible reports whether id exists and is not hidden
func (d *Document) Visible(id string) bool {
	el, ok := d.elements[id]
	return ok && !el.Hidden
}

// SetText writes the display text of id
func (d *Document) SetText(id, text string) {
	d.Ensure(id).Text = text
}

// Text returns the display text of id
func (d *Document) Text(id string) string {
	if el, ok := d.elements[id]; ok {
		return el.Text
	}
	return ""
}

// Attr returns an attribute of id
func (d *Document) Attr(id, name string) string {
	if el, ok := d.elements[id]; ok {
		return el.Attr(name)
	}
	return ""
}

// SetAttr writes an attribute of id
func (d *Document) SetAttr(id, name, value string) {
	d.Ensure(id).SetAttr(name, value)
}
