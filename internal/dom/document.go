package dom

import "strings"

// Document owns a tree of nodes plus a window-level event target, the focused
// element and the current location.
type Document struct {
	root   *Node
	body   *Node
	window EventTarget
	active *Node

	path string
	hash string
}

// NewDocument returns a document with an html root and a body element.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.CreateElement("html")
	d.body = d.CreateElement("body")
	d.root.AppendChild(d.body)
	return d
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{tag: tag, doc: d}
}

// Element is a convenience constructor that sets the id and extra attributes
// given as name/value pairs.
func (d *Document) Element(tag, id string, attrs ...string) *Node {
	n := d.CreateElement(tag)
	if id != "" {
		n.SetAttr("id", id)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.SetAttr(attrs[i], attrs[i+1])
	}
	return n
}

// Root returns the document element.
func (d *Document) Root() *Node { return d.root }

// Body returns the body element.
func (d *Document) Body() *Node { return d.body }

// Window returns the window event target.
func (d *Document) Window() *EventTarget { return &d.window }

// DispatchWindow delivers e to window listeners only.
func (d *Document) DispatchWindow(e *Event) {
	d.window.fire(e)
}

// GetElementByID finds an attached element by id.
func (d *Document) GetElementByID(id string) *Node {
	id = strings.TrimPrefix(id, "#")
	if id == "" {
		return nil
	}
	var found *Node
	d.root.walk(func(n *Node) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// ActiveElement returns the focused element, or nil when the focused element
// has been detached or nothing has focus.
func (d *Document) ActiveElement() *Node {
	if d.active != nil && !d.active.Attached() {
		d.active = nil
	}
	return d.active
}

// Focus moves focus to n. Focusing a detached node is a no-op.
func (d *Document) Focus(n *Node) {
	if n == nil || !n.Attached() {
		return
	}
	d.active = n
}

// Blur clears focus.
func (d *Document) Blur() { d.active = nil }

// Location returns the current path and fragment as a single string.
func (d *Document) Location() string {
	if d.hash == "" {
		return d.path
	}
	return d.path + "#" + d.hash
}

// Path returns the location path.
func (d *Document) Path() string { return d.path }

// Hash returns the location fragment without the leading '#'.
func (d *Document) Hash() string { return d.hash }

// SetLocation replaces path and fragment from a "path#fragment" string.
func (d *Document) SetLocation(loc string) {
	d.path, d.hash, _ = strings.Cut(loc, "#")
}

// ReplaceHash changes only the fragment, like history.replaceState.
func (d *Document) ReplaceHash(hash string) {
	d.hash = strings.TrimPrefix(hash, "#")
}
