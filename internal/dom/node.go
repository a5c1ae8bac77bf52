package dom

import (
	"slices"
	"strings"
)

type attr struct {
	name  string
	value string
}

// Node is an element in a Document. Nodes are created by the rendering layer
// and are only ever touched from the host's event loop.
type Node struct {
	EventTarget

	tag       string
	attrs     []attr
	text      string
	parent    *Node
	children  []*Node
	doc       *Document
	observers []*observer
}

// Tag returns the element tag name.
func (n *Node) Tag() string { return n.tag }

// ID returns the value of the id attribute.
func (n *Node) ID() string {
	v, _ := n.Attr("id")
	return v
}

// Document returns the document that created n.
func (n *Node) Document() *Document { return n.doc }

// Attr returns the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// SetAttr sets an attribute, keeping its original position if it exists.
func (n *Node) SetAttr(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return
		}
	}
	n.attrs = append(n.attrs, attr{name: name, value: value})
}

// RemoveAttr deletes an attribute. Removing an absent attribute is a no-op.
func (n *Node) RemoveAttr(name string) {
	n.attrs = slices.DeleteFunc(n.attrs, func(a attr) bool { return a.name == name })
}

// AttrNames returns attribute names in insertion order.
func (n *Node) AttrNames() []string {
	names := make([]string, len(n.attrs))
	for i, a := range n.attrs {
		names[i] = a.name
	}
	return names
}

// Hidden reports whether the node carries the hidden attribute.
func (n *Node) Hidden() bool { return n.HasAttr("hidden") }

// SetHidden toggles the hidden attribute.
func (n *Node) SetHidden(hidden bool) {
	if hidden {
		n.SetAttr("hidden", "")
	} else {
		n.RemoveAttr("hidden")
	}
}

// Classes returns the space-separated class list.
func (n *Node) Classes() []string {
	v, _ := n.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains name.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.Classes(), name)
}

// AddClass appends names that are not already present.
func (n *Node) AddClass(names ...string) {
	classes := n.Classes()
	for _, name := range names {
		if name != "" && !slices.Contains(classes, name) {
			classes = append(classes, name)
		}
	}
	n.SetAttr("class", strings.Join(classes, " "))
}

// RemoveClass drops names from the class list.
func (n *Node) RemoveClass(names ...string) {
	classes := slices.DeleteFunc(n.Classes(), func(c string) bool {
		return slices.Contains(names, c)
	})
	if len(classes) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(classes, " "))
}

// Value returns the value attribute, used by input elements.
func (n *Node) Value() string {
	v, _ := n.Attr("value")
	return v
}

// SetValue sets the value attribute.
func (n *Node) SetValue(v string) { n.SetAttr("value", v) }

// Text returns the node's own text.
func (n *Node) Text() string { return n.text }

// SetText replaces the node's own text.
func (n *Node) SetText(s string) { n.text = s }

// TextContent returns the text of n and all of its descendants in document order.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.walk(func(c *Node) bool {
		b.WriteString(c.text)
		return true
	})
	return b.String()
}

// Parent returns the parent node, or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// Index returns the position of n among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

// NextSibling returns the following sibling or nil.
func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// PrevSibling returns the preceding sibling or nil.
func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// Closest walks from n up through its ancestors and returns the first node
// for which match returns true.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for c := n; c != nil; c = c.parent {
		if match(c) {
			return c
		}
	}
	return nil
}

// Attached reports whether n is reachable from its document root.
func (n *Node) Attached() bool {
	if n.doc == nil {
		return false
	}
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root == n.doc.root
}

// AppendChild moves c under n as its last child.
func (n *Node) AppendChild(c *Node) {
	var removedFrom *Node
	if c.parent != nil {
		removedFrom = c.parent
		removedFrom.detach(c)
	}
	c.parent = n
	n.children = append(n.children, c)

	if removedFrom != nil {
		removedFrom.notify(MutationRecord{Target: removedFrom, Removed: []*Node{c}})
	}
	n.notify(MutationRecord{Target: n, Added: []*Node{c}})
}

// RemoveChild detaches c from n. Removing a node that is not a child is a no-op.
func (n *Node) RemoveChild(c *Node) {
	if c == nil || c.parent != n {
		return
	}
	n.detach(c)
	n.notify(MutationRecord{Target: n, Removed: []*Node{c}})
}

// ReplaceChildren swaps the whole child list in one mutation.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	removed := n.children
	for _, c := range removed {
		c.parent = nil
	}
	n.children = nil

	for _, c := range nodes {
		if c.parent != nil {
			c.parent.detach(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}

	if len(removed) == 0 && len(nodes) == 0 {
		return
	}
	n.notify(MutationRecord{Target: n, Added: slices.Clone(nodes), Removed: removed})
}

func (n *Node) detach(c *Node) {
	n.children = slices.DeleteFunc(n.children, func(x *Node) bool { return x == c })
	c.parent = nil
}

// walk visits n and its descendants depth-first until visit returns false.
func (n *Node) walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth-first until visit returns false.
func (n *Node) Walk(visit func(*Node) bool) { n.walk(visit) }
