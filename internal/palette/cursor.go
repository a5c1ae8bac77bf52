package palette

import (
	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/hooks"
)

// Cursor tracks the active entry among the children of a result list. It is
// the only writer of the active reference.
//
// Every move emits baseline on the previous entry before highlight on the
// next one, so two entries are never highlighted at once.
type Cursor struct {
	list     *dom.Node
	active   *dom.Node
	exec     hooks.Executor
	scroller hooks.Scroller
}

// NewCursor returns a cursor over the children of list. scroller may be nil.
func NewCursor(list *dom.Node, exec hooks.Executor, scroller hooks.Scroller) *Cursor {
	return &Cursor{list: list, exec: exec, scroller: scroller}
}

// Active returns the active entry, or nil when the list is empty.
func (c *Cursor) Active() *dom.Node { return c.active }

func (c *Cursor) MoveNext() {
	c.move(func(n *dom.Node) *dom.Node {
		if next := n.NextSibling(); next != nil {
			return next
		}
		return c.list.FirstChild()
	})
}

func (c *Cursor) MovePrevious() {
	c.move(func(n *dom.Node) *dom.Node {
		if prev := n.PrevSibling(); prev != nil {
			return prev
		}
		return c.list.LastChild()
	})
}

func (c *Cursor) move(step func(*dom.Node) *dom.Node) {
	if c.list.ChildCount() == 0 {
		c.active = nil
		return
	}
	c.Sync()
	c.transition(step(c.active))
	c.EnsureVisible()
}

// TakeOverFrom makes a hovered entry active. Hovers without pointer movement
// come from layout shifts after scrolling and are ignored.
func (c *Cursor) TakeOverFrom(entry *dom.Node, moved bool) {
	if !moved || !c.isMember(entry) {
		return
	}
	c.transition(entry)
}

// ResetTo makes entry active regardless of movement guards. A nil entry
// clears the cursor.
func (c *Cursor) ResetTo(entry *dom.Node) {
	if entry == nil {
		c.Clear()
		return
	}
	c.transition(entry)
	c.EnsureVisible()
}

// Clear drops the active reference without emitting transitions.
func (c *Cursor) Clear() { c.active = nil }

// Sync points the cursor at the first entry when the active reference is
// missing or stale. It emits nothing.
func (c *Cursor) Sync() {
	if c.isMember(c.active) {
		return
	}
	c.active = c.list.FirstChild()
}

// Highlight re-emits the highlight transition on the active entry.
func (c *Cursor) Highlight() {
	Apply(c.exec, c.active, Highlight)
}

// EnsureVisible scrolls the active entry into view within the list.
func (c *Cursor) EnsureVisible() {
	if c.active == nil || c.scroller == nil {
		return
	}
	c.scroller.ScrollIntoView(c.active)
}

func (c *Cursor) transition(next *dom.Node) {
	Apply(c.exec, c.active, Baseline)
	c.active = next
	Apply(c.exec, c.active, Highlight)
}

func (c *Cursor) isMember(n *dom.Node) bool {
	return n != nil && n.Parent() == c.list
}
