package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newList(d *Document, ids ...string) (*Node, []*Node) {
	list := d.Element("ul", "list")
	d.Body().AppendChild(list)
	var items []*Node
	for _, id := range ids {
		li := d.Element("li", id)
		list.AppendChild(li)
		items = append(items, li)
	}
	return list, items
}

func TestSiblingNavigation(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a", "b", "c")

	assert.Equal(t, items[0], list.FirstChild())
	assert.Equal(t, items[2], list.LastChild())
	assert.Equal(t, items[1], items[0].NextSibling())
	assert.Nil(t, items[2].NextSibling())
	assert.Equal(t, items[1], items[2].PrevSibling())
	assert.Nil(t, items[0].PrevSibling())
	assert.Equal(t, 1, items[1].Index())
}

func TestAttachedAndDetached(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a", "b")

	require.True(t, items[0].Attached())
	list.ReplaceChildren()
	assert.False(t, items[0].Attached())
	assert.Nil(t, items[0].Parent())
	assert.Equal(t, -1, items[0].Index())
	assert.Nil(t, d.GetElementByID("a"))

	orphan := d.CreateElement("div")
	assert.False(t, orphan.Attached())
}

func TestGetElementByID(t *testing.T) {
	d := NewDocument()
	_, items := newList(d, "a", "b")

	assert.Equal(t, items[1], d.GetElementByID("b"))
	assert.Equal(t, items[1], d.GetElementByID("#b"))
	assert.Nil(t, d.GetElementByID(""))
	assert.Nil(t, d.GetElementByID("missing"))
}

func TestAttributesAndClasses(t *testing.T) {
	d := NewDocument()
	n := d.CreateElement("li")

	n.SetAttr("data-x", "1")
	n.SetAttr("data-y", "2")
	n.SetAttr("data-x", "3")
	assert.Equal(t, []string{"data-x", "data-y"}, n.AttrNames())
	v, ok := n.Attr("data-x")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	n.RemoveAttr("data-x")
	n.RemoveAttr("data-x")
	assert.False(t, n.HasAttr("data-x"))

	n.AddClass("entry", "active", "active")
	assert.Equal(t, []string{"entry", "active"}, n.Classes())
	n.RemoveClass("active")
	assert.False(t, n.HasClass("active"))
	n.RemoveClass("entry")
	assert.False(t, n.HasAttr("class"))

	n.SetHidden(true)
	assert.True(t, n.Hidden())
	n.SetHidden(false)
	assert.False(t, n.Hidden())
}

func TestTextContent(t *testing.T) {
	d := NewDocument()
	pre := d.CreateElement("pre")
	pre.SetText("a")
	child := d.CreateElement("span")
	child.SetText("b")
	pre.AppendChild(child)

	assert.Equal(t, "ab", pre.TextContent())
}

func TestDispatchBubblesToWindow(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a")

	var order []string
	list.AddEventListener(Click, func(e *Event) {
		order = append(order, "list")
		assert.Equal(t, items[0], e.Target)
	})
	d.Window().AddEventListener(Click, func(*Event) { order = append(order, "window") })
	items[0].AddEventListener(Click, func(*Event) { order = append(order, "item") })

	items[0].Dispatch(&Event{Type: Click})
	assert.Equal(t, []string{"item", "list", "window"}, order)
}

func TestDispatchStopPropagation(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a")

	reached := false
	items[0].AddEventListener(Click, func(e *Event) { e.StopPropagation() })
	list.AddEventListener(Click, func(*Event) { reached = true })

	items[0].Dispatch(&Event{Type: Click})
	assert.False(t, reached)
}

func TestRemoveListenerIsIdempotent(t *testing.T) {
	d := NewDocument()
	calls := 0
	remove := d.Window().AddEventListener("open-search", func(*Event) { calls++ })
	d.DispatchWindow(NewCustomEvent("open-search", nil))

	remove()
	remove()
	d.DispatchWindow(NewCustomEvent("open-search", nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.Window().ListenerCount("open-search"))
	assert.Equal(t, 0, d.Window().TotalListeners())
}

func TestListenerRemovingItselfDuringDispatch(t *testing.T) {
	d := NewDocument()
	calls := 0
	var remove func()
	remove = d.Window().AddEventListener("x", func(*Event) {
		calls++
		remove()
	})
	d.Window().AddEventListener("x", func(*Event) { calls++ })

	d.DispatchWindow(NewCustomEvent("x", nil))
	d.DispatchWindow(NewCustomEvent("x", nil))
	assert.Equal(t, 3, calls)
}

func TestObserveReplaceChildren(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a", "b")

	var got []MutationRecord
	disconnect := list.Observe(false, func(recs []MutationRecord) { got = append(got, recs...) })

	c := d.Element("li", "c")
	list.ReplaceChildren(c)

	require.Len(t, got, 1)
	assert.Equal(t, list, got[0].Target)
	assert.Equal(t, []*Node{c}, got[0].Added)
	assert.Equal(t, items, got[0].Removed)

	disconnect()
	list.ReplaceChildren()
	assert.Len(t, got, 1)
	assert.Equal(t, 0, list.ObserverCount())
}

func TestObserveSubtree(t *testing.T) {
	d := NewDocument()
	list, _ := newList(d, "a")

	direct, deep := 0, 0
	d.Root().Observe(false, func([]MutationRecord) { direct++ })
	d.Root().Observe(true, func([]MutationRecord) { deep++ })

	list.AppendChild(d.Element("li", "b"))
	assert.Equal(t, 0, direct)
	assert.Equal(t, 1, deep)
}

func TestReplaceChildrenEmptyToEmptyIsSilent(t *testing.T) {
	d := NewDocument()
	list, _ := newList(d)

	calls := 0
	list.Observe(false, func([]MutationRecord) { calls++ })
	list.ReplaceChildren()
	assert.Equal(t, 0, calls)
}

func TestAppendChildMovesNode(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a", "b")
	other := d.Element("ul", "other")
	d.Body().AppendChild(other)

	other.AppendChild(items[0])
	assert.Equal(t, 1, list.ChildCount())
	assert.Equal(t, other, items[0].Parent())

	list.RemoveChild(items[0])
	assert.Equal(t, other, items[0].Parent())
}

func TestFocus(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a")

	d.Focus(items[0])
	assert.Equal(t, items[0], d.ActiveElement())

	list.ReplaceChildren()
	assert.Nil(t, d.ActiveElement())

	d.Focus(d.CreateElement("input"))
	assert.Nil(t, d.ActiveElement())
}

func TestLocation(t *testing.T) {
	d := NewDocument()
	d.SetLocation("/guide/setup.md#install")
	assert.Equal(t, "/guide/setup.md", d.Path())
	assert.Equal(t, "install", d.Hash())

	d.ReplaceHash("#usage")
	assert.Equal(t, "/guide/setup.md#usage", d.Location())
}

func TestClosest(t *testing.T) {
	d := NewDocument()
	list, items := newList(d, "a")
	link := d.CreateElement("a")
	items[0].AppendChild(link)

	got := link.Closest(func(n *Node) bool { return n.Parent() == list })
	assert.Equal(t, items[0], got)
	assert.True(t, list.Contains(link))
	assert.False(t, link.Contains(list))
}
