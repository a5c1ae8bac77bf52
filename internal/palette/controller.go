package palette

import (
	"time"

	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/hooks"
)

// HookName is the phx-hook value that binds a Controller.
const HookName = "SearchHook"

// Options configures a Controller.
type Options struct {
	// ContainerID is informational; the container is the hook element.
	ContainerID string
	ModalID     string
	InputID     string
	ListID      string
	Shortcut    Shortcut
	// FocusDelay lets the show transition start before the input takes focus.
	FocusDelay time.Duration
}

func DefaultOptions() Options {
	return Options{
		ContainerID: "search-container",
		ModalID:     "search-modal",
		InputID:     "search-input",
		ListID:      "search-list",
		Shortcut:    Shortcut{Ctrl: true, Key: "k"},
		FocusDelay:  50 * time.Millisecond,
	}
}

// Factory returns a hook factory for opts.
func Factory(opts Options) hooks.Factory {
	return func() hooks.Hook { return &Controller{opts: opts} }
}

// Controller is the search palette hook. Each instance owns its cursor and
// visibility state.
type Controller struct {
	opts Options

	ctx        *hooks.Context
	container  *dom.Node
	modal      *dom.Node
	input      *dom.Node
	list       *dom.Node
	cursor     *Cursor
	state      State
	dispatcher *Dispatcher

	remove      []func()
	disconnect  func()
	cancelFocus func()
}

func (c *Controller) Mounted(ctx *hooks.Context) error {
	c.ctx = ctx
	c.container = ctx.El
	lookup := func(id string) (*dom.Node, error) {
		if n := ctx.Doc.GetElementByID(id); n != nil {
			return n, nil
		}
		return nil, hooks.ElementError(HookName, id)
	}
	var err error
	if c.modal, err = lookup(c.opts.ModalID); err != nil {
		return err
	}
	if c.input, err = lookup(c.opts.InputID); err != nil {
		return err
	}
	if c.list, err = lookup(c.opts.ListID); err != nil {
		return err
	}

	c.cursor = NewCursor(c.list, ctx.Exec, ctx.Scroller)
	c.cursor.Sync()
	c.dispatcher = NewDispatcher(ctx.Channel, c.container.ID(), c.input, c.Close, ctx.Log.With("component", "palette"))
	c.disconnect = Watch(c.list, c.cursor)

	win := ctx.Doc.Window()
	c.remove = append(c.remove,
		win.AddEventListener(dom.KeyDown, c.onKeyDown),
		win.AddEventListener("open-search", func(*dom.Event) { c.Open() }),
		win.AddEventListener("close-search", func(*dom.Event) { c.Close() }),
		c.list.AddEventListener(dom.MouseOver, c.onMouseOver),
		c.list.AddEventListener(dom.Click, c.onClick),
		c.input.AddEventListener(dom.Input, c.onInput),
	)
	return nil
}

func (c *Controller) Destroyed() {
	for _, rm := range c.remove {
		rm()
	}
	c.remove = nil
	if c.disconnect != nil {
		c.disconnect()
		c.disconnect = nil
	}
	c.stopFocusTimer()
}

// Cursor exposes the navigation cursor.
func (c *Controller) Cursor() *Cursor { return c.cursor }

// IsOpen reports whether the palette is open.
func (c *Controller) IsOpen() bool { return c.state.IsOpen() }

// Open shows the palette, focuses the input after the focus delay and
// highlights the active entry. Opening an open palette does nothing.
func (c *Controller) Open() {
	if !c.state.Open() {
		return
	}
	Apply(c.ctx.Exec, c.container, Show)
	Apply(c.ctx.Exec, c.modal, Show)

	c.stopFocusTimer()
	c.cancelFocus = c.ctx.Scheduler.AfterFunc(c.opts.FocusDelay, func() {
		c.cancelFocus = nil
		if c.state.IsOpen() {
			c.ctx.Doc.Focus(c.input)
		}
	})

	c.cursor.Sync()
	c.cursor.Highlight()
}

// Close hides the palette. Closing a closed palette does nothing.
func (c *Controller) Close() {
	if !c.state.Close() {
		return
	}
	c.stopFocusTimer()
	Apply(c.ctx.Exec, c.modal, Hide)
	Apply(c.ctx.Exec, c.container, Hide)
	if c.container.Contains(c.ctx.Doc.ActiveElement()) {
		c.ctx.Doc.Blur()
	}
}

func (c *Controller) stopFocusTimer() {
	if c.cancelFocus != nil {
		c.cancelFocus()
		c.cancelFocus = nil
	}
}

func (c *Controller) onKeyDown(e *dom.Event) {
	if !c.state.IsOpen() {
		if c.opts.Shortcut.Matches(e) {
			e.PreventDefault()
			c.Open()
		}
		return
	}

	switch e.Key {
	case "ArrowDown":
		e.PreventDefault()
		c.cursor.MoveNext()
	case "ArrowUp":
		e.PreventDefault()
		c.cursor.MovePrevious()
	case "Enter":
		if e.Target != nil && c.container.Contains(e.Target) {
			e.PreventDefault()
			c.dispatcher.Select(c.activeEntry())
		}
	case "Escape":
		e.PreventDefault()
		c.Close()
	case "Tab":
		e.PreventDefault()
	default:
		if c.opts.Shortcut.Matches(e) {
			e.PreventDefault()
		}
	}
}

func (c *Controller) onMouseOver(e *dom.Event) {
	entry := c.entryAt(e.Target)
	if entry == nil {
		return
	}
	c.cursor.TakeOverFrom(entry, e.MovementX != 0 || e.MovementY != 0)
}

func (c *Controller) onClick(e *dom.Event) {
	entry := c.entryAt(e.Target)
	if entry == nil {
		return
	}
	e.PreventDefault()
	c.dispatcher.Select(entry)
}

func (c *Controller) onInput(*dom.Event) {
	c.dispatcher.Search(c.input.Value())
}

// activeEntry returns the active entry after healing a stale reference.
func (c *Controller) activeEntry() *dom.Node {
	if c.list.ChildCount() == 0 {
		c.cursor.Clear()
		return nil
	}
	c.cursor.Sync()
	return c.cursor.Active()
}

// entryAt resolves the list entry containing n.
func (c *Controller) entryAt(n *dom.Node) *dom.Node {
	if n == nil {
		return nil
	}
	return n.Closest(func(x *dom.Node) bool { return x.Parent() == c.list })
}
