package hooks

import "github.com/pfassina/lore/internal/dom"

// Sidebar shows and hides the sidebar container and its overlay.
type Sidebar struct {
	OverlayID string

	ctx    *Context
	remove []func()
}

func NewSidebar() Hook { return &Sidebar{OverlayID: "sidebar-overlay"} }

func (s *Sidebar) Mounted(ctx *Context) error {
	s.ctx = ctx
	open := func(map[string]any) { s.SetOpen(true) }
	closed := func(map[string]any) { s.SetOpen(false) }

	win := ctx.Doc.Window()
	s.remove = append(s.remove,
		ctx.HandleEvent("open-sidebar", open),
		ctx.HandleEvent("close-sidebar", closed),
		win.AddEventListener("open-sidebar", func(*dom.Event) { s.SetOpen(true) }),
		win.AddEventListener("close-sidebar", func(*dom.Event) { s.SetOpen(false) }),
	)
	return nil
}

func (s *Sidebar) Destroyed() {
	for _, rm := range s.remove {
		rm()
	}
	s.remove = nil
}

// Open reports whether the sidebar is visible.
func (s *Sidebar) Open() bool { return !s.ctx.El.Hidden() }

func (s *Sidebar) SetOpen(open bool) {
	s.ctx.El.SetHidden(!open)
	if overlay := s.ctx.Doc.GetElementByID(s.OverlayID); overlay != nil {
		overlay.SetHidden(!open)
	}
}
