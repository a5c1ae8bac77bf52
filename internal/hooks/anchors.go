package hooks

import (
	"strings"
	"time"

	"github.com/pfassina/lore/internal/dom"
)

// AnchorLinkClass marks links that jump within the current page.
const AnchorLinkClass = "entry-anchor-link"

const anchorScrollDelay = 100 * time.Millisecond

// Anchors scrolls to the location fragment once the page is rendered and
// turns anchor-link clicks into fragment changes.
type Anchors struct {
	Offset int

	ctx     *Context
	remove  func()
	pending func()
	// location last scrolled to; updates that keep it do not scroll again
	scrolled string
}

// NewAnchors returns a factory; offset is the number of rows kept above the
// target heading.
func NewAnchors(offset int) Factory {
	return func() Hook { return &Anchors{Offset: offset} }
}

func (a *Anchors) Mounted(ctx *Context) error {
	a.ctx = ctx
	a.remove = ctx.El.AddEventListener(dom.Click, a.onClick)
	a.scheduleHash()
	return nil
}

func (a *Anchors) Destroyed() {
	if a.remove != nil {
		a.remove()
		a.remove = nil
	}
	a.cancel()
}

func (a *Anchors) BeforeUpdate() {}

// Updated scrolls when an update moved the location to a new fragment.
func (a *Anchors) Updated() {
	if a.ctx.Doc.Location() == a.scrolled {
		return
	}
	a.scheduleHash()
}

func (a *Anchors) onClick(e *dom.Event) {
	link := e.Target.Closest(func(n *dom.Node) bool { return n.HasClass(AnchorLinkClass) })
	if link == nil {
		return
	}
	href, _ := link.Attr("href")
	_, frag, ok := strings.Cut(href, "#")
	if !ok || frag == "" {
		return
	}
	e.PreventDefault()
	a.ctx.Doc.ReplaceHash(frag)
	a.scrolled = a.ctx.Doc.Location()
	if target := a.ctx.Doc.GetElementByID(frag); target != nil {
		a.ctx.Scroller.ScrollToTop(target, a.Offset)
	}
}

func (a *Anchors) scheduleHash() {
	hash := a.ctx.Doc.Hash()
	if hash == "" || a.ctx.Doc.GetElementByID(hash) == nil {
		return
	}
	a.scrolled = a.ctx.Doc.Location()
	a.cancel()
	a.pending = a.ctx.Scheduler.AfterFunc(anchorScrollDelay, func() {
		a.pending = nil
		if target := a.ctx.Doc.GetElementByID(hash); target != nil {
			a.ctx.Scroller.ScrollToTop(target, a.Offset)
		}
	})
}

func (a *Anchors) cancel() {
	if a.pending != nil {
		a.pending()
		a.pending = nil
	}
}
