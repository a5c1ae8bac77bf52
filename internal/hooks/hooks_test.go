package hooks

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfassina/lore/internal/dom"
)

type pushed struct {
	target, event string
	payload       any
}

type recordingChannel struct{ events []pushed }

func (c *recordingChannel) PushEventTo(target, event string, payload any) error {
	c.events = append(c.events, pushed{target, event, payload})
	return nil
}

type manualScheduler struct{ pending []*timer }

type timer struct {
	d         time.Duration
	fn        func()
	cancelled bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := &timer{d: d, fn: fn}
	s.pending = append(s.pending, t)
	return func() { t.cancelled = true }
}

func (s *manualScheduler) Flush() {
	pending := s.pending
	s.pending = nil
	for _, t := range pending {
		if !t.cancelled {
			t.fn()
		}
	}
}

type recordingScroller struct {
	top    []*dom.Node
	offset int
}

func (s *recordingScroller) ScrollIntoView(*dom.Node) {}
func (s *recordingScroller) ScrollToTop(n *dom.Node, offset int) {
	s.top = append(s.top, n)
	s.offset = offset
}

type recordingPrompter struct{ title, value string }

func (p *recordingPrompter) Prompt(title, value string) { p.title, p.value = title, value }

type probe struct {
	mounts, destroys int
	err              error
	got              []map[string]any
}

func (p *probe) factory() Hook { return p }

func (p *probe) Mounted(ctx *Context) error {
	p.mounts++
	if p.err != nil {
		return p.err
	}
	ctx.HandleEvent("ping", func(payload map[string]any) { p.got = append(p.got, payload) })
	return nil
}

func (p *probe) Destroyed() { p.destroys++ }

func testEnv(doc *dom.Document) (Env, *recordingChannel, *manualScheduler, *recordingScroller) {
	ch := &recordingChannel{}
	sched := &manualScheduler{}
	scroll := &recordingScroller{}
	return Env{
		Doc:       doc,
		Channel:   ch,
		Scheduler: sched,
		Scroller:  scroll,
		Log:       log.New(io.Discard),
	}, ch, sched, scroll
}

func TestManagerMountsOnAttachAndDestroysOnDetach(t *testing.T) {
	doc := dom.NewDocument()
	env, _, _, _ := testEnv(doc)
	p := &probe{}
	m := NewManager(env)
	m.Register("Probe", p.factory)

	early := doc.Element("div", "early", Attr, "Probe")
	doc.Body().AppendChild(early)
	m.Start()
	assert.Equal(t, 1, p.mounts)

	wrapper := doc.Element("section", "wrap")
	late := doc.Element("div", "late", Attr, "Probe")
	wrapper.AppendChild(late)
	doc.Body().AppendChild(wrapper)
	assert.Equal(t, 2, p.mounts)
	assert.Equal(t, 2, m.MountedCount())

	doc.Body().RemoveChild(wrapper)
	assert.Equal(t, 1, p.destroys)
	assert.Nil(t, m.Hook(late))
	assert.NotNil(t, m.Hook(early))

	m.Stop()
	assert.Equal(t, 2, p.destroys)
	assert.Equal(t, 0, m.MountedCount())
}

func TestManagerRoutesEventsUntilDestroyed(t *testing.T) {
	doc := dom.NewDocument()
	env, _, _, _ := testEnv(doc)
	p := &probe{}
	m := NewManager(env)
	m.Register("Probe", p.factory)

	el := doc.Element("div", "x", Attr, "Probe")
	doc.Body().AppendChild(el)
	m.Start()

	m.Route("ping", map[string]any{"n": 1.0})
	m.Route("other", nil)
	require.Len(t, p.got, 1)

	doc.Body().RemoveChild(el)
	m.Route("ping", map[string]any{"n": 2.0})
	assert.Len(t, p.got, 1)
}

func TestManagerSkipsFailedAndUnknownHooks(t *testing.T) {
	doc := dom.NewDocument()
	env, _, _, _ := testEnv(doc)
	p := &probe{err: errors.New("boom")}
	m := NewManager(env)
	m.Register("Probe", p.factory)

	doc.Body().AppendChild(doc.Element("div", "a", Attr, "Probe"))
	doc.Body().AppendChild(doc.Element("div", "b", Attr, "Nope"))
	m.Start()

	assert.Equal(t, 1, p.mounts)
	assert.Equal(t, 0, m.MountedCount())
}

func TestColorModePersistsAndApplies(t *testing.T) {
	doc := dom.NewDocument()
	doc.Root().SetAttr(ColorModeRootAttr, ModeSystem)
	body := doc.Body()
	body.SetAttr(Attr, "ColorModeHook")
	env, ch, _, _ := testEnv(doc)

	m := NewManager(env)
	m.Register("ColorModeHook", NewColorMode(func() bool { return false }))
	m.Start()
	assert.False(t, doc.Root().HasClass("dark"), "system resolves to light here")

	doc.DispatchWindow(dom.NewCustomEvent("set-color-mode", map[string]any{"mode": "dark"}))
	assert.True(t, doc.Root().HasClass("dark"))
	require.Len(t, ch.events, 1)
	assert.Equal(t, "set-color-mode", ch.events[0].event)
	assert.Equal(t, map[string]string{"selected_mode": "dark", "mode": "dark"}, ch.events[0].payload)

	doc.DispatchWindow(dom.NewCustomEvent("set-color-mode", map[string]any{"mode": "sepia"}))
	assert.False(t, doc.Root().HasClass("dark"))
	cm := m.Hook(body).(*ColorMode)
	assert.Equal(t, ModeSystem, cm.Selected())

	m.Stop()
	assert.Equal(t, 0, doc.Window().ListenerCount("set-color-mode"))
}

func TestSidebarOpensAndCloses(t *testing.T) {
	doc := dom.NewDocument()
	sidebar := doc.Element("nav", "sidebar-container", Attr, "SidebarHook", "hidden", "")
	overlay := doc.Element("div", "sidebar-overlay", "hidden", "")
	doc.Body().AppendChild(sidebar)
	doc.Body().AppendChild(overlay)
	env, _, _, _ := testEnv(doc)

	m := NewManager(env)
	m.Register("SidebarHook", NewSidebar)
	m.Start()

	m.Route("open-sidebar", nil)
	assert.False(t, sidebar.Hidden())
	assert.False(t, overlay.Hidden())

	doc.DispatchWindow(dom.NewCustomEvent("close-sidebar", nil))
	assert.True(t, sidebar.Hidden())
	assert.True(t, overlay.Hidden())

	m.Stop()
	assert.Equal(t, 0, doc.Window().TotalListeners())
}

func TestAnchorsScrollToHashAfterDelay(t *testing.T) {
	doc := dom.NewDocument()
	doc.SetLocation("guide.md#install")
	page := doc.Element("article", "page", Attr, "EntryHook")
	heading := doc.Element("h2", "install")
	page.AppendChild(heading)
	doc.Body().AppendChild(page)
	env, _, sched, scroll := testEnv(doc)

	m := NewManager(env)
	m.Register("EntryHook", NewAnchors(2))
	m.Start()

	assert.Empty(t, scroll.top, "scroll waits for the delay")
	require.Len(t, sched.pending, 1)
	assert.Equal(t, anchorScrollDelay, sched.pending[0].d)
	sched.Flush()
	assert.Equal(t, []*dom.Node{heading}, scroll.top)
	assert.Equal(t, 2, scroll.offset)
}

func TestAnchorsLinkClickReplacesHash(t *testing.T) {
	doc := dom.NewDocument()
	doc.SetLocation("guide.md")
	page := doc.Element("article", "page", Attr, "EntryHook")
	heading := doc.Element("h2", "usage")
	link := doc.Element("a", "", "href", "#usage", "class", AnchorLinkClass)
	page.AppendChild(heading)
	page.AppendChild(link)
	doc.Body().AppendChild(page)
	env, _, sched, scroll := testEnv(doc)

	m := NewManager(env)
	m.Register("EntryHook", NewAnchors(3))
	m.Start()
	assert.Empty(t, sched.pending)

	ev := &dom.Event{Type: dom.Click}
	link.Dispatch(ev)
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, "guide.md#usage", doc.Location())
	assert.Equal(t, []*dom.Node{heading}, scroll.top)

	m.BeforeUpdate()
	m.AfterUpdate()
	assert.Empty(t, sched.pending, "the clicked fragment is already in view")
}

func TestAnchorsScrollOnlyWhenFragmentChanges(t *testing.T) {
	doc := dom.NewDocument()
	doc.SetLocation("guide.md#install")
	page := doc.Element("article", "page", Attr, "EntryHook")
	install := doc.Element("h2", "install")
	usage := doc.Element("h2", "usage")
	page.AppendChild(install)
	page.AppendChild(usage)
	doc.Body().AppendChild(page)
	env, _, sched, scroll := testEnv(doc)

	m := NewManager(env)
	m.Register("EntryHook", NewAnchors(2))
	m.Start()
	sched.Flush()
	require.Equal(t, []*dom.Node{install}, scroll.top)

	for range 3 {
		m.BeforeUpdate()
		m.AfterUpdate()
		sched.Flush()
	}
	assert.Equal(t, []*dom.Node{install}, scroll.top, "updates on the same location keep the scroll position")

	doc.SetLocation("guide.md#usage")
	m.BeforeUpdate()
	m.AfterUpdate()
	sched.Flush()
	assert.Equal(t, []*dom.Node{install, usage}, scroll.top)
}

func newCodePage(doc *dom.Document) (*dom.Node, *dom.Node) {
	body := doc.Element("div", "page-body", Attr, "CopyCodeHook")
	button := doc.Element("button", "copy-0")
	pre := doc.Element("pre", "")
	pre.SetText("go test ./...")
	body.AppendChild(button)
	body.AppendChild(pre)
	doc.Body().AppendChild(body)
	return body, button
}

func TestCopyCodeWritesAndReverts(t *testing.T) {
	doc := dom.NewDocument()
	_, button := newCodePage(doc)
	env, _, sched, _ := testEnv(doc)

	var copied string
	m := NewManager(env)
	m.Register("CopyCodeHook", NewCopyCode(func(s string) error { copied = s; return nil }))
	m.Start()

	doc.DispatchWindow(&dom.Event{Type: "copy-code", Target: button})
	assert.Equal(t, "go test ./...", copied)
	assert.True(t, button.HasClass(CopiedClass))

	sched.Flush()
	assert.False(t, button.HasClass(CopiedClass))
}

func TestCopyCodeFallsBackToPrompt(t *testing.T) {
	doc := dom.NewDocument()
	_, button := newCodePage(doc)
	env, _, _, _ := testEnv(doc)
	prompter := &recordingPrompter{}
	env.Prompter = prompter

	m := NewManager(env)
	m.Register("CopyCodeHook", NewCopyCode(func(string) error { return errors.New("no clipboard") }))
	m.Start()

	doc.DispatchWindow(&dom.Event{Type: "copy-code", Target: button})
	assert.Equal(t, "go test ./...", prompter.value)
	assert.False(t, button.HasClass(CopiedClass))
}

func TestMaintainAttrsRestoresAfterUpdate(t *testing.T) {
	doc := dom.NewDocument()
	input := doc.Element("input", "search-input", Attr, "MaintainAttrsHook", "data-attrs", "value, placeholder")
	doc.Body().AppendChild(input)
	env, _, _, _ := testEnv(doc)

	m := NewManager(env)
	m.Register("MaintainAttrsHook", NewMaintainAttrs)
	m.Start()

	input.SetValue("typed")
	m.BeforeUpdate()
	input.SetValue("stale")
	input.SetAttr("placeholder", "server")
	m.AfterUpdate()

	assert.Equal(t, "typed", input.Value())
	assert.False(t, input.HasAttr("placeholder"))
}
