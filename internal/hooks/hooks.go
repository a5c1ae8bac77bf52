// Package hooks binds client-side controllers to elements of the document.
//
// An element opts in with a phx-hook attribute naming a registered hook. The
// Manager mounts the hook when the element is attached and destroys it when
// the element leaves the document.
package hooks

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/pfassina/lore/internal/dom"
)

// Attr is the attribute that names the hook bound to an element.
const Attr = "phx-hook"

// Names the built-in hooks are registered under.
const (
	ColorModeName     = "ColorModeHook"
	SidebarName       = "SidebarHook"
	EntryName         = "EntryHook"
	CopyCodeName      = "CopyCodeHook"
	MaintainAttrsName = "MaintainAttrsHook"
)

// Hook is a controller bound to one element.
type Hook interface {
	Mounted(ctx *Context) error
	Destroyed()
}

// Updater is implemented by hooks that need to run around server updates.
type Updater interface {
	BeforeUpdate()
	Updated()
}

// Factory builds a fresh hook instance per element.
type Factory func() Hook

// Executor applies an encoded visual transition to a node.
type Executor interface {
	Exec(node *dom.Node, encoded string)
}

// Channel sends named events to the server. target addresses the element the
// server-side handler is attached to; empty means the root view.
type Channel interface {
	PushEventTo(target, event string, payload any) error
}

// Scheduler runs fn on the host event loop after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Scroller moves the viewport of whatever container holds a node.
type Scroller interface {
	// ScrollIntoView scrolls the least amount needed for n to be fully
	// visible in its container, without touching outer containers.
	ScrollIntoView(n *dom.Node)
	// ScrollToTop scrolls so n sits offset rows below the top edge.
	ScrollToTop(n *dom.Node, offset int)
}

// Storage is a small persistent key/value store.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
}

// Prompter asks the user to handle a value manually.
type Prompter interface {
	Prompt(title, value string)
}

// Env holds the collaborators shared by every hook.
type Env struct {
	Doc       *dom.Document
	Channel   Channel
	Exec      Executor
	Scheduler Scheduler
	Scroller  Scroller
	Storage   Storage
	Prompter  Prompter
	Log       *log.Logger
}

// Context is passed to Mounted. It carries the bound element and the shared
// environment.
type Context struct {
	Env
	El *dom.Node

	manager *Manager
	owner   *mounted
}

// PushEvent sends an event to the root view.
func (c *Context) PushEvent(event string, payload any) error {
	return c.Channel.PushEventTo("", event, payload)
}

// PushEventTo sends an event addressed to target.
func (c *Context) PushEventTo(target, event string, payload any) error {
	return c.Channel.PushEventTo(target, event, payload)
}

// HandleEvent subscribes fn to a server-pushed event. Subscriptions are
// dropped automatically when the hook is destroyed.
func (c *Context) HandleEvent(name string, fn func(payload map[string]any)) (remove func()) {
	return c.manager.subscribe(c.owner, name, fn)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

type nopScroller struct{}

func (nopScroller) ScrollIntoView(*dom.Node)   {}
func (nopScroller) ScrollToTop(*dom.Node, int) {}

type memStorage map[string]string

func (m memStorage) GetItem(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memStorage) SetItem(key, value string) error {
	m[key] = value
	return nil
}

type nopChannel struct{}

func (nopChannel) PushEventTo(string, string, any) error { return nil }

type nopPrompter struct{}

func (nopPrompter) Prompt(string, string) {}

func (e Env) withDefaults() Env {
	if e.Channel == nil {
		e.Channel = nopChannel{}
	}
	if e.Scheduler == nil {
		e.Scheduler = timerScheduler{}
	}
	if e.Scroller == nil {
		e.Scroller = nopScroller{}
	}
	if e.Storage == nil {
		e.Storage = memStorage{}
	}
	if e.Prompter == nil {
		e.Prompter = nopPrompter{}
	}
	if e.Log == nil {
		e.Log = log.Default()
	}
	return e
}
