package hooks

import (
	"fmt"
	"slices"

	"github.com/pfassina/lore/internal/dom"
)

type mounted struct {
	name string
	hook Hook
	el   *dom.Node
	subs []*subscription
}

type subscription struct {
	name string
	fn   func(map[string]any)
}

// Manager mounts and destroys hooks as their elements enter and leave the
// document, and routes server-pushed events to subscribed hooks.
type Manager struct {
	env        Env
	registry   map[string]Factory
	mounted    map[*dom.Node]*mounted
	order      []*dom.Node
	disconnect func()
}

func NewManager(env Env) *Manager {
	return &Manager{
		env:      env.withDefaults(),
		registry: make(map[string]Factory),
		mounted:  make(map[*dom.Node]*mounted),
	}
}

// Register binds a hook name to a factory. Register before Start.
func (m *Manager) Register(name string, f Factory) {
	m.registry[name] = f
}

// Start mounts hooks for elements already in the document and begins
// watching for later additions and removals.
func (m *Manager) Start() {
	if m.disconnect != nil {
		return
	}
	m.scan(m.env.Doc.Root())
	m.disconnect = m.env.Doc.Root().Observe(true, m.onMutation)
}

// Stop destroys every mounted hook and stops watching the document.
func (m *Manager) Stop() {
	if m.disconnect != nil {
		m.disconnect()
		m.disconnect = nil
	}
	for _, el := range slices.Clone(m.order) {
		m.destroy(el)
	}
}

// Hook returns the hook mounted on el, or nil.
func (m *Manager) Hook(el *dom.Node) Hook {
	if mh, ok := m.mounted[el]; ok {
		return mh.hook
	}
	return nil
}

// MountedCount returns the number of live hooks.
func (m *Manager) MountedCount() int { return len(m.mounted) }

// Route delivers a server-pushed event to every hook subscribed to name.
func (m *Manager) Route(name string, payload map[string]any) {
	for _, el := range slices.Clone(m.order) {
		mh, ok := m.mounted[el]
		if !ok {
			continue
		}
		for _, s := range slices.Clone(mh.subs) {
			if s.name == name {
				s.fn(payload)
			}
		}
	}
}

// BeforeUpdate notifies Updater hooks that a server patch is about to apply.
func (m *Manager) BeforeUpdate() {
	for _, el := range slices.Clone(m.order) {
		if u, ok := m.Hook(el).(Updater); ok {
			u.BeforeUpdate()
		}
	}
}

// AfterUpdate notifies Updater hooks that a server patch was applied.
func (m *Manager) AfterUpdate() {
	for _, el := range slices.Clone(m.order) {
		if u, ok := m.Hook(el).(Updater); ok {
			u.Updated()
		}
	}
}

func (m *Manager) onMutation(records []dom.MutationRecord) {
	for _, rec := range records {
		for _, n := range rec.Removed {
			n.Walk(func(c *dom.Node) bool {
				if _, ok := m.mounted[c]; ok && !c.Attached() {
					m.destroy(c)
				}
				return true
			})
		}
		for _, n := range rec.Added {
			m.scan(n)
		}
	}
}

func (m *Manager) scan(root *dom.Node) {
	if !root.Attached() {
		return
	}
	var found []*dom.Node
	root.Walk(func(c *dom.Node) bool {
		if c.HasAttr(Attr) {
			if _, ok := m.mounted[c]; !ok {
				found = append(found, c)
			}
		}
		return true
	})
	for _, el := range found {
		m.mount(el)
	}
}

func (m *Manager) mount(el *dom.Node) {
	name, _ := el.Attr(Attr)
	factory, ok := m.registry[name]
	if !ok {
		m.env.Log.Warn("unknown hook", "hook", name, "el", el.ID())
		return
	}

	mh := &mounted{name: name, hook: factory(), el: el}
	m.mounted[el] = mh
	m.order = append(m.order, el)

	ctx := &Context{Env: m.env, El: el, manager: m, owner: mh}
	if err := mh.hook.Mounted(ctx); err != nil {
		m.env.Log.Error("mount hook", "hook", name, "el", el.ID(), "err", err)
		delete(m.mounted, el)
		m.order = slices.DeleteFunc(m.order, func(x *dom.Node) bool { return x == el })
		return
	}
	m.env.Log.Debug("hook mounted", "hook", name, "el", el.ID())
}

func (m *Manager) destroy(el *dom.Node) {
	mh, ok := m.mounted[el]
	if !ok {
		return
	}
	delete(m.mounted, el)
	m.order = slices.DeleteFunc(m.order, func(x *dom.Node) bool { return x == el })
	mh.subs = nil
	mh.hook.Destroyed()
	m.env.Log.Debug("hook destroyed", "hook", mh.name, "el", el.ID())
}

func (m *Manager) subscribe(owner *mounted, name string, fn func(map[string]any)) func() {
	s := &subscription{name: name, fn: fn}
	owner.subs = append(owner.subs, s)
	return func() {
		owner.subs = slices.DeleteFunc(owner.subs, func(x *subscription) bool { return x == s })
	}
}

// ElementError reports a required element missing from the document.
func ElementError(hook, id string) error {
	return fmt.Errorf("%s: element #%s not found", hook, id)
}
