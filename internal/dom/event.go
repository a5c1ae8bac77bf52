package dom

import "slices"

// Event types dispatched by the host.
const (
	KeyDown   = "keydown"
	MouseOver = "mouseover"
	Click     = "click"
	Input     = "input"
)

// Event is a DOM-style event. Key events use DOM key names ("ArrowDown",
// "Enter", "Escape", "Tab", or the typed character). Custom events carry
// their payload in Detail.
type Event struct {
	Type   string
	Target *Node

	Key   string
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool

	X, Y                 int
	MovementX, MovementY int

	Detail map[string]any

	defaultPrevented bool
	stopped          bool
}

// NewCustomEvent builds a named event carrying detail.
func NewCustomEvent(name string, detail map[string]any) *Event {
	return &Event{Type: name, Detail: detail}
}

// PreventDefault marks the event as handled so the host skips its default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops bubbling after the current target.
func (e *Event) StopPropagation() { e.stopped = true }

// DetailString returns a string field from Detail.
func (e *Event) DetailString(key string) string {
	if e.Detail == nil {
		return ""
	}
	s, _ := e.Detail[key].(string)
	return s
}

// Listener handles a dispatched event.
type Listener func(*Event)

type listener struct {
	id int
	fn Listener
}

// EventTarget holds listeners keyed by event type. The zero value is ready to use.
type EventTarget struct {
	listeners map[string][]listener
	nextID    int
}

// AddEventListener registers fn for events of typ and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (t *EventTarget) AddEventListener(typ string, fn Listener) (remove func()) {
	if t.listeners == nil {
		t.listeners = make(map[string][]listener)
	}
	t.nextID++
	id := t.nextID
	t.listeners[typ] = append(t.listeners[typ], listener{id: id, fn: fn})

	return func() {
		t.listeners[typ] = slices.DeleteFunc(t.listeners[typ], func(l listener) bool { return l.id == id })
		if len(t.listeners[typ]) == 0 {
			delete(t.listeners, typ)
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (t *EventTarget) ListenerCount(typ string) int {
	return len(t.listeners[typ])
}

// TotalListeners returns the number of listeners across all types.
func (t *EventTarget) TotalListeners() int {
	n := 0
	for _, ls := range t.listeners {
		n += len(ls)
	}
	return n
}

func (t *EventTarget) fire(e *Event) {
	// Snapshot so listeners may add or remove listeners while running.
	for _, l := range slices.Clone(t.listeners[e.Type]) {
		l.fn(e)
		if e.stopped {
			return
		}
	}
}

// Dispatch delivers e to n and then bubbles it through n's ancestors. When n is
// attached the event finally reaches the window. Target defaults to n.
func (n *Node) Dispatch(e *Event) {
	if e.Target == nil {
		e.Target = n
	}
	for c := n; c != nil; c = c.parent {
		c.fire(e)
		if e.stopped {
			return
		}
	}
	if n.Attached() {
		n.doc.window.fire(e)
	}
}
