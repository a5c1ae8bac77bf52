package live

import "sync"

// Hub fans library change notifications out to every connected session.
type Hub struct {
	mu   sync.Mutex
	subs map[string]func()
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]func())}
}

// Subscribe registers fn under a session id and returns an unsubscribe func.
func (h *Hub) Subscribe(id string, fn func()) (unsubscribe func()) {
	h.mu.Lock()
	h.subs[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Broadcast calls every subscriber.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
