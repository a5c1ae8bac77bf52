package live

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// LocalChannel connects a client to a session in the same process. Events
// are handled in order on one worker goroutine; PushEventTo never blocks.
type LocalChannel struct {
	session  *Session
	onUpdate func(*Update)
	log      *log.Logger

	mu      sync.Mutex
	queue   []job
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	unsub   func()
}

type job struct {
	event   string
	payload json.RawMessage
	refresh bool
}

// NewLocalChannel starts a session on b. onUpdate runs on the worker
// goroutine, first with the session's initial state.
func NewLocalChannel(b *Backend, onUpdate func(*Update), logger *log.Logger) *LocalChannel {
	if logger == nil {
		logger = log.Default()
	}
	c := &LocalChannel{
		session:  b.NewSession(),
		onUpdate: onUpdate,
		log:      logger.With("component", "channel"),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	c.unsub = b.Hub().Subscribe(c.session.ID, c.Refresh)
	go c.run()
	return c
}

// Session returns the served session.
func (c *LocalChannel) Session() *Session { return c.session }

// PushEventTo queues an event for the session. target is accepted for
// interface compatibility; a session has a single handler.
func (c *LocalChannel) PushEventTo(target, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	return c.enqueue(job{event: event, payload: raw})
}

// Refresh queues a re-run of the session state.
func (c *LocalChannel) Refresh() {
	if err := c.enqueue(job{refresh: true}); err != nil {
		c.log.Debug("refresh after close", "err", err)
	}
}

func (c *LocalChannel) enqueue(j job) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.queue = append(c.queue, j)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

func (c *LocalChannel) run() {
	defer close(c.stopped)

	if upd, err := c.session.Start(); err != nil {
		c.log.Error("start session", "err", err)
	} else {
		c.onUpdate(upd)
	}

	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}
		for {
			c.mu.Lock()
			if len(c.queue) == 0 {
				c.mu.Unlock()
				break
			}
			j := c.queue[0]
			c.queue = c.queue[1:]
			c.mu.Unlock()
			c.process(j)
		}
	}
}

func (c *LocalChannel) process(j job) {
	var (
		upd *Update
		err error
	)
	if j.refresh {
		upd, err = c.session.Refresh()
	} else {
		upd, err = c.session.HandleEvent(j.event, j.payload)
	}
	if err != nil {
		c.log.Warn("handle event", "event", j.event, "refresh", j.refresh, "err", err)
		c.onUpdate(Flash("error", err.Error()))
		return
	}
	c.onUpdate(upd)
}

// Close stops the worker. Queued events are dropped.
func (c *LocalChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.queue = nil
	c.mu.Unlock()

	c.unsub()
	close(c.done)
	<-c.stopped
	return nil
}
