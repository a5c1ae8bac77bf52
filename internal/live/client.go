package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Client is a channel to a remote session over WebSocket.
type Client struct {
	conn *websocket.Conn
	log  *log.Logger

	writeMu sync.Mutex
	mu      sync.Mutex
	closed  bool
	done    chan struct{}
}

// Dial connects to url (ws://host/live). onUpdate runs on the read
// goroutine for every update; onError runs once if the connection drops.
func Dial(ctx context.Context, url string, onUpdate func(*Update), onError func(error), logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		conn: conn,
		log:  logger.With("component", "client"),
		done: make(chan struct{}),
	}
	go c.readLoop(onUpdate, onError)
	return c, nil
}

func (c *Client) readLoop(onUpdate func(*Update), onError func(error)) {
	defer close(c.done)
	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			if onError != nil {
				onError(fmt.Errorf("live connection: %w", err))
			}
			return
		}

		switch env.Type {
		case TypeUpdate:
			if env.Update != nil {
				onUpdate(env.Update)
			}
		case TypeError:
			c.log.Warn("server error", "err", env.Error)
			onUpdate(Flash("error", env.Error))
		default:
			c.log.Debug("ignoring message", "type", env.Type)
		}
	}
}

// PushEventTo sends an event to the remote session.
func (c *Client) PushEventTo(target, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(Envelope{Type: TypeEvent, Target: target, Event: event, Payload: raw})
}

// Close sends a close frame and waits for the read loop to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := c.conn.WriteMessage(websocket.CloseMessage, msg)
	c.writeMu.Unlock()

	err := c.conn.Close()
	<-c.done
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		return errors.Join(werr, err)
	}
	return err
}
