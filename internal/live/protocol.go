// Package live is the server side of the search palette's event channel. A
// Session owns search and navigation state; channels carry client events to
// it and its updates back to the client, either in process or over a
// WebSocket.
package live

import (
	"encoding/json"

	"github.com/pfassina/lore/internal/docs"
)

// Envelope types.
const (
	TypeEvent  = "event"
	TypeUpdate = "update"
	TypeError  = "error"
)

// Envelope is one WebSocket message in either direction.
type Envelope struct {
	Type    string          `json:"type"`
	Target  string          `json:"target,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Update  *Update         `json:"update,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Result is one search hit. Heading hits carry an anchor.
type Result struct {
	Path   string `json:"path"`
	Title  string `json:"title"`
	Extra  string `json:"extra,omitempty"`
	Anchor string `json:"anchor,omitempty"`
}

// Document is the page sent after a route change.
type Document struct {
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Source      string   `json:"source"`
	Backlinks   []Result `json:"backlinks,omitempty"`
}

// PushedEvent is a named event the server pushes to client hooks.
type PushedEvent struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Update is a patch of server state. Nil or empty fields leave the client's
// copy unchanged; Results distinguishes unchanged (nil) from empty.
type Update struct {
	SessionID string        `json:"session_id,omitempty"`
	Route     string        `json:"route,omitempty"`
	Query     *string       `json:"query,omitempty"`
	Results   *[]Result     `json:"results,omitempty"`
	Document  *Document     `json:"document,omitempty"`
	Tree      []docs.Entry  `json:"tree,omitempty"`
	Events    []PushedEvent `json:"events,omitempty"`
}

// Flash builds an update carrying a single flash message.
func Flash(kind, message string) *Update {
	return &Update{Events: []PushedEvent{{
		Name:    "flash",
		Payload: map[string]any{"kind": kind, "message": message},
	}}}
}
