package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pfassina/lore/internal/docs"
)

var (
	// ErrUnknownEvent is returned for events no handler exists for.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrClosed is returned when pushing to a closed channel.
	ErrClosed = errors.New("channel closed")
)

// Searcher runs queries for a session. An empty query lists everything.
type Searcher interface {
	Search(query string) ([]Result, error)
}

// Library serves the document tree and pages.
type Library interface {
	Tree() ([]docs.Entry, error)
	Document(path string) (*Document, bool, error)
}

// Session is the per-client server state.
type Session struct {
	ID string

	searcher Searcher
	library  Library

	mu        sync.Mutex
	query     string
	route     string
	colorMode string
}

func NewSession(s Searcher, l Library) *Session {
	return &Session{ID: uuid.NewString(), searcher: s, library: l}
}

// Start returns the initial state for a new client.
func (s *Session) Start() (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.library.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}
	results, err := s.searcher.Search(s.query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &Update{SessionID: s.ID, Tree: tree, Results: &results}, nil
}

// Route returns the current route.
func (s *Session) Route() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

// ColorMode returns the last color mode the client reported.
func (s *Session) ColorMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colorMode
}

type searchEvent struct {
	Search struct {
		Input string `json:"input"`
	} `json:"search"`
}

type navigateEvent struct {
	Path string `json:"path"`
}

type colorModeEvent struct {
	SelectedMode string `json:"selected_mode"`
	Mode         string `json:"mode"`
}

type sidebarEvent struct {
	Open bool `json:"open"`
}

// HandleEvent applies a client event and returns the resulting update.
func (s *Session) HandleEvent(event string, payload json.RawMessage) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event {
	case "search":
		var ev searchEvent
		if err := decode(payload, &ev); err != nil {
			return nil, fmt.Errorf("search payload: %w", err)
		}
		return s.search(ev.Search.Input)

	case "navigate":
		var ev navigateEvent
		if err := decode(payload, &ev); err != nil {
			return nil, fmt.Errorf("navigate payload: %w", err)
		}
		return s.navigate(ev.Path)

	case "set-color-mode":
		var ev colorModeEvent
		if err := decode(payload, &ev); err != nil {
			return nil, fmt.Errorf("color mode payload: %w", err)
		}
		s.colorMode = ev.Mode
		return &Update{}, nil

	case "toggle-sidebar":
		var ev sidebarEvent
		if err := decode(payload, &ev); err != nil {
			return nil, fmt.Errorf("sidebar payload: %w", err)
		}
		name := "close-sidebar"
		if ev.Open {
			name = "open-sidebar"
		}
		return &Update{Events: []PushedEvent{{Name: name}}}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
}

func (s *Session) search(input string) (*Update, error) {
	results, err := s.searcher.Search(input)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", input, err)
	}
	s.query = input
	q := input
	return &Update{Query: &q, Results: &results}, nil
}

func (s *Session) navigate(target string) (*Update, error) {
	path, _, _ := strings.Cut(strings.TrimPrefix(target, "/"), "#")
	doc, ok, err := s.library.Document(path)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", path, err)
	}
	if !ok {
		return Flash("error", "no such document: "+path), nil
	}
	s.route = strings.TrimPrefix(target, "/")
	return &Update{Route: s.route, Document: doc}, nil
}

// Refresh rebuilds the tree, results and current page after the library
// changed.
func (s *Session) Refresh() (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.library.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}
	results, err := s.searcher.Search(s.query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	upd := &Update{Tree: tree, Results: &results}

	if s.route == "" {
		return upd, nil
	}
	path, _, _ := strings.Cut(s.route, "#")
	doc, ok, err := s.library.Document(path)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", path, err)
	}
	if ok {
		upd.Route = s.route
		upd.Document = doc
	} else {
		upd.Events = Flash("warn", "document removed: "+path).Events
	}
	return upd, nil
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}
