package palette

import (
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/hooks"
)

// Server event names.
const (
	EventSearch   = "search"
	EventNavigate = "navigate"
)

type SearchInput struct {
	Input string `json:"input"`
}

// SearchPayload is the body of a search event.
type SearchPayload struct {
	Search SearchInput `json:"search"`
}

// NavigatePayload is the body of a navigate event.
type NavigatePayload struct {
	Path string `json:"path"`
}

// Dispatcher turns a selection into a navigation request.
type Dispatcher struct {
	channel hooks.Channel
	target  string
	input   *dom.Node
	close   func()
	log     *log.Logger
}

// NewDispatcher addresses events to target and calls closeFn after sending.
func NewDispatcher(ch hooks.Channel, target string, input *dom.Node, closeFn func(), logger *log.Logger) *Dispatcher {
	return &Dispatcher{channel: ch, target: target, input: input, close: closeFn, log: logger}
}

// Select clears the query, asks the server to navigate to entry's link and
// closes the palette. A nil entry or one without a link does nothing.
func (d *Dispatcher) Select(entry *dom.Node) {
	if entry == nil {
		return
	}
	path, ok := EntryPath(entry)
	if !ok {
		d.log.Debug("entry has no link", "entry", entry.ID())
		return
	}

	d.input.SetValue("")
	d.push(EventSearch, SearchPayload{Search: SearchInput{Input: ""}})
	d.push(EventNavigate, NavigatePayload{Path: path})
	d.close()
}

// Search sends the current query.
func (d *Dispatcher) Search(input string) {
	d.push(EventSearch, SearchPayload{Search: SearchInput{Input: input}})
}

func (d *Dispatcher) push(event string, payload any) {
	if err := d.channel.PushEventTo(d.target, event, payload); err != nil {
		d.log.Warn("push event", "event", event, "err", err)
	}
}

// EntryPath extracts the path and fragment of the entry's first child link.
func EntryPath(entry *dom.Node) (string, bool) {
	link := entry.FirstChild()
	if link == nil {
		return "", false
	}
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	path := u.Path
	if u.Fragment != "" {
		path += "#" + u.Fragment
	}
	return path, path != ""
}
