// Package palette implements the search palette: a keyboard and mouse driven
// cursor over a result list that the server re-renders, opened and closed by
// shortcut, with selections sent back to the server as navigation requests.
package palette

import (
	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/hooks"
)

// Directive names an attribute holding an encoded visual transition.
type Directive string

const (
	Show      Directive = "phx-show"
	Hide      Directive = "phx-hide"
	Highlight Directive = "phx-highlight"
	Baseline  Directive = "phx-baseline"
)

// Apply runs the transition stored in n's directive attribute. Missing
// executors, nodes and attributes, and detached nodes, are silently skipped.
func Apply(exec hooks.Executor, n *dom.Node, d Directive) {
	if exec == nil || n == nil || !n.Attached() {
		return
	}
	encoded, ok := n.Attr(string(d))
	if !ok {
		return
	}
	exec.Exec(n, encoded)
}
