// Package jscmd encodes and executes the visual transitions carried by
// directive attributes such as phx-show or phx-highlight.
//
// An encoded command is a JSON array of [op, args] pairs:
//
//	[["show",{"to":"#search-modal"}],["add_class",{"names":["active"]}]]
package jscmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Operation names.
const (
	OpShow        = "show"
	OpHide        = "hide"
	OpToggle      = "toggle"
	OpAddClass    = "add_class"
	OpRemoveClass = "remove_class"
	OpSetAttr     = "set_attr"
	OpRemoveAttr  = "remove_attr"
	OpFocus       = "focus"
	OpDispatch    = "dispatch"
)

// Args are the arguments of a single operation. To retargets the operation
// to another element by "#id"; empty means the node the command runs on.
type Args struct {
	To     string         `json:"to,omitempty"`
	Names  []string       `json:"names,omitempty"`
	Attr   []string       `json:"attr,omitempty"`
	Event  string         `json:"event,omitempty"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Op is one [kind, args] pair.
type Op struct {
	Kind string
	Args Args
}

func (o Op) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Kind, o.Args})
}

func (o *Op) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) == 0 || len(pair) > 2 {
		return fmt.Errorf("op: want [kind, args], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &o.Kind); err != nil {
		return fmt.Errorf("op kind: %w", err)
	}
	o.Args = Args{}
	if len(pair) == 2 {
		if err := json.Unmarshal(pair[1], &o.Args); err != nil {
			return fmt.Errorf("op %s args: %w", o.Kind, err)
		}
	}
	return nil
}

// Command is an ordered list of operations.
type Command []Op

// Parse decodes an encoded command.
func Parse(encoded string) (Command, error) {
	var cmd Command
	if err := json.Unmarshal([]byte(encoded), &cmd); err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	return cmd, nil
}

// String encodes the command for use as an attribute value. A command that
// cannot be encoded, such as one whose dispatch detail holds a func, becomes
// the empty command.
func (c Command) String() string {
	if c == nil {
		c = Command{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		log.Warn("dropping unencodable command", "component", "jscmd", "err", err)
		return "[]"
	}
	return string(data)
}

// New starts an empty command for chaining.
func New() Command { return Command{} }

func (c Command) with(kind string, args Args) Command {
	out := make(Command, len(c), len(c)+1)
	copy(out, c)
	return append(out, Op{Kind: kind, Args: args})
}

// Show clears the hidden state of the target.
func (c Command) Show(to string) Command { return c.with(OpShow, Args{To: to}) }

// Hide sets the hidden state of the target.
func (c Command) Hide(to string) Command { return c.with(OpHide, Args{To: to}) }

// Toggle flips the hidden state of the target.
func (c Command) Toggle(to string) Command { return c.with(OpToggle, Args{To: to}) }

// AddClass adds class names to the target.
func (c Command) AddClass(to string, names ...string) Command {
	return c.with(OpAddClass, Args{To: to, Names: names})
}

// RemoveClass removes class names from the target.
func (c Command) RemoveClass(to string, names ...string) Command {
	return c.with(OpRemoveClass, Args{To: to, Names: names})
}

// SetAttr sets an attribute on the target.
func (c Command) SetAttr(to, name, value string) Command {
	return c.with(OpSetAttr, Args{To: to, Attr: []string{name, value}})
}

// RemoveAttr removes an attribute from the target.
func (c Command) RemoveAttr(to, name string) Command {
	return c.with(OpRemoveAttr, Args{To: to, Attr: []string{name}})
}

// Focus moves document focus to the target.
func (c Command) Focus(to string) Command { return c.with(OpFocus, Args{To: to}) }

// Dispatch fires a custom window event.
func (c Command) Dispatch(event string, detail map[string]any) Command {
	return c.with(OpDispatch, Args{Event: event, Detail: detail})
}
