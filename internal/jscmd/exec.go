package jscmd

import (
	"github.com/charmbracelet/log"

	"github.com/pfassina/lore/internal/dom"
)

// Executor runs encoded commands against a document.
type Executor struct {
	doc *dom.Document
	log *log.Logger
}

func NewExecutor(doc *dom.Document, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{doc: doc, log: logger.With("component", "jscmd")}
}

// Exec decodes encoded and applies each operation to node (or to the op's
// "to" target). Malformed commands and unknown ops are logged and skipped.
func (e *Executor) Exec(node *dom.Node, encoded string) {
	if encoded == "" {
		return
	}
	cmd, err := Parse(encoded)
	if err != nil {
		e.log.Debug("skip malformed command", "node", node.ID(), "err", err)
		return
	}
	for _, op := range cmd {
		e.apply(node, op)
	}
}

func (e *Executor) apply(node *dom.Node, op Op) {
	target := node
	if op.Args.To != "" {
		target = e.doc.GetElementByID(op.Args.To)
	}
	if target == nil && op.Kind != OpDispatch {
		e.log.Debug("command target not found", "op", op.Kind, "to", op.Args.To)
		return
	}

	switch op.Kind {
	case OpShow:
		target.SetHidden(false)
	case OpHide:
		target.SetHidden(true)
	case OpToggle:
		target.SetHidden(!target.Hidden())
	case OpAddClass:
		target.AddClass(op.Args.Names...)
	case OpRemoveClass:
		target.RemoveClass(op.Args.Names...)
	case OpSetAttr:
		if len(op.Args.Attr) == 2 {
			target.SetAttr(op.Args.Attr[0], op.Args.Attr[1])
		}
	case OpRemoveAttr:
		if len(op.Args.Attr) >= 1 {
			target.RemoveAttr(op.Args.Attr[0])
		}
	case OpFocus:
		e.doc.Focus(target)
	case OpDispatch:
		if op.Args.Event != "" {
			e.doc.DispatchWindow(dom.NewCustomEvent(op.Args.Event, op.Args.Detail))
		}
	default:
		e.log.Debug("unknown command op", "op", op.Kind)
	}
}
