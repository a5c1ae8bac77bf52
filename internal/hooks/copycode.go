package hooks

import (
	"time"

	"github.com/atotto/clipboard"

	"github.com/pfassina/lore/internal/dom"
)

// CopiedClass is set on a copy button while its confirmation is showing.
const CopiedClass = "copied"

const copyRevertDelay = time.Second

// CopyCode copies code blocks to the clipboard when their copy button fires
// a copy-code event.
type CopyCode struct {
	write func(string) error

	ctx    *Context
	remove func()
	timers map[*dom.Node]func()
}

// NewCopyCode returns a factory. A nil write uses the system clipboard.
func NewCopyCode(write func(string) error) Factory {
	if write == nil {
		write = clipboard.WriteAll
	}
	return func() Hook { return &CopyCode{write: write} }
}

func (c *CopyCode) Mounted(ctx *Context) error {
	c.ctx = ctx
	c.timers = make(map[*dom.Node]func())
	c.remove = ctx.Doc.Window().AddEventListener("copy-code", c.onCopy)
	return nil
}

func (c *CopyCode) Destroyed() {
	if c.remove != nil {
		c.remove()
		c.remove = nil
	}
	for _, cancel := range c.timers {
		cancel()
	}
	c.timers = nil
}

func (c *CopyCode) onCopy(e *dom.Event) {
	button := e.Target
	if button == nil || !c.ctx.El.Contains(button) {
		return
	}
	code := button.NextSibling()
	if code == nil {
		return
	}
	text := code.TextContent()

	if err := c.write(text); err != nil {
		c.ctx.Log.Warn("clipboard write failed", "err", err)
		c.ctx.Prompter.Prompt("Copy manually", text)
		return
	}

	button.AddClass(CopiedClass)
	if cancel, ok := c.timers[button]; ok {
		cancel()
	}
	c.timers[button] = c.ctx.Scheduler.AfterFunc(copyRevertDelay, func() {
		delete(c.timers, button)
		button.RemoveClass(CopiedClass)
	})
}
