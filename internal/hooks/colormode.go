package hooks

import "github.com/pfassina/lore/internal/dom"

// Color modes.
const (
	ModeSystem = "system"
	ModeDark   = "dark"
	ModeLight  = "light"
)

// ColorModeKey is the storage key of the selected mode.
const ColorModeKey = "selected_color_mode"

// ColorModeRootAttr marks the element that receives the "dark" class.
const ColorModeRootAttr = "data-color-mode"

// ColorMode persists the selected color mode and applies it to the document.
type ColorMode struct {
	detectDark func() bool

	ctx    *Context
	remove []func()
}

// NewColorMode returns a factory. detectDark resolves the "system" mode; nil
// means a dark terminal.
func NewColorMode(detectDark func() bool) Factory {
	return func() Hook { return &ColorMode{detectDark: detectDark} }
}

func (c *ColorMode) Mounted(ctx *Context) error {
	c.ctx = ctx
	c.remove = append(c.remove,
		ctx.Doc.Window().AddEventListener("set-color-mode", func(e *dom.Event) {
			c.Set(e.DetailString("mode"))
		}),
	)
	c.apply(c.Selected())
	return nil
}

func (c *ColorMode) Destroyed() {
	for _, rm := range c.remove {
		rm()
	}
	c.remove = nil
}

// Selected returns the persisted mode, defaulting to system.
func (c *ColorMode) Selected() string {
	mode, _ := c.ctx.Storage.GetItem(ColorModeKey)
	return normalizeMode(mode)
}

// Set persists mode, notifies the server and applies the resulting theme.
func (c *ColorMode) Set(mode string) {
	mode = normalizeMode(mode)
	if err := c.ctx.Storage.SetItem(ColorModeKey, mode); err != nil {
		c.ctx.Log.Warn("persist color mode", "err", err)
	}
	actual := c.apply(mode)
	err := c.ctx.PushEvent("set-color-mode", map[string]string{
		"selected_mode": mode,
		"mode":          actual,
	})
	if err != nil {
		c.ctx.Log.Warn("push color mode", "err", err)
	}
}

// apply resolves mode to dark or light and toggles the root class.
func (c *ColorMode) apply(mode string) string {
	actual := mode
	if mode == ModeSystem {
		actual = ModeLight
		if c.detectDark == nil || c.detectDark() {
			actual = ModeDark
		}
	}

	root := c.ctx.Doc.Root()
	if root.HasAttr(ColorModeRootAttr) {
		if actual == ModeDark {
			root.AddClass("dark")
		} else {
			root.RemoveClass("dark")
		}
		root.SetAttr(ColorModeRootAttr, mode)
	}
	return actual
}

func normalizeMode(mode string) string {
	switch mode {
	case ModeDark, ModeLight:
		return mode
	default:
		return ModeSystem
	}
}
