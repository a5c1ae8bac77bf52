package hooks

import "strings"

// MaintainAttrs keeps client-owned attributes across server updates. The
// attribute names come from the element's data-attrs list.
type MaintainAttrs struct {
	ctx   *Context
	saved map[string]*string
}

func NewMaintainAttrs() Hook { return &MaintainAttrs{} }

func (m *MaintainAttrs) Mounted(ctx *Context) error {
	m.ctx = ctx
	return nil
}

func (m *MaintainAttrs) Destroyed() { m.saved = nil }

func (m *MaintainAttrs) BeforeUpdate() {
	m.saved = make(map[string]*string)
	for _, name := range m.names() {
		if v, ok := m.ctx.El.Attr(name); ok {
			m.saved[name] = &v
		} else {
			m.saved[name] = nil
		}
	}
}

func (m *MaintainAttrs) Updated() {
	for name, v := range m.saved {
		if v == nil {
			m.ctx.El.RemoveAttr(name)
		} else {
			m.ctx.El.SetAttr(name, *v)
		}
	}
	m.saved = nil
}

func (m *MaintainAttrs) names() []string {
	raw, _ := m.ctx.El.Attr("data-attrs")
	var out []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
