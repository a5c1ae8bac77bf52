package palette

import "github.com/pfassina/lore/internal/dom"

// Watch resynchronizes cursor whenever the children of list change. The
// returned func stops watching.
func Watch(list *dom.Node, cursor *Cursor) (disconnect func()) {
	return list.Observe(false, func([]dom.MutationRecord) {
		if first := list.FirstChild(); first != nil {
			cursor.ResetTo(first)
			return
		}
		cursor.Clear()
	})
}
