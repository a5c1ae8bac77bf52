package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/hooks"
	"github.com/pfassina/lore/internal/palette"
	"github.com/pfassina/lore/internal/panel"
	"github.com/pfassina/lore/internal/render"
)

// push sends an event to the live session.
func (a *App) push(event string, payload any) {
	if err := a.channel.PushEventTo(render.ContainerID, event, payload); err != nil {
		a.log.Warn("push event", "event", event, "err", err)
		a.status.SetFlash(panel.FlashError, err.Error())
	}
}

// navigateTo asks the session to open a document.
func (a *App) navigateTo(path string) {
	a.push(palette.EventNavigate, palette.NavigatePayload{Path: "/" + path})
}

// jumpToHeading follows the anchor link of a heading on the open page.
func (a *App) jumpToHeading(anchor string) {
	link := a.sk.HeadingLink(anchor)
	if link == nil {
		return
	}
	link.Dispatch(&dom.Event{Type: dom.Click})
}

func (a *App) OpenSearch() {
	a.sk.Doc.DispatchWindow(dom.NewCustomEvent("open-search", nil))
}

// Reindex re-indexes the library in the background. Remote sessions have no
// local index.
func (a *App) Reindex() tea.Cmd {
	if a.reindex == nil {
		a.status.SetFlash(panel.FlashWarn, "reindex is not available on a remote session")
		return nil
	}
	a.status.SetFlash(panel.FlashInfo, "indexing…")
	reindex := a.reindex
	return func() tea.Msg {
		n, err := reindex()
		return reindexDoneMsg{count: n, err: err}
	}
}

func (a *App) handleReindexDone(msg reindexDoneMsg) {
	if msg.err != nil {
		a.log.Error("reindex", "err", msg.err)
		a.status.SetFlash(panel.FlashError, msg.err.Error())
		return
	}
	a.status.SetFlash(panel.FlashInfo, fmt.Sprintf("indexed %d documents", msg.count))
}

// ToggleTree asks the session to open or close the sidebar.
func (a *App) ToggleTree() {
	a.push("toggle-sidebar", map[string]bool{"open": a.sk.Sidebar.Hidden()})
}

func (a *App) ToggleInfo() {
	a.state.ShowInfo = !a.state.ShowInfo
	if !a.state.ShowInfo && a.focused == focusInfo {
		a.setFocus(focusPage)
	}
	a.saveState()
	a.updateLayout()
}

func (a *App) ToggleStatus() {
	a.showStatus = !a.showStatus
	a.updateLayout()
}

func (a *App) ToggleZen() {
	a.zenMode = !a.zenMode
	if a.zenMode && (a.focused == focusTree || a.focused == focusInfo) {
		a.setFocus(focusPage)
	}
	a.updateLayout()
}

// SetColorMode selects dark, light or system colors.
func (a *App) SetColorMode(mode string) {
	a.sk.Doc.DispatchWindow(dom.NewCustomEvent("set-color-mode", map[string]any{"mode": mode}))
	a.status.SetFlash(panel.FlashInfo, "color mode: "+mode)
}

// CopyCode copies the first code block in view.
func (a *App) CopyCode() {
	i, ok := a.viewer.CodeBlockAtTop()
	if !ok {
		a.status.SetFlash(panel.FlashWarn, "no code block in view")
		return
	}
	a.copyBlock(i)
}

func (a *App) copyBlock(i int) {
	button := a.sk.Doc.GetElementByID(render.CopyButtonID(i))
	if button == nil {
		return
	}
	a.sk.Doc.DispatchWindow(&dom.Event{Type: "copy-code", Target: button})
}

// copying reports whether a copy confirmation is showing.
func (a *App) copying() bool {
	for _, c := range a.sk.PageBody.Children() {
		if c.HasClass(hooks.CopiedClass) {
			return true
		}
	}
	return false
}
