package app

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/pfassina/lore/internal/config"
	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/hooks"
	"github.com/pfassina/lore/internal/jscmd"
	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/palette"
	"github.com/pfassina/lore/internal/panel"
	"github.com/pfassina/lore/internal/render"
	"github.com/pfassina/lore/internal/session"
	"github.com/pfassina/lore/internal/theme"
	"github.com/pfassina/lore/internal/viewer"
)

type focusedPanel int

const (
	focusPage focusedPanel = iota
	focusTree
	focusInfo
)

// Channel is a connection to a live session.
type Channel interface {
	hooks.Channel
	Close() error
}

// Connector opens a channel whose updates and failures are reported through
// the callbacks.
type Connector func(onUpdate func(*live.Update), onError func(error)) (Channel, error)

// Local connects to an in-process session on b.
func Local(b *live.Backend, logger *log.Logger) Connector {
	return func(onUpdate func(*live.Update), _ func(error)) (Channel, error) {
		return live.NewLocalChannel(b, onUpdate, logger), nil
	}
}

// Options configures an App.
type Options struct {
	Config  config.Config
	Connect Connector
	// Store persists layout and color mode. Nil keeps them in memory.
	Store *session.Store
	// Reindex rebuilds the index. Nil disables the reindex binding.
	Reindex func() (int, error)
	// DetectDark resolves the system color mode. Nil asks the terminal.
	DetectDark func() bool
	// Copy writes to the clipboard. Nil uses the system clipboard.
	Copy func(string) error
	// Mode labels the session in the status bar.
	Mode   string
	Logger *log.Logger
}

type App struct {
	cfg     config.Config
	log     *log.Logger
	channel Channel
	mgr     *hooks.Manager
	sk      *render.Skeleton
	store   *session.Store
	state   session.State
	reindex func() (int, error)

	tree     panel.Tree
	info     panel.Info
	status   panel.Status
	whichKey panel.WhichKey
	palette  panel.Palette
	prompt   panel.Prompt
	viewer   viewer.Viewer
	theme    theme.Theme
	dark     bool

	width      int
	height     int
	focused    focusedPanel
	showStatus bool
	zenMode    bool
	treeOpen   bool

	// Leader key system
	bindings map[string]*Binding
	leader   LeaderState

	// last pointer position, for hover movement
	lastX, lastY int

	msgs      chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

func New(opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Connect == nil {
		return nil, errors.New("new app: no connector")
	}

	state := session.Default()
	if opts.Store != nil {
		s, err := opts.Store.Load()
		if err != nil {
			logger.Warn("load session state", "err", err)
		}
		state = s
	}
	if state.Items == nil {
		state.Items = make(map[string]string)
	}
	if _, ok := state.Items[hooks.ColorModeKey]; !ok {
		state.Items[hooks.ColorModeKey] = cfg.ColorMode
	}

	a := &App{
		cfg:        cfg,
		log:        logger.With("component", "app"),
		store:      opts.Store,
		state:      state,
		reindex:    opts.Reindex,
		tree:       panel.NewTree(),
		info:       panel.NewInfo(),
		status:     panel.NewStatus(cfg.DocsPath),
		whichKey:   panel.NewWhichKey(),
		prompt:     panel.NewPrompt(),
		viewer:     viewer.New(),
		focused:    focusPage,
		showStatus: cfg.ShowStatus,
		msgs:       make(chan tea.Msg, 64),
		done:       make(chan struct{}),
	}
	a.initLeader()
	if opts.Mode != "" {
		a.status.SetMode(opts.Mode)
	}

	doc := dom.NewDocument()
	a.sk = render.Layout(doc, state.Items[hooks.ColorModeKey])
	a.palette = panel.NewPalette(a.sk)
	a.palette.SetShortcutLabel(cfg.SearchShortcut)

	ch, err := opts.Connect(a.onUpdate, a.Fatal)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	a.channel = ch

	detectDark := opts.DetectDark
	if detectDark == nil {
		detectDark = termenv.HasDarkBackground
	}

	a.mgr = hooks.NewManager(hooks.Env{
		Doc:       doc,
		Channel:   ch,
		Exec:      jscmd.NewExecutor(doc, logger),
		Scheduler: loopScheduler{a},
		Scroller:  viewScroller{a},
		Storage:   session.NewStorage(opts.Store, &a.state),
		Prompter:  panelPrompter{a},
		Log:       logger,
	})
	a.mgr.Register(palette.HookName, palette.Factory(cfg.PaletteOptions()))
	a.mgr.Register(hooks.ColorModeName, hooks.NewColorMode(detectDark))
	a.mgr.Register(hooks.SidebarName, hooks.NewSidebar)
	a.mgr.Register(hooks.EntryName, hooks.NewAnchors(cfg.AnchorOffset))
	a.mgr.Register(hooks.CopyCodeName, hooks.NewCopyCode(opts.Copy))
	a.mgr.Register(hooks.MaintainAttrsName, hooks.NewMaintainAttrs)
	a.mgr.Start()

	if state.ShowTree {
		doc.DispatchWindow(dom.NewCustomEvent("open-sidebar", nil))
	}
	a.treeOpen = !a.sk.Sidebar.Hidden()
	a.applyTheme()
	a.setFocus(focusPage)

	if state.Route != "" {
		a.push(palette.EventNavigate, palette.NavigatePayload{Path: "/" + state.Route})
	}
	return a, nil
}

func (a *App) Init() tea.Cmd {
	return a.wait()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.sync()
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case inboxMsg:
		return tea.Batch(a.update(msg.msg), a.wait())

	case updateMsg:
		a.applyUpdate(msg.upd)
		return nil

	case *timerMsg:
		if !msg.cancelled {
			msg.fn()
		}
		return nil

	case fatalErrorMsg:
		a.Close()
		return fatalCmd(msg.err)

	case leaderTimeoutMsg:
		a.handleLeaderTimeout(msg.seq)
		a.updateWhichKey()
		return nil

	case reindexDoneMsg:
		a.handleReindexDone(msg)
		return nil

	case tea.WindowSizeMsg:
		// Some terminals send transient 0x0 sizes during live resizes; ignore them.
		if msg.Width <= 0 || msg.Height <= 0 {
			return nil
		}
		a.width = msg.Width
		a.height = msg.Height
		a.palette.SetSize(msg.Width, msg.Height)

		minW, minH := a.minWindowSize()
		if a.width < minW || a.height < minH {
			return tea.ClearScreen
		}

		layout := a.layout()
		promptW := min(max(layout.PageWidth*4/5, 40), 100)
		if promptW > a.width-2 {
			promptW = a.width - 2
		}
		a.prompt.SetSize(promptW, layout.Height)
		a.updateLayout()
		// Force a full terminal repaint on resize; some terminals/bubbletea render
		// paths can end up visually blank without an explicit clear.
		return tea.ClearScreen

	case tea.MouseMsg:
		if a.prompt.Visible() {
			return nil
		}
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case panel.FileSelectedMsg:
		a.navigateTo(msg.Path)
		a.setFocus(focusPage)

	case panel.BacklinkSelectedMsg:
		a.navigateTo(msg.Path)
		a.setFocus(focusPage)

	case panel.HeadingSelectedMsg:
		a.jumpToHeading(msg.Anchor)

	case panel.PromptCancelledMsg, panel.PromptResultMsg:
		// The prompt only shows values for manual copying.
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.Close()
		return tea.Quit
	}

	// The prompt takes priority when visible
	if a.prompt.Visible() {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return cmd
	}

	// Leader sequences are not shared with the document.
	if !a.leader.active {
		if a.dispatchKey(msg) {
			return nil
		}
		if a.palette.Visible() {
			return a.palette.HandleKey(msg)
		}
	}

	// Ctrl+h/l to switch panel focus
	switch msg.String() {
	case "ctrl+h":
		a.focusLeft()
		return nil
	case "ctrl+l":
		a.focusRight()
		return nil
	case "/":
		if !a.leader.active {
			a.OpenSearch()
			return nil
		}
	}

	// Escape returns from side panels to the page (unless tree help is showing)
	if msg.String() == "esc" && (a.focused == focusTree || a.focused == focusInfo) {
		if !(a.focused == focusTree && a.tree.ShowingHelp()) {
			a.setFocus(focusPage)
			return nil
		}
	}

	// Skip when tree help is showing so any key dismisses help first
	if a.focused != focusTree || !a.tree.ShowingHelp() {
		if consumed, cmd := a.handleLeaderKey(msg.String()); consumed {
			a.updateWhichKey()
			return cmd
		}
	}

	var cmd tea.Cmd
	switch a.focused {
	case focusTree:
		a.tree, cmd = a.tree.Update(msg)
	case focusInfo:
		a.info, cmd = a.info.Update(msg)
	default:
		a.viewer, cmd = a.viewer.Update(msg)
	}
	return cmd
}

// applyUpdate patches the document with a session update and refreshes the
// panels drawn from it.
func (a *App) applyUpdate(upd *live.Update) {
	if upd == nil {
		return
	}
	a.mgr.BeforeUpdate()
	page := a.sk.Apply(upd)
	a.mgr.AfterUpdate()

	if upd.SessionID != "" {
		a.log.Debug("session started", "session", upd.SessionID)
	}
	if upd.Tree != nil {
		a.tree.SetEntries(upd.Tree)
	}
	if upd.Query != nil {
		a.state.Query = *upd.Query
	}
	if page != nil {
		a.viewer.SetPage(page)
		a.info.SetPage(page.Headings, upd.Document.Backlinks)
		a.tree.SetCurrent(upd.Document.Path)
		a.status.SetRoute(upd.Route)
		a.status.ClearFlash()
		if upd.Route != a.state.Route {
			a.state.Route = upd.Route
			a.saveState()
		}
	}
	for _, ev := range upd.Events {
		if ev.Name == "flash" {
			kind, _ := ev.Payload["kind"].(string)
			text, _ := ev.Payload["message"].(string)
			a.status.SetFlash(kind, text)
			continue
		}
		a.mgr.Route(ev.Name, ev.Payload)
	}
}

// sync reconciles state derived from the document after every message.
func (a *App) sync() {
	if dark := a.sk.Doc.Root().HasClass("dark"); dark != a.dark {
		a.applyTheme()
	}
	if open := !a.sk.Sidebar.Hidden(); open != a.treeOpen {
		a.treeOpen = open
		a.state.ShowTree = open
		if !open && a.focused == focusTree {
			a.setFocus(focusPage)
		}
		a.saveState()
		a.updateLayout()
	}
	if a.copying() {
		a.status.SetClipboard("copied")
	} else {
		a.status.SetClipboard("")
	}
}

// applyTheme rebuilds the theme for the document's color mode. Panels hold
// a pointer to a.theme and see the change on their next View.
func (a *App) applyTheme() {
	a.dark = a.sk.Doc.Root().HasClass("dark")
	th, rejected := theme.FromOverrides(a.cfg.Colors, theme.Named(a.cfg.Theme, a.dark))
	for _, key := range rejected {
		a.log.Warn("ignoring color override", "key", key)
	}
	a.theme = th
	a.tree.SetTheme(&a.theme)
	a.info.SetTheme(&a.theme)
	a.palette.SetTheme(&a.theme)
	a.prompt.SetTheme(&a.theme)
	a.status.SetTheme(&a.theme)
	a.whichKey.SetTheme(&a.theme)
	a.viewer.SetTheme(&a.theme)
}

func (a *App) saveState() {
	if a.store == nil {
		return
	}
	if err := a.store.Save(a.state); err != nil {
		a.log.Warn("save session state", "err", err)
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	minW, minH := a.minWindowSize()
	if a.width < minW || a.height < minH {
		msg := fmt.Sprintf("Window too small (%dx%d)\nMinimum supported: %dx%d", a.width, a.height, minW, minH)
		// Use the terminal's default background so the placeholder matches whatever
		// theme the user is running.
		style := lipgloss.NewStyle().
			Foreground(a.theme.Text).
			Padding(1, 2)
		box := style.Render(msg)

		base := strings.Repeat("\n", max(a.height-1, 0))
		return overlayCenter(base, box, a.width, a.height)
	}

	showTree, showInfo := a.panelsVisible()
	layout := a.layout()

	pageView := a.pageTitle(layout.PageWidth) + "\n" + a.viewer.View()

	var columns []string
	if showTree {
		borderStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, true, false, false).
			BorderForeground(a.theme.Border).
			Width(max(layout.TreeWidth-1, 0)).
			Height(layout.Height).
			MaxHeight(layout.Height)
		columns = append(columns, borderStyle.Render(a.tree.View()))
	}

	pageStyle := lipgloss.NewStyle().
		Width(layout.PageWidth).
		Height(layout.Height).
		MaxHeight(layout.Height)
	columns = append(columns, pageStyle.Render(pageView))

	if showInfo {
		borderStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(a.theme.Border).
			Width(max(layout.InfoWidth-1, 0)).
			Height(layout.Height).
			MaxHeight(layout.Height)
		columns = append(columns, borderStyle.Render(a.info.View()))
	}

	result := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if a.showStatus {
		result += "\n" + a.status.View()
	}

	// Overlay which-key popup
	if a.leader.showHelp {
		if wkView := a.whichKey.View(); wkView != "" {
			result = overlayCenter(result, wkView, a.width, a.height)
		}
	}

	// Overlay the search palette
	if view := a.palette.View(); view != "" {
		x, y := a.palette.Origin()
		result = overlayAt(result, view, x, y, a.width)
	}

	// Overlay the prompt
	if a.prompt.Visible() {
		if promptView := a.prompt.View(); promptView != "" {
			result = overlayCenter(result, promptView, a.width, a.height)
		}
	}

	return result
}

// Close disconnects from the session. It is safe to call more than once and
// from any goroutine.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
		if err := a.channel.Close(); err != nil {
			a.log.Warn("close channel", "err", err)
		}
	})
}

func (a *App) panelsVisible() (bool, bool) {
	return a.treeOpen && !a.zenMode, a.state.ShowInfo && !a.zenMode
}

func (a *App) layout() Layout {
	showTree, showInfo := a.panelsVisible()
	return ComputeLayout(a.width, a.height, showTree, showInfo, a.showStatus, a.cfg.TreeWidth, a.cfg.InfoWidth)
}

func (a *App) minWindowSize() (minW, minH int) {
	// UX-driven minimum supported terminal size. Below this we stop rendering the
	// full UI and show a placeholder message.
	return 60, 16
}

func (a *App) updateLayout() {
	layout := a.layout()

	a.tree.SetSize(max(layout.TreeWidth-1, 0), layout.Height)
	a.info.SetSize(max(layout.InfoWidth-1, 0), layout.Height)
	a.status.SetWidth(a.width)
	a.whichKey.SetWidth(a.width / 2)
	a.viewer.SetSize(layout.PageWidth, max(layout.Height-1, 1)) // -1 for the title row
}

func (a *App) updateWhichKey() {
	if !a.leader.showHelp || a.leader.node == nil {
		a.whichKey.Clear()
		return
	}

	var entries []panel.WhichKeyEntry
	for _, b := range a.leader.node {
		entries = append(entries, panel.WhichKeyEntry{
			Key:   b.Key,
			Label: b.Label,
			Group: b.Children != nil,
		})
	}
	a.whichKey.SetEntries(a.leader.keys, entries)
}

func (a *App) pageTitle(width int) string {
	title := "lore"
	if p := a.viewer.Page(); p != nil {
		title = p.Title
		if title == "" {
			title = path.Base(p.Path)
		}
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.theme.Dim).
		Padding(0, 1).
		MaxWidth(width)
	if a.focused == focusPage {
		style = style.Foreground(a.theme.Accent).Underline(true)
	}
	return style.Render(title)
}

func (a *App) setFocus(target focusedPanel) {
	a.tree.SetFocused(target == focusTree)
	a.info.SetFocused(target == focusInfo)
	a.viewer.SetFocused(target == focusPage)
	a.focused = target
}

func (a *App) focusLeft() {
	showTree, _ := a.panelsVisible()
	switch a.focused {
	case focusPage:
		if showTree {
			a.setFocus(focusTree)
		}
	case focusInfo:
		a.setFocus(focusPage)
	}
}

func (a *App) focusRight() {
	_, showInfo := a.panelsVisible()
	switch a.focused {
	case focusPage:
		if showInfo {
			a.setFocus(focusInfo)
		}
	case focusTree:
		a.setFocus(focusPage)
	}
}
