// Package render builds the document the client hooks run against and
// patches it with server updates.
package render

import (
	"fmt"
	"strconv"

	"github.com/pfassina/lore/internal/docs"
	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/hooks"
	"github.com/pfassina/lore/internal/jscmd"
	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/markdown"
	"github.com/pfassina/lore/internal/palette"
)

// Element ids.
const (
	ContainerID = "search-container"
	ModalID     = "search-modal"
	InputID     = "search-input"
	ListID      = "search-list"
	SidebarID   = "sidebar-container"
	OverlayID   = "sidebar-overlay"
	TreeID      = "sidebar-tree"
	PageID      = "page"
	PageBodyID  = "page-body"
)

// ActiveClass marks the highlighted search result.
const ActiveClass = "active"

// LineAttr holds the page line a page node starts on.
const LineAttr = "data-line"

// Skeleton is the fixed part of the document.
type Skeleton struct {
	Doc       *dom.Document
	Container *dom.Node
	Modal     *dom.Node
	Input     *dom.Node
	List      *dom.Node
	Sidebar   *dom.Node
	Overlay   *dom.Node
	Tree      *dom.Node
	Page      *dom.Node
	PageBody  *dom.Node

	parser *markdown.Parser
}

// Layout builds the skeleton into doc's body. colorMode is the stored
// selection the root starts with.
func Layout(doc *dom.Document, colorMode string) *Skeleton {
	show := jscmd.New().Show("").String()
	hide := jscmd.New().Hide("").String()

	doc.Root().SetAttr(hooks.ColorModeRootAttr, colorMode)
	body := doc.Body()
	body.SetAttr(hooks.Attr, hooks.ColorModeName)

	s := &Skeleton{Doc: doc, parser: markdown.NewParser()}
	s.Container = doc.Element("div", ContainerID,
		hooks.Attr, palette.HookName,
		"hidden", "",
		string(palette.Show), show,
		string(palette.Hide), hide,
	)
	s.Modal = doc.Element("div", ModalID,
		"hidden", "",
		string(palette.Show), show,
		string(palette.Hide), hide,
	)
	s.Input = doc.Element("input", InputID,
		hooks.Attr, hooks.MaintainAttrsName,
		"data-attrs", "value",
		"placeholder", "Search documentation",
	)
	s.List = doc.Element("ul", ListID, "role", "listbox")
	s.Modal.AppendChild(s.Input)
	s.Modal.AppendChild(s.List)
	s.Container.AppendChild(s.Modal)

	s.Sidebar = doc.Element("nav", SidebarID, hooks.Attr, hooks.SidebarName, "hidden", "")
	s.Tree = doc.Element("ul", TreeID)
	s.Sidebar.AppendChild(s.Tree)
	s.Overlay = doc.Element("div", OverlayID, "hidden", "")

	s.Page = doc.Element("article", PageID, hooks.Attr, hooks.EntryName)
	s.PageBody = doc.Element("div", PageBodyID, hooks.Attr, hooks.CopyCodeName)
	s.Page.AppendChild(s.PageBody)

	body.AppendChild(s.Sidebar)
	body.AppendChild(s.Overlay)
	body.AppendChild(s.Page)
	body.AppendChild(s.Container)
	return s
}

// Apply patches the document with upd. It returns the rendered page when
// the update carried a document.
func (s *Skeleton) Apply(upd *live.Update) *markdown.Page {
	if upd == nil {
		return nil
	}
	if upd.Query != nil {
		s.Input.SetValue(*upd.Query)
	}
	if upd.Results != nil {
		s.SetResults(*upd.Results)
	}
	if upd.Tree != nil {
		s.SetTree(upd.Tree)
	}
	if upd.Route != "" {
		s.Doc.SetLocation(upd.Route)
	}
	if upd.Document == nil {
		return nil
	}
	page := markdown.Render(upd.Document.Path, s.parser.Parse([]byte(upd.Document.Source)))
	if upd.Document.Title != "" {
		page.Title = upd.Document.Title
	}
	s.SetPage(page)
	return page
}

// SetResults replaces the result list.
func (s *Skeleton) SetResults(results []live.Result) {
	s.List.ReplaceChildren(ResultEntries(s.Doc, results)...)
}

// ResultEntries builds one list entry per result. The first child of each
// entry is the link the palette navigates to.
func ResultEntries(doc *dom.Document, results []live.Result) []*dom.Node {
	highlight := jscmd.New().AddClass("", ActiveClass).String()
	baseline := jscmd.New().RemoveClass("", ActiveClass).String()

	out := make([]*dom.Node, 0, len(results))
	for i, r := range results {
		href := "/" + r.Path
		if r.Anchor != "" {
			href += "#" + r.Anchor
		}
		li := doc.Element("li", fmt.Sprintf("result-%d", i),
			"role", "option",
			string(palette.Highlight), highlight,
			string(palette.Baseline), baseline,
		)
		link := doc.Element("a", "", "href", href)
		link.SetText(r.Title)
		li.AppendChild(link)
		if r.Extra != "" {
			extra := doc.Element("span", "", "class", "extra")
			extra.SetText(r.Extra)
			li.AppendChild(extra)
		}
		out = append(out, li)
	}
	return out
}

// SetTree replaces the sidebar tree.
func (s *Skeleton) SetTree(entries []docs.Entry) {
	nodes := make([]*dom.Node, 0, len(entries))
	for _, e := range entries {
		li := s.Doc.Element("li", "",
			"data-path", e.Path,
			"data-depth", strconv.Itoa(e.Depth),
		)
		if e.IsDir {
			li.SetAttr("data-dir", "")
		}
		li.SetText(e.Name)
		nodes = append(nodes, li)
	}
	s.Tree.ReplaceChildren(nodes...)
}

// SetPage replaces the page body with the addressable parts of page: one
// heading per anchor and a copy button before each code block.
func (s *Skeleton) SetPage(page *markdown.Page) {
	s.Page.SetAttr("data-path", page.Path)
	var nodes []*dom.Node
	for i, l := range page.Lines {
		if l.Kind != markdown.LineHeading || l.Anchor == "" {
			continue
		}
		h := s.Doc.Element(fmt.Sprintf("h%d", l.Level), l.Anchor, LineAttr, strconv.Itoa(i))
		link := s.Doc.Element("a", "", "href", "#"+l.Anchor, "class", hooks.AnchorLinkClass)
		link.SetText(l.Text)
		h.AppendChild(link)
		nodes = append(nodes, h)
	}
	for i, b := range page.CodeBlocks {
		button := s.Doc.Element("button", CopyButtonID(i), LineAttr, strconv.Itoa(b.Start), "class", "copy")
		button.SetText("copy")
		pre := s.Doc.Element("pre", "", "data-lang", b.Lang)
		pre.SetText(b.Text)
		nodes = append(nodes, button, pre)
	}
	s.PageBody.ReplaceChildren(nodes...)
}

// CopyButtonID returns the id of the copy button of code block i.
func CopyButtonID(i int) string { return fmt.Sprintf("copy-%d", i) }

// HeadingLink returns the anchor link inside the heading with anchor.
func (s *Skeleton) HeadingLink(anchor string) *dom.Node {
	h := s.Doc.GetElementByID(anchor)
	if h == nil || !s.PageBody.Contains(h) {
		return nil
	}
	return h.FirstChild()
}

// LineOf returns the page line a page node starts on.
func LineOf(n *dom.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	v, ok := n.Attr(LineAttr)
	if !ok {
		return 0, false
	}
	line, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return line, true
}
