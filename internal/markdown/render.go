package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// LineKind classifies a rendered line.
type LineKind int

const (
	LineText LineKind = iota
	LineBlank
	LineHeading
	LineCode
	LineQuote
	LineItem
	LineRule
	LineTable
)

// Line is one logical line of a rendered page. Text lines are wrapped by the
// viewer; code lines are not.
type Line struct {
	Kind   LineKind
	Text   string
	Level  int    // heading level
	Anchor string // heading anchor
	Indent int
	Block  int // code block index, -1 otherwise
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Lang  string
	Text  string
	Start int // index into Page.Lines of the first code line
}

// Page is a document rendered for the terminal.
type Page struct {
	Path       string
	Title      string
	Lines      []Line
	Headings   []Heading
	CodeBlocks []CodeBlock
}

// AnchorLine returns the line index of the heading with anchor.
func (p *Page) AnchorLine(anchor string) (int, bool) {
	for i, l := range p.Lines {
		if l.Kind == LineHeading && l.Anchor == anchor {
			return i, true
		}
	}
	return 0, false
}

// Render lays out doc as terminal lines.
func Render(path string, doc *Document) *Page {
	r := &renderer{
		src:  doc.Body,
		page: &Page{Path: path, Title: doc.Title(path), Headings: doc.Headings},
	}
	for c := doc.root.FirstChild(); c != nil; c = c.NextSibling() {
		if len(r.page.Lines) > 0 {
			r.emit(Line{Kind: LineBlank})
		}
		r.block(c, 0)
	}
	return r.page
}

type renderer struct {
	src  []byte
	page *Page
}

func (r *renderer) emit(l Line) {
	if l.Kind != LineCode {
		l.Block = -1
	}
	r.page.Lines = append(r.page.Lines, l)
}

func (r *renderer) block(n ast.Node, depth int) {
	switch n := n.(type) {
	case *ast.Heading:
		r.emit(Line{Kind: LineHeading, Text: inlineText(n, r.src), Level: n.Level, Anchor: headingID(n), Indent: depth})
	case *ast.Paragraph, *ast.TextBlock:
		r.emit(Line{Kind: LineText, Text: inlineText(n, r.src), Indent: depth})
	case *ast.FencedCodeBlock:
		r.code(string(n.Language(r.src)), n.Lines(), depth)
	case *ast.CodeBlock:
		r.code("", n.Lines(), depth)
	case *ast.List:
		r.list(n, depth)
	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.emit(Line{Kind: LineQuote, Text: inlineText(c, r.src), Indent: depth})
		}
	case *ast.ThematicBreak:
		r.emit(Line{Kind: LineRule, Indent: depth})
	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			r.emit(Line{Kind: LineText, Text: strings.TrimRight(string(seg.Value(r.src)), "\n"), Indent: depth})
		}
	case *extast.Table:
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, inlineText(cell, r.src))
			}
			r.emit(Line{Kind: LineTable, Text: strings.Join(cells, " │ "), Indent: depth})
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(c, depth)
		}
	}
}

func (r *renderer) code(lang string, lines *text.Segments, depth int) {
	idx := len(r.page.CodeBlocks)
	start := len(r.page.Lines)
	var body strings.Builder
	for i := range lines.Len() {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(r.src)), "\n")
		body.WriteString(line)
		body.WriteByte('\n')
		r.emit(Line{Kind: LineCode, Text: line, Indent: depth, Block: idx})
	}
	r.page.CodeBlocks = append(r.page.CodeBlocks, CodeBlock{
		Lang:  lang,
		Text:  strings.TrimSuffix(body.String(), "\n"),
		Start: start,
	})
}

func (r *renderer) list(n *ast.List, depth int) {
	num := n.Start
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				if first {
					r.emit(Line{Kind: LineItem, Text: marker + inlineText(c, r.src), Indent: depth})
					first = false
					continue
				}
			}
			r.block(c, depth+1)
		}
		if first {
			r.emit(Line{Kind: LineItem, Text: strings.TrimSpace(marker), Indent: depth})
		}
	}
}

// inlineText flattens inline content, keeping code spans in backticks.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		switch t := c.(type) {
		case *ast.CodeSpan:
			b.WriteByte('`')
		case *ast.Text:
			if entering {
				b.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				b.Write(t.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(t.URL(src))
			}
		case *ast.Image:
			if entering {
				b.WriteString("[image: ")
				b.WriteString(plainText(t, src))
				b.WriteString("]")
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
