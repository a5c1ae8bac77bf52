package markdown

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Parser wraps goldmark for markdown processing.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Heading is a section heading with its generated anchor.
type Heading struct {
	Level  int
	Text   string
	Anchor string
	Line   int // 1-based line in the full file
}

// Link is a relative link to another document.
type Link struct {
	Target   string
	Fragment string
	Line     int
}

// Document is a parsed markdown file.
type Document struct {
	Content        []byte
	Body           []byte
	Frontmatter    *Frontmatter
	FrontmatterErr error
	Headings       []Heading
	Links          []Link
	WikiLinks      []WikiLink

	root   ast.Node
	offset int
}

// Parse parses content. Frontmatter errors are recorded on the document;
// the body is parsed regardless.
func (p *Parser) Parse(content []byte) *Document {
	doc := &Document{Content: content}
	doc.Frontmatter, doc.FrontmatterErr = ExtractFrontmatter(content)
	if doc.Frontmatter != nil {
		doc.offset = doc.Frontmatter.EndLine
	}
	doc.Body = splitBody(content, doc.offset)
	doc.root = p.md.Parser().Parse(text.NewReader(doc.Body))

	doc.collect()
	doc.WikiLinks = ExtractWikiLinks(content)
	return doc
}

// Title prefers the frontmatter title, then the first level-1 heading.
func (d *Document) Title(fallback string) string {
	if d.Frontmatter != nil && d.Frontmatter.Title != "" {
		return d.Frontmatter.Title
	}
	for _, h := range d.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return fallback
}

// Tags returns the frontmatter tags.
func (d *Document) Tags() []string {
	if d.Frontmatter == nil {
		return nil
	}
	return d.Frontmatter.Tags
}

// PlainContent returns the document without frontmatter.
func (d *Document) PlainContent() string { return string(d.Body) }

func (d *Document) collect() {
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			d.Headings = append(d.Headings, Heading{
				Level:  n.Level,
				Text:   plainText(n, d.Body),
				Anchor: headingID(n),
				Line:   d.lineOf(n),
			})
		case *ast.Link:
			if link, ok := parseLink(string(n.Destination)); ok {
				link.Line = d.lineOf(n)
				d.Links = append(d.Links, link)
			}
		}
		return ast.WalkContinue, nil
	})
}

// lineOf returns the file line of the first block containing n.
func (d *Document) lineOf(n ast.Node) int {
	for c := n; c != nil; c = c.Parent() {
		if c.Type() == ast.TypeBlock && c.Lines().Len() > 0 {
			start := c.Lines().At(0).Start
			return bytes.Count(d.Body[:start], []byte("\n")) + 1 + d.offset
		}
	}
	return d.offset + 1
}

func headingID(n *ast.Heading) string {
	v, ok := n.AttributeString("id")
	if !ok {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return ""
}

func parseLink(dest string) (Link, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return Link{}, false
	}
	if path.Ext(u.Path) != ".md" {
		return Link{}, false
	}
	return Link{Target: strings.TrimPrefix(u.Path, "/"), Fragment: u.Fragment}, true
}

// plainText flattens the inline content of n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// ExtractHeadings parses content and returns its headings.
func ExtractHeadings(content []byte) []Heading {
	return NewParser().Parse(content).Headings
}
