package markdown

import (
	"bufio"
	"bytes"
	"path"
	"strings"
)

// WikiLink is a [[target#section|alias]] reference.
type WikiLink struct {
	Target  string
	Section string
	Alias   string
	Line    int // 1-based
	Col     int // 0-based byte offset of "[["
}

// ExtractWikiLinks finds wiki links outside the frontmatter block.
func ExtractWikiLinks(content []byte) []WikiLink {
	skip := 0
	if fm, _ := ExtractFrontmatter(content); fm != nil {
		skip = fm.EndLine
	}

	var links []WikiLink
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for lineNum := 1; scanner.Scan(); lineNum++ {
		if lineNum <= skip {
			continue
		}
		links = appendLineLinks(links, scanner.Text(), lineNum)
	}
	return links
}

func appendLineLinks(links []WikiLink, line string, lineNum int) []WikiLink {
	offset := 0
	for {
		open := strings.Index(line[offset:], "[[")
		if open < 0 {
			return links
		}
		start := offset + open
		inner, _, ok := strings.Cut(line[start+2:], "]]")
		if !ok {
			return links
		}
		offset = start + 2 + len(inner) + 2
		if inner == "" {
			continue
		}

		link := WikiLink{Line: lineNum, Col: start}
		target, alias, _ := strings.Cut(inner, "|")
		target, section, _ := strings.Cut(target, "#")
		link.Target = strings.TrimSpace(target)
		link.Section = strings.TrimSpace(section)
		link.Alias = strings.TrimSpace(alias)
		links = append(links, link)
	}
}

// ResolveWikiLinkTarget maps "note" or "folder/note" to a .md path.
func ResolveWikiLinkTarget(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasSuffix(target, ".md") {
		return target
	}
	return target + ".md"
}

// LinkKey is the case-insensitive basename used to match links to documents.
func LinkKey(target string) string {
	return strings.ToLower(path.Base(ResolveWikiLinkTarget(target)))
}
