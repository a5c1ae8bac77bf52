package markdown

import "testing"

const sample = "---\ntitle: Sample\n---\n# Intro\n\nSome `code` here.\n\n- one\n- two\n\n```go\nfmt.Println(1)\nfmt.Println(2)\n```\n\n> quoted\n\n---\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"

func TestRenderPage(t *testing.T) {
	page := Render("sample.md", NewParser().Parse([]byte(sample)))

	if page.Title != "Sample" {
		t.Errorf("title: got %q", page.Title)
	}

	var kinds []LineKind
	for _, l := range page.Lines {
		if l.Kind != LineBlank {
			kinds = append(kinds, l.Kind)
		}
	}
	want := []LineKind{LineHeading, LineText, LineItem, LineItem, LineCode, LineCode, LineQuote, LineRule, LineTable, LineTable}
	if len(kinds) != len(want) {
		t.Fatalf("kinds: got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("[%d] kind: got %v, want %v", i, kinds[i], want[i])
		}
	}

	if len(page.CodeBlocks) != 1 {
		t.Fatalf("got %d code blocks", len(page.CodeBlocks))
	}
	cb := page.CodeBlocks[0]
	if cb.Lang != "go" || cb.Text != "fmt.Println(1)\nfmt.Println(2)" {
		t.Errorf("code block: got %+v", cb)
	}
	if page.Lines[cb.Start].Block != 0 {
		t.Errorf("code block start line is not tagged")
	}

	if idx, ok := page.AnchorLine("intro"); !ok || idx != 0 {
		t.Errorf("AnchorLine(intro) = %d, %v", idx, ok)
	}
	if _, ok := page.AnchorLine("missing"); ok {
		t.Error("missing anchor found")
	}

	for _, l := range page.Lines {
		if l.Kind == LineText && l.Text != "Some `code` here." {
			t.Errorf("inline text: got %q", l.Text)
		}
		if l.Kind == LineItem && l.Text != "• one" && l.Text != "• two" {
			t.Errorf("item: got %q", l.Text)
		}
	}
}
