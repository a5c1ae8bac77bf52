package viewer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfassina/lore/internal/markdown"
	"github.com/pfassina/lore/internal/theme"
)

const source = `# Setup

Intro paragraph.

## Install

` + "```sh\ngo install ./cmd/lore\nlore index\n```" + `

## Usage

Run it.
`

func newViewer(t *testing.T, width, height int) *Viewer {
	t.Helper()
	v := New()
	th := theme.DefaultTheme()
	v.SetTheme(&th)
	v.SetSize(width, height)
	v.SetPage(markdown.Render("setup.md", markdown.NewParser().Parse([]byte(source))))
	return &v
}

func TestViewerScrollToAnchor(t *testing.T) {
	v := newViewer(t, 60, 2)
	line, ok := v.Page().AnchorLine("usage")
	require.True(t, ok)

	v.ScrollToLine(line)
	assert.Equal(t, line, v.TopLine())

	got, ok := v.LineAt(0)
	require.True(t, ok)
	assert.Equal(t, line, got)

	_, ok = v.LineAt(2)
	assert.False(t, ok, "row below the viewport")
}

func TestViewerCodeBlocks(t *testing.T) {
	v := newViewer(t, 60, 20)
	require.Len(t, v.Page().CodeBlocks, 1)

	blk, ok := v.CodeBlockAtTop()
	require.True(t, ok)
	assert.Equal(t, 0, blk)

	start := v.Page().CodeBlocks[0].Start
	v.ScrollToLine(0)
	header := v.lineRow[start]
	blk, ok = v.CodeHeaderAt(header)
	require.True(t, ok)
	assert.Equal(t, 0, blk)
	_, ok = v.CodeHeaderAt(header + 1)
	assert.False(t, ok, "code rows are not headers")

	assert.Contains(t, v.View(), "sh · copy")
}

func TestViewerWrapsText(t *testing.T) {
	v := New()
	th := theme.DefaultTheme()
	v.SetTheme(&th)
	v.SetSize(20, 10)
	long := strings.Repeat("word ", 20)
	v.SetPage(markdown.Render("long.md", markdown.NewParser().Parse([]byte(long))))

	assert.Greater(t, len(v.rowLine), 1)
	for _, l := range v.rowLine {
		assert.Equal(t, 0, l, "every row belongs to the paragraph")
	}
}

func TestViewerEmpty(t *testing.T) {
	v := New()
	th := theme.DefaultTheme()
	v.SetTheme(&th)
	v.SetSize(40, 5)

	_, ok := v.CodeBlockAtTop()
	assert.False(t, ok)
	assert.Equal(t, 0, v.TopLine())
	assert.Contains(t, v.View(), "No document open")
}
