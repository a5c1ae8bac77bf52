package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func overlayCenter(base, overlay string, width, height int) string {
	lines := strings.Split(overlay, "\n")
	row := (height - len(lines)) / 2
	col := (width - blockWidth(lines)) / 2
	return overlayAt(base, overlay, max(col, 0), max(row, 0), width)
}

// overlayAt draws overlay over base with its top-left corner at (col, row).
func overlayAt(base, overlay string, col, row, width int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := blockWidth(overlayLines)

	padToCol := func(s string, col int) string {
		// Pad with spaces based on *visible* width (handles ANSI strings safely).
		if w := lipgloss.Width(s); w < col {
			s += strings.Repeat(" ", col-w)
		}
		return s
	}

	for i, overlayLine := range overlayLines {
		r := row + i
		if r >= len(baseLines) {
			break
		}

		baseLine := padToCol(baseLines[r], col)

		// Overlay by columns without breaking ANSI sequences.
		// Keep the left part of the base line, replace the middle with overlay,
		// and keep the right tail of the base line.
		left := ansi.Cut(baseLine, 0, col)
		right := ansi.Cut(baseLine, col+overlayWidth, width)

		line := left + padToCol(overlayLine, overlayWidth) + right
		// Ensure line doesn't overflow terminal width.
		baseLines[r] = ansi.Truncate(line, width, "")
	}

	return strings.Join(baseLines, "\n")
}

func blockWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, lipgloss.Width(line))
	}
	return w
}
