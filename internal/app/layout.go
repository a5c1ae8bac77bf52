package app

// Layout computes the dimensions for each panel.
type Layout struct {
	TreeWidth    int
	PageWidth    int
	InfoWidth    int
	Height       int
	StatusHeight int
}

// ComputeLayout calculates panel dimensions based on total width/height
// and whether each panel is visible. The side panels draw their border
// inside their width.
func ComputeLayout(totalWidth, totalHeight int, showTree, showInfo, showStatus bool, treeWidth, infoWidth int) Layout {
	// During live resizes some terminals momentarily report 0 (or even negative)
	// dimensions; clamp to avoid propagating invalid sizes into panels.
	if totalWidth < 1 {
		totalWidth = 1
	}
	if totalHeight < 2 { // need at least 1 row for content + 1 for status
		totalHeight = 2
	}

	l := Layout{Height: totalHeight}
	if showStatus {
		l.StatusHeight = 1
		l.Height--
	}

	remaining := totalWidth

	if showTree {
		l.TreeWidth = min(treeWidth, remaining/3)
		remaining -= l.TreeWidth
	}

	if showInfo {
		l.InfoWidth = min(infoWidth, remaining/3)
		remaining -= l.InfoWidth
	}

	l.PageWidth = remaining
	// During extreme resizes the terminal can get very narrow; never force a
	// minimum width larger than the available space.
	if l.PageWidth < 1 {
		l.PageWidth = 1
	}

	return l
}

// region identifies the panel under a screen column.
type region int

const (
	regionTree region = iota
	regionPage
	regionInfo
)

// regionAt returns the panel drawn at column x.
func (l Layout) regionAt(x int) region {
	switch {
	case x < l.TreeWidth:
		return regionTree
	case x < l.TreeWidth+l.PageWidth:
		return regionPage
	default:
		return regionInfo
	}
}
