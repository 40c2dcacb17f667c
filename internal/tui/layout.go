package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/csheth/indicure/internal/dropdown"
	"github.com/csheth/indicure/internal/workflow"
)

const (
	gutter          = 2
	minContentWidth = 40
	queryHeight     = 4
	fallbackHeight  = 24 // until the first WindowSizeMsg
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	contentWidth int
	tileWidth    int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(80, 0)
	return l
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	inner := width - 2*gutter
	if inner < minContentWidth {
		inner = minContentWidth
	}
	l.contentWidth = inner
	// four tiles separated by one column each
	l.tileWidth = (inner - 3) / 4
	if l.tileWidth < 14 {
		l.tileWidth = 14
	}
}

// viewportHeight is the height dropdown placement measures against.
func (l pageLayout) viewportHeight() int {
	if l.windowHeight <= 0 {
		return fallbackHeight
	}
	return l.windowHeight
}

// zones are the clickable rectangles of the last rendered frame.
type zones struct {
	query    dropdown.Rect
	run      dropdown.Rect
	download dropdown.Rect
	newQuery dropdown.Rect
	tabs     []tabZone
}

type tabZone struct {
	rect dropdown.Rect
	tab  workflow.Tab
}

func (z zones) tabAt(x, y int) (workflow.Tab, bool) {
	for _, t := range z.tabs {
		if t.rect.Contains(x, y) {
			return t.tab, true
		}
	}
	return "", false
}

// canvas stacks blocks top to bottom, remembers the row each block starts on
// and lets menus be drawn over what is already there.
type canvas struct {
	lines  []string
	width  int
	height int
}

// newCanvas sizes the canvas to the window; zero means unbounded.
func newCanvas(width, height int) *canvas {
	return &canvas{width: width, height: height}
}

// add appends block indented by the gutter and returns its first row.
func (c *canvas) add(block string) int {
	top := len(c.lines)
	for _, line := range strings.Split(block, "\n") {
		c.lines = append(c.lines, strings.Repeat(" ", gutter)+line)
	}
	return top
}

func (c *canvas) blank() {
	c.lines = append(c.lines, "")
}

// row is the index the next added block will start on.
func (c *canvas) row() int {
	return len(c.lines)
}

// overlay paints block with its top-left corner at column x, row y. Rows
// outside the canvas are skipped.
func (c *canvas) overlay(block string, x, y int) {
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		for len(c.lines) <= row {
			c.lines = append(c.lines, "")
		}
		base := c.lines[row]
		left := ansi.Truncate(base, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(base, x+lipgloss.Width(line), "")
		c.lines[row] = left + line + right
	}
}

// String joins the rows, cutting whatever does not fit the window. The
// renderer would otherwise scroll or wrap and every recorded zone would be off.
func (c *canvas) String() string {
	lines := c.lines
	if c.height > 0 && len(lines) > c.height {
		lines = lines[:c.height]
	}
	if c.width > 0 {
		clipped := make([]string, len(lines))
		for i, line := range lines {
			clipped[i] = ansi.Truncate(line, c.width, "")
		}
		lines = clipped
	}
	return strings.Join(lines, "\n")
}

// blockRect is the screen rectangle of a block added at row top.
func blockRect(block string, x, top int) dropdown.Rect {
	return dropdown.Rect{X: x, Y: top, Width: lipgloss.Width(block), Height: lipgloss.Height(block)}
}
