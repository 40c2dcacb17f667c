package tui

import (
	"strings"
	"testing"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name         string
		width        int
		height       int
		contentWidth int
		tileWidth    int
		viewport     int
	}{
		{name: "unsized", width: 80, height: 0, contentWidth: 76, tileWidth: 18, viewport: fallbackHeight},
		{name: "wide", width: 200, height: 40, contentWidth: 196, tileWidth: 48, viewport: 40},
		{name: "cramped", width: 30, height: 10, contentWidth: minContentWidth, tileWidth: 14, viewport: 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.contentWidth != tc.contentWidth {
				t.Fatalf("content width mismatch: got %d want %d", layout.contentWidth, tc.contentWidth)
			}
			if layout.tileWidth != tc.tileWidth {
				t.Fatalf("tile width mismatch: got %d want %d", layout.tileWidth, tc.tileWidth)
			}
			if got := layout.viewportHeight(); got != tc.viewport {
				t.Fatalf("viewport height mismatch: got %d want %d", got, tc.viewport)
			}
		})
	}
}

func TestCanvasAddReturnsRows(t *testing.T) {
	c := newCanvas(0, 0)
	if top := c.add("one\ntwo"); top != 0 {
		t.Fatalf("first block should start at row 0, got %d", top)
	}
	c.blank()
	if top := c.add("three"); top != 3 {
		t.Fatalf("third block should start at row 3, got %d", top)
	}
	if !strings.HasPrefix(c.lines[0], "  one") {
		t.Fatalf("blocks should be indented by the gutter, got %q", c.lines[0])
	}
}

func TestCanvasOverlay(t *testing.T) {
	c := newCanvas(0, 0)
	c.add("aaaa\nbbbb")
	c.overlay("XY", 3, 1)
	if c.lines[1] != "  bXYb" {
		t.Fatalf("overlay should replace the covered cells, got %q", c.lines[1])
	}
	c.overlay("Z", 4, 3)
	if len(c.lines) != 4 {
		t.Fatalf("overlay below the canvas should extend it, got %d rows", len(c.lines))
	}
	if c.lines[3] != "    Z" {
		t.Fatalf("overlay should pad short rows, got %q", c.lines[3])
	}
	c.overlay("top\nvisible", 0, -1)
	if c.lines[0] != "visible" {
		t.Fatalf("rows above the canvas should be skipped, got %q", c.lines[0])
	}
}

func TestCanvasClipsToWindow(t *testing.T) {
	c := newCanvas(0, 2)
	c.add("1\n2\n3\n4")
	if got := strings.Count(c.String(), "\n"); got != 1 {
		t.Fatalf("expected two rows after clipping, got %q", c.String())
	}
}

func TestCanvasClipsWideRows(t *testing.T) {
	c := newCanvas(6, 0)
	c.add("abcdefgh")
	if got := c.String(); got != "  abcd" {
		t.Fatalf("rows should be cut at the window width, got %q", got)
	}
}

func TestZonesTabAt(t *testing.T) {
	m := newTestModel(t)
	if _, ok := m.zones.tabAt(0, 0); ok {
		t.Fatal("no tabs are rendered in the input view")
	}
}
