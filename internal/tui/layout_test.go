package tui

import "testing"

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name         string
		width        int
		height       int
		contentWidth int
		listHeight   int
	}{
		{name: "narrow", width: 80, height: 24, contentWidth: 76, listHeight: 14},
		{name: "wide", width: 200, height: 40, contentWidth: 196, listHeight: 30},
		{name: "tiny", width: 20, height: 8, contentWidth: minViewportWidth, listHeight: 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.contentWidth != tc.contentWidth {
				t.Fatalf("content width mismatch: got %d want %d", layout.contentWidth, tc.contentWidth)
			}
			if layout.listHeight != tc.listHeight {
				t.Fatalf("list height mismatch: got %d want %d", layout.listHeight, tc.listHeight)
			}
			if layout.viewportHeight != layout.listHeight {
				t.Fatalf("viewport height %d should match list height %d", layout.viewportHeight, layout.listHeight)
			}
		})
	}
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	cases := []struct {
		n, cursor, height int
		start, end        int
	}{
		{n: 5, cursor: 4, height: 10, start: 0, end: 5},
		{n: 20, cursor: 0, height: 5, start: 0, end: 5},
		{n: 20, cursor: 7, height: 5, start: 3, end: 8},
		{n: 20, cursor: 19, height: 5, start: 15, end: 20},
	}
	for _, tc := range cases {
		start, end := window(tc.n, tc.cursor, tc.height)
		if start != tc.start || end != tc.end {
			t.Fatalf("window(%d, %d, %d) = [%d, %d), want [%d, %d)", tc.n, tc.cursor, tc.height, start, end, tc.start, tc.end)
		}
	}
}
