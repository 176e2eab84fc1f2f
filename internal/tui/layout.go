package tui

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	contentWidth   int
	listHeight     int
	viewportHeight int
	inputWidth     int
}

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth:   80,
		listHeight:     16,
		viewportHeight: 16,
		inputWidth:     70,
	}
}

// Update recomputes the regions for a window of width x height. The chrome
// is the header, tab bar, input line, status line and the hint line.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	inner := width - viewportHorizontalPadding
	if inner < minViewportWidth {
		inner = minViewportWidth
	}
	l.contentWidth = inner
	l.inputWidth = inner - 4

	const chrome = 10
	usable := height - chrome
	if usable < 6 {
		usable = 6
	}
	l.listHeight = usable
	l.viewportHeight = usable
}

// window returns the [start, end) range of n rows that keeps cursor visible
// in a region of height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > n {
		end = n
		start = end - height
	}
	return start, end
}
