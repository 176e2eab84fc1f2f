package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/summary"
	"github.com/csheth/paperlib/internal/view"
)

func (m *model) View() string {
	body := m.listView()
	if m.detail != nil {
		m.refreshDetailIfDirty()
		body = m.viewport.View()
	}
	parts := []string{
		m.heroView(),
		m.tabBar(),
		body,
		m.inputLine(),
		m.statusLine(),
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	} else {
		parts = append(parts, helperStyle.Render("? keys • t switch tab • / search • q quit"))
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("paperlib"),
		"  ",
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) tabBar() string {
	render := func(t tab, count int) string {
		label := fmt.Sprintf("%s (%d)", t.label(), count)
		if m.tab == t {
			return activeTabStyle.Render(label)
		}
		return tabStyle.Render(label)
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		render(tabSearch, m.config.Session.Len()),
		" ",
		render(tabLibrary, m.config.Store.Len()),
	)
	if m.tab == tabLibrary {
		bar = lipgloss.JoinHorizontal(lipgloss.Top, bar, "  ", helperStyle.Render("status: "+libraryStatusLabel(m.statusFilter)))
	}
	return bar
}

func (m *model) inputLine() string {
	if m.tab == tabLibrary {
		return m.filterInput.View()
	}
	return m.queryInput.View()
}

func (m *model) statusLine() string {
	var lines []string
	if m.busy() {
		lines = append(lines, statusBarStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.runningLabel())))
	}
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}
	if m.errorMessage != "" {
		lines = append(lines, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		lines = append(lines, helperStyle.Render(m.infoMessage))
	}
	return strings.Join(lines, "\n")
}

func (m *model) runningLabel() string {
	var parts []string
	for _, kind := range []jobKind{jobKindSearch, jobKindLookup, jobKindSummary} {
		if n := m.running[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s ×%d", kind, n))
		}
	}
	return strings.Join(parts, "  •  ")
}

type listRow struct {
	text string
	item int
}

func (m *model) listView() string {
	rows, cursorRow := m.listRows()
	if len(rows) == 0 {
		return helperStyle.Render(m.emptyListMessage())
	}
	start, end := window(len(rows), cursorRow, m.layout.listHeight)
	lines := make([]string, 0, end-start)
	for _, row := range rows[start:end] {
		lines = append(lines, row.text)
	}
	return strings.Join(lines, "\n")
}

func (m *model) emptyListMessage() string {
	if m.tab == tabSearch {
		if m.config.Session.Pending() {
			return "Searching…"
		}
		return "No search results yet. Press / and type a query."
	}
	if m.libraryFilter().Active() {
		return "No papers match the current filter."
	}
	return "Your library is empty. Add papers from the search tab with 1, 2 or 3."
}

// listRows renders the active tab. Unfiltered library entries are grouped
// under bucket headings; heading rows carry item -1.
func (m *model) listRows() ([]listRow, int) {
	items := m.items()
	cursor := *m.cursor()
	width := m.layout.contentWidth

	var rows []listRow
	cursorRow := 0
	grouped := m.tab == tabLibrary && !m.libraryFilter().Active()
	var lastStatus library.Status
	for i, paper := range items {
		if grouped && (i == 0 || paper.Status != lastStatus) {
			if i > 0 {
				rows = append(rows, listRow{item: -1})
			}
			rows = append(rows, listRow{text: sectionHeaderStyle.Render(paper.Status.Label()), item: -1})
			lastStatus = paper.Status
		}
		line := truncate.StringWithTail(paperLine(paper, m.tab == tabSearch), uint(width-2), "…")
		if i == cursor {
			cursorRow = len(rows)
			line = cursorStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		if state := m.summaries[paper.ID]; state != nil {
			switch {
			case state.loading:
				line += " " + helperStyle.Render(m.spinner.View())
			case state.brief != nil:
				line += " " + statusChipStyle.Render("[summary]")
			}
		}
		rows = append(rows, listRow{text: line, item: i})
	}
	return rows, cursorRow
}

func paperLine(paper library.Paper, showStatus bool) string {
	var b strings.Builder
	if showStatus && paper.InLibrary() {
		b.WriteString("[" + paper.Status.Label() + "] ")
	}
	title := paper.Title
	if title == "" {
		title = paper.ID
	}
	b.WriteString(title)
	if len(paper.Authors) > 0 {
		b.WriteString(" · " + shortenList(paper.Authors, 2))
	}
	if len(paper.Published) >= 10 {
		b.WriteString(" (" + paper.Published[:10] + ")")
	}
	return b.String()
}

func shortenList(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(items[:limit], ", "), len(items)-limit)
}

func (m *model) refreshDetailIfDirty() {
	if !m.detailDirty || m.detail == nil {
		return
	}
	paper := *m.detail
	if stored, ok := m.config.Store.Get(paper.ID); ok {
		paper = stored
	} else {
		paper.Status = ""
		paper.DateAdded = ""
	}
	m.viewport.SetContent(m.detailContent(paper))
	m.detailDirty = false
}

func (m *model) detailContent(paper library.Paper) string {
	wrap := m.layout.contentWidth - 2
	var b strings.Builder

	b.WriteString(titleStyle.Render(wordwrap.String(paper.Title, wrap)))
	b.WriteString("\n")
	meta := []string{"arXiv: " + paper.ID}
	if paper.Published != "" {
		meta = append(meta, "Published: "+paper.Published)
	}
	if paper.InLibrary() {
		meta = append(meta, "In library: "+paper.Status.Label())
	} else {
		meta = append(meta, "Not in library")
	}
	b.WriteString(helperStyle.Render(strings.Join(meta, "  •  ")))
	b.WriteString("\n")
	if len(paper.Authors) > 0 {
		b.WriteString(helperStyle.Render(wordwrap.String("Authors: "+strings.Join(paper.Authors, ", "), wrap)))
		b.WriteString("\n")
	}

	if highlights := arxiv.Highlights(paper.Abstract); len(highlights) > 0 {
		b.WriteString("\n" + sectionHeaderStyle.Render("Highlights") + "\n")
		for _, h := range highlights {
			b.WriteString(" • " + wordwrap.String(h, wrap-3) + "\n")
		}
	}

	b.WriteString("\n" + sectionHeaderStyle.Render("Abstract") + "\n")
	if strings.TrimSpace(paper.Abstract) == "" {
		b.WriteString(helperStyle.Render("No abstract available.") + "\n")
	} else {
		b.WriteString(wordwrap.String(paper.Abstract, wrap) + "\n")
	}

	b.WriteString("\n" + sectionHeaderStyle.Render("Summary") + "\n")
	b.WriteString(m.summaryContent(paper.ID, wrap))
	return b.String()
}

func (m *model) summaryContent(id string, wrap int) string {
	state := m.summaries[id]
	switch {
	case state == nil:
		return helperStyle.Render("Press s to summarize the abstract, S for the full text.") + "\n"
	case state.loading:
		return helperStyle.Render(m.spinner.View()+" Summarizing…") + "\n"
	case state.err != "":
		return errorStyle.Render(state.err) + "\n"
	case state.brief == nil:
		return ""
	}
	sections := state.brief.Result.Sections
	var b strings.Builder
	b.WriteString(helperStyle.Render(fmt.Sprintf("%s via %s", state.brief.Source, state.brief.Backend)) + "\n")
	if !sections.Structured {
		b.WriteString(renderMath(wordwrap.String(sections.Text, wrap)) + "\n")
		return b.String()
	}
	for _, part := range []struct{ title, text string }{
		{"Human-Like Summary", sections.Summary},
		{"Main Points", sections.MainPoints},
		{"Conclusion", sections.Conclusion},
	} {
		if part.text == "" {
			continue
		}
		b.WriteString(statusChipStyle.Render(part.title) + "\n")
		b.WriteString(renderMath(wordwrap.String(part.text, wrap)) + "\n")
	}
	return b.String()
}

// renderMath highlights [MATH] placeholders. Wrapping happens first; the
// marker holds no spaces so wordwrap never splits it.
func renderMath(text string) string {
	var b strings.Builder
	for _, seg := range summary.SplitMath(text) {
		if seg.Math {
			b.WriteString(mathStyle.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func (m *model) keyLegendView() string {
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(keyHints); i += columns {
		end := i + columns
		if end > len(keyHints) {
			end = len(keyHints)
		}
		var cells []string
		for _, hint := range keyHints[i:end] {
			cell := lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(hint.Key), keyDescStyle.Render(" "+hint.Description+"  "))
			cells = append(cells, cell)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

// libraryStatusLabel is the heading shown for a status filter value.
func libraryStatusLabel(filter string) string {
	if filter == "" || filter == view.StatusAll {
		return "All"
	}
	return library.Status(filter).Label()
}
