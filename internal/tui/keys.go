package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlib/internal/library"
)

type keyHint struct {
	Key         string
	Description string
}

var keyHints = []keyHint{
	{"/", "Search or filter"},
	{"enter", "Open paper"},
	{"t", "Switch tab"},
	{"1/2/3", "Want to read / Reading / Read"},
	{"x", "Remove from library"},
	{"s", "Summarize abstract"},
	{"S", "Summarize full text"},
	{"tab", "Cycle status filter"},
	{"c", "Clear search results"},
	{"j/k", "Move"},
	{"esc", "Back"},
	{"q", "Quit"},
}

var statusKeys = map[string]library.Status{
	"1": library.StatusWantToRead,
	"2": library.StatusReading,
	"3": library.StatusRead,
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.focus {
	case focusQuery:
		return m.handleQueryKey(key)
	case focusFilter:
		return m.handleFilterKey(key)
	}
	if m.detail != nil {
		return m.handleDetailKey(key)
	}
	return m.handleListKey(key)
}

func (m *model) handleQueryKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		return m, m.submitQuery()
	case tea.KeyEsc:
		m.blurInputs()
		return m, nil
	}
	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(key)
	return m, cmd
}

// handleFilterKey applies the text filter as it is typed. Esc clears it.
func (m *model) handleFilterKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		m.blurInputs()
		return m, nil
	case tea.KeyEsc:
		m.filterInput.SetValue("")
		m.libraryCursor = 0
		m.blurInputs()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(key)
	m.libraryCursor = 0
	return m, cmd
}

func (m *model) handleDetailKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "backspace", "h", "left":
		m.closeDetail()
		return m, nil
	case "q":
		return m, tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "t":
		m.switchTab()
		return m, nil
	case "/":
		return m, m.focusInput()
	case "1", "2", "3":
		m.setStatus(statusKeys[key.String()])
		return m, nil
	case "x":
		m.removeSelected()
		return m, nil
	case "s":
		return m, m.summarize(false)
	case "S":
		return m, m.summarize(true)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handleListKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.errorMessage = ""
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "t":
		m.switchTab()
		return m, nil
	case "/":
		return m, m.focusInput()
	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	case "g", "home":
		*m.cursor() = 0
		return m, nil
	case "G", "end":
		m.moveCursor(len(m.items()))
		return m, nil
	case "enter", "l", "right":
		m.openDetail()
		return m, nil
	case "1", "2", "3":
		m.setStatus(statusKeys[key.String()])
		return m, nil
	case "x":
		m.removeSelected()
		return m, nil
	case "s":
		return m, m.summarize(false)
	case "S":
		return m, m.summarize(true)
	case "tab":
		if m.tab == tabLibrary {
			m.cycleStatusFilter()
		}
		return m, nil
	case "c":
		if m.tab == tabSearch {
			m.config.Session.Clear()
			m.pendingQuery = ""
			m.searchCursor = 0
			m.infoMessage = "Search results cleared."
		}
		return m, nil
	}
	return m, nil
}
