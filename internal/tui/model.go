package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/brief"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/session"
	"github.com/csheth/paperlib/internal/view"
)

// Searcher queries arXiv. *arxiv.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]arxiv.Record, error)
	Lookup(ctx context.Context, input string) (arxiv.Record, error)
}

// Summarizer produces summaries. *brief.Service satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, paper library.Paper, fullText bool) (brief.Brief, error)
}

// Config wires runtime dependencies into the TUI program. Store and Session
// are required; a nil Searcher or Summarizer disables the matching actions.
type Config struct {
	Store         *library.Store
	Session       *session.Session
	Searcher      Searcher
	Summarizer    Summarizer
	MaxResults    int
	Notifications <-chan library.Notification
	Logger        *zap.Logger
}

// statusCycle is the order tab steps through the status filter.
var statusCycle = []string{view.StatusAll, string(library.StatusWantToRead), string(library.StatusReading), string(library.StatusRead)}

type summaryState struct {
	loading  bool
	fullText bool
	brief    *brief.Brief
	err      string
}

type model struct {
	config Config
	jobs   *jobBus
	layout pageLayout

	tab   tab
	focus focus

	queryInput  textinput.Model
	filterInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	statusFilter  string
	searchCursor  int
	libraryCursor int
	pendingQuery  string
	running       map[jobKind]int
	summaries     map[string]*summaryState

	detail      *library.Paper
	detailDirty bool

	infoMessage  string
	errorMessage string
	notice       string
	noticeSeq    int
	helpVisible  bool
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Session == nil {
		config.Session = session.New()
	}
	if config.MaxResults <= 0 {
		config.MaxResults = arxiv.DefaultMaxResults
	}

	layout := newPageLayout()

	queryInput := textinput.New()
	queryInput.Placeholder = queryPlaceholder
	queryInput.CharLimit = 200
	queryInput.Width = layout.inputWidth
	queryInput.Focus()

	filterInput := textinput.New()
	filterInput.Placeholder = filterPlaceholder
	filterInput.CharLimit = 120
	filterInput.Width = layout.inputWidth

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(layout.contentWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true

	return &model{
		config:       config,
		jobs:         newJobBus(config.Logger),
		layout:       layout,
		tab:          tabSearch,
		focus:        focusQuery,
		queryInput:   queryInput,
		filterInput:  filterInput,
		spinner:      spin,
		viewport:     vp,
		statusFilter: view.StatusAll,
		running:      map[jobKind]int{},
		summaries:    map[string]*summaryState{},
		infoMessage:  "Type a query and press Enter. Press ? for keys.",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForNotification(m.config.Notifications))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.queryInput.Width = m.layout.inputWidth
		m.filterInput.Width = m.layout.inputWidth
		m.viewport.Width = m.layout.contentWidth
		m.viewport.Height = m.layout.viewportHeight
		m.detailDirty = true
		return m, nil
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.detail != nil {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		wasBusy := m.busy()
		m.running[msg.Snapshot.Kind]++
		if !wasBusy {
			return m, m.spinner.Tick
		}
		return m, nil
	case jobResultEnvelope:
		if m.running[msg.Snapshot.Kind] > 0 {
			m.running[msg.Snapshot.Kind]--
		}
		if msg.Payload == nil {
			if msg.Snapshot.Err != "" {
				m.errorMessage = msg.Snapshot.Err
			}
			return m, nil
		}
		return m.Update(msg.Payload)
	case searchResultMsg:
		m.applySearchResult(msg)
		return m, nil
	case summaryResultMsg:
		m.applySummaryResult(msg)
		return m, nil
	case noticeMsg:
		m.noticeSeq++
		m.notice = msg.note.Message()
		m.detailDirty = true
		return m, tea.Batch(
			waitForNotification(m.config.Notifications),
			clearNoticeAfter(m.noticeSeq, noticeLifetime),
		)
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *model) busy() bool {
	for _, n := range m.running {
		if n > 0 {
			return true
		}
	}
	return false
}

// submitQuery starts a search for the query box contents. A pasted URL or id
// becomes a single-paper lookup. Re-submitting the query that is already in
// flight does nothing; a different query supersedes it.
func (m *model) submitQuery() tea.Cmd {
	query := strings.TrimSpace(m.queryInput.Value())
	m.blurInputs()
	if query == "" {
		m.config.Session.Clear()
		m.pendingQuery = ""
		m.searchCursor = 0
		m.infoMessage = "Search results cleared."
		return nil
	}
	if m.config.Searcher == nil {
		m.errorMessage = "Search is not configured."
		return nil
	}
	if m.config.Session.Pending() && m.pendingQuery == query {
		return nil
	}

	ticket := m.config.Session.Begin(query)
	m.pendingQuery = query
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Searching arXiv for %q…", query)
	if id, ok := arxiv.LooksLikeIdentifier(query); ok {
		return m.jobs.Start(jobKindLookup, searchTimeout, lookupJob(m.config.Searcher, ticket, id))
	}
	return m.jobs.Start(jobKindSearch, searchTimeout, searchJob(m.config.Searcher, ticket, m.config.MaxResults))
}

func (m *model) applySearchResult(msg searchResultMsg) {
	if msg.err != nil {
		if !m.config.Session.Fail(msg.ticket) {
			return
		}
		m.pendingQuery = ""
		m.errorMessage = fmt.Sprintf("Search failed: %v", msg.err)
		m.infoMessage = "Previous results kept. Edit the query and retry."
		return
	}
	for _, record := range msg.records {
		if !record.Valid() {
			m.config.Logger.Warn("dropping search result without id", zap.String("title", record.Paper.Title))
		}
	}
	papers := arxiv.Papers(msg.records)
	if !m.config.Session.Apply(msg.ticket, papers) {
		m.config.Logger.Debug("discarding stale search response",
			zap.Uint64("ticket", msg.ticket.Seq),
			zap.String("query", msg.ticket.Query))
		return
	}
	m.pendingQuery = ""
	m.searchCursor = 0
	m.errorMessage = ""
	switch len(papers) {
	case 0:
		m.infoMessage = fmt.Sprintf("No results for %q.", msg.ticket.Query)
	default:
		m.infoMessage = fmt.Sprintf("%d results for %q. Press 1/2/3 to add.", len(papers), msg.ticket.Query)
	}
}

func (m *model) applySummaryResult(msg summaryResultMsg) {
	state := m.summaries[msg.paperID]
	if state == nil {
		state = &summaryState{}
		m.summaries[msg.paperID] = state
	}
	state.loading = false
	state.fullText = msg.fullText
	m.detailDirty = true
	if msg.err != nil {
		state.err = msg.err.Error()
		m.errorMessage = fmt.Sprintf("Summary failed for %s: %v", msg.paperID, msg.err)
		if errors.Is(msg.err, brief.ErrNoFullText) {
			m.infoMessage = "Configure pdf.url_template for full-text summaries."
		}
		return
	}
	b := msg.brief
	state.brief = &b
	state.err = ""
	if m.detail != nil && m.detail.ID == msg.paperID {
		m.infoMessage = "Summary ready."
		return
	}
	m.infoMessage = fmt.Sprintf("Summary ready for %s. Press enter to read it.", msg.paperID)
}

// searchItems are the session results annotated with their library status.
func (m *model) searchItems() []library.Paper {
	results := m.config.Session.Results()
	for i := range results {
		if stored, ok := m.config.Store.Get(results[i].ID); ok {
			results[i].Status = stored.Status
			results[i].DateAdded = stored.DateAdded
		}
	}
	return results
}

func (m *model) libraryFilter() view.Filter {
	return view.Filter{Text: m.filterInput.Value(), Status: m.statusFilter}
}

// libraryItems is the library in display order: the filtered projection, or
// the buckets back to back when no filter is active.
func (m *model) libraryItems() []library.Paper {
	papers := m.config.Store.List()
	filter := m.libraryFilter()
	if filter.Active() {
		return view.Project(papers, filter)
	}
	b := view.Bucketize(papers)
	items := make([]library.Paper, 0, b.Len())
	for _, status := range bucketOrder {
		items = append(items, b.For(status)...)
	}
	return items
}

var bucketOrder = []library.Status{library.StatusReading, library.StatusWantToRead, library.StatusRead}

func (m *model) items() []library.Paper {
	if m.tab == tabLibrary {
		return m.libraryItems()
	}
	return m.searchItems()
}

func (m *model) cursor() *int {
	if m.tab == tabLibrary {
		return &m.libraryCursor
	}
	return &m.searchCursor
}

func (m *model) selected() (library.Paper, bool) {
	if m.detail != nil {
		if stored, ok := m.config.Store.Get(m.detail.ID); ok {
			return stored, true
		}
		return *m.detail, true
	}
	items := m.items()
	c := m.cursor()
	if *c < 0 || *c >= len(items) {
		return library.Paper{}, false
	}
	return items[*c], true
}

func (m *model) moveCursor(delta int) {
	n := len(m.items())
	c := m.cursor()
	*c += delta
	m.clampCursor(n)
}

func (m *model) clampCursor(n int) {
	c := m.cursor()
	if *c >= n {
		*c = n - 1
	}
	if *c < 0 {
		*c = 0
	}
}

func (m *model) setStatus(status library.Status) {
	paper, ok := m.selected()
	if !ok {
		return
	}
	if _, err := m.config.Store.AddOrUpdate(paper, status); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.errorMessage = ""
	m.detailDirty = true
	if m.tab == tabLibrary {
		m.clampCursor(len(m.libraryItems()))
	}
}

func (m *model) removeSelected() {
	paper, ok := m.selected()
	if !ok || !paper.InLibrary() {
		return
	}
	if err := m.config.Store.Remove(paper.ID); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.errorMessage = ""
	if m.detail != nil && m.tab == tabLibrary {
		m.closeDetail()
	}
	m.detailDirty = true
	m.clampCursor(len(m.items()))
}

// summarize starts a summary job for the selected paper unless one is
// already running for it.
func (m *model) summarize(fullText bool) tea.Cmd {
	paper, ok := m.selected()
	if !ok {
		return nil
	}
	if m.config.Summarizer == nil {
		m.errorMessage = "No summarizer configured."
		return nil
	}
	if state := m.summaries[paper.ID]; state != nil && state.loading {
		m.infoMessage = fmt.Sprintf("Already summarizing %s…", trimmedTitle(paper.Title))
		return nil
	}
	m.summaries[paper.ID] = &summaryState{loading: true, fullText: fullText}
	m.errorMessage = ""
	source := "abstract"
	if fullText {
		source = "full text"
	}
	m.infoMessage = fmt.Sprintf("Summarizing %s from the %s…", trimmedTitle(paper.Title), source)
	m.detailDirty = true
	return m.jobs.Start(jobKindSummary, summaryTimeout, summaryJob(m.config.Summarizer, paper, fullText))
}

func (m *model) openDetail() {
	paper, ok := m.selected()
	if !ok {
		return
	}
	m.detail = &paper
	m.detailDirty = true
	m.viewport.GotoTop()
}

func (m *model) closeDetail() {
	m.detail = nil
}

func (m *model) cycleStatusFilter() {
	idx := 0
	for i, status := range statusCycle {
		if status == m.statusFilter {
			idx = i
			break
		}
	}
	m.statusFilter = statusCycle[(idx+1)%len(statusCycle)]
	m.libraryCursor = 0
}

func (m *model) switchTab() {
	m.closeDetail()
	m.blurInputs()
	if m.tab == tabSearch {
		m.tab = tabLibrary
		m.clampCursor(len(m.libraryItems()))
		return
	}
	m.tab = tabSearch
}

func (m *model) blurInputs() {
	m.focus = focusList
	m.queryInput.Blur()
	m.filterInput.Blur()
}

func (m *model) focusInput() tea.Cmd {
	m.closeDetail()
	if m.tab == tabLibrary {
		m.focus = focusFilter
		return m.filterInput.Focus()
	}
	m.focus = focusQuery
	return m.queryInput.Focus()
}
