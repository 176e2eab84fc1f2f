package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/brief"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/session"
)

type searchResultMsg struct {
	ticket  session.Ticket
	records []arxiv.Record
	err     error
}

type summaryResultMsg struct {
	paperID  string
	fullText bool
	brief    brief.Brief
	err      error
}

type noticeMsg struct {
	note library.Notification
}

type clearNoticeMsg struct {
	seq int
}

func searchJob(searcher Searcher, ticket session.Ticket, maxResults int) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		records, err := searcher.Search(ctx, ticket.Query, maxResults)
		return searchResultMsg{ticket: ticket, records: records, err: err}, err
	}
}

// lookupJob resolves a pasted URL or id to a single-result session.
func lookupJob(searcher Searcher, ticket session.Ticket, id string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		record, err := searcher.Lookup(ctx, id)
		if err != nil {
			return searchResultMsg{ticket: ticket, err: err}, err
		}
		return searchResultMsg{ticket: ticket, records: []arxiv.Record{record}}, nil
	}
}

func summaryJob(summarizer Summarizer, paper library.Paper, fullText bool) jobRunner {
	paper = paper.Clone()
	return func(ctx context.Context) (tea.Msg, error) {
		b, err := summarizer.Summarize(ctx, paper, fullText)
		return summaryResultMsg{paperID: paper.ID, fullText: fullText, brief: b, err: err}, err
	}
}

func waitForNotification(ch <-chan library.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		note, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{note: note}
	}
}

func clearNoticeAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func trimmedTitle(value string) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= 60 {
		return value
	}
	return fmt.Sprintf("%s…", strings.TrimSpace(string(runes[:57])))
}
