package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type jobKind string

type jobStatus string

const (
	jobKindSearch  jobKind = "search"
	jobKindLookup  jobKind = "lookup"
	jobKindSummary jobKind = "summary"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

// A jobRunner returns its payload message even on failure so the model can
// tell which request failed.
type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	logger  *zap.Logger
}

func newJobBus(logger *zap.Logger) *jobBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobBus{logger: logger}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start announces the job, then runs it off the event loop with timeout.
func (b *jobBus) Start(kind jobKind, timeout time.Duration, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}
	runCmd := func() tea.Msg {
		return b.run(context.Background(), startSnapshot, timeout, runner)
	}
	return tea.Sequence(startCmd, runCmd)
}

func (b *jobBus) run(parent context.Context, snapshot jobSnapshot, timeout time.Duration, runner jobRunner) jobResultEnvelope {
	ctx := parent
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, timeout)
		defer cancel()
	}
	payload, err := runner(ctx)
	snapshot.CompletedAt = time.Now()
	snapshot.Duration = snapshot.CompletedAt.Sub(snapshot.StartedAt)
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
	} else {
		snapshot.Status = jobStatusSucceeded
	}
	b.logger.Info("job finished",
		zap.String("job", snapshot.ID),
		zap.String("kind", string(snapshot.Kind)),
		zap.String("status", string(snapshot.Status)),
		zap.Duration("duration", snapshot.Duration),
		zap.Error(err),
	)
	return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
}
