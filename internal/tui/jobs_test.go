package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestJobBusIDsAreSequentialPerBus(t *testing.T) {
	bus := newJobBus(nil)
	if got := bus.nextID(jobKindSearch); got != "search-1" {
		t.Fatalf("first id = %q", got)
	}
	if got := bus.nextID(jobKindSummary); got != "summary-2" {
		t.Fatalf("second id = %q", got)
	}
}

func TestJobBusRunRecordsOutcome(t *testing.T) {
	bus := newJobBus(nil)
	snapshot := jobSnapshot{ID: "search-1", Kind: jobKindSearch, Status: jobStatusRunning, StartedAt: time.Now()}

	ok := bus.run(context.Background(), snapshot, time.Second, func(ctx context.Context) (tea.Msg, error) {
		return "payload", nil
	})
	if ok.Snapshot.Status != jobStatusSucceeded || ok.Payload != "payload" {
		t.Fatalf("unexpected envelope %+v", ok)
	}

	failed := bus.run(context.Background(), snapshot, time.Second, func(ctx context.Context) (tea.Msg, error) {
		return "partial", errors.New("boom")
	})
	if failed.Snapshot.Status != jobStatusFailed || failed.Snapshot.Err != "boom" {
		t.Fatalf("unexpected envelope %+v", failed)
	}
	if failed.Payload != "partial" {
		t.Fatal("payload should survive a failure")
	}
}

func TestJobBusRunAppliesTimeout(t *testing.T) {
	bus := newJobBus(nil)
	snapshot := jobSnapshot{ID: "summary-1", Kind: jobKindSummary, StartedAt: time.Now()}
	env := bus.run(context.Background(), snapshot, 10*time.Millisecond, func(ctx context.Context) (tea.Msg, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if env.Snapshot.Status != jobStatusFailed {
		t.Fatalf("expected failure, got %s", env.Snapshot.Status)
	}
	if env.Snapshot.Duration <= 0 {
		t.Fatal("duration should be recorded")
	}
}

func TestJobEnvelopeUpdatesRunningCount(t *testing.T) {
	h := newHarness(t, &fakeSearcher{}, nil)
	snapshot := jobSnapshot{ID: "search-1", Kind: jobKindSearch}
	if _, cmd := h.m.Update(jobSignalMsg{Snapshot: snapshot}); cmd == nil {
		t.Fatal("first job should start the spinner")
	}
	if !h.m.busy() {
		t.Fatal("model should be busy")
	}
	snapshot.Err = "context deadline exceeded"
	h.m.Update(jobResultEnvelope{Snapshot: snapshot})
	if h.m.busy() {
		t.Fatal("model should be idle")
	}
	if h.m.errorMessage != snapshot.Err {
		t.Fatalf("error = %q", h.m.errorMessage)
	}
}

func TestTrimmedTitle(t *testing.T) {
	short := "Attention Is All You Need"
	if got := trimmedTitle("  " + short + " "); got != short {
		t.Fatalf("got %q", got)
	}
	long := "A Very Long Title About Graph Neural Networks For Protein Structure Prediction At Scale"
	got := []rune(trimmedTitle(long))
	if len(got) > 58 || got[len(got)-1] != '…' {
		t.Fatalf("unexpected trim %q", string(got))
	}
}
