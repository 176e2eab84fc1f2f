package tuitest

import (
	"bytes"
	"testing"
)

func TestParseFramesSplitsOnErase(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b[1mpaperlib\x1b[0m   \r\nSearch arXiv\x1b[2J\x1b[HYour Papers (2)\r\n\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Plain != "paperlib\nSearch arXiv" {
		t.Fatalf("first frame = %q", frames[0].Plain)
	}
	if frames[1].Index != 1 || frames[1].Plain != "Your Papers (2)" {
		t.Fatalf("second frame = %+v", frames[1])
	}
}

func TestRecordingContains(t *testing.T) {
	raw := []byte("\x1b[2JAdded \x1b[32m\"Alpha\"\x1b[0m to Reading.")
	rec := &Recording{Raw: raw, Frames: parseFrames(raw)}
	if !rec.Contains(`Added "Alpha"`) {
		t.Fatal("expected stripped text to match")
	}
	if rec.Contains("Removed") {
		t.Fatal("unexpected match")
	}
	var empty *Recording
	if empty.Contains("x") {
		t.Fatal("nil recording contains nothing")
	}
	if _, ok := empty.FinalFrame(); ok {
		t.Fatal("nil recording has no frames")
	}
}

func TestTerminalResponderAnswersProbesInOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("\x1b]11;?\x07junk\x1b[6"))
	tr.Process([]byte("n"))
	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("replies = %q, want %q", out.String(), want)
	}
}
