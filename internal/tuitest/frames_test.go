package tuitest

import (
	"strings"
	"testing"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[HIndiCure AI   \r\n\x1b[1mRun Analysis\x1b[0m\r\n\x1b[2J\x1b[HResults Dashboard\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %#v", len(frames), frames)
	}
	if frames[0].Plain != "IndiCure AI\nRun Analysis" {
		t.Fatalf("unexpected first frame %q", frames[0].Plain)
	}

	rec := &Recording{Raw: raw, Frames: frames}
	last, ok := rec.FinalFrame()
	if !ok || last.Plain != "Results Dashboard" {
		t.Fatalf("unexpected final frame %q", last.Plain)
	}
	first, ok := rec.FirstContaining("Run Analysis")
	if !ok || first.Index != 0 {
		t.Fatalf("expected the first frame, got %+v", first)
	}
	if _, ok := rec.FirstContaining("Download PDF"); ok {
		t.Fatal("no frame contains Download PDF")
	}
	if plain := rec.Plain(); !strings.Contains(plain, "Run Analysis") || strings.Contains(plain, "\x1b") {
		t.Fatalf("plain stream should be stripped, got %q", plain)
	}
}

func TestLeftClickIsOneBased(t *testing.T) {
	if got := string(LeftClick(0, 9)); got != "\x1b[<0;1;10M\x1b[<0;1;10m" {
		t.Fatalf("unexpected sequence %q", got)
	}
}

func TestBuildEnvKeepsExplicitTerm(t *testing.T) {
	t.Setenv("TERM", "")
	env := buildEnv([]string{"TERM=dumb"})
	count := 0
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") && entry != "TERM=" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one TERM entry, got %d", count)
	}
}

func TestResponderAnswersSplitQueries(t *testing.T) {
	var out strings.Builder
	tr := newTerminalResponder(&out)
	tr.Process([]byte("hello\x1b[6"))
	if out.Len() != 0 {
		t.Fatalf("partial query should not be answered, got %q", out.String())
	}
	tr.Process([]byte("n\x1b]11;?\x07"))
	if got := out.String(); got != "\x1b[1;1R\x1b]11;rgb:0000/0000/0000\x07" {
		t.Fatalf("unexpected replies %q", got)
	}
}
