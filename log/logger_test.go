package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	specs := []struct {
		in  string
		exp Level
	}{
		{"debug", Debug},
		{"INFO", Info},
		{"notice", Notice},
		{"warn", Warning},
		{"error", Error},
	}

	for index, s := range specs {
		lvl, err := ParseLevel(s.in)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if lvl != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, lvl)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	logger := New("test")
	logger.Debug("hidden")
	logger.Notice("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected notice message tagged with module name; got %q", out)
	}

	SetLevel(Debug)
	logger.Debug("now shown")
	if !strings.Contains(buf.String(), "now shown") {
		t.Fatalf("expected debug message after raising verbosity; got %q", buf.String())
	}
}
