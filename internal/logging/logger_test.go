package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "score", 0.42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "score=0.42") {
		t.Errorf("Expected warn with key/value, got %q", out)
	}
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "chatty")

	logger.Debug("debug line")
	logger.Info("info line")

	if strings.Contains(buf.String(), "debug line") || !strings.Contains(buf.String(), "info line") {
		t.Errorf("Expected info level, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	logger := OrDiscard(nil)
	logger.Error("nothing happens")
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo..." {
		t.Errorf("Expected 'héllo...', got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged, got %q", got)
	}
}
