package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "warn", "text")
	l.Info("hidden")
	l.Warn("shown", "file", "revenue.csv")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}

	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "file=revenue.csv") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNew_JSONAndWith(t *testing.T) {
	var buf bytes.Buffer

	l := New(&buf, "debug", "json").With("kind", "ctr")
	l.Debug("normalized", "rows", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if rec["kind"] != "ctr" || rec["msg"] != "normalized" || rec["rows"] != float64(3) {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestSetLevel_AffectsChildren(t *testing.T) {
	var buf bytes.Buffer

	parent := New(&buf, "error", "text")
	child := parent.With("component", "loader")

	parent.SetLevel("debug")
	child.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("child did not pick up parent level change")
	}
}
