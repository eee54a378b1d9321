package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if Verbosity() != LevelInfo {
		t.Errorf("Verbosity() = %d, want %d", Verbosity(), LevelInfo)
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)

	Info("candidate dropped", "username", "octocat")
	Debug("cache hit", "username", "octocat")
	if buf.Len() != 0 {
		t.Errorf("expected no output at quiet level, got %q", buf.String())
	}

	Warn("search query failed", "query", "rust developer")
	if !strings.Contains(buf.String(), "search query failed") {
		t.Errorf("expected warning in output, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf, WithFormat(FormatJSON))

	Info("run complete", "persisted", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "run complete" {
		t.Errorf("msg = %v, want %q", entry["msg"], "run complete")
	}
	if entry["persisted"] != float64(3) {
		t.Errorf("persisted = %v, want 3", entry["persisted"])
	}
}

func TestProgressSkippedForJSON(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf, WithFormat(FormatJSON))

	Progress("Enriching %d/%d", 1, 20)
	ProgressDone()

	if buf.Len() != 0 {
		t.Errorf("expected no progress output in JSON mode, got %q", buf.String())
	}
}

func TestProgressLineIsTerminatedBeforeLog(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	Progress("Enriching %d/%d", 1, 20)
	Info("candidate dropped")

	out := buf.String()
	if !strings.HasPrefix(out, "\rEnriching 1/20\n") {
		t.Errorf("progress line not terminated before log entry: %q", out)
	}
}

func TestVerbosityLevels(t *testing.T) {
	tests := []struct {
		level   int
		isInfo  bool
		isDebug bool
	}{
		{LevelQuiet, false, false},
		{LevelInfo, true, false},
		{LevelDebug, true, true},
		{LevelTrace, true, true},
	}

	var buf bytes.Buffer
	for _, tt := range tests {
		Initialize(tt.level, &buf)

		if IsInfo() != tt.isInfo {
			t.Errorf("at level %d: IsInfo() = %v, want %v", tt.level, IsInfo(), tt.isInfo)
		}
		if IsDebug() != tt.isDebug {
			t.Errorf("at level %d: IsDebug() = %v, want %v", tt.level, IsDebug(), tt.isDebug)
		}
	}
}
