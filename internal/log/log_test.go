package log

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quelea.log")
	Init(Options{Level: "debug", Format: "json", File: path})
	t.Cleanup(func() { Init(Options{}) })

	WithComponent("slides").Debug("selected", slog.Int("index", 3))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &rec); err != nil {
		t.Fatalf("last line is not JSON: %v", err)
	}
	if rec["msg"] != "selected" || rec["component"] != "slides" || rec["app"] != "quelea-tui" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["index"] != float64(3) {
		t.Errorf("index = %v, want 3", rec["index"])
	}
}

func TestInitRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quelea.log")
	Init(Options{Level: "warn", File: path})
	t.Cleanup(func() { Init(Options{}) })

	L().Info("quiet")
	L().Warn("loud")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(b), "quiet") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(string(b), "loud") {
		t.Error("warn record missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromEnvAndMerge(t *testing.T) {
	t.Setenv("QTUI_LOG_LEVEL", "debug")
	t.Setenv("QTUI_LOG_FILE", "/tmp/q.log")

	env := FromEnv()
	if env.Level != "debug" || env.File != "/tmp/q.log" || env.Format != "json" {
		t.Errorf("FromEnv() = %+v", env)
	}

	got := Options{Level: "error"}.Merge(env)
	if got.Level != "error" || got.File != "/tmp/q.log" || got.Format != "json" {
		t.Errorf("Merge() = %+v", got)
	}
}
