package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("bound") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("measured") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("measured") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("dropped") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("bound")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("log line %q should start with an HH:MM:SS.ms timestamp", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	tests := []struct {
		name    string
		keyvals []any
		want    []string
	}{
		{"no keyvals", nil, []string{"render complete", "duration="}},
		{"with keyvals", []any{"specs", 2, "formats", 3}, []string{"render complete", "specs=2", "formats=3", "duration="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prog := newProgress(newLogger(&buf, log.InfoLevel))
			prog.done("render complete", tt.keyvals...)

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("progress output %q missing %q", out, want)
				}
			}
			if strings.Index(out, "duration=") < strings.Index(out, "render complete") {
				t.Error("duration should follow the message and caller keyvals")
			}
		})
	}
}

func TestProgressDurationRounded(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.start = time.Now().Add(-1234567 * time.Microsecond)
	prog.done("wiring written")

	if !strings.Contains(buf.String(), "duration=1.234s") && !strings.Contains(buf.String(), "duration=1.235s") {
		t.Errorf("duration not rounded to the millisecond: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), custom), custom},
		{"missing falls back to default", context.Background(), log.Default()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}
}

func TestRenderLogsThroughContextLogger(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.Out = &bytes.Buffer{}

	input := copyFixture(t, "fruit.toml", t.TempDir(), "fruit.toml")
	if err := runCLI(c, "render", input, "-f", "svg,json"); err != nil {
		t.Fatalf("render error = %v", err)
	}

	out := logs.String()
	for _, want := range []string{"render complete", "specs=1", "formats=2", "duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("render log %q missing %q", out, want)
		}
	}
}
