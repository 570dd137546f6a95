package obslog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestZeroLoggerIsZero(t *testing.T) {
	var l Logger
	if !l.IsZero() {
		t.Fatalf("want a zero-value Logger to report IsZero() true")
	}
	if New(nil, zerolog.InfoLevel).IsZero() {
		t.Fatalf("want New(...) to report IsZero() false")
	}
	if Nop().IsZero() {
		t.Fatalf("want Nop() to report IsZero() false")
	}
}

func TestInfoWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel)
	l.Info("generated sample", "fut", "add", "count", 42)

	var fields map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("log line was not valid JSON: %v (line: %s)", err, buf.String())
	}
	if fields["message"] != "generated sample" {
		t.Fatalf("want the message field set, got %+v", fields)
	}
	if fields["fut"] != "add" {
		t.Fatalf("want the fut key/value pair recorded, got %+v", fields)
	}
}

func TestDebugIsSuppressedBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel)
	l.Debug("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Fatalf("want debug-level messages suppressed at info level, got: %s", buf.String())
	}
}

func TestNopDiscardsOutput(t *testing.T) {
	l := Nop()
	l.Error("this should go nowhere")
}
