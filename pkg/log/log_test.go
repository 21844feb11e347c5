package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	if Logger().GetLevel() != zerolog.Disabled {
		t.Errorf("default level = %v, want disabled", Logger().GetLevel())
	}
}

func TestComponentTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer SetLogger(zerolog.Nop())

	logger := Component("trainer")
	logger.Info().Msg("candidate scored")

	out := buf.String()
	if !strings.Contains(out, `"component":"trainer"`) {
		t.Errorf("output = %q, missing component field", out)
	}
	if !strings.Contains(out, "candidate scored") {
		t.Errorf("output = %q, missing message", out)
	}
}

func TestToLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := toLevel(tt.in); got != tt.want {
			t.Errorf("toLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
