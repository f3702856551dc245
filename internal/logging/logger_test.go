// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Caller {
		t.Error("Caller should default to false")
	}
	if !cfg.Timestamp {
		t.Error("Timestamp should default to true")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// The tests below mutate the global logger and must not run in parallel.

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("dish_id", "bibimbap").Msg("index built")
	Debug().Msg("debug visible")

	out := buf.String()
	if !strings.Contains(out, `"message":"index built"`) {
		t.Errorf("missing message: %s", out)
	}
	if !strings.Contains(out, `"dish_id":"bibimbap"`) {
		t.Errorf("missing field: %s", out)
	}
	if !strings.Contains(out, "debug visible") {
		t.Errorf("debug line filtered at debug level: %s", out)
	}
	if strings.Contains(out, `"time"`) {
		t.Errorf("timestamp present with Timestamp=false: %s", out)
	}
}

func TestInit_Console(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Warn().Msg("console line")

	out := buf.String()
	if !strings.Contains(out, "console line") {
		t.Errorf("missing message: %s", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("console format produced JSON: %s", out)
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	SetLevelString("error")
	if IsLevelEnabled(zerolog.WarnLevel) {
		t.Error("warn enabled at error level")
	}
	Warn().Msg("dropped")
	Err(errors.New("store down")).Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("warn written at error level: %s", out)
	}
	if !strings.Contains(out, `"error":"store down"`) {
		t.Errorf("missing error field: %s", out)
	}
}

func TestSetLoggerAndWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { SetLogger(prev) })

	l := WithComponent("recommend")
	l.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"recommend"`) {
		t.Errorf("missing component: %s", buf.String())
	}
}
