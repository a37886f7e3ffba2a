// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocontrol/internal/config"
)

func TestParseLevel(t *testing.T) {
	patterns := []struct {
		in string
		xl slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, p := range patterns {
		assert.Equal(t, p.xl, parseLevel(p.in), p.in)
	}
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, config.LoggerConfig{Level: "info", Format: "json"}))
	log.Debug("hidden")
	log.Info("configured line", "line", 17)

	var entry map[string]any
	require.Nil(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "configured line", entry["msg"])
	assert.Equal(t, float64(17), entry["line"])
}

func TestTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, config.LoggerConfig{Level: "warn", Format: "text"})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	slog.New(h).Warn("state drift", "line", 4)
	assert.True(t, strings.Contains(buf.String(), `msg="state drift" line=4`))
}

func TestNewStderr(t *testing.T) {
	log, closer, err := New(config.LoggerConfig{Level: "info", Format: "text", Output: "stderr"})
	require.Nil(t, err)
	assert.NotNil(t, log)
	assert.Nil(t, closer())
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpiocontrol.log")
	log, closer, err := New(config.LoggerConfig{Level: "info", Format: "text", Output: path})
	require.Nil(t, err)
	log.Info("hello")
	require.Nil(t, closer())

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(data), "msg=hello")
}

func TestNewBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "gpiocontrol.log")
	_, _, err := New(config.LoggerConfig{Output: path})
	assert.NotNil(t, err)
}
