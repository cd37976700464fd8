package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aigov/internal/config"
	"aigov/internal/logging"
)

func TestNewWritesJSONToConsole(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := logging.New(config.LogConfig{Level: "debug"}, &buf)
	require.NoError(t, err)
	defer closeLog()

	log.Debug("scored", zap.Int("systems", 3))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scored", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 3, entry["systems"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := logging.New(config.LogConfig{Level: "chatty"}, &buf)
	require.NoError(t, err)
	defer closeLog()

	log.Debug("hidden")
	log.Info("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNewTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aigov.log")
	var buf bytes.Buffer
	log, closeLog, err := logging.New(config.LogConfig{Level: "info", File: path}, &buf)
	require.NoError(t, err)

	log.Info("archive written")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "archive written"))
	assert.Contains(t, buf.String(), "archive written")
}

func TestNewFailsWhenLogFileCannotBeCreated(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	log, closeLog, err := logging.New(config.LogConfig{File: filepath.Join(blocker, "aigov.log")}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Nil(t, log)
	assert.Nil(t, closeLog)
}

func TestNewCreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "aigov.log")
	_, closeLog, err := logging.New(config.LogConfig{File: path}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, closeLog())
	assert.FileExists(t, path)
}
