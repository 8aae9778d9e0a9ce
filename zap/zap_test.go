package zap_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	wenyanzap "github.com/fwojciec/wenyan/zap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wenyan.log")
	logger, err := wenyanzap.New(wenyanzap.Options{File: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Named("ndjson").Warn("malformed record", zap.String("line", "{"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "malformed record", entry["message"])
	assert.Equal(t, "ndjson", entry["logger"])
	assert.Equal(t, "{", entry["line"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := wenyanzap.New(wenyanzap.Options{Console: true, ConsoleWriter: &buf, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("request issued", zap.String("id", "flash-1"))
	assert.Contains(t, buf.String(), "request issued")
	assert.Contains(t, buf.String(), "flash-1")
}

func TestNew_NoSinks(t *testing.T) {
	t.Parallel()
	logger, err := wenyanzap.New(wenyanzap.Options{})
	require.NoError(t, err)
	assert.NotPanics(t, func() { logger.Error("nowhere") })
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()
	_, err := wenyanzap.New(wenyanzap.Options{Level: "loud"})
	assert.Error(t, err)
}
