package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := NewZapLogger(path, "info", false)
	require.NoError(t, err)

	l.Debug("test", "hidden", nil)
	l.Info("vectorstore", "collection indexed", map[string]interface{}{"count": 11})
	require.NoError(t, l.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 1, "debug is below the configured level")
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "collection indexed", entries[0]["message"])
	assert.Equal(t, "vectorstore", entries[0]["module"])
	assert.EqualValues(t, 11, entries[0]["details"].(map[string]any)["count"])
}

func TestErrorAttachesErrorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error("service", "turn failed", map[string]interface{}{"error": errors.New("boom")})
	l.Warn("speech", "voice failed", nil)

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "turn failed", first.Message)
	assert.Equal(t, "boom", first.ContextMap()["error"])
	assert.Equal(t, "service", first.ContextMap()["module"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewZapLogger(path, "loud", false)
	require.NoError(t, err)
	l.Info("test", "kept", nil)
	require.NoError(t, l.Sync())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
}

func TestNopDoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Info("x", "y", nil)
	l.Error("x", "y", map[string]interface{}{"error": errors.New("z")})
	assert.NoError(t, l.Sync())
}
