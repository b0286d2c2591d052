package log

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedx/targetman/internal/errors"
)

func TestLevelToSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.ToSlogLevel().String())
	assert.Equal(t, "INFO", LevelInfo.ToSlogLevel().String())
	assert.Equal(t, "WARN", LevelWarn.ToSlogLevel().String())
	assert.Equal(t, "ERROR", LevelError.ToSlogLevel().String())
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "key=value")
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("hello", "module", "alpha")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "alpha", entry["module"])
}

func TestWith(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Level: LevelInfo, Output: &buf}).With("module", "beta")

	logger.Info("building")

	assert.Contains(t, buf.String(), "module=beta")
}

func TestWithError(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Level: LevelInfo, Output: &buf})

	coded := errors.NewBuildSystemError("scons")
	logger.WithError(coded).Error("invalid configuration")

	out := buf.String()
	assert.Contains(t, out, "error_code="+string(errors.ErrCodeConfigBuildSystem))
	assert.Contains(t, out, "scons")

	buf.Reset()
	logger.WithError(nil).Info("no error attached")
	assert.NotContains(t, buf.String(), "error=")
}

func TestVerboseConfig(t *testing.T) {
	cfg := VerboseConfig()
	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestGlobal(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Level: LevelInfo, Output: &buf})
	SetGlobal(logger)
	t.Cleanup(func() { SetGlobal(Default()) })

	assert.Same(t, logger, Global())
}
