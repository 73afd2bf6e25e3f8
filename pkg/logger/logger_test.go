package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	infoLevel  int8 = 0
	debugLevel int8 = -1
)

// decodeLines parses one JSON log entry per non-empty line of buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestGetIsInitializedOnce(t *testing.T) {
	first := Get(infoLevel)
	require.NotNil(t, first)
	assert.Same(t, first, Get(debugLevel))
	assert.Same(t, first, GetGlobalLogger())
}

func TestGetFallsBackToNoopWithoutGlobal(t *testing.T) {
	Get(infoLevel)
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Get(infoLevel))
	assert.Same(t, &defaultNoopLogger, GetGlobalLogger())
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestGetToWritesJSONEntriesToSink(t *testing.T) {
	var buf bytes.Buffer
	lgr := GetTo(infoLevel, &buf)
	require.NotNil(t, lgr)

	WithValues(lgr, FileKey, "data.json", FormatKey, "yaml").Info("document printed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "document printed", entry[MessageKey])
	assert.Equal(t, "data.json", entry[FileKey])
	assert.Equal(t, "yaml", entry[FormatKey])
	assert.Contains(t, entry, TimeStampKey)
	assert.Contains(t, entry, GoVersionKey)
	assert.Contains(t, entry, VersionKey)
}

func TestGetToHonorsLevel(t *testing.T) {
	tests := map[string]struct {
		level int8
		want  int
	}{
		"info drops V(1)":  {level: infoLevel, want: 1},
		"debug keeps V(1)": {level: debugLevel, want: 2},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			lgr := GetTo(tt.level, &buf)
			lgr.Info("always")
			lgr.V(1).Info("value set", PathKey, "items.0", ActionKey, "commit")
			assert.Len(t, decodeLines(t, &buf), tt.want)
		})
	}
}

func TestGetToLeavesGlobalAlone(t *testing.T) {
	global := Get(infoLevel)
	var buf bytes.Buffer
	sinkLogger := GetTo(debugLevel, &buf)

	assert.NotSame(t, global, sinkLogger)
	assert.Same(t, global, GetGlobalLogger())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	lgr := GetTo(infoLevel, &buf)

	ctx := WithLogger(context.Background(), lgr)
	assert.Same(t, lgr, FromContext(ctx))
	assert.Equal(t, ctx, WithLogger(ctx, lgr), "same logger keeps the context")

	other := logr.Discard()
	replaced := WithLogger(ctx, &other)
	assert.Same(t, &other, FromContext(replaced))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	global := Get(infoLevel)
	assert.Same(t, global, FromContext(context.Background()))
}

func TestContextLoggerCarriesValues(t *testing.T) {
	var buf bytes.Buffer
	lgr := WithValues(GetTo(debugLevel, &buf), RootCommandKey, "jsonlens", SubCommandKey, "set")
	ctx := WithLogger(context.Background(), lgr)

	FromContext(ctx).V(1).Info("value set", PathKey, "a.b", ActionKey, "commit")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "jsonlens", entries[0][RootCommandKey])
	assert.Equal(t, "set", entries[0][SubCommandKey])
	assert.Equal(t, "a.b", entries[0][PathKey])
	assert.Equal(t, "commit", entries[0][ActionKey])
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	base := logr.Discard()
	withValues := WithValues(&base, PathKey, "x")
	require.NotNil(t, withValues)
	assert.NotSame(t, &base, withValues)
	assert.NotSame(t, &base, WithValues(&base))

	assert.Panics(t, func() { _ = WithValues(nil, "key", "value") })
}

func TestNoopLoggerDiscards(t *testing.T) {
	lgr := GetNoopLogger()
	require.Same(t, &defaultNoopLogger, lgr)
	assert.NotPanics(t, func() { lgr.Info("dropped", PathKey, "a") })
}

func TestSyncWithoutGlobalLogger(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(fmt.Errorf("sync /dev/stderr: %w", syscall.EINVAL)))
	assert.True(t, isIgnorableSyncError(errors.New("sync: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}
