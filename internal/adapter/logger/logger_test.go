package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("api", LevelInfo, &buf)

	l.Debug("skipped", "below threshold", "", nil)
	l.Info("order_created", "Order created", "req-1", map[string]any{"order_number": 7})
	l.Error("db_failed", "Insert failed", "req-2", nil, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "INFO", first.Level)
	assert.Equal(t, "api", first.Service)
	assert.Equal(t, "req-1", first.RequestID)
	assert.Equal(t, "order_created", first.Action)
	assert.EqualValues(t, 7, first.Details["order_number"])
	assert.Nil(t, first.Error)

	var second LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "ERROR", second.Level)
	require.NotNil(t, second.Error)
	assert.Equal(t, "boom", second.Error.Msg)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("whatever"))
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-9")
	assert.Equal(t, "req-9", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}
