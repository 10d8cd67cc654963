package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []Entry {
	t.Helper()
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestLevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters("talenttrack-api", "WARN", &out, &errOut)

	l.Debug(Entry{Action: "debug"})
	l.Info(Entry{Action: "info"})
	l.Warn(Entry{Action: "warn"})
	l.Error(Entry{Action: "boom", Error: &ErrObj{Msg: "bad"}})

	stdout := decodeLines(t, &out)
	require.Len(t, stdout, 1)
	assert.Equal(t, "warn", stdout[0].Action)
	assert.Equal(t, "WARN", stdout[0].Level)
	assert.Equal(t, "talenttrack-api", stdout[0].Service)

	stderr := decodeLines(t, &errOut)
	require.Len(t, stderr, 1)
	assert.Equal(t, "ERROR", stderr[0].Level)
	assert.Equal(t, "bad", stderr[0].Error.Msg)
	assert.Contains(t, stderr[0].Additional, "caller")
}

func TestWithRequestMergesIDs(t *testing.T) {
	var out bytes.Buffer
	l := NewWithWriters("svc", "DEBUG", &out, &out)

	l.WithRequest("req-1", "EMP001").Info(Entry{Action: "leave_applied"})
	l.WithFields(map[string]any{"days": 3}).Info(Entry{Action: "x", Additional: map[string]any{"days": 5}})

	entries := decodeLines(t, &out)
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "EMP001", entries[0].UserID)
	// explicit entry fields win over the base
	assert.EqualValues(t, 5, entries[1].Additional["days"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
