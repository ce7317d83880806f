package iojson

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	out := MarshalError("boom", map[string]any{"id": "3"})

	var got Error
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "boom", got.Message)
	assert.Equal(t, "3", got.Data["id"])
}

func TestMarshalError_UnmarshalableData(t *testing.T) {
	out := MarshalError("boom", map[string]any{"fn": func() {}})

	var got Error
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "boom", got.Message)
	assert.Contains(t, got.Data, "json_error")
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"unread_count": 2}))
	assert.JSONEq(t, `{"unread_count": 2}`, out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "error marshaling")
}

func TestLineWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLineWriter(&buf)

	require.NoError(t, lw.Write(map[string]string{"title": "<b>Tom & Jerry</b>"}))
	require.NoError(t, lw.Write(map[string]int{"n": 2}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"title":"<b>Tom & Jerry</b>"}`, lines[0])
	assert.Equal(t, `{"n":2}`, lines[1])
}

func TestReadArgs_PrefersArgs(t *testing.T) {
	got, err := ReadArgs([]string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, got)
}

func TestReadLines(t *testing.T) {
	got, err := ReadLines(strings.NewReader("1\n\n  2  \n# skipped\n3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, got)

	got, err = ReadLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}
