package pipeline

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "empty",
			input:    nil,
			expected: "",
		},
		{
			name:     "plain",
			input:    []byte("select 1\nfrom t\n"),
			expected: "select 1\nfrom t\n",
		},
		{
			name:     "utf-8 bom",
			input:    []byte("\xef\xbb\xbfselect 1"),
			expected: "select 1",
		},
		{
			name:     "utf-16le bom",
			input:    []byte{0xff, 0xfe, 's', 0, 'q', 0, 'l', 0},
			expected: "sql",
		},
		{
			name:     "invalid utf-8",
			input:    []byte("select '\xff'"),
			expected: "select '�'",
		},
		{
			name:     "nul bytes",
			input:    []byte("select\x00 1"),
			expected: "select\x00 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCollect_ReadsToEndOfStream(t *testing.T) {
	input := strings.Repeat("select 1;\n", 10000)
	got, err := Collect(iotest.OneByteReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestCollect_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Collect(iotest.ErrReader(boom))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestEmit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, "SELECT\n  1"))
	assert.Equal(t, "SELECT\n  1\n", buf.String())

	err := Emit(shortWriter{}, "SELECT 1")
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}
