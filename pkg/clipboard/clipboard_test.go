package clipboard

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestMemory(t *testing.T) {
	var m Memory

	_, err := m.ReadText()
	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "read", accessErr.Op)
	assert.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, m.WriteText("//a.txt\nhello\n"))
	got, err := m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "//a.txt\nhello\n", got)

	require.NoError(t, m.WriteText(""))
	got, err = m.ReadText()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStream(t *testing.T) {
	var out bytes.Buffer
	s := Stream{In: strings.NewReader("piped text"), Out: &out}

	got, err := s.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "piped text", got)

	require.NoError(t, s.WriteText("written"))
	assert.Equal(t, "written", out.String())
}

func TestStreamErrors(t *testing.T) {
	var accessErr *AccessError

	_, err := Stream{}.ReadText()
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "read", accessErr.Op)

	err = Stream{Out: failingWriter{}}.WriteText("x")
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "write", accessErr.Op)
	assert.Contains(t, err.Error(), "broken pipe")
}
