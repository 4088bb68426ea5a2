package bundle

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFormat(t *testing.T) {
	blob := Encode([]FileRecord{
		{Path: filepath.Join("src", "main.go"), Content: "package main\n"},
		{Path: "notes", Content: "no newline"},
	})

	assert.Equal(t, "//src/main.go\npackage main\n\n//notes\nno newline\n", blob)
}

func TestParseRoundTrip(t *testing.T) {
	records := []FileRecord{
		{Path: "a.txt", Content: "hello\n"},
		{Path: filepath.Join("dir", "b.txt"), Content: "no trailing newline"},
		{Path: "empty.txt", Content: ""},
		{Path: "blank-lines.txt", Content: "\n\n"},
		{Path: "crlf.txt", Content: "one\r\ntwo\r\n"},
		{Path: filepath.Join("x", "y", "z.go"), Content: "// Package z does things.\npackage z\n\n//go:generate stringer\n"},
		{Path: "escaped.txt", Content: "\\//already escaped\n\\\\//twice\n"},
	}

	got, err := Parse(Encode(records))
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestParseToleratesMissingFinalNewline(t *testing.T) {
	got, err := Parse("//a.txt\nfirst\n\n//b.txt\nsecond")
	require.NoError(t, err)
	assert.Equal(t, []FileRecord{
		{Path: "a.txt", Content: "first\n"},
		{Path: "b.txt", Content: "second"},
	}, got)
}

func TestParseHeaderCarriageReturn(t *testing.T) {
	got, err := Parse("//a.txt\r\nbody\n")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a.txt", got[0].Path)
	assert.Equal(t, "body", got[0].Content)
}

func TestParseLeadingBlankLines(t *testing.T) {
	got, err := Parse("\n\r\n//a.txt\nbody\n")
	require.NoError(t, err)
	assert.Equal(t, []FileRecord{{Path: "a.txt", Content: "body"}}, got)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "empty", blob: ""},
		{name: "no headers", blob: "just some text\nover lines\n"},
		{name: "text before header", blob: "preamble\n//a.txt\nbody\n"},
		{name: "whitespace only", blob: "\n\n   \n"},
		{name: "indented line before header", blob: "  \n//a.txt\nbody\n"},
		{name: "tab before header", blob: "\t\n//a.txt\nbody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.blob)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestValidatePath(t *testing.T) {
	root := "/tmp/root"

	assert.NoError(t, ValidatePath(root, "a.txt"))
	assert.NoError(t, ValidatePath(root, filepath.Join("a", "b", "c.txt")))
	assert.NoError(t, ValidatePath(root, filepath.Join("a", "..", "b.txt")))

	for _, bad := range []string{
		"",
		"..",
		filepath.Join("..", "..", "etc", "passwd"),
		filepath.Join("a", "..", "..", "b"),
		"/etc/passwd",
	} {
		err := ValidatePath(root, bad)
		var outside *PathOutsideRootError
		require.ErrorAs(t, err, &outside, "path %q", bad)
		assert.Equal(t, bad, outside.Path)
		assert.ErrorIs(t, err, ErrPathOutsideRoot)
	}

	for _, bad := range []string{"a\nb.txt", "a\rb.txt", filepath.Join("dir\n", "x")} {
		err := ValidatePath(root, bad)
		assert.ErrorIs(t, err, ErrLineBreakInPath, "path %q", bad)
	}
}
