package walk

import (
	"path/filepath"
	"testing"

	"fileagg/pkg/ignore"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T, files ...string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("root", 0o755))
	for _, f := range files {
		require.NoError(t, util.WriteFile(fsys, filepath.Join("root", f), []byte("content of "+f), 0o644))
	}
	return fsys
}

func rel(t *testing.T, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel("root", p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestWalkAllFiles(t *testing.T) {
	fsys := newTree(t, "a.txt", "notes", "src/main.go", "src/pkg/util.go", "docs/readme.md")

	got, err := Walk(fsys, "root", Options{}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"a.txt", "notes", "src/main.go", "src/pkg/util.go", "docs/readme.md"},
		rel(t, got))
}

func TestWalkExtensionFilter(t *testing.T) {
	fsys := newTree(t, "a.txt", "b.TXT", "notes", "archive.tar.txt", "src/c.txt", "src/d.go", ".txt")

	got, err := Walk(fsys, "root", Options{Extensions: NewExtensionFilter("txt")}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "archive.tar.txt", "src/c.txt", ".txt"}, rel(t, got))
}

func TestWalkMultipleExtensions(t *testing.T) {
	fsys := newTree(t, "a.txt", "b.go", "c.md", "d")

	got, err := Walk(fsys, "root", Options{Extensions: ParseExtensions("go,.md")}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b.go", "c.md"}, rel(t, got))
}

func TestWalkEmptyDirectory(t *testing.T) {
	fsys := newTree(t)
	require.NoError(t, fsys.MkdirAll("root/empty/nested", 0o755))

	got, err := Walk(fsys, "root", Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWalkSkipsSymlinks(t *testing.T) {
	fsys := newTree(t, "a.txt")
	require.NoError(t, fsys.Symlink("a.txt", "root/link.txt"))

	got, err := Walk(fsys, "root", Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, rel(t, got))
}

func TestWalkIgnoreRules(t *testing.T) {
	fsys := newTree(t, "main.go", "debug.log", "vendor/lib/lib.go", "build/out.go")
	m := ignore.New(nil)
	m.CompileLines("*.log", "vendor/", "/build")

	got, err := Walk(fsys, "root", Options{Ignore: m}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, rel(t, got))
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(memfs.New(), "nope", Options{}, nil)
	assert.Error(t, err)
}

func TestWalkRootIsFile(t *testing.T) {
	fsys := newTree(t, "a.txt")

	_, err := Walk(fsys, "root/a.txt", Options{}, nil)
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		ok   bool
	}{
		{"a.txt", "txt", true},
		{"archive.tar.gz", "gz", true},
		{"notes", "", false},
		{".bashrc", "bashrc", true},
		{"trailing.", "", true},
		{filepath.Join("dir.d", "file"), "", false},
	}
	for _, tt := range tests {
		ext, ok := Extension(tt.name)
		assert.Equal(t, tt.ext, ext, tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
	}
}

func TestExtensionFilter(t *testing.T) {
	f := ParseExtensions(" go , ,.md,txt")
	assert.Equal(t, []string{"go", "md", "txt"}, f.List())
	assert.True(t, f.Allows("main.go"))
	assert.False(t, f.Allows("main.GO"))
	assert.False(t, f.Allows("trailing."))
	assert.False(t, f.Allows("Makefile"))

	assert.True(t, ExtensionFilter{}.Allows("Makefile"))
	assert.True(t, ParseExtensions("").Allows("Makefile"))
}
