package walk

import (
	"path/filepath"
	"sort"
	"strings"
)

// ExtensionFilter is a set of allowed extensions without the leading dot.
// An empty filter allows every file.
type ExtensionFilter map[string]struct{}

// NewExtensionFilter builds a filter from extension names. Blank entries are
// dropped and one leading dot is trimmed, so "go" and ".go" are the same.
func NewExtensionFilter(exts ...string) ExtensionFilter {
	f := ExtensionFilter{}
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		f[ext] = struct{}{}
	}
	return f
}

// ParseExtensions parses a comma-separated list such as "go,md,txt".
func ParseExtensions(list string) ExtensionFilter {
	return NewExtensionFilter(strings.Split(list, ",")...)
}

// Allows reports whether the file name passes the filter. Matching is case-sensitive.
func (f ExtensionFilter) Allows(name string) bool {
	if len(f) == 0 {
		return true
	}
	ext, ok := Extension(name)
	if !ok {
		return false
	}
	_, allowed := f[ext]
	return allowed
}

// List returns the extensions in sorted order.
func (f ExtensionFilter) List() []string {
	out := make([]string, 0, len(f))
	for ext := range f {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extension returns the text after the last '.' of the base name. ok is false
// when the name has no dot.
func Extension(name string) (ext string, ok bool) {
	base := filepath.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return "", false
	}
	return base[i+1:], true
}
