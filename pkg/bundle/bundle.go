// Package bundle implements the text format exchanged between aggregate and
// distribute: a sequence of files, each introduced by a marker-prefixed
// header line holding its path relative to the root.
package bundle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Marker starts every header line in a bundle.
const Marker = "//"

// escapeChar is prepended to content lines that would otherwise parse as headers.
const escapeChar = '\\'

var (
	// ErrMalformed is returned by Parse when the blob holds no header line or
	// has text before the first header.
	ErrMalformed = errors.New("malformed bundle")

	// ErrPathOutsideRoot marks a relative path that would resolve outside the root.
	ErrPathOutsideRoot = errors.New("path outside root")

	// ErrLineBreakInPath marks a path that cannot be written on a single header line.
	ErrLineBreakInPath = errors.New("path contains a line break")
)

// FileRecord is a single file carried by a bundle.
type FileRecord struct {
	Path    string // Path relative to the root, using the platform separator.
	Content string // Raw text content of the file.
}

// PathOutsideRootError reports a record or walked file whose path does not
// stay under the root.
type PathOutsideRootError struct {
	Root string
	Path string
}

func (e *PathOutsideRootError) Error() string {
	return fmt.Sprintf("path %q is outside root %q", e.Path, e.Root)
}

// Unwrap lets errors.Is match ErrPathOutsideRoot.
func (e *PathOutsideRootError) Unwrap() error {
	return ErrPathOutsideRoot
}

// ValidatePath checks that rel is a non-empty path local to root that fits
// on one header line.
func ValidatePath(root, rel string) error {
	if !filepath.IsLocal(rel) {
		return &PathOutsideRootError{Root: root, Path: rel}
	}
	if strings.ContainsAny(rel, "\r\n") {
		return fmt.Errorf("%w: %q", ErrLineBreakInPath, rel)
	}
	return nil
}

// Encode serializes records into a single blob. Each record becomes a header
// line, the escaped content and a trailing newline.
func Encode(records []FileRecord) string {
	var sb strings.Builder
	for _, r := range records {
		WriteRecord(&sb, r)
	}
	return sb.String()
}

// WriteRecord appends one encoded record to sb.
func WriteRecord(sb *strings.Builder, r FileRecord) {
	sb.WriteString(Marker)
	sb.WriteString(filepath.ToSlash(r.Path))
	sb.WriteByte('\n')
	sb.WriteString(escapeContent(r.Content))
	sb.WriteByte('\n')
}

// Parse splits blob back into records. A record's content runs from the line
// after its header to the next header, minus the newline Encode appended.
// Leading blank lines are tolerated; any other text before the first header
// makes the blob malformed.
func Parse(blob string) ([]FileRecord, error) {
	var (
		records []FileRecord
		current *strings.Builder
		path    string
	)

	flush := func() {
		if current == nil {
			return
		}
		content := strings.TrimSuffix(current.String(), "\n")
		records = append(records, FileRecord{Path: path, Content: content})
	}

	for _, line := range strings.SplitAfter(blob, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, Marker) {
			flush()
			path = headerPath(line)
			current = &strings.Builder{}
			continue
		}
		if current == nil {
			if strings.TrimRight(line, "\r\n") != "" {
				return nil, fmt.Errorf("%w: text before first header", ErrMalformed)
			}
			continue
		}
		current.WriteString(unescapeLine(line))
	}
	flush()

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header lines", ErrMalformed)
	}
	return records, nil
}

// headerPath extracts the relative path from a header line.
func headerPath(line string) string {
	p := strings.TrimPrefix(line, Marker)
	p = strings.TrimSuffix(p, "\n")
	p = strings.TrimSuffix(p, "\r")
	return filepath.FromSlash(p)
}

// escapeContent prefixes every line matching `^\\*//` with one more backslash.
func escapeContent(content string) string {
	if !strings.Contains(content, Marker) {
		return content
	}
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if isEscapable(line) {
			lines[i] = string(escapeChar) + line
		}
	}
	return strings.Join(lines, "")
}

// unescapeLine strips one backslash from a line matching `^\\+//`.
func unescapeLine(line string) string {
	if len(line) > 0 && line[0] == escapeChar && isEscapable(line) {
		return line[1:]
	}
	return line
}

// isEscapable reports whether line is zero or more backslashes followed by Marker.
func isEscapable(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, string(escapeChar)), Marker)
}
