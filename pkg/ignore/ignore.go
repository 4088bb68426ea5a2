// Package ignore matches relative paths against gitignore-style patterns.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

// FileName is the per-root ignore file read by Load.
const FileName = ".fileaggignore"

// Pattern is one compiled ignore line.
type Pattern struct {
	Line    string // Original pattern line.
	LineNo  int    // 1-based position among compiled lines.
	Negate  bool   // Line started with '!'.
	DirOnly bool   // Line ended with '/'; the pattern itself only matches directories.

	self     string // doublestar glob for the path itself
	children string // doublestar glob for everything below a matched directory
}

// Matcher is an ordered set of patterns; the last matching pattern wins.
type Matcher struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty Matcher. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Load builds a Matcher from <root>/.fileaggignore, if present, followed by
// the extra patterns.
func Load(fsys billy.Filesystem, root string, extra []string, logger *zap.Logger) (*Matcher, error) {
	m := New(logger)
	if err := m.CompileFile(fsys, fsys.Join(root, FileName)); err != nil {
		return nil, err
	}
	m.CompileLines(extra...)
	return m, nil
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// CompileLines compiles pattern lines. Blank lines and comments are skipped,
// invalid globs are logged and skipped.
func (m *Matcher) CompileLines(lines ...string) {
	for _, line := range lines {
		p, ok := parsePatternLine(line)
		if !ok {
			continue
		}
		if !doublestar.ValidatePattern(p.self) {
			m.logger.Warn("Skipping invalid ignore pattern", zap.String("pattern", line))
			continue
		}
		p.LineNo = len(m.patterns) + 1
		m.patterns = append(m.patterns, p)
		m.logger.Debug("Compiled ignore pattern",
			zap.Int("lineNo", p.LineNo),
			zap.String("pattern", p.Line),
			zap.String("glob", p.self),
			zap.Bool("negate", p.Negate))
	}
}

// CompileFile reads patterns from path on fsys. A missing file is not an error.
func (m *Matcher) CompileFile(fsys billy.Filesystem, path string) error {
	content, err := util.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("Ignore file not present", zap.String("filePath", path))
			return nil
		}
		m.logger.Error("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return fmt.Errorf("read ignore file %s: %w", path, err)
	}

	lines := strings.Split(string(content), "\n")
	m.CompileLines(lines...)
	m.logger.Debug("Compiled ignore file", zap.String("filePath", path), zap.Int("lineCount", len(lines)))
	return nil
}

// Match reports whether the root-relative path is ignored. isDir tells
// whether the path is a directory, which trailing-slash patterns require.
func (m *Matcher) Match(path string, isDir bool) bool {
	matches, _ := m.MatchWithPattern(path, isDir)
	return matches
}

// MatchWithPattern is Match that also returns the pattern that decided it.
func (m *Matcher) MatchWithPattern(path string, isDir bool) (bool, *Pattern) {
	normalized := filepath.ToSlash(path)

	var matched *Pattern
	matches := false
	for _, p := range m.patterns {
		if p.matches(normalized, isDir) {
			matched = p
			matches = !p.Negate
		}
	}
	return matches, matched
}

func (p *Pattern) matches(path string, isDir bool) bool {
	if !p.DirOnly || isDir {
		if ok, err := doublestar.Match(p.self, path); err == nil && ok {
			return true
		}
	}
	ok, err := doublestar.Match(p.children, path)
	return err == nil && ok
}

// parsePatternLine turns a gitignore line into doublestar globs. A pattern
// with a slash before its last character is anchored to the root; any other
// pattern matches at every depth.
func parsePatternLine(line string) (*Pattern, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false
	}

	p := &Pattern{Line: line}
	if strings.HasPrefix(trimmed, "!") {
		p.Negate = true
		trimmed = trimmed[1:]
	}

	// `\#` and `\!` escape a literal leading character.
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	if strings.HasSuffix(trimmed, "/") {
		p.DirOnly = true
		trimmed = strings.TrimRight(trimmed, "/")
	}

	anchored := strings.Contains(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil, false
	}

	glob := trimmed
	if !anchored {
		glob = "**/" + glob
	}
	p.self = glob
	p.children = glob + "/**"
	return p, true
}
