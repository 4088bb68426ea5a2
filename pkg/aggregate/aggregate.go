// Package aggregate concatenates files under a root into a single bundle blob.
package aggregate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fileagg/pkg/bundle"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

var (
	// ErrNoContent is returned when no file could be included in the bundle.
	ErrNoContent = errors.New("no content to aggregate")

	// ErrNotText is the cause of a FileReadError for binary or non-UTF-8 files.
	ErrNotText = errors.New("file is not valid text")
)

// FileReadError reports a file that was skipped because it could not be read as text.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a successful Aggregate call.
type Result struct {
	Blob    string   // Encoded bundle.
	Files   []string // Relative paths included, in bundle order.
	Skipped []error  // Per-file problems that caused a file to be left out.
	Bytes   int      // Total content bytes included.
}

// Aggregate reads every path, which must lie under root, and encodes the
// readable ones into a bundle. Files outside root or unreadable as text are
// logged and skipped. ErrNoContent is returned when nothing was included.
func Aggregate(fsys billy.Filesystem, root string, paths []string, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		res Result
		sb  strings.Builder
	)

	for _, path := range paths {
		record, err := readRecord(fsys, root, path, logger)
		if err != nil {
			logger.Warn("Skipping file", zap.String("filePath", path), zap.Error(err))
			res.Skipped = append(res.Skipped, err)
			continue
		}

		bundle.WriteRecord(&sb, record)
		res.Files = append(res.Files, record.Path)
		res.Bytes += len(record.Content)
	}

	if len(res.Files) == 0 {
		logger.Info("No files were aggregated",
			zap.String("root", root),
			zap.Int("candidates", len(paths)),
			zap.Int("skipped", len(res.Skipped)))
		return res, ErrNoContent
	}

	res.Blob = sb.String()
	logger.Info("Aggregated files",
		zap.String("root", root),
		zap.Int("totalFiles", len(res.Files)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("contentBytes", res.Bytes))
	return res, nil
}

// readRecord resolves path relative to root and reads it as text.
func readRecord(fsys billy.Filesystem, root, path string, logger *zap.Logger) (bundle.FileRecord, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return bundle.FileRecord{}, &bundle.PathOutsideRootError{Root: root, Path: path}
	}
	if err := bundle.ValidatePath(root, rel); err != nil {
		return bundle.FileRecord{}, err
	}

	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return bundle.FileRecord{}, &FileReadError{Path: path, Err: err}
	}
	if isBinary(data) || !utf8.Valid(data) {
		return bundle.FileRecord{}, &FileReadError{Path: path, Err: ErrNotText}
	}

	logger.Debug("Read file content",
		zap.String("filePath", path),
		zap.String("relPath", rel),
		zap.Int("contentSizeBytes", len(data)))

	return bundle.FileRecord{Path: rel, Content: string(data)}, nil
}
