// Package distribute recreates files on disk from a bundle blob.
package distribute

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fileagg/pkg/bundle"
	"fileagg/pkg/walk"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNothingToDistribute is returned when the blob yields no file that can be written.
var ErrNothingToDistribute = errors.New("nothing to distribute")

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// FileWriteError reports a record that could not be written.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error {
	return e.Err
}

// Options tunes a Distribute call.
type Options struct {
	DryRun     bool                 // Report what would be written without touching fsys.
	Extensions walk.ExtensionFilter // Only records passing the filter are written; empty allows all.
}

// Report describes what Distribute did.
type Report struct {
	Written []string // Relative paths written (or that would be, on a dry run).
	Skipped []error  // Records left out because of their path.
}

// Distribute parses blob and writes each record to root/<path> on fsys,
// creating parent directories and overwriting existing files. Records whose
// path would leave root, lexically or through a symbolic link to a directory
// already under root, are logged and skipped. Write failures do not stop
// the remaining records; they are combined into the returned error and files
// already written stay in place.
func Distribute(fsys billy.Filesystem, root, blob string, opts Options, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var report Report

	records, err := bundle.Parse(blob)
	if err != nil {
		logger.Info("Clipboard text is not a bundle", zap.Error(err))
		return report, fmt.Errorf("%w: %w", ErrNothingToDistribute, err)
	}

	var eligible []bundle.FileRecord
	for _, r := range records {
		if err := bundle.ValidatePath(root, r.Path); err != nil {
			logger.Warn("Skipping record", zap.String("relPath", r.Path), zap.Error(err))
			report.Skipped = append(report.Skipped, err)
			continue
		}
		if err := checkParents(fsys, root, r.Path); err != nil {
			logger.Warn("Skipping record", zap.String("relPath", r.Path), zap.Error(err))
			report.Skipped = append(report.Skipped, err)
			continue
		}
		if !opts.Extensions.Allows(r.Path) {
			logger.Debug("Skipping record filtered by extension", zap.String("relPath", r.Path))
			continue
		}
		eligible = append(eligible, r)
	}

	if len(eligible) == 0 {
		logger.Info("No records to write", zap.Int("records", len(records)))
		return report, ErrNothingToDistribute
	}

	var errs error
	for _, r := range eligible {
		target := fsys.Join(root, r.Path)
		if opts.DryRun {
			logger.Info("Would write file", zap.String("filePath", target), zap.Int("contentSizeBytes", len(r.Content)))
			report.Written = append(report.Written, r.Path)
			continue
		}

		if err := writeRecord(fsys, target, r.Content); err != nil {
			logger.Error("Failed to write file", zap.String("filePath", target), zap.Error(err))
			errs = multierr.Append(errs, &FileWriteError{Path: target, Err: err})
			continue
		}
		logger.Debug("Wrote file", zap.String("filePath", target), zap.Int("contentSizeBytes", len(r.Content)))
		report.Written = append(report.Written, r.Path)
	}

	logger.Info("Distributed files",
		zap.String("root", root),
		zap.Int("written", len(report.Written)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(multierr.Errors(errs))),
		zap.Bool("dryRun", opts.DryRun))
	return report, errs
}

func writeRecord(fsys billy.Filesystem, target, content string) error {
	if err := fsys.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	return util.WriteFile(fsys, target, []byte(content), filePerm)
}

// checkParents rejects rel when one of its existing parent directories under
// root is a symbolic link. Missing parents are fine; they are created later.
func checkParents(fsys billy.Filesystem, root, rel string) error {
	dir := filepath.Dir(rel)
	if dir == "." {
		return nil
	}

	current := root
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		current = fsys.Join(current, part)
		info, err := fsys.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return &FileWriteError{Path: current, Err: err}
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return &bundle.PathOutsideRootError{Root: root, Path: rel}
		}
	}
	return nil
}
