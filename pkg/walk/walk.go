// Package walk collects the regular files under a root directory.
package walk

import (
	"fmt"
	"os"
	"path/filepath"

	"fileagg/pkg/ignore"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
)

// Options controls which files Walk returns.
type Options struct {
	Extensions ExtensionFilter // Allowed extensions; empty allows all.
	Ignore     *ignore.Matcher // Optional ignore rules, matched against root-relative paths.
}

// Walk traverses root on fsys and returns the regular files that pass opts,
// in traversal order. Symbolic links are not followed. Errors on individual
// entries are logged and skipped; only a root that cannot be read is fatal.
func Walk(fsys billy.Filesystem, root string, opts Options, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := fsys.Lstat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	logger.Debug("Starting file traversal",
		zap.String("root", root),
		zap.Strings("extensions", opts.Extensions.List()))

	var files []string
	err = util.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Debug("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}

		if opts.Ignore != nil {
			if rel, relErr := filepath.Rel(root, path); relErr == nil && opts.Ignore.Match(rel, info.IsDir()) {
				if info.IsDir() {
					logger.Debug("Skipping ignored directory", zap.String("directory", path))
					return filepath.SkipDir
				}
				logger.Debug("Skipping ignored file", zap.String("filePath", path))
				return nil
			}
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		if !opts.Extensions.Allows(info.Name()) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		logger.Error("Error during file traversal", zap.Error(err))
		return files, fmt.Errorf("walk %s: %w", root, err)
	}

	logger.Debug("Completed file traversal", zap.Int("files", len(files)))
	return files, nil
}
