package cmd

import (
	"errors"
	"fmt"
	"time"

	"fileagg/pkg/aggregate"
	"fileagg/pkg/ignore"
	"fileagg/pkg/walk"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAggregateCmd(app *App) *cobra.Command {
	c := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregates file contents",
		Long: `Walks the directory tree under --path and copies the text of every file,
each preceded by a "//<relative path>" header, to the clipboard.

Patterns from <path>/` + ignore.FileName + ` and --exclude are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			return runAggregate(cmd, app, opts)
		},
	}
	addCommonFlags(c)
	c.Flags().StringSliceP("exclude", "x", nil, "Gitignore-style pattern to skip; may be repeated")
	c.Flags().Bool("stdout", false, "Write the bundle to stdout instead of the clipboard")
	return c
}

func runAggregate(cmd *cobra.Command, app *App, opts Options) error {
	startTime := time.Now()
	logger := app.Logger

	root, err := resolveRoot(opts.Path)
	if err != nil {
		return err
	}
	logger.Info("Aggregating files", zap.String("path", root), zap.Strings("extensions", opts.Extensions.List()))

	fsys := openRoot(root)
	matcher, err := ignore.Load(fsys, ".", opts.Exclude, logger)
	if err != nil {
		return fmt.Errorf("failed to load ignore patterns: %w", err)
	}

	paths, err := walk.Walk(fsys, ".", walk.Options{Extensions: opts.Extensions, Ignore: matcher}, logger)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	res, err := aggregate.Aggregate(fsys, ".", paths, logger)
	if errors.Is(err, aggregate.ErrNoContent) {
		logger.Info("Nothing to aggregate; clipboard left unchanged", zap.String("path", root))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to combine file contents: %w", err)
	}

	cb, err := app.clipboardFor(cmd, opts.Pipe)
	if err != nil {
		return err
	}
	if err := cb.WriteText(res.Blob); err != nil {
		return err
	}

	if opts.Pipe {
		logger.Info("Wrote bundle to stdout", zap.Int("totalFiles", len(res.Files)))
	} else {
		logger.Info("Copied contents to clipboard",
			zap.Int("totalFiles", len(res.Files)),
			zap.Duration("elapsed", time.Since(startTime)))
	}
	return nil
}
