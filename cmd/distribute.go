package cmd

import (
	"errors"
	"fmt"

	"fileagg/pkg/distribute"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDistributeCmd(app *App) *cobra.Command {
	c := &cobra.Command{
		Use:   "distribute",
		Short: "Distributes file contents",
		Long: `Reads a bundle produced by "fileagg aggregate" from the clipboard and writes
each file under --path, creating directories and overwriting existing files.

Entries whose path would leave --path are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			return runDistribute(cmd, app, opts)
		},
	}
	addCommonFlags(c)
	c.Flags().Bool("dry-run", false, "List the files that would be written without writing them")
	c.Flags().Bool("stdin", false, "Read the bundle from stdin instead of the clipboard")
	return c
}

func runDistribute(cmd *cobra.Command, app *App, opts Options) error {
	logger := app.Logger

	root, err := resolveRoot(opts.Path)
	if err != nil {
		return err
	}
	logger.Info("Distributing files", zap.String("path", root), zap.Bool("dryRun", opts.DryRun))

	cb, err := app.clipboardFor(cmd, opts.Pipe)
	if err != nil {
		return err
	}
	text, err := cb.ReadText()
	if err != nil {
		return err
	}

	report, err := distribute.Distribute(openRoot(root), ".", text, distribute.Options{
		DryRun:     opts.DryRun,
		Extensions: opts.Extensions,
	}, logger)
	if errors.Is(err, distribute.ErrNothingToDistribute) {
		logger.Info("Nothing to distribute", zap.Int("rejected", len(report.Skipped)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("error distributing file contents: %w", err)
	}

	if opts.DryRun {
		for _, p := range report.Written {
			printf(cmd.OutOrStdout(), "%s\n", p)
		}
		return nil
	}
	logger.Info("Distributed contents from clipboard", zap.Int("totalFiles", len(report.Written)))
	return nil
}
