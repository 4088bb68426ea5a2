package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fileagg/pkg/clipboard"
	"fileagg/pkg/logging"
	"fileagg/pkg/version"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the collaborators shared by every command.
type App struct {
	Logger *zap.Logger

	// Clipboard opens the system clipboard. Replaced in tests.
	Clipboard func() (clipboard.Clipboard, error)
}

// NewApp returns an App using the OS clipboard.
func NewApp(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		Logger: logger,
		Clipboard: func() (clipboard.Clipboard, error) {
			return clipboard.NewSystem()
		},
	}
}

// clipboardFor returns the clipboard to use, or a stdin/stdout stream when
// piping was requested.
func (a *App) clipboardFor(cmd *cobra.Command, pipe bool) (clipboard.Clipboard, error) {
	if pipe {
		return clipboard.Stream{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}, nil
	}
	return a.Clipboard()
}

// NewRootCmd builds the fileagg command tree. Running it without a
// subcommand aggregates the current directory with default options.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fileagg",
		Short: "File aggregation and distribution utility",
		Long: `fileagg copies a directory tree to the clipboard as one text bundle
(aggregate) and recreates the files from such a bundle (distribute).

Each file in the bundle is introduced by a "//<relative path>" header line.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.configureLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, app, DefaultOptions())
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(newAggregateCmd(app))
	root.AddCommand(newDistributeCmd(app))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI with os.Args. It returns the logger the command ended
// up using, which differs from logger when --verbose swapped it, so the
// caller can sync the one that holds buffered entries.
func Execute(logger *zap.Logger) (*zap.Logger, error) {
	app := NewApp(logger)
	err := NewRootCmd(app).Execute()
	return app.Logger, err
}

// configureLogging swaps in a development logger when --verbose or
// FILEAGG_VERBOSE is set.
func (a *App) configureLogging(cmd *cobra.Command) error {
	v := newViper()
	if err := v.BindPFlag("verbose", cmd.Flags().Lookup("verbose")); err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	if !v.GetBool("verbose") {
		return nil
	}

	logger, err := logging.New(true, "fileagg", version.Get().Version)
	if err != nil {
		return fmt.Errorf("failed to initialize debug logger: %w", err)
	}
	a.Logger = logger
	return nil
}

// resolveRoot turns the --path value into an absolute directory, defaulting
// to the working directory.
func resolveRoot(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}

// openRoot returns a filesystem bound to root. Paths resolved through it,
// symbolic links included, never leave root.
func openRoot(root string) billy.Filesystem {
	return osfs.New(root, osfs.WithBoundOS())
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
