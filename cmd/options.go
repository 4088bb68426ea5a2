package cmd

import (
	"fmt"
	"strings"

	"fileagg/pkg/walk"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment variables read for each flag,
// e.g. FILEAGG_PATH or FILEAGG_DRY_RUN.
const envPrefix = "FILEAGG"

// Options are the resolved settings of one aggregate or distribute run.
type Options struct {
	Path       string               // Root directory; empty means the working directory.
	Extensions walk.ExtensionFilter // Extension whitelist; empty includes all files.
	Exclude    []string             // Extra ignore patterns (aggregate only).
	DryRun     bool                 // List files without writing (distribute only).
	Pipe       bool                 // Use stdout/stdin instead of the clipboard.
}

// DefaultOptions is what runs when fileagg is invoked without a subcommand.
func DefaultOptions() Options {
	return Options{Extensions: walk.ExtensionFilter{}}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// addCommonFlags registers the flags shared by aggregate and distribute.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("path", "p", "", "The path to use for the operation. If not specified, defaults to the current directory.")
	cmd.Flags().StringP("extensions", "e", "", "A comma-separated list of file extensions to include. If not specified, all files are included.")
}

// loadOptions resolves cmd's flags against FILEAGG_* environment variables.
// An explicitly set flag wins over the environment.
func loadOptions(cmd *cobra.Command) (Options, error) {
	v := newViper()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Options{}, fmt.Errorf("error reading flags: %w", err)
	}

	opts := DefaultOptions()
	opts.Path = v.GetString("path")
	opts.Extensions = walk.ParseExtensions(v.GetString("extensions"))
	if cmd.Flags().Lookup("exclude") != nil {
		opts.Exclude = v.GetStringSlice("exclude")
	}
	if cmd.Flags().Lookup("dry-run") != nil {
		opts.DryRun = v.GetBool("dry-run")
	}
	for _, name := range []string{"stdout", "stdin"} {
		if cmd.Flags().Lookup(name) != nil {
			opts.Pipe = v.GetBool(name)
		}
	}
	return opts, nil
}
