package cmd

import (
	"fmt"

	"fileagg/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCmd prints build information. --short prints only the version number.
func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Display the version of fileagg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				printf(cmd.OutOrStdout(), "%s\n", v.Version)
			} else {
				printf(cmd.OutOrStdout(), "%s\n", v.String())
			}
			return nil
		},
	}
	c.Flags().BoolP("short", "s", false, "Print the version number only")
	return c
}
