package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cloudposse/monarch/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the CLI version",
		Example: "monarch version",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "monarch %s on %s/%s\n", version.Version, runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
