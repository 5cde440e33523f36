package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/monarch/internal/exec"
)

func newInheritedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inherited <source> <key> <value>",
		Short: "Report whether a value is already inherited at a source",
		Long: `Inherited prints true when the ancestors of the source already yield the value for the key, so writing it at the source would be redundant.
The value is parsed as YAML.`,
		Example: "monarch inherited team/dev tags '[a, b]'",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := e.NewInherited(&monarchConfig, cmd.OutOrStdout()).Execute(cmd.Context(), e.InheritedOptions{
				Source: args[0],
				Key:    args[1],
				Value:  args[2],
			})
			return err
		},
	}
}
