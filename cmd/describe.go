package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/cloudposse/monarch/internal/exec"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show the hierarchy and the data of sources",
	}
	cmd.AddCommand(newDescribeSourceCmd(), newDescribeHierarchyCmd())
	return cmd
}

func newDescribeSourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "source <source>",
		Short:   "Print the effective data of a source after inheritance",
		Example: "monarch describe source team/dev --format json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			own, _ := cmd.Flags().GetBool("own")

			return e.NewDescribe(&monarchConfig, cmd.OutOrStdout()).
				ExecuteDescribeSource(cmd.Context(), e.DescribeSourceOptions{
					Source: args[0],
					Format: format,
					Own:    own,
				})
		},
	}
	cmd.Flags().StringP("format", "f", e.FormatYAML, "Output format: yaml or json")
	cmd.Flags().Bool("own", false, "Print only the data stored at the source")
	return cmd
}

func newDescribeHierarchyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy",
		Short: "Print the source hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, _ := cmd.Flags().GetBool("flat")
			return e.NewDescribe(&monarchConfig, cmd.OutOrStdout()).ExecuteDescribeHierarchy(flat)
		},
	}
	cmd.Flags().Bool("flat", false, "List sources one per line, ancestors first")
	return cmd
}
