package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	e "github.com/cloudposse/monarch/internal/exec"
	log "github.com/cloudposse/monarch/pkg/logger"
	"github.com/cloudposse/monarch/pkg/schema"
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <change-file>...",
		Short: "Apply change documents at a target source",
		Long: `Apply reads one or more YAML change streams and rewrites the documents of the target source and everything below it.
Each argument is a file, a doublestar glob such as 'changes/**/*.yaml', or '-' for standard input.`,
		Example: `monarch apply --target global changes.yaml
monarch apply --target team --dry-run 'changes/**/*.yaml'
cat change.yaml | monarch apply --target team -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := e.ExecuteApply(cmd.Context(), &monarchConfig,
				schema.ApplyOptions{ChangeFiles: args, DryRun: dryRun},
				cmd.InOrStdin(), cmd.OutOrStdout())
			if result != nil {
				log.Info("Apply finished",
					"target", result.Target,
					"changed", len(result.Written),
					"unchanged", len(result.Unchanged),
					"conflicts", len(result.Conflicts),
					"dry_run", dryRun)
			}
			if err != nil && result != nil && len(result.Conflicts) > 0 {
				return errors.Wrapf(err, "%d conflicting sources were skipped", len(result.Conflicts))
			}
			return err
		},
	}

	cmd.Flags().String("target", "", "Source at which the changes start propagating")
	cmd.Flags().Bool("dry-run", false, "Print a unified diff of every document instead of writing it")
	return cmd
}
