package cmd

import (
	"io"

	"github.com/spf13/cobra"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/config"
	log "github.com/cloudposse/monarch/pkg/logger"
	"github.com/cloudposse/monarch/pkg/schema"
)

var (
	monarchConfig schema.Configuration
	logCloser     io.Closer
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = NewRootCmd()

// NewRootCmd builds the monarch command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "monarch",
		Short: "Hierarchical configuration with inheritance",
		Long: `Monarch keeps per-source YAML configuration in a hierarchy where every source inherits from its ancestors.
Changes are applied at a target source and cascade to its descendants, writing each value only where it is not already inherited.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Do not silence usage or errors when help is invoked.
			if cmd.Name() == "help" || cmd.Flags().Changed("help") {
				cmd.SilenceUsage = false
				cmd.SilenceErrors = false
				return nil
			}
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to monarch.yaml")
	flags.String("hierarchy", "", "YAML file describing the source hierarchy")
	flags.String("data-dir", "", "Directory holding one <source>.yaml document per source")
	flags.String("output-dir", "", "Directory receiving updated documents (defaults to --data-dir)")
	flags.StringSlice("merge-keys", nil, "Keys whose values are combined across ancestors instead of overridden")
	flags.String("isolation", "", "How writes treat hand-edited content: isolate or never")
	flags.Int("yaml-indent", 0, "Indent of YAML written to the managed block")
	flags.Int("workers", 0, "Number of documents read in parallel")
	flags.String("logs-level", "", "Logs level. Supported log levels are Trace, Debug, Info, Warning, Off")
	flags.String("logs-file", "", "The file to write logs to, including '/dev/stdout' and '/dev/stderr'")
	flags.BoolP("verbose", "v", false, "Show error context and stack traces")

	root.AddCommand(
		newApplyCmd(),
		newDescribeCmd(),
		newInheritedCmd(),
		newVersionCmd(),
	)
	return root
}

// initConfig loads the configuration and sets up logging for the command being run.
func initConfig(cmd *cobra.Command) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	errUtils.SetVerbose(verbose)

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger, closer, err := log.Configure(cfg.Logs.Level, cfg.Logs.File)
	if err != nil {
		return errUtils.Build(errUtils.ErrLoadConfig).
			WithCause("logs: %s", err).
			WithHint("Supported log levels are Trace, Debug, Info, Warning, Off").
			Err()
	}
	logger.SetReportTimestamp(false)
	log.SetDefault(logger)
	Cleanup()
	logCloser = closer

	monarchConfig = cfg
	log.Debug("Loaded configuration", "file", cfg.CliConfigPath)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// Cleanup releases resources opened while running a command.
func Cleanup() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}
