package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql"
	"github.com/gnoswap-labs/orql/check"
)

const defaultTimeout = 5 * time.Minute

// ErrIssuesFound is returned when a command reports at least one issue.
var ErrIssuesFound = errors.New("issues found")

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
	config check.Config
	engine *orql.Engine
)

var rootCmd = &cobra.Command{
	Use:               "orql [paths...]",
	Short:             "orql - parse and check ORQL queries",
	Args:              cobra.ArbitraryArgs,
	TraverseChildren:  true, // Prioritize subcommands
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: orql [path1 path2 ...] => behaves like the check subcommand
		checkCmd.SetContext(cmd.Context())
		return checkCmd.RunE(checkCmd, args)
	},
}

// setup builds the logger, loads the configuration and creates the engine
// shared by the subcommands.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}

	config, err = check.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	engine = orql.NewEngine(config.Cache.Capacity, logger)
	logger.Debug("configuration loaded",
		zap.String("file", cfgFile),
		zap.Int("cache.capacity", config.Cache.Capacity),
		zap.Strings("extensions", config.Extensions))
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", check.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for checking")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}
