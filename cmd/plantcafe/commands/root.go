// Package commands holds the plantcafe cobra commands.
package commands

import (
	"fmt"
	"os"

	"github.com/atinyakov/plantcafe/internal/config"
	"github.com/atinyakov/plantcafe/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	options = config.New()
	log     = logger.New()

	buildVersion string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   "plantcafe",
	Short: "Plant catalog and cafe guide",
	Long: `plantcafe serves a small web application where users sign up, search the
Perenual plant catalog, browse cafes curated by admins and like both.

Configuration comes from flags, environment variables, an optional .env
file and an optional JSON config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := options.Load(cmd.Flags()); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := log.Init(options.LogLevel); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Log.Sync()
	},
}

// Execute runs the root command.
func Execute(version, date string) {
	buildVersion, buildDate = version, date
	if err := rootCmd.Execute(); err != nil {
		log.Log.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	options.RegisterFlags(rootCmd.PersistentFlags())
}

func requireDatabase() error {
	if options.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}
