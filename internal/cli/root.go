// Package cli implements roictl, the operator command line of the indexer.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/playrank/nft-roi-indexer/internal/bootstrap"
	"github.com/playrank/nft-roi-indexer/internal/config"
	"github.com/playrank/nft-roi-indexer/internal/logger"
)

var (
	cfgFile string
	envPath string
	debug   bool

	cfg        *config.CLIConfig
	components *bootstrap.Components
)

var rootCmd = &cobra.Command{
	Use:           "roictl",
	Short:         "Operate the NFT ROI indexer",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg != nil {
			return nil
		}

		loaded, err := config.LoadCLIConfig(cfgFile, envPath)
		if err != nil {
			return err
		}
		if debug {
			loaded.Debug = true
		}

		if err := logger.Initialize(logger.Config{
			Debug:       loaded.Debug,
			SentryDSN:   loaded.SentryDSN,
			Environment: loaded.Environment,
			Service:     "roictl",
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if components != nil {
			components.Close()
		}
		logger.Flush(2 * time.Second)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", "config/", "Path to environment files")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(roiCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func getComponents(ctx context.Context) (*bootstrap.Components, error) {
	if components != nil {
		return components, nil
	}
	if cfg == nil {
		panic("configuration not loaded; PersistentPreRunE not executed")
	}

	c, err := bootstrap.NewComponents(ctx, bootstrap.Settings{
		Database:  cfg.Database,
		Redis:     cfg.Redis,
		Providers: cfg.Providers,
		Ingestion: cfg.Ingestion,
		GamesPath: cfg.GamesPath,
	}, cfg.Debug)
	if err != nil {
		return nil, err
	}
	components = c
	return components, nil
}
