package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/catalog"
	"github.com/rashadism/choreosync/internal/engine"
	"github.com/rashadism/choreosync/internal/metrics"
	"github.com/rashadism/choreosync/models"
	"github.com/rashadism/choreosync/sdk"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single reconciliation and exit",
	Long: `Perform one full reconciliation run against the platform API and
apply the resulting entity set to the local catalog, then exit.

Useful for cron-style deployments and for verifying a configuration
before starting the daemon.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to daemon configuration file (default: dev config, then /etc/choreosync/config.json)")
	syncCmd.Flags().BoolVar(&devMode, "dev", false,
		"Enable development mode (console logging instead of JSON)")
}

func runSync(cmd *cobra.Command, args []string) error {
	config, err := loadDaemonConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initLogger(devMode, config.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	metrics.MustInit()

	client, err := sdk.NewClient(sdk.ClientConfig{
		BaseURL: config.PlatformURL,
		Token:   config.Token,
	})
	if err != nil {
		return fmt.Errorf("failed to create platform client: %w", err)
	}

	store, err := catalog.Open(config.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	eng := engine.New(client, store, logger, engine.Config{
		LocationKey:         config.LocationKey,
		DefaultOwner:        config.DefaultOwner,
		Workers:             config.Workers,
		ServiceTypePatterns: config.ServiceTypePatterns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.SyncTimeout())
	defer cancel()

	result, err := eng.RunOnce(ctx)
	if err != nil {
		logger.Error("reconciliation run failed", zap.Error(err))
		return err
	}

	fmt.Println(summarizeRun(result))
	return nil
}

func summarizeRun(result models.RunResult) string {
	summary := fmt.Sprintf("run %s %s: %d entities from %d namespaces in %s",
		result.RunID, result.Outcome, result.Entities, result.Namespaces,
		result.FinishedAt.Sub(result.StartedAt).Round(10*time.Millisecond))
	for _, failure := range result.Failures {
		summary += fmt.Sprintf("\n  warning: %s/%s: %s",
			failure.Namespace, failure.Kind, failure.Reason)
	}
	return summary
}
