package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rashadism/choreosync/cmd/choreosync/daemon"
	"github.com/rashadism/choreosync/internal/logging"
)

var (
	configPath string
	devMode    bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the choreosync daemon",
	Long: `Start the daemon to continuously synchronize the platform catalog.

The daemon will:
  - Load configuration from the specified file
  - Open the local catalog database
  - Run a full reconciliation immediately, then on the configured interval
  - Serve the catalog read API, health probes, and metrics over HTTP
  - Handle graceful shutdown on SIGTERM/SIGINT

Configuration file should be in JSON format and specify:
  - The platform API base URL (and optional bearer token)
  - Sync frequency/timeout and worker count
  - Catalog database path and HTTP listen address`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to daemon configuration file (default: dev config, then /etc/choreosync/config.json)")
	daemonCmd.Flags().BoolVar(&devMode, "dev", false,
		"Enable development mode (console logging instead of JSON)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	config, err := loadDaemonConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initLogger(devMode, config.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("choreosync daemon starting",
		zap.String("version", Version),
		zap.String("commit", Commit),
		zap.String("config", configPath))

	manager, err := daemon.NewManager(daemon.ManagerConfig{
		Config: config,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to create daemon manager", zap.Error(err))
		return fmt.Errorf("failed to create manager: %w", err)
	}

	// Run blocks until shutdown.
	if err := manager.Run(); err != nil {
		logger.Error("manager error", zap.Error(err))
		return err
	}

	logger.Info("daemon stopped")
	return nil
}

// loadDaemonConfig resolves the daemon configuration from the --config flag,
// falling back to the default search paths when the flag is unset.
func loadDaemonConfig() (*daemon.DaemonConfig, error) {
	if configPath != "" {
		return daemon.LoadConfigFromPath(configPath)
	}
	return daemon.LoadConfig()
}

// initLogger builds the process logger at the configured level. Development
// mode switches from JSON to console output.
func initLogger(devMode bool, level string) (*zap.Logger, error) {
	if devMode {
		return logging.NewDevelopmentLogger(level)
	}
	return logging.NewProductionLogger(level)
}
