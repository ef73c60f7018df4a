package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rashadism/choreosync/internal/api"
	"github.com/rashadism/choreosync/internal/catalog"
	"github.com/rashadism/choreosync/internal/engine"
	"github.com/rashadism/choreosync/internal/logging"
	"github.com/rashadism/choreosync/internal/metrics"
	"github.com/rashadism/choreosync/sdk"
)

// Manager coordinates the daemon's components: the platform SDK client, the
// catalog store, the reconciliation scheduler, and the ops HTTP server. It
// handles graceful shutdown on signals.
type Manager struct {
	config *DaemonConfig
	logger *zap.Logger

	store     *catalog.Store
	scheduler *Scheduler
	server    *http.Server

	// shutdownTimeout is the maximum time to wait for graceful shutdown
	shutdownTimeout time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the Manager.
type ManagerConfig struct {
	// Config is an already loaded and validated daemon configuration.
	// When nil, the configuration is loaded from ConfigPath.
	Config *DaemonConfig

	// ConfigPath is the optional path to the config file.
	ConfigPath string

	// Logger is the structured logger (optional, will create default if nil)
	Logger *zap.Logger

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds
	ShutdownTimeout time.Duration
}

// NewManager creates a new daemon manager: it loads and validates the
// configuration, opens the catalog database, and wires the SDK client,
// engine, scheduler, and HTTP router together.
func NewManager(config ManagerConfig) (*Manager, error) {
	daemonConfig := config.Config
	if daemonConfig == nil {
		var err error
		if config.ConfigPath != "" {
			daemonConfig, err = LoadConfigFromPath(config.ConfigPath)
		} else {
			daemonConfig, err = LoadConfig()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = logging.NewProductionLogger(daemonConfig.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}

	metrics.MustInit()

	client, err := sdk.NewClient(sdk.ClientConfig{
		BaseURL: daemonConfig.PlatformURL,
		Token:   daemonConfig.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create platform client: %w", err)
	}

	store, err := catalog.Open(daemonConfig.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	eng := engine.New(client, store, logger, engine.Config{
		LocationKey:         daemonConfig.LocationKey,
		DefaultOwner:        daemonConfig.DefaultOwner,
		Workers:             daemonConfig.Workers,
		ServiceTypePatterns: daemonConfig.ServiceTypePatterns,
	})

	tracker := engine.NewTracker()

	scheduler := NewScheduler(SchedulerConfig{
		Runner:   eng,
		Tracker:  tracker,
		Logger:   logger,
		Interval: daemonConfig.SyncFrequency(),
		Timeout:  daemonConfig.SyncTimeout(),
	})

	router := api.SetupRouter(&api.RouterConfig{
		Logger:  logger,
		Store:   store,
		Tracker: tracker,
	})

	return &Manager{
		config:          daemonConfig,
		logger:          logger,
		store:           store,
		scheduler:       scheduler,
		shutdownTimeout: shutdownTimeout,
		server: &http.Server{
			Addr:              daemonConfig.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run starts the daemon and blocks until shutdown is signaled.
func (m *Manager) Run() error {
	m.logger.Info("starting choreosync daemon",
		zap.String("platform_url", m.config.PlatformURL),
		zap.String("location_key", m.config.LocationKey),
		zap.String("listen_addr", m.config.ListenAddr),
		zap.Duration("sync_frequency", m.config.SyncFrequency()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.scheduler.Run(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		m.logger.Error("http server failed", zap.Error(err))
		m.Shutdown()
		return err
	case sig := <-signalChannel():
		m.logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	return m.Shutdown()
}

// Shutdown gracefully stops the scheduler, the HTTP server, and the catalog
// store.
func (m *Manager) Shutdown() error {
	m.logger.Info("shutting down daemon", zap.Duration("timeout", m.shutdownTimeout))

	if m.cancel != nil {
		m.cancel()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()

	if err := m.server.Shutdown(shutdownCtx); err != nil {
		m.logger.Warn("http server shutdown failed", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		m.logger.Info("scheduler stopped gracefully")
	case <-shutdownCtx.Done():
		m.logger.Warn("shutdown timeout exceeded, forcing exit")
		err = fmt.Errorf("shutdown timeout exceeded")
	}

	if closeErr := m.store.Close(); closeErr != nil {
		m.logger.Warn("catalog close failed", zap.Error(closeErr))
	}
	return err
}

func signalChannel() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	return sigChan
}
