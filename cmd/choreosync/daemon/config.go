// Package daemon wires the choreosync process: configuration, the periodic
// reconciliation scheduler, and the ops HTTP server.
package daemon

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rashadism/choreosync/internal/logging"
)

// Config file locations
const (
	// ProductionConfigPath is the default config location for production deployments
	ProductionConfigPath = "/etc/choreosync/config.json"

	// DevelopmentConfigPath is the optional config location for development/testing
	DevelopmentConfigPath = "./dev_config.json"
)

// Defaults applied by Validate.
const (
	DefaultSyncFrequency = 10 * time.Minute
	DefaultSyncTimeout   = 5 * time.Minute
	DefaultDatabasePath  = "/var/lib/choreosync/catalog.db"
	DefaultListenAddr    = ":8080"
	DefaultLogLevel      = "info"
)

// DaemonConfig represents the complete daemon configuration.
type DaemonConfig struct {
	// PlatformURL is the base URL of the platform management API.
	PlatformURL string `json:"platform_url"`

	// Token is the optional bearer token for platform API requests.
	Token string `json:"token,omitempty"`

	// DefaultOwner is the owner attributed to every synchronized entity.
	DefaultOwner string `json:"default_owner,omitempty"`

	// LocationKey identifies this synchronizer instance in the catalog.
	// Defaults to "choreosync:" + PlatformURL.
	LocationKey string `json:"location_key,omitempty"`

	// SyncFrequencySeconds is the interval between reconciliation runs.
	SyncFrequencySeconds int `json:"sync_frequency_seconds,omitempty"`

	// SyncTimeoutSeconds bounds the duration of a single run.
	SyncTimeoutSeconds int `json:"sync_timeout_seconds,omitempty"`

	// Workers bounds the number of namespaces crawled concurrently.
	Workers int `json:"workers,omitempty"`

	// ServiceTypePatterns are glob patterns matched against component type
	// names to decide which components carry derivable workload endpoints.
	ServiceTypePatterns []string `json:"service_type_patterns,omitempty"`

	// DatabasePath is the SQLite catalog database location.
	DatabasePath string `json:"database_path,omitempty"`

	// ListenAddr is the ops HTTP server bind address.
	ListenAddr string `json:"listen_addr,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `json:"log_level,omitempty"`
}

// LoadConfig loads the daemon configuration from disk.
// It checks for a development config first, then falls back to the production
// config.
func LoadConfig() (*DaemonConfig, error) {
	if _, err := os.Stat(DevelopmentConfigPath); err == nil {
		return loadConfigFromFile(DevelopmentConfigPath)
	}
	return loadConfigFromFile(ProductionConfigPath)
}

// LoadConfigFromPath loads configuration from a specific file path.
func LoadConfigFromPath(path string) (*DaemonConfig, error) {
	return loadConfigFromFile(path)
}

func loadConfigFromFile(path string) (*DaemonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config DaemonConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration and fills in defaults.
func (c *DaemonConfig) Validate() error {
	c.PlatformURL = strings.TrimRight(strings.TrimSpace(c.PlatformURL), "/")
	if c.PlatformURL == "" {
		return fmt.Errorf("platform_url cannot be empty")
	}
	parsed, err := url.Parse(c.PlatformURL)
	if err != nil {
		return fmt.Errorf("platform_url is invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("platform_url must use http or https: %s", c.PlatformURL)
	}

	if c.SyncFrequencySeconds < 0 {
		return fmt.Errorf("sync_frequency_seconds cannot be negative")
	}
	if c.SyncTimeoutSeconds < 0 {
		return fmt.Errorf("sync_timeout_seconds cannot be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	if c.LocationKey == "" {
		c.LocationKey = "choreosync:" + c.PlatformURL
	}
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level is invalid: %w", err)
	}

	return nil
}

// SyncFrequency returns the interval between runs.
func (c *DaemonConfig) SyncFrequency() time.Duration {
	if c.SyncFrequencySeconds <= 0 {
		return DefaultSyncFrequency
	}
	return time.Duration(c.SyncFrequencySeconds) * time.Second
}

// SyncTimeout returns the per-run deadline.
func (c *DaemonConfig) SyncTimeout() time.Duration {
	if c.SyncTimeoutSeconds <= 0 {
		return DefaultSyncTimeout
	}
	return time.Duration(c.SyncTimeoutSeconds) * time.Second
}
