package daemon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDaemonConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  DaemonConfig
		wantErr bool
	}{
		{
			name: "valid config",
			config: DaemonConfig{
				PlatformURL: "https://platform.example.com",
			},
			wantErr: false,
		},
		{
			name: "valid config with all fields",
			config: DaemonConfig{
				PlatformURL:          "https://platform.example.com/api",
				Token:                "secret",
				DefaultOwner:         "group:platform-team",
				LocationKey:          "choreosync:prod",
				SyncFrequencySeconds: 300,
				SyncTimeoutSeconds:   120,
				Workers:              8,
				ServiceTypePatterns:  []string{"*service*", "webapp"},
				DatabasePath:         "/tmp/catalog.db",
				ListenAddr:           ":9090",
				LogLevel:             "debug",
			},
			wantErr: false,
		},
		{
			name:    "missing platform URL",
			config:  DaemonConfig{},
			wantErr: true,
		},
		{
			name: "whitespace platform URL",
			config: DaemonConfig{
				PlatformURL: "   ",
			},
			wantErr: true,
		},
		{
			name: "non-http scheme",
			config: DaemonConfig{
				PlatformURL: "ftp://platform.example.com",
			},
			wantErr: true,
		},
		{
			name: "relative URL",
			config: DaemonConfig{
				PlatformURL: "platform.example.com",
			},
			wantErr: true,
		},
		{
			name: "negative sync frequency",
			config: DaemonConfig{
				PlatformURL:          "https://platform.example.com",
				SyncFrequencySeconds: -1,
			},
			wantErr: true,
		},
		{
			name: "negative sync timeout",
			config: DaemonConfig{
				PlatformURL:        "https://platform.example.com",
				SyncTimeoutSeconds: -5,
			},
			wantErr: true,
		},
		{
			name: "negative workers",
			config: DaemonConfig{
				PlatformURL: "https://platform.example.com",
				Workers:     -2,
			},
			wantErr: true,
		},
		{
			name: "uppercase log level",
			config: DaemonConfig{
				PlatformURL: "https://platform.example.com",
				LogLevel:    "WARN",
			},
			wantErr: false,
		},
		{
			name: "invalid log level",
			config: DaemonConfig{
				PlatformURL: "https://platform.example.com",
				LogLevel:    "verbose",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("DaemonConfig.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDaemonConfig_ValidateDefaults(t *testing.T) {
	config := DaemonConfig{
		PlatformURL: "https://platform.example.com/",
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if config.PlatformURL != "https://platform.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %s", config.PlatformURL)
	}
	if config.LocationKey != "choreosync:https://platform.example.com" {
		t.Errorf("Unexpected default location key: %s", config.LocationKey)
	}
	if config.DatabasePath != DefaultDatabasePath {
		t.Errorf("Expected default database path, got %s", config.DatabasePath)
	}
	if config.ListenAddr != DefaultListenAddr {
		t.Errorf("Expected default listen addr, got %s", config.ListenAddr)
	}
	if config.LogLevel != DefaultLogLevel {
		t.Errorf("Expected default log level, got %s", config.LogLevel)
	}
}

func TestDaemonConfig_Durations(t *testing.T) {
	config := DaemonConfig{PlatformURL: "https://platform.example.com"}
	if got := config.SyncFrequency(); got != DefaultSyncFrequency {
		t.Errorf("SyncFrequency() = %v, want default %v", got, DefaultSyncFrequency)
	}
	if got := config.SyncTimeout(); got != DefaultSyncTimeout {
		t.Errorf("SyncTimeout() = %v, want default %v", got, DefaultSyncTimeout)
	}

	config.SyncFrequencySeconds = 90
	config.SyncTimeoutSeconds = 30
	if got := config.SyncFrequency(); got != 90*time.Second {
		t.Errorf("SyncFrequency() = %v, want 90s", got)
	}
	if got := config.SyncTimeout(); got != 30*time.Second {
		t.Errorf("SyncTimeout() = %v, want 30s", got)
	}
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	validConfig := DaemonConfig{
		PlatformURL:          "https://platform.example.com",
		SyncFrequencySeconds: 60,
		DatabasePath:         filepath.Join(tempDir, "catalog.db"),
	}

	validConfigPath := filepath.Join(tempDir, "valid.json")
	validData, _ := json.MarshalIndent(validConfig, "", "  ")
	if err := os.WriteFile(validConfigPath, validData, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Run("load valid config", func(t *testing.T) {
		config, err := LoadConfigFromPath(validConfigPath)
		if err != nil {
			t.Fatalf("LoadConfigFromPath() error = %v", err)
		}
		if config.PlatformURL != "https://platform.example.com" {
			t.Errorf("Unexpected platform URL: %s", config.PlatformURL)
		}
		if config.SyncFrequency() != time.Minute {
			t.Errorf("Unexpected sync frequency: %v", config.SyncFrequency())
		}
		if config.LocationKey == "" {
			t.Error("Expected location key to be defaulted")
		}
	})

	t.Run("load non-existent file", func(t *testing.T) {
		_, err := LoadConfigFromPath(filepath.Join(tempDir, "nonexistent.json"))
		if err == nil {
			t.Error("LoadConfigFromPath() expected error for non-existent file")
		}
	})

	t.Run("load invalid JSON", func(t *testing.T) {
		invalidPath := filepath.Join(tempDir, "invalid.json")
		if err := os.WriteFile(invalidPath, []byte("{invalid json}"), 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := LoadConfigFromPath(invalidPath)
		if err == nil {
			t.Error("LoadConfigFromPath() expected error for invalid JSON")
		}
	})

	t.Run("load config with validation errors", func(t *testing.T) {
		invalidPath := filepath.Join(tempDir, "validation_error.json")
		if err := os.WriteFile(invalidPath, []byte(`{"platform_url": ""}`), 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := LoadConfigFromPath(invalidPath)
		if err == nil {
			t.Error("LoadConfigFromPath() expected validation error")
		}
	})
}
