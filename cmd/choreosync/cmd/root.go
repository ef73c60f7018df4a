package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "choreosync",
	Short: "choreosync - platform catalog synchronizer",
	Long: `choreosync mirrors an OpenChoreo-style platform management API into a
local entity catalog.

It periodically crawls every namespace of the platform API, translates
projects, components, environments, pipelines, and the rest of the
resource kinds into catalog entities, and replaces the previous snapshot
atomically. A small HTTP surface serves the catalog, run status, health
probes, and Prometheus metrics.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionString returns formatted version information
func versionString() string {
	return fmt.Sprintf("choreosync %s (commit: %s, built: %s)",
		Version, Commit, BuildDate)
}
