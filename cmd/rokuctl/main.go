// Rokuctl is a command line remote for network-controllable streaming
// devices.
//
// It discovers devices on the local network, sends remote button
// presses, types text character by character, launches installed apps,
// and lists the device's app catalog. Running without arguments starts
// an interactive full-screen remote.
//
// Usage:
//
//	rokuctl [command] [flags]
//
// See 'rokuctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rokuctl/rokuctl/internal/logging"
	"github.com/rokuctl/rokuctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rokuctl",
	Short: "Remote control for network streaming devices",
	Long: `A command line remote for streaming devices that expose the HTTP
control protocol on port 8060.

Provides network discovery, remote button presses, text entry, app
launching, and an interactive full-screen remote.

If no command is specified, the interactive remote will launch automatically.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless ROKUCTL_LOG_LEVEL is set.
		return logging.InitializeFromEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the interactive remote
		return runRemote(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rokuctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
