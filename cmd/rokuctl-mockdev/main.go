// Rokuctl-mockdev is a fake streaming device for rokuctl development.
//
// It serves the control endpoints rokuctl talks to (key presses, app
// launches, the app catalog) on plain HTTP, so the CLI and TUI can be
// exercised on networks without a real device:
//
//	rokuctl-mockdev serve --port 8060
//	rokuctl --device 127.0.0.1:8060 apps
//
// Discovery is not simulated; point rokuctl at the mock with --device.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rokuctl/rokuctl/internal/mockdevice"
	"github.com/rokuctl/rokuctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rokuctl-mockdev",
	Short: "Fake streaming device for rokuctl development",
	Long: `A standalone fake device that speaks the control protocol subset rokuctl uses.

It accepts key presses and app launches and serves a canned app catalog,
so rokuctl can be developed and tested without a device on the network.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var (
	host     string
	port     int
	logLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock device",
	Example: `  # Start on the standard control port
  rokuctl-mockdev serve

  # Start on a custom port with request logging
  rokuctl-mockdev serve --port 9060 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen host (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8060, "Listen port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &mockdevice.Config{
		Host:     host,
		Port:     port,
		LogLevel: logLevel,
	}

	srv, err := mockdevice.New(config)
	if err != nil {
		return fmt.Errorf("failed to create mock device: %w", err)
	}

	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rokuctl-mockdev %s (commit: %s)\n", version.Version, version.Commit)
	},
}
