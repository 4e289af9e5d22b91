package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rokuctl/rokuctl/internal/config"
	"github.com/rokuctl/rokuctl/internal/ecp"
	"github.com/rokuctl/rokuctl/internal/remote/tui"
	"github.com/rokuctl/rokuctl/internal/ssdp"
)

// Command flags
var (
	deviceAddress  string
	requestTimeout int
	outputFormat   string
	scanTimeout    int
	scanMDNS       bool
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceAddress, "device", "", "Device address as host or host:port (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&requestTimeout, "timeout", 5, "Request timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(keypressCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(nicknameCmd)
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the network for devices",
	Long: `Scan for devices using multicast discovery.

The scan sends a search datagram to the discovery multicast group and
collects responses for a short window. Devices that answered are printed
with their control address. Discovery is best-effort: unparsable or
incomplete responses are skipped, never fatal.`,
	Example: `  # Scan with the default 2-second window
  rokuctl scan

  # Longer window for slow networks
  rokuctl scan --window 5

  # Also browse mDNS if multicast finds nothing
  rokuctl scan --mdns`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "window", 0, "Listen window in seconds (0 = configured default)")
	scanCmd.Flags().BoolVar(&scanMDNS, "mdns", false, "Fall back to mDNS browsing when multicast finds nothing")
}

func runScan(cmd *cobra.Command, args []string) error {
	scanner := ssdp.NewScanner()

	reg, regErr := config.LoadRegistry()
	if regErr == nil && reg.Preferences != nil {
		prefs := reg.Preferences
		if prefs.ScanTimeout > 0 {
			scanner.ReadTimeout = time.Duration(prefs.ScanTimeout) * time.Second
		}
		if prefs.MulticastTTL > 0 {
			scanner.TTL = prefs.MulticastTTL
		}
		if prefs.ScanRounds > 0 {
			scanner.Rounds = prefs.ScanRounds
		}
		if prefs.MDNSFallback {
			scanMDNS = true
		}
	}
	if scanTimeout > 0 {
		scanner.ReadTimeout = time.Duration(scanTimeout) * time.Second
	}

	fmt.Printf("Scanning for devices (window: %s)...\n\n", scanner.ReadTimeout)

	devices, err := scanner.Scan()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 && scanMDNS {
		fmt.Println("No multicast responses, browsing mDNS...")
		devices, err = ssdp.BrowseMDNS(cmd.Context(), scanner.ReadTimeout)
		if err != nil {
			return fmt.Errorf("mDNS browse failed: %w", err)
		}
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the device is powered on and connected to this network")
		fmt.Println("  - Enable 'Control by mobile apps' in the device settings")
		fmt.Println("  - Some networks block multicast; use --device to specify the address")
		return nil
	}

	// Remember seen devices so nicknames resolve in later commands.
	if regErr == nil {
		for _, device := range devices {
			reg.MarkSeen(device.Address, device.Server)
		}
		_ = reg.Save()
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(devices, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, device := range devices {
		name := device.Address
		if regErr == nil {
			name = reg.DisplayName(device.Address)
		}
		fmt.Printf("%d. %s\n", i+1, name)
		fmt.Printf("   Address: %s\n", device.Address)
		if device.Server != "" {
			fmt.Printf("   Server:  %s\n", device.Server)
		}
		if device.USN != "" {
			fmt.Printf("   USN:     %s\n", device.USN)
		}
		fmt.Println()
	}

	fmt.Println("Use 'rokuctl apps --device <address>' to list installed apps")
	fmt.Println("Use 'rokuctl remote --device <address>' for the interactive remote")

	return nil
}

// appsCmd lists the device's installed apps
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed apps",
	Long: `Fetch the app catalog from the device and print it.

The catalog is fetched from the device's /query/apps endpoint. Entries
are deduplicated by app ID and sorted as the device reports them.`,
	Example: `  # List apps with auto-discovery
  rokuctl apps

  # List apps on a specific device
  rokuctl apps --device 192.168.1.50

  # JSON output for scripting
  rokuctl apps --device 192.168.1.50 --format json`,
	RunE: runApps,
}

func runApps(cmd *cobra.Command, args []string) error {
	client, err := resolveClient()
	if err != nil {
		return err
	}

	apps, err := client.Apps()
	if err != nil {
		return describeFailure("failed to fetch apps", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(apps, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(apps) == 0 {
		fmt.Println("No apps installed.")
		return nil
	}

	fmt.Printf("Installed apps on %s:\n\n", client.Address())
	for _, app := range apps {
		fmt.Printf("  %-8s %s\n", app.ID, app.Name)
	}

	return nil
}

// keypressCmd sends one remote button press
var keypressCmd = &cobra.Command{
	Use:   "keypress <command>",
	Short: "Send a remote button press",
	Long: `Send one remote button press to the device.

The command vocabulary is closed; devices silently ignore tokens they
don't know, so unknown commands are rejected here instead. Literal
character tokens (Lit_<char>) are passed through for scripting.

Run 'rokuctl keypress --help' to see the full command list below.`,
	Example: `  # Volume up
  rokuctl keypress VolumeUp

  # Navigate home on a specific device
  rokuctl keypress Home --device 192.168.1.50

  # Send a literal character
  rokuctl keypress Lit_x`,
	Args: cobra.ExactArgs(1),
	RunE: runKeypress,
}

func init() {
	keypressCmd.Long += "\n\nCommands:\n  " + strings.Join(ecp.Commands, "\n  ")
}

func runKeypress(cmd *cobra.Command, args []string) error {
	token := args[0]
	if !ecp.IsKnownCommand(token) && !strings.HasPrefix(token, "Lit_") {
		return fmt.Errorf("unknown command %q (see 'rokuctl keypress --help' for the list)", token)
	}

	client, err := resolveClient()
	if err != nil {
		return err
	}

	if err := client.Keypress(token); err != nil {
		return describeFailure(fmt.Sprintf("failed to send %s", token), err)
	}

	fmt.Printf("✓ %s sent to %s\n", token, client.Address())
	return nil
}

// textCmd types a string on the device
var textCmd = &cobra.Command{
	Use:   "text <string>",
	Short: "Type text on the device",
	Long: `Type a string on the device, one key press per character.

Each character is sent as a literal key press and each round trip
completes before the next begins, so characters arrive in order. A
failed character is reported but does not stop the rest of the string.`,
	Example: `  # Type into a search box
  rokuctl text "breaking bad"

  # Type on a specific device
  rokuctl text "hunter2" --device 192.168.1.50`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func runText(cmd *cobra.Command, args []string) error {
	text := args[0]

	client, err := resolveClient()
	if err != nil {
		return err
	}

	result := client.TypeText(text)

	if result.OK() {
		fmt.Printf("✓ typed %q (%d key presses)\n", text, result.Sent)
		return nil
	}

	for _, failure := range result.Failures {
		fmt.Printf("✗ character %d (%q): %s\n",
			failure.Index+1, string(failure.Char), ecp.GetShortErrorMessage(failure.Err))
	}
	fmt.Printf("typed %d of %d characters\n", result.Sent, result.Sent+len(result.Failures))

	if result.Sent == 0 {
		return fmt.Errorf("no characters reached the device")
	}
	return nil
}

// launchCmd launches an app by ID
var launchCmd = &cobra.Command{
	Use:   "launch <app-id>",
	Short: "Launch an app",
	Long: `Launch an installed app by its numeric ID.

App IDs are listed by 'rokuctl apps'. The device switches to the app
immediately; there is no confirmation round trip.`,
	Example: `  # Launch app 2285
  rokuctl launch 2285

  # Launch on a specific device
  rokuctl launch 12 --device 192.168.1.50`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func runLaunch(cmd *cobra.Command, args []string) error {
	appID := args[0]

	client, err := resolveClient()
	if err != nil {
		return err
	}

	if err := client.Launch(appID); err != nil {
		return describeFailure(fmt.Sprintf("failed to launch app %s", appID), err)
	}

	fmt.Printf("✓ launched app %s on %s\n", appID, client.Address())
	return nil
}

// remoteCmd launches the interactive full-screen remote
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Launch the interactive remote",
	Long: `Launch a full-screen interactive remote.

Without --device the remote starts on a discovery screen that scans the
network and lists found devices. With --device it connects directly.`,
	Example: `  # Interactive remote with discovery
  rokuctl remote
  # Or simply (remote is default):
  rokuctl

  # Connect directly to a device
  rokuctl remote --device 192.168.1.50
  rokuctl --device 192.168.1.50`,
	RunE: runRemote,
}

func runRemote(cmd *cobra.Command, args []string) error {
	address := deviceAddress
	if address == "" {
		// A configured default device skips the discovery screen.
		if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil {
			address = reg.Preferences.DefaultDevice
		}
	}
	if address != "" {
		address = normalizeAddress(address)
	}

	return tui.Run(address)
}

// nicknameCmd assigns a friendly name to a device address
var nicknameCmd = &cobra.Command{
	Use:   "nickname <address> <name>",
	Short: "Set a friendly name for a device",
	Long: `Assign a friendly name to a device address.

The name is stored in the rokuctl config file and shown instead of the
raw address in scan results and the interactive remote.`,
	Example: `  # Name the living room TV
  rokuctl nickname 192.168.1.50:8060 "Living Room TV"`,
	Args: cobra.ExactArgs(2),
	RunE: runNickname,
}

func runNickname(cmd *cobra.Command, args []string) error {
	address := normalizeAddress(args[0])
	name := args[1]

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reg.SetNickname(address, name)
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ %s is now %q\n", address, name)
	return nil
}

// normalizeAddress appends the default control port to a bare host.
func normalizeAddress(address string) string {
	if !strings.Contains(address, ":") {
		return fmt.Sprintf("%s:%d", address, ecp.DefaultPort)
	}
	return address
}

// resolveClient builds a client for the target device, discovering one
// on the network when --device is absent and no default is configured.
func resolveClient() (*ecp.Client, error) {
	address, err := resolveAddress()
	if err != nil {
		return nil, err
	}

	client := ecp.NewClient(address)
	if requestTimeout > 0 {
		client.SetTimeout(time.Duration(requestTimeout) * time.Second)
	}
	return client, nil
}

// resolveAddress picks the target device: the --device flag, then the
// configured default, then a network scan that must find exactly one.
func resolveAddress() (string, error) {
	if deviceAddress != "" {
		return normalizeAddress(deviceAddress), nil
	}

	if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil {
		if reg.Preferences.DefaultDevice != "" {
			return normalizeAddress(reg.Preferences.DefaultDevice), nil
		}
	}

	fmt.Println("No device specified, attempting discovery...")
	devices, err := ssdp.NewScanner().Scan()
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		return "", fmt.Errorf("no devices found. Use --device to specify the address manually")
	}

	if len(devices) > 1 {
		fmt.Printf("Found %d devices:\n", len(devices))
		for i, device := range devices {
			fmt.Printf("%d. %s\n", i+1, device.Address)
		}
		return "", fmt.Errorf("multiple devices found. Use --device to specify which one")
	}

	fmt.Printf("Found device: %s\n\n", devices[0].Address)
	return devices[0].Address, nil
}

// describeFailure wraps a device error with its troubleshooting hint
// when one applies.
func describeFailure(prefix string, err error) error {
	hint := ecp.GetTroubleshootingHint(err)
	if hint != "" {
		return fmt.Errorf("%s: %w\n\nHint: %s", prefix, err, hint)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
