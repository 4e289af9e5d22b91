package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rokuctl/rokuctl/internal/config"
	"github.com/rokuctl/rokuctl/internal/ecp"
	"github.com/rokuctl/rokuctl/internal/ssdp"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	devices []*ssdp.Device
	err     error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual address entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Confirm, m.Cancel},
	}
}

// deviceItem wraps a discovered device for use with bubbles/list
type deviceItem struct {
	device   *ssdp.Device
	nickname string
}

// FilterValue filters by nickname, address, or server string.
func (d deviceItem) FilterValue() string {
	return d.nickname + " " + d.device.Address + " " + d.device.Server
}

// Title returns the device name for list display
func (d deviceItem) Title() string {
	if d.nickname != "" && d.nickname != d.device.Address {
		return d.nickname
	}
	return d.device.Address
}

// Description returns device details for list display
func (d deviceItem) Description() string {
	server := d.device.Server
	if server == "" {
		server = "unknown firmware"
	}
	return fmt.Sprintf("%s • %s", d.device.Address, server)
}

// DiscoveryModel represents the device discovery screen state
type DiscoveryModel struct {
	// Discovery state
	Scanning   bool
	DeviceList list.Model
	Selected   bool
	Err        error

	// Manual address entry state
	ManualMode   bool
	AddressInput textinput.Model

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
}

// NewDiscoveryModel creates a new discovery screen model
func NewDiscoveryModel() DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	addressInput := textinput.New()
	addressInput.Placeholder = "192.168.1.50:8060"
	addressInput.CharLimit = 64
	addressInput.Width = 30

	delegate := list.NewDefaultDelegate()
	deviceList := list.New([]list.Item{}, delegate, 0, 0)
	deviceList.Title = "Discovered Devices"
	deviceList.SetShowStatusBar(false)
	deviceList.SetFilteringEnabled(true)
	deviceList.Styles.Title = TitleStyle

	keys := discoveryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	manualKeys := manualModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return DiscoveryModel{
		DeviceList:   deviceList,
		AddressInput: addressInput,
		Spinner:      s,
		Help:         help.New(),
		Keys:         keys,
		ManualKeys:   manualKeys,
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanDevices,
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DeviceList.SetWidth(msg.Width - 4)
		m.DeviceList.SetHeight(msg.Height - 10)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.devices))
		nicknames := loadNicknames()
		for i, dev := range msg.devices {
			items[i] = deviceItem{device: dev, nickname: nicknames(dev.Address)}
		}
		m.DeviceList.SetItems(items)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.ManualMode && !m.Scanning {
		m.DeviceList, cmd = m.DeviceList.Update(msg)
	}

	return m, cmd
}

// updateNormalMode handles keyboard input in device list mode
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if selectedItem := m.DeviceList.SelectedItem(); selectedItem != nil {
			m.Selected = true
			return m, nil
		}

	case "r":
		if !m.Scanning {
			m.DeviceList.SetItems([]list.Item{})
			m.Err = nil
			return m, tea.Batch(
				func() tea.Msg { return scanStartMsg{} },
				scanDevices,
				m.Spinner.Tick,
			)
		}

	case "m":
		m.ManualMode = true
		m.AddressInput.SetValue("")
		m.AddressInput.Focus()
	}

	var cmd tea.Cmd
	if !m.Scanning {
		m.DeviceList, cmd = m.DeviceList.Update(msg)
	}
	return m, cmd
}

// updateManualMode handles keyboard input in manual address entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c", "esc":
		m.ManualMode = false
		m.AddressInput.SetValue("")
		m.AddressInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.AddressInput.Value())
		if value != "" {
			if !strings.Contains(value, ":") {
				value = fmt.Sprintf("%s:%d", value, ecp.DefaultPort)
			}
			device := &ssdp.Device{
				Address:      value,
				DiscoveredAt: time.Now(),
			}
			newItem := deviceItem{device: device, nickname: ""}
			items := append([]list.Item{newItem}, m.DeviceList.Items()...)
			m.DeviceList.SetItems(items)
			m.DeviceList.Select(0)
			m.ManualMode = false
			m.AddressInput.SetValue("")
			m.AddressInput.Blur()
			return m, nil
		}
	}

	m.AddressInput, cmd = m.AddressInput.Update(msg)
	return m, cmd
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	var content string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
	case m.Scanning:
		content = m.renderScanning()
	default:
		content = m.renderResults()
	}

	var helpText string
	if m.ManualMode {
		helpText = m.Help.View(m.ManualKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m DiscoveryModel) renderScanning() string {
	elapsed := time.Since(m.ScanStartTime).Round(time.Second)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s Searching for devices...", m.Spinner.View())))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  Elapsed: %s  (press m for manual entry)", elapsed)))
	b.WriteString("\n")
	return b.String()
}

func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString("  ")
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Check that this machine is on the same network as the device\n")
		b.WriteString("    • Some networks block multicast; try manual entry (m)\n")
		return b.String()
	}

	if len(m.DeviceList.Items()) == 0 {
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("⚠ No devices found on your network"))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the device is powered on and connected\n")
		b.WriteString("    • Enable 'Control by mobile apps' in the device settings\n")
		b.WriteString("    • Rescan (r) or enter the address manually (m)\n")
		return b.String()
	}

	b.WriteString(m.DeviceList.View())
	return b.String()
}

func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Enter device address (host or host:port)"))
	b.WriteString("\n\n")
	b.WriteString("  Address: ")
	b.WriteString(m.AddressInput.View())
	b.WriteString("\n")
	return b.String()
}

// GetSelectedDevice returns the selected device (if any)
func (m DiscoveryModel) GetSelectedDevice() *ssdp.Device {
	if m.Selected {
		if selectedItem := m.DeviceList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(deviceItem); ok {
				return item.device
			}
		}
	}
	return nil
}

// loadNicknames returns a lookup from address to display name. Registry
// load failures degrade to plain addresses.
func loadNicknames() func(string) string {
	reg, err := config.LoadRegistry()
	if err != nil || reg == nil {
		return func(address string) string { return address }
	}
	return reg.DisplayName
}

// scanDevices performs device discovery with the user's configured
// tuning, falling back to mDNS when enabled and multicast finds nothing.
func scanDevices() tea.Msg {
	scanner := ssdp.NewScanner()

	var prefs *config.Preferences
	reg, err := config.LoadRegistry()
	if err == nil && reg != nil && reg.Preferences != nil {
		prefs = reg.Preferences
		if prefs.ScanTimeout > 0 {
			scanner.ReadTimeout = time.Duration(prefs.ScanTimeout) * time.Second
		}
		if prefs.MulticastTTL > 0 {
			scanner.TTL = prefs.MulticastTTL
		}
		if prefs.ScanRounds > 0 {
			scanner.Rounds = prefs.ScanRounds
		}
	}

	devices, err := scanner.Scan()
	if err != nil {
		return scanCompleteMsg{err: err}
	}

	if len(devices) == 0 && prefs != nil && prefs.MDNSFallback {
		mdnsDevices, mdnsErr := ssdp.BrowseMDNS(context.Background(), scanner.ReadTimeout)
		if mdnsErr == nil {
			devices = mdnsDevices
		}
	}

	// Remember seen devices so nicknames survive address lookups later.
	if reg != nil {
		for _, dev := range devices {
			reg.MarkSeen(dev.Address, dev.Server)
		}
		_ = reg.Save()
	}

	return scanCompleteMsg{devices: devices}
}
