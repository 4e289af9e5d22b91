package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenRemote    Screen = "remote"
)

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	DiscoveryModel DiscoveryModel
	RemoteModel    RemoteModel

	// SelectedAddress is the control address of the chosen device
	SelectedAddress string

	Width  int
	Height int
}

// NewAppModel creates a new application model. When address is non-empty
// the discovery screen is skipped and the remote binds to it directly.
func NewAppModel(address string) AppModel {
	model := AppModel{SelectedAddress: address}

	if address != "" {
		model.CurrentScreen = ScreenRemote
		model.RemoteModel = NewRemoteModel(address)
	} else {
		model.CurrentScreen = ScreenDiscovery
		model.DiscoveryModel = NewDiscoveryModel()
	}

	return model
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenRemote:
		return m.RemoteModel.Init()
	default:
		return m.DiscoveryModel.Init()
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to the active screen; inactive screens get resized
		// when they are (re)created on transition.
		return m.updateCurrentScreen(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		if m.DiscoveryModel.Selected {
			if device := m.DiscoveryModel.GetSelectedDevice(); device != nil {
				m.SelectedAddress = device.Address
				m.CurrentScreen = ScreenRemote
				m.RemoteModel = NewRemoteModel(device.Address)
				m.RemoteModel.Width = m.Width
				m.RemoteModel.Height = m.Height
				return m, m.RemoteModel.Init()
			}
		}

		// Quit from the device list (not while scanning, filtering, or
		// typing an address)
		if !m.DiscoveryModel.Scanning && !m.DiscoveryModel.ManualMode &&
			m.DiscoveryModel.DeviceList.FilterState() != list.Filtering {
			if keyMsg, ok := msg.(tea.KeyMsg); ok {
				if keyMsg.String() == "q" || keyMsg.String() == "esc" {
					return m, tea.Quit
				}
			}
		}

	case ScreenRemote:
		updated, c := m.RemoteModel.Update(msg)
		m.RemoteModel = updated.(RemoteModel)
		cmd = c

		if m.RemoteModel.IsBackRequested() {
			m.CurrentScreen = ScreenDiscovery
			m.DiscoveryModel = NewDiscoveryModel()
			m.DiscoveryModel.Width = m.Width
			m.DiscoveryModel.Height = m.Height
			return m, m.DiscoveryModel.Init()
		}
	}

	return m, cmd
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenRemote:
		return m.RemoteModel.View()
	default:
		return m.DiscoveryModel.View()
	}
}

// Run starts the interactive remote. When address is non-empty the
// discovery screen is skipped.
func Run(address string) error {
	model := NewAppModel(address)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run interactive remote: %w", err)
	}
	return nil
}
