package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rokuctl/rokuctl/internal/ecp"
)

// remoteMode is the active input mode on the remote screen
type remoteMode int

const (
	modeGrid remoteMode = iota
	modeText
	modeApps
)

// Messages for async device operations
type keypressResultMsg struct {
	token string
	err   error
}

type typeTextResultMsg struct {
	text   string
	result *ecp.TypeResult
}

type appsLoadedMsg struct {
	apps []ecp.App
	err  error
}

type launchResultMsg struct {
	app ecp.App
	err error
}

// remoteKeyMap defines key bindings for the button grid
type remoteKeyMap struct {
	Move  key.Binding
	Press key.Binding
	Text  key.Binding
	Apps  key.Binding
	Back  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k remoteKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Press, k.Text, k.Apps, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k remoteKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Press},
		{k.Text, k.Apps, k.Back},
	}
}

// textModeKeyMap defines key bindings for text entry mode
type textModeKeyMap struct {
	Send   key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k textModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k textModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Cancel},
	}
}

// appsModeKeyMap defines key bindings for the app list
type appsModeKeyMap struct {
	Launch key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k appsModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launch, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k appsModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Launch, k.Cancel},
	}
}

// appItem wraps a catalog entry for use with bubbles/list
type appItem struct {
	app ecp.App
}

func (a appItem) FilterValue() string { return a.app.Name + " " + a.app.ID }
func (a appItem) Title() string       { return a.app.Name }
func (a appItem) Description() string { return "id " + a.app.ID }

// buttonLabels maps key tokens to short on-screen labels.
var buttonLabels = map[string]string{
	ecp.KeyPower:       "Power",
	ecp.KeyPowerOn:     "Pwr On",
	ecp.KeyPowerOff:    "Pwr Off",
	ecp.KeyHome:        "Home",
	ecp.KeyInfo:        "Info",
	ecp.KeyBack:        "Back",
	ecp.KeyUp:          "▲",
	ecp.KeyDown:        "▼",
	ecp.KeyLeft:        "◀",
	ecp.KeyRight:       "▶",
	ecp.KeySelect:      "OK",
	ecp.KeyPlay:        "Play",
	ecp.KeyReplay:      "Replay",
	ecp.KeyReverse:     "Rev",
	ecp.KeyForward:     "Fwd",
	ecp.KeyVolumeUp:    "Vol +",
	ecp.KeyVolumeDown:  "Vol -",
	ecp.KeyVolumeMute:  "Mute",
	ecp.KeyChannelUp:   "Ch +",
	ecp.KeyChannelDown: "Ch -",
	ecp.KeySearch:      "Search",
	ecp.KeyEnter:       "Enter",
	ecp.KeyBackspace:   "Bksp",
	ecp.KeyFindRemote:  "Find",
}

// buttonLabel returns the display label for a key token.
func buttonLabel(token string) string {
	if label, ok := buttonLabels[token]; ok {
		return label
	}
	return token
}

// RemoteModel represents the remote control screen state
type RemoteModel struct {
	Address string
	Client  *ecp.Client

	// Input mode
	Mode remoteMode

	// Grid cursor
	Row int
	Col int

	// Text entry state
	TextInput textinput.Model

	// App list state
	AppList list.Model

	// Async operation state
	Busy    bool
	Status  string
	Spinner spinner.Model

	// Back navigation request, consumed by the app coordinator
	BackRequested bool

	// UI state
	Width  int
	Height int
	Help   help.Model

	Keys     remoteKeyMap
	TextKeys textModeKeyMap
	AppsKeys appsModeKeyMap
}

// NewRemoteModel creates a remote screen bound to one device.
func NewRemoteModel(address string) RemoteModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	textInput := textinput.New()
	textInput.Placeholder = "text to type on the device"
	textInput.CharLimit = 256
	textInput.Width = 40

	delegate := list.NewDefaultDelegate()
	appList := list.New([]list.Item{}, delegate, 0, 0)
	appList.Title = "Installed Apps"
	appList.SetShowStatusBar(false)
	appList.SetFilteringEnabled(true)
	appList.Styles.Title = TitleStyle

	keys := remoteKeyMap{
		Move: key.NewBinding(
			key.WithKeys("up", "down", "left", "right", "k", "j", "h", "l"),
			key.WithHelp("↑↓←→", "move"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press"),
		),
		Text: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type text"),
		),
		Apps: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apps"),
		),
		Back: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "back"),
		),
	}

	textKeys := textModeKeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	appsKeys := appsModeKeyMap{
		Launch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "launch"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to remote"),
		),
	}

	return RemoteModel{
		Address:   address,
		Client:    ecp.NewClient(address),
		Mode:      modeGrid,
		Row:       3, // start on the Select button
		Col:       1,
		TextInput: textInput,
		AppList:   appList,
		Spinner:   s,
		Help:      help.New(),
		Keys:      keys,
		TextKeys:  textKeys,
		AppsKeys:  appsKeys,
	}
}

// Init initializes the remote model
func (m RemoteModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles messages and updates the model
func (m RemoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Busy {
			return m, nil
		}
		switch m.Mode {
		case modeText:
			return m.updateTextMode(msg)
		case modeApps:
			return m.updateAppsMode(msg)
		default:
			return m.updateGridMode(msg)
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.AppList.SetWidth(msg.Width - 4)
		m.AppList.SetHeight(msg.Height - 10)

	case keypressResultMsg:
		m.Busy = false
		if msg.err != nil {
			m.Status = RenderError(fmt.Sprintf("%s: %s", buttonLabel(msg.token), ecp.GetShortErrorMessage(msg.err)))
		} else {
			m.Status = RenderSuccess(buttonLabel(msg.token))
		}

	case typeTextResultMsg:
		m.Busy = false
		if msg.result.OK() {
			m.Status = RenderSuccess(fmt.Sprintf("typed %q (%d keys)", msg.text, msg.result.Sent))
		} else {
			m.Status = WarningStyle.Render(fmt.Sprintf("⚠ typed %q with %d of %d keys failed",
				msg.text, len(msg.result.Failures), msg.result.Sent+len(msg.result.Failures)))
		}

	case appsLoadedMsg:
		m.Busy = false
		if msg.err != nil {
			m.Mode = modeGrid
			m.Status = RenderError("apps: " + ecp.GetShortErrorMessage(msg.err))
		} else {
			items := make([]list.Item, len(msg.apps))
			for i, app := range msg.apps {
				items[i] = appItem{app: app}
			}
			m.AppList.SetItems(items)
			m.Mode = modeApps
			m.Status = fmt.Sprintf("%d apps installed", len(msg.apps))
		}

	case launchResultMsg:
		m.Busy = false
		if msg.err != nil {
			m.Status = RenderError(fmt.Sprintf("launch %s: %s", msg.app.Name, ecp.GetShortErrorMessage(msg.err)))
		} else {
			m.Mode = modeGrid
			m.Status = RenderSuccess("launched " + msg.app.Name)
		}

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, cmd
}

// updateGridMode handles keyboard input on the button grid
func (m RemoteModel) updateGridMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.Row, m.Col = moveCursor(m.Row, m.Col, -1, 0)
	case "down", "j":
		m.Row, m.Col = moveCursor(m.Row, m.Col, 1, 0)
	case "left", "h":
		m.Row, m.Col = moveCursor(m.Row, m.Col, 0, -1)
	case "right", "l":
		m.Row, m.Col = moveCursor(m.Row, m.Col, 0, 1)

	case "enter", " ":
		token := ecp.RemoteGrid[m.Row][m.Col]
		if token != "" {
			m.Busy = true
			m.Status = fmt.Sprintf("%s sending %s...", m.Spinner.View(), buttonLabel(token))
			return m, tea.Batch(sendKeypress(m.Client, token), m.Spinner.Tick)
		}

	case "t":
		m.Mode = modeText
		m.TextInput.SetValue("")
		m.TextInput.Focus()

	case "a":
		m.Busy = true
		m.Status = fmt.Sprintf("%s fetching apps...", m.Spinner.View())
		return m, tea.Batch(loadApps(m.Client), m.Spinner.Tick)

	case "q", "esc":
		m.BackRequested = true
	}

	return m, nil
}

// updateTextMode handles keyboard input in text entry mode
func (m RemoteModel) updateTextMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.Mode = modeGrid
		m.TextInput.Blur()
		return m, nil

	case "enter":
		text := m.TextInput.Value()
		if text != "" {
			m.Mode = modeGrid
			m.TextInput.Blur()
			m.Busy = true
			m.Status = fmt.Sprintf("%s typing %q...", m.Spinner.View(), text)
			return m, tea.Batch(typeText(m.Client, text), m.Spinner.Tick)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.TextInput, cmd = m.TextInput.Update(msg)
	return m, cmd
}

// updateAppsMode handles keyboard input in the app list
func (m RemoteModel) updateAppsMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.AppList.FilterState() == list.Filtering {
			break
		}
		m.Mode = modeGrid
		return m, nil

	case "enter":
		if m.AppList.FilterState() == list.Filtering {
			break
		}
		if selectedItem := m.AppList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(appItem); ok {
				m.Busy = true
				m.Status = fmt.Sprintf("%s launching %s...", m.Spinner.View(), item.app.Name)
				return m, tea.Batch(launchApp(m.Client, item.app), m.Spinner.Tick)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.AppList, cmd = m.AppList.Update(msg)
	return m, cmd
}

// IsBackRequested reports whether the user asked to leave this screen.
func (m RemoteModel) IsBackRequested() bool {
	return m.BackRequested
}

// View renders the remote screen
func (m RemoteModel) View() string {
	var content string
	var helpText string

	switch m.Mode {
	case modeText:
		content = m.renderTextEntry()
		helpText = m.Help.View(m.TextKeys)
	case modeApps:
		content = "\n" + m.AppList.View()
		helpText = m.Help.View(m.AppsKeys)
	default:
		content = m.renderGrid()
		helpText = m.Help.View(m.Keys)
	}

	status := m.Status
	if status == "" {
		status = SubtitleStyle.Render("connected to " + m.Address)
	}
	content += "\n" + StatusBarStyle.Render(status) + "\n"

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

const buttonCellWidth = 11

// renderGrid renders the remote button grid with the cursor highlighted
func (m RemoteModel) renderGrid() string {
	var rows []string
	for r, row := range ecp.RemoteGrid {
		cells := make([]string, len(row))
		for c, token := range row {
			if token == "" {
				cells[c] = ButtonSpacerStyle.Width(buttonCellWidth).Height(3).Render("")
				continue
			}
			style := ButtonStyle
			if r == m.Row && c == m.Col {
				style = FocusedButtonStyle
			}
			cells[c] = style.Width(buttonCellWidth - 2).Render(buttonLabel(token))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().MarginLeft(2).Render(grid)
}

func (m RemoteModel) renderTextEntry() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Text is sent to the device one character at a time"))
	b.WriteString("\n\n")
	b.WriteString("  Text: ")
	b.WriteString(m.TextInput.View())
	b.WriteString("\n")
	return b.String()
}

// moveCursor moves the grid cursor by one step, skipping spacer cells.
// Horizontal moves walk the row past spacers; vertical moves land on the
// nearest button in the target row.
func moveCursor(row, col, dRow, dCol int) (int, int) {
	grid := ecp.RemoteGrid

	if dCol != 0 {
		c := col + dCol
		for c >= 0 && c < len(grid[row]) {
			if grid[row][c] != "" {
				return row, c
			}
			c += dCol
		}
		return row, col
	}

	r := row + dRow
	for r >= 0 && r < len(grid) {
		if grid[r][col] != "" {
			return r, col
		}
		for off := 1; off < len(grid[r]); off++ {
			for _, c := range []int{col - off, col + off} {
				if c >= 0 && c < len(grid[r]) && grid[r][c] != "" {
					return r, c
				}
			}
		}
		r += dRow
	}
	return row, col
}

// sendKeypress posts one key press to the device
func sendKeypress(client *ecp.Client, token string) tea.Cmd {
	return func() tea.Msg {
		err := client.Keypress(token)
		return keypressResultMsg{token: token, err: err}
	}
}

// typeText sends text to the device character by character
func typeText(client *ecp.Client, text string) tea.Cmd {
	return func() tea.Msg {
		result := client.TypeText(text)
		return typeTextResultMsg{text: text, result: result}
	}
}

// loadApps fetches the installed app catalog from the device
func loadApps(client *ecp.Client) tea.Cmd {
	return func() tea.Msg {
		apps, err := client.Apps()
		return appsLoadedMsg{apps: apps, err: err}
	}
}

// launchApp launches one app on the device
func launchApp(client *ecp.Client, app ecp.App) tea.Cmd {
	return func() tea.Msg {
		err := client.Launch(app.ID)
		return launchResultMsg{app: app, err: err}
	}
}
