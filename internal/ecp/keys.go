package ecp

// Named key tokens understood by the device's /keypress endpoint.
// The vocabulary is closed: devices ignore tokens they don't know,
// so a typo silently does nothing. Validate with IsKnownCommand.
const (
	KeyPower       = "Power"
	KeyPowerOn     = "Poweron"
	KeyPowerOff    = "Poweroff"
	KeyHome        = "Home"
	KeyInfo        = "Info"
	KeyBack        = "Back"
	KeyUp          = "Up"
	KeyDown        = "Down"
	KeyLeft        = "Left"
	KeyRight       = "Right"
	KeySelect      = "Select"
	KeyPlay        = "Play"
	KeyVolumeUp    = "VolumeUp"
	KeyVolumeDown  = "VolumeDown"
	KeyVolumeMute  = "VolumeMute"
	KeyChannelUp   = "Channel_up"
	KeyChannelDown = "Channel_down"
	KeySearch      = "Search"
	KeyEnter       = "Enter"
	KeyBackspace   = "Backspace"
	KeyFindRemote  = "Find_remote"
	KeyReplay      = "Replay"
	KeyReverse     = "Reverse"
	KeyForward     = "Forward"
)

// Commands lists every named key token in the closed vocabulary.
var Commands = []string{
	KeyPower, KeyPowerOn, KeyPowerOff,
	KeyHome, KeyInfo, KeyBack,
	KeyUp, KeyDown, KeyLeft, KeyRight, KeySelect,
	KeyPlay, KeyReplay, KeyReverse, KeyForward,
	KeyVolumeUp, KeyVolumeDown, KeyVolumeMute,
	KeyChannelUp, KeyChannelDown,
	KeySearch, KeyEnter, KeyBackspace, KeyFindRemote,
}

var knownCommands = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Commands))
	for _, c := range Commands {
		m[c] = struct{}{}
	}
	return m
}()

// IsKnownCommand reports whether token is part of the known key vocabulary.
func IsKnownCommand(token string) bool {
	_, ok := knownCommands[token]
	return ok
}

// RemoteGrid is the physical-remote button layout used by interactive
// frontends. Rows are three columns wide; empty strings are spacers.
var RemoteGrid = [][]string{
	{KeyPower, KeyPowerOn, KeyPowerOff},
	{KeyHome, KeyInfo, KeyBack},
	{"", KeyUp, ""},
	{KeyLeft, KeySelect, KeyRight},
	{"", KeyDown, ""},
	{KeyReplay, KeyPlay, KeyForward},
	{KeyVolumeUp, KeyVolumeDown, KeyVolumeMute},
	{KeyChannelUp, KeyChannelDown, KeySearch},
	{KeyEnter, KeyBackspace, KeyFindRemote},
	{"", KeyReverse, ""},
}
