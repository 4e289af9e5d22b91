// Package tui implements the interactive remote control interface.
//
// The interface is built on Bubble Tea and has two screens:
//
//   - Discovery: scans the network and lists found devices, with manual
//     address entry for devices discovery can't see.
//   - Remote: a button grid mirroring a physical remote, plus a text
//     entry mode for on-screen keyboards and an app list for launching
//     channels.
//
// AppModel is the top-level coordinator; it owns screen transitions and
// the selected device. All network calls run inside tea.Cmd functions so
// the event loop never blocks.
package tui
