// Package config provides user configuration management for rokuctl.
//
// A YAML file stores user-defined metadata for devices (nicknames, last
// seen times) and application preferences, including the tunable discovery
// constants (scan window, multicast TTL, search rounds). It is convenience
// metadata only: discovery and control never consult it as an
// authoritative device list, and a stale entry merely pre-fills a nickname.
//
// # Configuration File Location
//
// The file follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/rokuctl/config.yaml or $HOME/.config/rokuctl/config.yaml
//   - macOS: $HOME/.config/rokuctl/config.yaml
//   - Windows: %LOCALAPPDATA%\rokuctl\config.yaml
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines; file writes are serialized by a mutex.
package config
