package config

import "time"

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // keyed by device address (host:port)
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device is user-defined metadata for a single device, keyed by its
// control address in the Registry.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"` // user-friendly name ("Living Room TV")
	LastSeen time.Time `yaml:"last_seen,omitempty"`
	Server   string    `yaml:"server,omitempty"` // SERVER header from the last discovery response
}

// Preferences holds application-wide user preferences, including the
// discovery tuning knobs. The discovery constants are empirical defaults
// with no protocol-mandated values, so they live here rather than in code.
type Preferences struct {
	ScanTimeout   int    `yaml:"scan_timeout"`             // discovery read window in seconds
	MulticastTTL  int    `yaml:"multicast_ttl"`            // TTL for the search datagram
	ScanRounds    int    `yaml:"scan_rounds"`              // search datagrams per scan
	MDNSFallback  bool   `yaml:"mdns_fallback"`            // also browse mDNS when SSDP finds nothing
	DefaultDevice string `yaml:"default_device,omitempty"` // address used when --device is omitted
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			ScanTimeout:  2,
			MulticastTTL: 4,
			ScanRounds:   1,
			MDNSFallback: false,
		},
	}
}

// GetDevice retrieves device metadata by address.
// Returns nil if the device isn't in the registry.
func (r *Registry) GetDevice(address string) *Device {
	return r.Devices[address]
}

// EnsureDevice returns the entry for address, creating it if needed.
func (r *Registry) EnsureDevice(address string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[address]; exists {
		return device
	}
	device := &Device{}
	r.Devices[address] = device
	return device
}

// MarkSeen updates the last-seen timestamp and server hint for a device.
func (r *Registry) MarkSeen(address, server string) {
	device := r.EnsureDevice(address)
	device.LastSeen = time.Now()
	if server != "" {
		device.Server = server
	}
}

// SetNickname sets a user-friendly name for a device.
func (r *Registry) SetNickname(address, nickname string) {
	r.EnsureDevice(address).Nickname = nickname
}

// DisplayName returns the nickname for address when one is set,
// otherwise the address itself.
func (r *Registry) DisplayName(address string) string {
	if device := r.GetDevice(address); device != nil && device.Nickname != "" {
		return device.Nickname
	}
	return address
}
