package ssdp

import (
	"fmt"
	"net"
	"time"
)

// Device is a controllable device discovered on the network.
type Device struct {
	// Address is the host:port of the device's control endpoint.
	// This is the key callers hand to the control client; nothing
	// else in the struct is required to operate the device.
	Address string `json:"address"`

	// Location is the raw LOCATION header value from the discovery response
	Location string `json:"location,omitempty"`

	// Server is the SERVER header value, when present (vendor/firmware hint)
	Server string `json:"server,omitempty"`

	// USN is the unique service name header value, when present
	USN string `json:"usn,omitempty"`

	// DiscoveredAt is when the response arrived
	DiscoveredAt time.Time `json:"discovered_at"`
}

// String returns a human-readable string representation of the device.
func (d *Device) String() string {
	if d.Server != "" {
		return fmt.Sprintf("%s (%s)", d.Address, d.Server)
	}
	return d.Address
}

// BaseURL returns the HTTP base URL for the device's control endpoint.
func (d *Device) BaseURL() string {
	return "http://" + d.Address
}

// Host returns the host part of the device address.
func (d *Device) Host() string {
	host, _, err := net.SplitHostPort(d.Address)
	if err != nil {
		return d.Address
	}
	return host
}
