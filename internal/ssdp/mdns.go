package ssdp

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/rokuctl/rokuctl/internal/logging"
)

const (
	// mdnsServiceType is the service browsed in mDNS fallback mode.
	// ECP devices don't advertise a dedicated service type, but they do
	// show up as plain HTTP services on some firmware.
	mdnsServiceType = "_http._tcp"

	// mdnsDomain is the mDNS domain (typically "local.")
	mdnsDomain = "local."

	// ecpPort is the port the control endpoint conventionally listens on;
	// used to recognize control-capable services among generic HTTP ones.
	ecpPort = 8060
)

// BrowseMDNS discovers devices via mDNS/DNS-SD. This is a fallback for
// networks that filter SSDP multicast but allow mDNS: it browses generic
// HTTP services and keeps the ones that look like control endpoints.
// Results use the same Device shape as an SSDP scan.
func BrowseMDNS(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(map[string]*Device)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			device := deviceFromServiceEntry(entry)
			if device == nil {
				continue
			}
			if _, dup := found[device.Address]; dup {
				continue
			}
			found[device.Address] = device
		}
	}()

	if err := resolver.Browse(ctx, mdnsServiceType, mdnsDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	devices := make([]*Device, 0, len(found))
	for _, d := range found {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address < devices[j].Address
	})

	logging.Info("mDNS browse complete", zap.Int("devices", len(devices)))
	return devices, nil
}

// deviceFromServiceEntry converts an mDNS entry to a Device, or nil when
// the entry doesn't look like a control-capable endpoint.
func deviceFromServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if !looksLikeControlTarget(entry) {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = ecpPort
	}

	address := net.JoinHostPort(ip, strconv.Itoa(port))
	return &Device{
		Address:      address,
		Location:     fmt.Sprintf("http://%s/", address),
		Server:       entry.Instance,
		DiscoveredAt: time.Now(),
	}
}

// looksLikeControlTarget filters generic HTTP advertisements down to
// plausible control endpoints: either the conventional control port or a
// vendor hint in the instance name.
func looksLikeControlTarget(entry *zeroconf.ServiceEntry) bool {
	if entry == nil {
		return false
	}
	if entry.Port == ecpPort {
		return true
	}
	return strings.Contains(strings.ToLower(entry.Instance), "roku")
}
