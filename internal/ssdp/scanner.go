package ssdp

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/rokuctl/rokuctl/internal/logging"
)

const (
	// DefaultGroup is the well-known SSDP multicast group and port
	DefaultGroup = "239.255.255.250:1900"

	// DefaultServiceType is the search target for ECP-capable devices
	DefaultServiceType = "roku:ecp"

	// DefaultReadTimeout is how long a scan waits for a further response
	// before concluding the network has gone quiet.
	DefaultReadTimeout = 2 * time.Second

	// DefaultTTL allows the search datagram to traverse local subnets
	DefaultTTL = 4

	// DefaultRounds is the number of search datagrams sent per scan
	DefaultRounds = 1

	// DefaultMaxWait is the MX header value: the maximum seconds a device
	// may delay its response.
	DefaultMaxWait = 3

	// readBufferSize comfortably fits any discovery response datagram
	readBufferSize = 2048
)

// Scanner performs SSDP device discovery.
//
// The zero value is not usable; create scanners with NewScanner. All
// fields are empirical defaults rather than protocol constants, so they
// are exported for tuning (slow networks want a longer ReadTimeout,
// multi-subnet deployments a larger TTL).
type Scanner struct {
	// Group is the multicast group:port the search is sent to
	Group string

	// ServiceType is the ST header value identifying the device class
	ServiceType string

	// ReadTimeout is the per-read quiet window that ends a round
	ReadTimeout time.Duration

	// TTL is the multicast time-to-live for the search datagram
	TTL int

	// Rounds is how many search datagrams to send, each with its own
	// receive window
	Rounds int

	// MaxWait is the MX response-delay hint, in seconds
	MaxWait int
}

// NewScanner creates a scanner with the reference defaults.
func NewScanner() *Scanner {
	return &Scanner{
		Group:       DefaultGroup,
		ServiceType: DefaultServiceType,
		ReadTimeout: DefaultReadTimeout,
		TTL:         DefaultTTL,
		Rounds:      DefaultRounds,
		MaxWait:     DefaultMaxWait,
	}
}

// Scan discovers devices on the local network.
// Returns the deduplicated, address-sorted device list. An empty list is
// a normal outcome; the only error condition is failing to set up the
// UDP socket.
func (s *Scanner) Scan() ([]*Device, error) {
	return s.ScanWithContext(context.Background())
}

// ScanWithContext discovers devices, honoring ctx between reads.
// Cancellation ends the scan early and returns whatever was found.
func (s *Scanner) ScanWithContext(ctx context.Context) ([]*Device, error) {
	dest, err := net.ResolveUDPAddr("udp4", s.Group)
	if err != nil {
		return nil, fmt.Errorf("invalid discovery group %q: %w", s.Group, err)
	}

	request := s.searchRequest()
	found := make(map[string]*Device)

	for round := 0; round < s.Rounds; round++ {
		if ctx.Err() != nil {
			break
		}
		if err := s.scanRound(ctx, dest, request, found); err != nil {
			return nil, err
		}
	}

	devices := make([]*Device, 0, len(found))
	for _, d := range found {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address < devices[j].Address
	})

	logging.Info("discovery scan complete",
		zap.Int("devices", len(devices)),
		zap.Int("rounds", s.Rounds),
	)
	return devices, nil
}

// scanRound sends one search datagram and drains responses until the
// read window closes. Everything past the socket setup is best-effort.
func (s *Scanner) scanRound(ctx context.Context, dest *net.UDPAddr, request []byte, found map[string]*Device) error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return fmt.Errorf("failed to bind discovery socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// TTL and loopback are tuning, not correctness: some platforms reject
	// the options on unicast test sockets, so failures are only logged.
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(s.TTL); err != nil {
		logging.Debug("failed to set multicast TTL", zap.Error(err))
	}
	if err := pc.SetMulticastLoopback(true); err != nil {
		logging.Debug("failed to set multicast loopback", zap.Error(err))
	}

	if _, err := conn.WriteToUDP(request, dest); err != nil {
		logging.Debug("discovery send failed", zap.Error(err))
		return nil
	}

	// Cancellation wakes the blocked read by expiring its deadline.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, readBufferSize)
	for {
		if ctx.Err() != nil {
			return nil
		}

		// The window restarts after every response, so a burst of late
		// responders keeps the scan alive until the network goes quiet.
		if err := conn.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil
		}

		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			// Timeout or any other read error ends the round.
			return nil
		}

		resp := parseSearchResponse(buf[:n])
		logging.LogDiscoveryResponse(addr.String(), n, resp.Location)
		if resp.Location == "" {
			continue
		}

		address, ok := hostPortFromLocation(resp.Location)
		if !ok {
			continue
		}
		if _, dup := found[address]; dup {
			continue
		}
		found[address] = &Device{
			Address:      address,
			Location:     resp.Location,
			Server:       resp.Server,
			USN:          resp.USN,
			DiscoveredAt: time.Now(),
		}
	}
}

// searchRequest builds the M-SEARCH datagram.
func (s *Scanner) searchRequest() []byte {
	var b strings.Builder
	b.WriteString("M-SEARCH * HTTP/1.1\r\n")
	fmt.Fprintf(&b, "HOST: %s\r\n", s.Group)
	b.WriteString("MAN: \"ssdp:discover\"\r\n")
	fmt.Fprintf(&b, "ST: %s\r\n", s.ServiceType)
	fmt.Fprintf(&b, "MX: %d\r\n", s.MaxWait)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// searchResponse holds the headers a scan consults.
type searchResponse struct {
	Location string
	Server   string
	USN      string
}

// parseSearchResponse scans an HTTP-response-shaped datagram for the
// headers of interest, case-insensitively. Anything malformed simply
// leaves fields empty; discovery never rejects a datagram outright.
func parseSearchResponse(data []byte) searchResponse {
	var resp searchResponse
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "location":
			resp.Location = strings.TrimSpace(value)
		case "server":
			resp.Server = strings.TrimSpace(value)
		case "usn":
			resp.USN = strings.TrimSpace(value)
		}
	}
	return resp
}

// hostPortFromLocation extracts "host:port" from a LOCATION URL.
// Responses without an explicit port are skipped: the control endpoint
// always advertises its port, so a portless URL is not a usable target.
func hostPortFromLocation(location string) (string, bool) {
	u, err := url.Parse(location)
	if err != nil {
		return "", false
	}
	host := u.Hostname()
	port := u.Port()
	if host == "" || port == "" {
		return "", false
	}
	return net.JoinHostPort(host, port), true
}
