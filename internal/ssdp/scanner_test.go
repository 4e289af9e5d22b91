package ssdp

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"
)

func TestNewScanner(t *testing.T) {
	s := NewScanner()

	if s.Group != DefaultGroup {
		t.Errorf("Group = %q, want %q", s.Group, DefaultGroup)
	}
	if s.ServiceType != DefaultServiceType {
		t.Errorf("ServiceType = %q, want %q", s.ServiceType, DefaultServiceType)
	}
	if s.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", s.ReadTimeout, DefaultReadTimeout)
	}
	if s.TTL != DefaultTTL {
		t.Errorf("TTL = %d, want %d", s.TTL, DefaultTTL)
	}
	if s.Rounds != DefaultRounds {
		t.Errorf("Rounds = %d, want %d", s.Rounds, DefaultRounds)
	}
}

func TestSearchRequest(t *testing.T) {
	s := NewScanner()
	request := string(s.searchRequest())

	wantLines := []string{
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		`MAN: "ssdp:discover"`,
		"ST: roku:ecp",
		"MX: 3",
	}
	for _, line := range wantLines {
		if !strings.Contains(request, line+"\r\n") {
			t.Errorf("search request missing line %q:\n%s", line, request)
		}
	}
	if !strings.HasSuffix(request, "\r\n\r\n") {
		t.Error("search request must end with a blank line")
	}
}

func TestParseSearchResponse(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		wantLocation string
		wantServer   string
	}{
		{
			name: "typical response",
			data: "HTTP/1.1 200 OK\r\n" +
				"Cache-Control: max-age=3600\r\n" +
				"ST: roku:ecp\r\n" +
				"USN: uuid:roku:ecp:1GU48T017973\r\n" +
				"Server: Roku UPnP/1.0 Roku/9.3.0\r\n" +
				"LOCATION: http://192.168.1.34:8060/\r\n\r\n",
			wantLocation: "http://192.168.1.34:8060/",
			wantServer:   "Roku UPnP/1.0 Roku/9.3.0",
		},
		{
			name:         "lowercase header names",
			data:         "HTTP/1.1 200 OK\r\nlocation: http://10.0.0.5:8060/\r\n\r\n",
			wantLocation: "http://10.0.0.5:8060/",
		},
		{
			name:         "bare LF line endings",
			data:         "HTTP/1.1 200 OK\nLocation: http://10.0.0.6:8060/\n\n",
			wantLocation: "http://10.0.0.6:8060/",
		},
		{
			name:         "missing location",
			data:         "HTTP/1.1 200 OK\r\nST: roku:ecp\r\n\r\n",
			wantLocation: "",
		},
		{
			name:         "garbage datagram",
			data:         "\x00\x01\x02 not http at all",
			wantLocation: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := parseSearchResponse([]byte(tt.data))
			if resp.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", resp.Location, tt.wantLocation)
			}
			if tt.wantServer != "" && resp.Server != tt.wantServer {
				t.Errorf("Server = %q, want %q", resp.Server, tt.wantServer)
			}
		})
	}
}

func TestHostPortFromLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
		ok       bool
	}{
		{"http://192.168.1.34:8060/", "192.168.1.34:8060", true},
		{"http://192.168.1.34:8060", "192.168.1.34:8060", true},
		{"http://192.168.1.34/", "", false}, // no explicit port
		{"://not a url", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := hostPortFromLocation(tt.location)
		if ok != tt.ok || got != tt.want {
			t.Errorf("hostPortFromLocation(%q) = (%q, %v), want (%q, %v)",
				tt.location, got, ok, tt.want, tt.ok)
		}
	}
}

// fakeResponder is a unicast UDP endpoint standing in for the multicast
// group: it answers every search request with a fixed set of datagrams.
func fakeResponder(t *testing.T, responses []string) string {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("failed to start fake responder: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buf := make([]byte, readBufferSize)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			if !strings.HasPrefix(string(buf[:n]), "M-SEARCH") {
				continue
			}
			for _, resp := range responses {
				_, _ = conn.WriteToUDP([]byte(resp), addr)
			}
		}
	}()

	return conn.LocalAddr().String()
}

func TestScan_DeduplicatesAndSorts(t *testing.T) {
	responses := []string{
		"HTTP/1.1 200 OK\r\nLOCATION: http://192.168.1.90:8060/\r\n\r\n",
		"HTTP/1.1 200 OK\r\nLOCATION: http://192.168.1.34:8060/\r\n\r\n",
		// duplicate of the first device, as multicast routinely delivers
		"HTTP/1.1 200 OK\r\nLOCATION: http://192.168.1.90:8060/\r\n\r\n",
		// missing LOCATION: skipped, does not abort the scan
		"HTTP/1.1 200 OK\r\nST: roku:ecp\r\n\r\n",
		// unparsable LOCATION: skipped
		"HTTP/1.1 200 OK\r\nLOCATION: ://bad\r\n\r\n",
	}

	s := NewScanner()
	s.Group = fakeResponder(t, responses)
	s.ReadTimeout = 250 * time.Millisecond

	devices, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v, want nil", err)
	}

	want := []string{"192.168.1.34:8060", "192.168.1.90:8060"}
	if len(devices) != len(want) {
		t.Fatalf("Scan() found %d devices, want %d: %v", len(devices), len(want), devices)
	}
	for i, addr := range want {
		if devices[i].Address != addr {
			t.Errorf("devices[%d].Address = %q, want %q (sorted)", i, devices[i].Address, addr)
		}
	}
}

func TestScan_NoResponses(t *testing.T) {
	s := NewScanner()
	s.Group = fakeResponder(t, nil)
	s.ReadTimeout = 150 * time.Millisecond

	devices, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v, want nil (absence is not an error)", err)
	}
	if len(devices) != 0 {
		t.Errorf("Scan() found %d devices, want 0", len(devices))
	}
}

func TestScan_ContextCancellation(t *testing.T) {
	s := NewScanner()
	s.Group = fakeResponder(t, nil)
	s.ReadTimeout = 10 * time.Second // would block far longer than the test allows

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	devices, err := s.ScanWithContext(ctx)
	if err != nil {
		t.Fatalf("ScanWithContext() error = %v, want nil", err)
	}
	if devices == nil {
		t.Error("ScanWithContext() should return an empty list, not nil")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("scan ignored context cancellation, took %v", elapsed)
	}
}

func TestScan_InvalidGroup(t *testing.T) {
	s := NewScanner()
	s.Group = "not a group"

	if _, err := s.Scan(); err == nil {
		t.Error("Scan() with invalid group should fail")
	}
}
