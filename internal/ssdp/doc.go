// Package ssdp discovers controllable media devices on the local network.
//
// Discovery uses the Simple Service Discovery Protocol: a single M-SEARCH
// datagram is multicast to 239.255.255.250:1900 with the target service
// type, and devices respond with an HTTP-response-shaped datagram whose
// LOCATION header carries the URL of their control endpoint.
//
// # Discovery Process
//
//  1. Bind a transient UDP socket on an ephemeral port
//  2. Multicast the M-SEARCH request (TTL and loopback are configurable)
//  3. Collect responses until the read window elapses with no traffic
//  4. Extract host:port from each LOCATION header, deduplicating silently
//
// Discovery is best-effort over an unreliable multicast channel: a slow
// or absent device is a normal outcome, so malformed datagrams, send
// failures, and read errors never fail the scan. The only fatal condition
// is failing to bind the socket. Scans always return a (possibly empty)
// sorted device list.
//
// # Usage Example
//
//	devices, err := ssdp.NewScanner().Scan()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// An mDNS fallback (BrowseMDNS) is available for networks that filter
// SSDP multicast but allow mDNS.
package ssdp
