// Package ecp implements a client for the External Control Protocol (ECP)
// exposed by network media players.
//
// ECP is a small unauthenticated HTTP interface served by the device,
// typically on port 8060. This package covers the control surface used by
// a remote: key presses, literal text entry, app catalog queries, and app
// launches.
//
// # Endpoints
//
//	POST /keypress/<key>   send a named key or Lit_<char> literal event
//	POST /launch/<appId>   launch an installed channel/app by id
//	GET  /query/apps       installed app catalog (XML-shaped markup)
//
// # Error Posture
//
// Devices are consumer appliances on best-effort home networks, so an
// unreachable or slow device is a normal outcome rather than a bug. Client
// methods return classified errors (see DeviceError), but callers are
// expected to treat them leniently: an empty catalog renders as "no apps
// found" and a failed key press does not abort a composite action.
// TypeText in particular always attempts every character and reports
// per-character failures in its result instead of stopping.
//
// # Usage Example
//
//	client := ecp.NewClient("192.168.1.34:8060")
//	if err := client.Keypress(ecp.KeyVolumeUp); err != nil {
//	    fmt.Println(ecp.GetShortErrorMessage(err))
//	}
//
//	apps, _ := client.Apps()
//	for _, app := range apps {
//	    fmt.Printf("%s (%s)\n", app.Name, app.ID)
//	}
package ecp
