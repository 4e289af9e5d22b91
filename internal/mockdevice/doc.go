// Package mockdevice implements a fake device that speaks the subset of
// the External Control Protocol that rokuctl uses.
//
// The mock device serves three endpoints on plain HTTP:
//
//	POST /keypress/<token>  accept and record a key press
//	POST /launch/<appId>    accept a launch for a known catalog app
//	GET  /query/apps        return the app catalog as XML
//
// It exists for development and integration testing on networks without
// a real device. Recorded key presses and launches can be inspected
// through the Keypresses and Launches accessors, which is how the tests
// assert command ordering.
//
// Discovery is not implemented; point rokuctl at the mock directly with
// --device host:port.
package mockdevice
