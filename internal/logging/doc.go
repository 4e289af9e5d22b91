// Package logging provides structured logging for rokuctl.
//
// The package wraps a zap logger with package-level convenience functions.
// Logging is silent by default so normal CLI and TUI output stays clean;
// set ROKUCTL_LOG_LEVEL to "debug", "info", "warn", or "error" to see
// protocol-level detail (discovery datagrams, per-request key events).
//
// All output goes to stderr so it never interleaves with command output
// that callers may be piping.
//
// All logging functions are safe for concurrent use.
package logging
