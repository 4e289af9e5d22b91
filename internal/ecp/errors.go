package ecp

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType categorizes failures when talking to a device.
type ErrorType int

const (
	// ErrTypeNetwork indicates a generic network-level failure
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the device did not respond in time
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the device refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a name resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx response from the device
	ErrTypeHTTP
	// ErrTypeParse indicates an unparsable device response
	ErrTypeParse
	// ErrTypeUnknown indicates an unclassified error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError is an error from a device control or query operation,
// classified so callers can decide between strict and lenient handling.
type DeviceError struct {
	Type       ErrorType // category of error
	Message    string    // human-readable message
	StatusCode int       // HTTP status code (ErrTypeHTTP only)
	Address    string    // device address for context
	Err        error     // underlying error, if any
	Retryable  bool      // whether retrying could plausibly succeed
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError inspects a transport error and returns a typed
// DeviceError. Returns nil for a nil error.
func ClassifyNetworkError(err error, address string) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{
			Type:      ErrTypeTimeout,
			Message:   "device did not respond in time",
			Address:   address,
			Err:       err,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:      ErrTypeDNS,
			Message:   fmt.Sprintf("cannot resolve %s", dnsErr.Name),
			Address:   address,
			Err:       err,
			Retryable: false,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &DeviceError{
				Type:      ErrTypeConnectionRefused,
				Message:   "device refused connection",
				Address:   address,
				Err:       err,
				Retryable: true,
			}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH), errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &DeviceError{
				Type:      ErrTypeNetwork,
				Message:   "device unreachable",
				Address:   address,
				Err:       err,
				Retryable: true,
			}
		}
	}

	// url.Error wraps the interesting error; classify what's inside.
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		classified := ClassifyNetworkError(urlErr.Err, address)
		classified.Err = err
		return classified
	}

	return &DeviceError{
		Type:      ErrTypeNetwork,
		Message:   "network error",
		Address:   address,
		Err:       err,
		Retryable: true,
	}
}

// NewNetworkError creates a classified network error with a custom message.
func NewNetworkError(message string, err error, address string) *DeviceError {
	classified := ClassifyNetworkError(err, address)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &DeviceError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Address:   address,
		Err:       err,
		Retryable: true,
	}
}

// NewHTTPError creates an error for a non-2xx device response.
func NewHTTPError(statusCode int, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates an error for an unparsable device response.
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// IsNetworkError reports whether err is any transport-level failure,
// including timeouts, refused connections, and DNS failures.
func IsNetworkError(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		switch devErr.Type {
		case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
			return true
		}
	}
	return false
}

// IsHTTPError reports whether err is a non-2xx device response.
func IsHTTPError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeHTTP
}

// IsParseError reports whether err is a response parsing failure.
func IsParseError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeParse
}

// IsRetryable reports whether retrying the operation could plausibly succeed.
func IsRetryable(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Retryable
	}
	return false
}

// GetShortErrorMessage returns a concise, user-facing message for err.
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "device refused connection - is network control enabled?"
	case ErrTypeDNS:
		return "cannot resolve device address"
	case ErrTypeNetwork:
		return "network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("device error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "failed to parse device response"
	default:
		return devErr.Message
	}
}

// GetTroubleshootingHint returns user-facing troubleshooting advice for err.
func GetTroubleshootingHint(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The device did not respond in time.",
			"Troubleshooting:",
			"  • Check that the device is powered on (streaming sticks sleep aggressively)",
			"  • Verify you're on the same network as the device",
			"  • Try increasing the timeout with --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The device refused the connection.",
			"Troubleshooting:",
			"  • Enable network control on the device (Settings > System > Advanced system settings > Control by mobile apps)",
			"  • Verify the port number (the control endpoint is usually 8060)",
			"  • Try rediscovering the device; its address may have changed",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the device address.",
			"Troubleshooting:",
			"  • Use the IP address instead of a hostname",
			"  • Run a scan to find the device's current address",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Verify the device address is correct",
			"  • Check that you're on the same network segment as the device",
			"  • Some guest/IoT VLANs block device control traffic",
		}, "\n")

	case ErrTypeHTTP:
		if devErr.StatusCode >= 500 {
			return fmt.Sprintf("The device returned HTTP %d. Try rebooting the device.", devErr.StatusCode)
		}
		return fmt.Sprintf("The device returned HTTP %d. Check the command or app id.", devErr.StatusCode)

	case ErrTypeParse:
		return "Failed to parse the device's response. The firmware may use an unsupported catalog format."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
