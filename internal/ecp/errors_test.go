package ecp

import (
	"errors"
	"net"
	"net/url"
	"syscall"
	"testing"
)

// timeoutError satisfies net.Error with Timeout() == true
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError_Timeout(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://192.168.1.34:8060/keypress/Home",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}},
	}

	devErr := ClassifyNetworkError(err, "192.168.1.34:8060")
	if devErr == nil {
		t.Fatal("expected DeviceError, got nil")
	}
	if devErr.Type != ErrTypeTimeout {
		t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeTimeout)
	}
	if !devErr.Retryable {
		t.Error("timeout errors should be retryable")
	}
	if devErr.Address != "192.168.1.34:8060" {
		t.Errorf("Address = %q, want device address", devErr.Address)
	}
}

func TestClassifyNetworkError_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://192.168.1.34:8060/launch/12",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
	}

	devErr := ClassifyNetworkError(err, "192.168.1.34:8060")
	if devErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeConnectionRefused)
	}
	if !devErr.Retryable {
		t.Error("connection refused should be retryable")
	}
}

func TestClassifyNetworkError_DNS(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "livingroom.lan", IsNotFound: true}

	devErr := ClassifyNetworkError(err, "livingroom.lan:8060")
	if devErr.Type != ErrTypeDNS {
		t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeDNS)
	}
	if devErr.Retryable {
		t.Error("DNS errors should not be retryable")
	}
}

func TestClassifyNetworkError_HostUnreachable(t *testing.T) {
	err := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.EHOSTUNREACH}

	devErr := ClassifyNetworkError(err, "192.168.1.34:8060")
	if devErr.Type != ErrTypeNetwork {
		t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeNetwork)
	}
}

func TestClassifyNetworkError_Nil(t *testing.T) {
	if devErr := ClassifyNetworkError(nil, ""); devErr != nil {
		t.Errorf("ClassifyNetworkError(nil) = %v, want nil", devErr)
	}
}

func TestNewHTTPError_Retryable(t *testing.T) {
	if err := NewHTTPError(503, "unavailable"); !err.Retryable {
		t.Error("5xx errors should be retryable")
	}
	if err := NewHTTPError(404, "not found"); err.Retryable {
		t.Error("4xx errors should not be retryable")
	}
}

func TestDeviceError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	devErr := NewNetworkError("request failed", inner, "192.168.1.34:8060")

	if !errors.Is(devErr, inner) {
		t.Error("DeviceError should unwrap to the underlying error")
	}
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", &DeviceError{Type: ErrTypeTimeout}, true},
		{"refused", &DeviceError{Type: ErrTypeConnectionRefused}, true},
		{"dns", &DeviceError{Type: ErrTypeDNS}, true},
		{"generic network", &DeviceError{Type: ErrTypeNetwork}, true},
		{"http", &DeviceError{Type: ErrTypeHTTP}, false},
		{"parse", &DeviceError{Type: ErrTypeParse}, false},
		{"plain error", errors.New("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	err := NewHTTPError(500, "unexpected status code: 500")
	if msg := GetShortErrorMessage(err); msg != "device error (HTTP 500)" {
		t.Errorf("GetShortErrorMessage() = %q", msg)
	}

	plain := errors.New("something else")
	if msg := GetShortErrorMessage(plain); msg != "something else" {
		t.Errorf("GetShortErrorMessage(plain) = %q", msg)
	}
}
