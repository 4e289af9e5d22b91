package ecp

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rokuctl/rokuctl/internal/logging"
)

const (
	// DefaultPort is the TCP port the control endpoint listens on
	DefaultPort = 8060

	// DefaultTimeout is the default per-request HTTP timeout
	DefaultTimeout = 5 * time.Second
)

// Client is an HTTP client for a single device's control endpoint.
//
// A Client holds no session state: every operation is a self-contained
// request/response cycle, and the underlying connection is released when
// the call returns. Clients are safe for concurrent use, though the
// device itself processes key events as an ordered stream.
type Client struct {
	// BaseURL is the device control endpoint (e.g. "http://192.168.1.34:8060")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	address string
}

// NewClient creates a control client for a device address.
// address is "host" or "host:port"; a bare host gets the default port.
func NewClient(address string) *Client {
	if !strings.Contains(address, ":") {
		address = fmt.Sprintf("%s:%d", address, DefaultPort)
	}
	return &Client{
		BaseURL:    "http://" + address,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		address:    address,
	}
}

// NewClientWithURL creates a control client from a full base URL.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		address:    strings.TrimPrefix(strings.TrimRight(baseURL, "/"), "http://"),
	}
}

// Address returns the host:port the client talks to.
func (c *Client) Address() string {
	return c.address
}

// SetTimeout sets the per-request HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Keypress sends a single named key event (e.g. "VolumeUp", "Home").
// The token is forwarded verbatim; use IsKnownCommand to validate input
// coming from a user, since devices silently ignore unknown tokens.
func (c *Client) Keypress(command string) error {
	logging.Debug("sending keypress",
		zap.String("device", c.address),
		zap.String("key", command),
	)
	return c.post("/keypress/" + command)
}

// Launch starts an installed app by its catalog id.
func (c *Client) Launch(appID string) error {
	logging.Debug("launching app",
		zap.String("device", c.address),
		zap.String("app_id", appID),
	)
	return c.post("/launch/" + appID)
}

// CharFailure records a single character of a TypeText call that the
// device did not acknowledge.
type CharFailure struct {
	Index int  // position within the original text
	Char  rune // the character that failed
	Err   error
}

// TypeResult summarizes a TypeText call.
type TypeResult struct {
	// Sent is the number of characters acknowledged by the device
	Sent int

	// Failures holds the characters that were attempted but failed.
	// Failed characters are simply missing from the device's input;
	// the sequence is never re-sent.
	Failures []CharFailure
}

// OK reports whether every character was delivered.
func (r *TypeResult) OK() bool {
	return len(r.Failures) == 0
}

// TypeText transmits text as a sequence of literal key events, one
// character per request. The control endpoint accepts a single code point
// per Lit_ event, and the device applies events in arrival order, so each
// request completes its full round trip before the next is issued.
//
// Transport failures on individual characters do not stop the sequence:
// the remaining characters are still attempted, matching the best-effort
// posture of all control operations. The result records what was lost.
func (c *Client) TypeText(text string) *TypeResult {
	result := &TypeResult{}
	for i, r := range []rune(text) {
		encoded := string(r)
		if r == ' ' {
			// The literal endpoint rejects a raw space in the path.
			encoded = "%20"
		}
		if err := c.post("/keypress/Lit_" + encoded); err != nil {
			logging.Debug("literal key event failed",
				zap.String("device", c.address),
				zap.Int("index", i),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, CharFailure{Index: i, Char: r, Err: err})
			continue
		}
		result.Sent++
	}
	return result
}

// post issues an empty-body POST and drains the response.
// Control endpoints return no payload worth reading; the body is
// discarded so the connection can be reused.
func (c *Client) post(path string) error {
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, nil)
	if err != nil {
		return NewNetworkError("failed to create request", err, c.address)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("request failed", err, c.address)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	return nil
}
