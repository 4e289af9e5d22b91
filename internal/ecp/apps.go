package ecp

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/rokuctl/rokuctl/internal/logging"
)

// App is one installed application from the device catalog.
// ID is the opaque identifier accepted by Launch; Name is the display
// name with HTML entities decoded.
type App struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// String returns a human-readable representation of the app.
func (a App) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}

// appRecord matches one <app id="...">name</app> record. This is a
// deliberately narrow scanning matcher for the exact flat record shape
// the catalog uses, not a general markup parser: records never nest, and
// anything that doesn't match the shape is skipped rather than reported.
// Extra attributes before or after id are tolerated.
var appRecord = regexp.MustCompile(`<app[^>]*\bid="([^"]+)"[^>]*>(.*?)</app>`)

// Apps fetches the device's installed-app catalog.
//
// The call is advisory: a zero-record catalog is a normal outcome and
// returns an empty slice with a nil error. Transport and HTTP failures
// are returned as classified errors so strict callers can distinguish
// "no apps" from "couldn't ask"; lenient callers just render an empty
// catalog either way.
func (c *Client) Apps() ([]App, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/query/apps")
	if err != nil {
		return nil, NewNetworkError("catalog query failed", err, c.address)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read catalog response", err, c.address)
	}

	apps := parseApps(string(body))
	logging.Debug("fetched app catalog",
		zap.String("device", c.address),
		zap.Int("count", len(apps)),
	)
	return apps, nil
}

// parseApps extracts app records from catalog markup. Each fetch yields a
// fresh list; ids are unique within it (a duplicate id keeps the first
// record). Records that don't match the expected shape contribute nothing.
func parseApps(body string) []App {
	matches := appRecord.FindAllStringSubmatch(body, -1)
	apps := make([]App, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		id := m[1]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		apps = append(apps, App{
			ID:   id,
			Name: strings.TrimSpace(html.UnescapeString(m[2])),
		})
	}
	return apps
}
