package mockdevice

import (
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rokuctl/rokuctl/internal/ecp"
	"github.com/rokuctl/rokuctl/internal/logging"
)

// Config holds the mock device configuration
type Config struct {
	Host     string
	Port     int
	LogLevel string
}

// Server is a fake device speaking the control protocol over plain HTTP.
type Server struct {
	config     *Config
	httpServer *http.Server

	mu         sync.Mutex
	catalog    []ecp.App
	keypresses []string
	launches   []string
	activeApp  string
}

// DefaultCatalog returns the app catalog a freshly created mock device serves.
func DefaultCatalog() []ecp.App {
	return []ecp.App{
		{ID: "12", Name: "Netflix"},
		{ID: "2285", Name: "Hulu"},
		{ID: "13535", Name: "Plex - Free Movies & TV"},
		{ID: "837", Name: "YouTube"},
	}
}

// New creates a new mock device server.
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return &Server{
		config:  config,
		catalog: DefaultCatalog(),
	}, nil
}

// SetCatalog replaces the catalog the mock serves from /query/apps.
func (s *Server) SetCatalog(apps []ecp.App) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = apps
}

// Keypresses returns the key tokens received so far, in arrival order.
func (s *Server) Keypresses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.keypresses))
	copy(out, s.keypresses)
	return out
}

// Launches returns the app IDs launched so far, in arrival order.
func (s *Server) Launches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.launches))
	copy(out, s.launches)
	return out
}

// ActiveApp returns the ID of the most recently launched app, or "" if none.
func (s *Server) ActiveApp() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeApp
}

// Handler returns the HTTP handler for the mock device endpoints.
// Exposed so tests can mount it on an httptest server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/query/apps", s.handleQueryApps)
	mux.HandleFunc("/keypress/", s.handleKeypress)
	mux.HandleFunc("/launch/", s.handleLaunch)
	return mux
}

// Start starts the mock device and blocks until shutdown.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logging.Info("Starting mock device",
		zap.String("addr", addr),
		zap.Int("catalog_size", len(s.catalog)),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		errChan <- err
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping mock device...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the mock device.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	logging.Sync()
	return err
}

func (s *Server) handleQueryApps(w http.ResponseWriter, r *http.Request) {
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	catalog := make([]ecp.App, len(s.catalog))
	copy(catalog, s.catalog)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	fmt.Fprint(w, renderCatalog(catalog))
}

func (s *Server) handleKeypress(w http.ResponseWriter, r *http.Request) {
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Use the escaped path so Lit_%20 style tokens keep their wire form
	// instead of decoding to a raw space.
	token := strings.TrimPrefix(r.URL.EscapedPath(), "/keypress/")
	if token == "" || strings.Contains(token, "/") {
		http.Error(w, "bad key token", http.StatusBadRequest)
		return
	}

	// Real devices accept Lit_<char> tokens for arbitrary characters, so
	// anything that is not a known command but carries the literal prefix
	// is still accepted.
	if !ecp.IsKnownCommand(token) && !strings.HasPrefix(token, "Lit_") {
		http.Error(w, "unknown key: "+token, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.keypresses = append(s.keypresses, token)
	s.mu.Unlock()

	logging.Debug("key press recorded", zap.String("token", token))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	appID := strings.TrimPrefix(r.URL.Path, "/launch/")
	if appID == "" || strings.Contains(appID, "/") {
		http.Error(w, "bad app id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	known := false
	for _, app := range s.catalog {
		if app.ID == appID {
			known = true
			break
		}
	}
	if known {
		s.launches = append(s.launches, appID)
		s.activeApp = appID
	}
	s.mu.Unlock()

	if !known {
		http.Error(w, "unknown app: "+appID, http.StatusNotFound)
		return
	}

	logging.Info("app launched", zap.String("app_id", appID))
	w.WriteHeader(http.StatusOK)
}

// renderCatalog serializes the catalog in the XML shape real devices use.
func renderCatalog(apps []ecp.App) string {
	var b strings.Builder
	b.WriteString("<apps>\n")
	for _, app := range apps {
		b.WriteString(`  <app id="`)
		xmlEscape(&b, app.ID)
		b.WriteString(`" type="appl" version="1.0">`)
		xmlEscape(&b, app.Name)
		b.WriteString("</app>\n")
	}
	b.WriteString("</apps>\n")
	return b.String()
}

func xmlEscape(b *strings.Builder, s string) {
	// xml.EscapeText writing to a strings.Builder cannot fail.
	_ = xml.EscapeText(b, []byte(s))
}
