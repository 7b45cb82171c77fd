package transfer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/network"
	"github.com/desertthunder/droplet/internal/server"
	"github.com/desertthunder/droplet/internal/shared"
)

// Recorder receives lifecycle and upload events, typically to persist history.
//
// Errors are logged and never fail the server operation that triggered them.
type Recorder interface {
	SessionStarted(port int, address string) error
	FileUploaded(file models.UploadedFile, contentType string) error
	SessionStopped() error
}

// StartResult is delivered once by [Server.StartAsync].
type StartResult struct {
	// Address is "" when the server failed to start or no Wi-Fi address is available.
	Address string
	Err     error
}

// OK reports whether the server started.
func (r StartResult) OK() bool { return r.Err == nil }

// Options configure a [Server].
type Options struct {
	Config   Config
	Logger   *log.Logger
	Recorder Recorder
	// Resolve builds the shareable address for an interface name and port.
	// Defaults to [network.CompleteAddress].
	Resolve func(iface string, port int) string
	// Now stamps uploads. Defaults to [time.Now].
	Now func() time.Time
}

// Server owns the HTTP listener and the in-memory file store.
//
// One instance is created by the host and shared by reference with every collaborator.
type Server struct {
	mu         sync.Mutex
	cfg        Config
	active     Config
	running    bool
	port       int
	httpServer *http.Server
	done       chan struct{}

	store    store
	counters counters
	router   *server.BasicRouter
	logger   *log.Logger
	recorder Recorder
	resolve  func(iface string, port int) string
	now      func() time.Time
}

// New creates a stopped server.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		recorder: opts.Recorder,
		resolve:  opts.Resolve,
		now:      opts.Now,
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s.logger = shared.WithLogger(logger, "component", "transfer")

	if s.resolve == nil {
		s.resolve = network.CompleteAddress
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.cfg.Host == "" {
		s.cfg.Host = DefaultHost
	}
	if s.cfg.AppName == "" {
		s.cfg.AppName = DefaultAppName
	}

	s.router = server.NewBasicRouter()
	s.router.Use(server.Recover(s.logger), server.RequestID, server.Logging(s.logger))
	s.router.Handle(http.MethodGet, "/download/{index}", http.HandlerFunc(s.handleDownload))
	s.router.Handle(http.MethodGet, "/preview/{index}", http.HandlerFunc(s.handlePreview))
	s.router.Handle(http.MethodGet, "/{$}", http.HandlerFunc(s.handleIndex))
	return s
}

// Handler exposes the routes without a listener.
func (s *Server) Handler() http.Handler { return s.router }

// Start binds a port and begins serving in the background.
//
// It returns the shareable address, which is "" when no Wi-Fi address is available. A running server
// returns its current address without rebinding. Errors wrap [shared.ErrPortsExhausted] or
// [shared.ErrBindFailed].
func (s *Server) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.resolve(s.active.Interface, s.port), nil
	}

	cfg := s.cfg
	shared.SetLogLevel(s.logger, shared.LevelFor(cfg.Debug))

	ln, err := s.listen(ctx, cfg)
	if err != nil {
		s.logger.Error("failed to start", "err", err)
		return "", err
	}

	var handler http.Handler = s.router
	if cfg.RateLimit > 0 {
		handler = server.RateLimit(server.NewRateLimiter(cfg.RateLimit, cfg.RateBurst))(handler)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped unexpectedly", "err", err)
		}
	}()

	s.httpServer = srv
	s.done = done
	s.active = cfg
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.running = true

	address := s.resolve(cfg.Interface, s.port)
	s.logger.Info("server started", "port", s.port, "address", address, "retried", s.port != cfg.Port && cfg.Port != 0)

	if s.recorder != nil {
		if err := s.recorder.SessionStarted(s.port, address); err != nil {
			s.logger.Warn("failed to record session", "err", err)
		}
	}
	return address, nil
}

// StartAsync runs [Server.Start] on a goroutine. The channel receives exactly one result and is then closed.
func (s *Server) StartAsync(ctx context.Context) <-chan StartResult {
	results := make(chan StartResult, 1)
	go func() {
		defer close(results)
		address, err := s.Start(ctx)
		results <- StartResult{Address: address, Err: err}
	}()
	return results
}

// maxPort is the highest TCP port the retry loop will try.
const maxPort = 65535

// listen binds cfg.Port, moving to the next port while the current one is in use.
func (s *Server) listen(ctx context.Context, cfg Config) (net.Listener, error) {
	var lc net.ListenConfig
	last := min(cfg.Port+cfg.PortRetries, maxPort)

	for port := cfg.Port; port <= last; port++ {
		addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))

		ln, err := lc.Listen(ctx, "tcp", addr)
		if err == nil {
			return ln, nil
		}
		if !isAddrInUse(err) {
			return nil, fmt.Errorf("%w: %s: %w", shared.ErrBindFailed, addr, err)
		}
		s.logger.Debug("port in use", "port", port)
	}

	return nil, fmt.Errorf("%w: ports %d-%d", shared.ErrPortsExhausted, cfg.Port, last)
}

// Stop closes the listener and all open connections, then clears the store.
// It is a no-op when the server is not running.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if err := s.httpServer.Close(); err != nil {
		s.logger.Warn("error closing server", "err", err)
	}
	<-s.done

	s.running = false
	s.httpServer = nil
	s.done = nil
	s.store.reset()

	s.logger.Info("server stopped", "port", s.port)

	if s.recorder != nil {
		if err := s.recorder.SessionStopped(); err != nil {
			s.logger.Warn("failed to record session stop", "err", err)
		}
	}
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Port returns the bound port while running and the configured port otherwise.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.port
	}
	return s.cfg.Port
}

// SetPort changes the configured port. A running server keeps its port until restarted.
func (s *Server) SetPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Port = port
}

// Config returns the configuration the next start will use.
func (s *Server) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetConfig replaces the configuration used by the next start.
func (s *Server) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	s.cfg = cfg
}

// CompleteAddress returns "http://{wifiIPv4}:{port}", or "" when no Wi-Fi address is available.
func (s *Server) CompleteAddress() string {
	s.mu.Lock()
	iface, port := s.cfg.Interface, s.cfg.Port
	if s.running {
		iface, port = s.active.Interface, s.port
	}
	s.mu.Unlock()

	return s.resolve(iface, port)
}

// appName returns the display name for the running instance.
func (s *Server) appName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.active.AppName
	}
	return s.cfg.AppName
}
