package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/engine"
	"github.com/vovakirdan/tui-pipes/internal/registry"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.pipes/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Pipes is the animation configuration every session starts with.
	// A zero seed gives each session its own.
	Pipes config.PipesConfig

	// Logger receives session events. nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Pipes:       config.DefaultConfig(),
	}
}

// sessionKey stores the running session in the SSH context so the logging
// middleware can record it once the program exits.
type sessionKey struct{}

type sessionRun struct {
	eng     *engine.Engine
	seed    int64
	started time.Time
}

// SSHServer wraps a Wish SSH server that serves the screensaver.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store // nil disables run history
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// The store may be nil.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	logger = logger.WithPrefix("ssh")

	// Fail early rather than on the first connection
	if err := cfg.Pipes.Validate(); err != nil {
		return nil, err
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".pipes", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates an engine and a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	seed := s.config.Pipes.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	size := core.Size{W: pty.Window.Width, H: pty.Window.Height}
	ecfg, err := s.config.Pipes.EngineConfig(size)
	if err != nil {
		s.logger.Error("cannot configure session", "user", sshSession.User(), "error", err)
		return nil, nil
	}
	eng, err := engine.New(ecfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		s.logger.Warn("cannot start session", "user", sshSession.User(), "size", size, "error", err)
		return nil, nil
	}
	sshSession.Context().SetValue(sessionKey{}, &sessionRun{
		eng:     eng,
		seed:    seed,
		started: time.Now(),
	})

	background, _ := s.config.Pipes.BackgroundColor()
	opts := registry.Options{
		Runtime:    core.RuntimeConfig{ScreenW: size.W, ScreenH: size.H, TickRate: ecfg.TickRate, Seed: seed},
		Background: background,
		ShowStats:  s.config.Pipes.Stats,
	}

	// Each session renders with the color profile of its own terminal
	model := NewModel(eng, bubbletea.MakeRenderer(sshSession), opts)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events and records finished runs.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)

		run, ok := sshSession.Context().Value(sessionKey{}).(*sessionRun)
		if ok && s.store != nil {
			r := storage.NewRun("ssh:"+sshSession.User(), "ssh", run.seed, run.eng, run.started)
			if _, err := s.store.SaveRun(r); err != nil {
				s.logger.Warn("cannot record run", "user", sshSession.User(), "error", err)
			}
		}
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done,
// then shuts the server down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server, waiting up to ten seconds for
// sessions to finish.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
