package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screensaver over SSH",
	Long: `Start an SSH server that shows the screensaver to every connection.

Each SSH session gets its own engine sized to its terminal, configured
from the same config file as "pipes run". Finished sessions are recorded
in the run history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.pipes/host_key

Examples:
  pipes serve                           # Listen on :23234 with auto-generated key
  pipes serve --ssh :2222               # Listen on port 2222
  pipes serve --host-key ./my_host_key  # Use specific host key
  pipes serve --palette rgb --depth     # Serve depth mode

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	addRunFlags(serveCmd.Flags())
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	pipesCfg, source, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "source", source)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Pipes = pipesCfg
	cfg.Logger = logger

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(cfg, store)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Serving pipes over SSH on %s\n", cfg.Address)
	if _, port, err := net.SplitHostPort(cfg.Address); err == nil && port != "" {
		fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	}
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx)
}
