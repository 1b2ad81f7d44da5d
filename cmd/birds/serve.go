package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-birds/internal/games/birds"
	"github.com/vovakirdan/tui-birds/internal/platform/tui"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Birds SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a title menu. Scores are
stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.birds/host_key

Examples:
  birds serve                           # Listen on :23234 with auto-generated key
  birds serve --ssh :2222               # Listen on port 2222
  birds serve --host-key ./my_host_key  # Use specific host key
  birds serve --db ./birds.db           # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "birds-ssh")

	settings, err := telemetry.LoadSettings(".env")
	if err != nil {
		logger.Warn("ignoring telemetry settings", "error", err)
		settings = telemetry.Settings{}
	}

	cfg := tui.SSHServerConfig{
		Address:      flagSSHAddr,
		HostKeyPath:  flagHostKey,
		DBPath:       flagDBPath,
		IdleTimeout:  time.Duration(flagIdleTimeout) * time.Minute,
		GameID:       birds.ID,
		Achievements: achievementInfos(),
		Telemetry:    settings,
		Logger:       logger,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting Birds SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
