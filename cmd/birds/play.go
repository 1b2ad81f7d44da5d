package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-birds/internal/audio"
	"github.com/vovakirdan/tui-birds/internal/config"
	"github.com/vovakirdan/tui-birds/internal/core"
	"github.com/vovakirdan/tui-birds/internal/games/birds"
	"github.com/vovakirdan/tui-birds/internal/platform/tui"
	"github.com/vovakirdan/tui-birds/internal/registry"
	"github.com/vovakirdan/tui-birds/internal/storage"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

// flushTimeout bounds how long exit waits for queued telemetry.
const flushTimeout = 3 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of Birds.

Controls:
  Left/Right, A/D  - Move the lane cursor
  Up/W             - Bounce the bird under the cursor, use its power
  Down/S           - Pull the bird down (with suction)
  Space            - Select a lane, press again on another lane to swap
  P/Esc            - Pause
  M                - Music on/off
  Q/Ctrl+C         - Quit

Examples:
  birds play
  birds play --seed 42
  birds play --difficulty easy --mute
  birds play --config ./my-birds.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	logFile, err := openLogFile()
	if err != nil {
		logFile = os.Stderr
	} else {
		defer logFile.Close()
	}
	logger := newLogger(logFile, "birds")

	width, height := 80, 36 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	game, err := registry.Create(birds.ID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage - game still works
		store = nil
	} else {
		defer store.Close()
	}

	queue := openTelemetry(store, logger)

	var player audio.Player = audio.Nop{}
	if !flagMute {
		cfg, cfgErr := config.LoadBirds(flagConfig)
		if cfgErr != nil {
			cfg = config.DefaultBirdsConfig()
		}
		if cfg.Audio.Enabled {
			player = audio.New(cfg.Audio, logger)
		}
	}
	defer player.Close()

	logger.Info("run started", "seed", flagSeed, "difficulty", flagDifficulty, "size", fmt.Sprintf("%dx%d", width, height))
	result, runErr := tui.Run(game, core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}, tui.Options{
		Telemetry: queue,
		Audio:     player,
		Logger:    logger,
	})

	if err := queue.Close(flushTimeout); err != nil {
		logger.Debug("telemetry close", "error", err)
	}
	delivered, failed, dropped := queue.Stats()
	logger.Debug("telemetry", "delivered", delivered, "failed", failed, "dropped", dropped)

	var crash *tui.CrashError
	if errors.As(runErr, &crash) {
		return crash
	}
	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}

	printSummary(result)
	return nil
}

// openTelemetry wires the local store and, when configured, the remote
// collector behind one queue.
func openTelemetry(store *storage.Store, logger *log.Logger) *telemetry.Queue {
	dir := userDir()
	settings, err := telemetry.LoadSettings(".env", filepath.Join(dir, ".env"))
	if err != nil {
		logger.Warn("ignoring telemetry settings", "error", err)
		settings = telemetry.Settings{}
	}
	id, err := telemetry.LoadIdentity(dir)
	if err != nil {
		logger.Warn("could not persist user id", "error", err)
		id = telemetry.Identity{UserID: uuid.NewString(), SessionID: uuid.NewString()}
	}

	var sinks telemetry.Multi
	if store != nil {
		sinks = append(sinks, telemetry.NewStoreSink(store, birds.ID, id))
	}
	if settings.URL != "" && !settings.Disabled {
		sinks = append(sinks, telemetry.NewWebSocketSink(settings.URL, id))
		logger.Debug("remote telemetry enabled", "url", settings.URL)
	}
	return telemetry.NewQueue(sinks, telemetry.QueueOptions{
		Size:   settings.QueueSize,
		Logger: logger,
	})
}

func printSummary(r tui.Result) {
	if r.State.Score == 0 && r.Elapsed == 0 {
		return
	}
	fmt.Printf("Score %d, level %d, %s played.\n", r.State.Score, r.State.Level, telemetry.FormatElapsed(r.Elapsed))
	if r.Submitted {
		fmt.Printf("Saved as %s. See 'birds scores'.\n", r.Score.Name)
	}
}
