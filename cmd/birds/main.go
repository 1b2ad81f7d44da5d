// birds is a nine-lane arcade game for the terminal.
//
// Usage:
//
//	birds                    - Play
//	birds play               - Play
//	birds scores             - Show the local leaderboard
//	birds achievements       - Show unlocked achievements
//	birds board              - Browse scores and achievements interactively
//	birds events [name]      - Show recorded gameplay events
//	birds serve              - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.birds/birds.db)
//	--config <path>      - Custom game config YAML
//	--difficulty <name>  - easy, normal or hard
//	--debug              - Verbose logging to ~/.birds/birds.log
//	--mute               - Start without music
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-birds/internal/config"
	"github.com/vovakirdan/tui-birds/internal/games/birds"
	"github.com/vovakirdan/tui-birds/internal/platform/tui"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagDebug      bool
	flagMute       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var crash *tui.CrashError
		if errors.As(err, &crash) {
			fmt.Fprintln(os.Stderr, crash.Trace)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "birds",
	Short:   "Birds - keep your flock in the air",
	Version: birds.GameVersion,
	Long: `Birds is a real-time arcade game played in the terminal. Nine birds
fly in nine lanes; bounce them before they hit the floor, fight off bats
and obstacles, collect loot and unlock achievements.

Running birds with no command starts a game.

Examples:
  birds
  birds --difficulty hard
  birds scores
  birds serve --ssh :2222`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
		}
		birds.SetConfigPath(flagConfig)
		birds.SetDifficultyPreset(flagDifficulty)
		return nil
	},
	RunE: runPlay,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.birds/birds.db", "Path to the scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.BoolVar(&flagDebug, "debug", false, "Verbose logging")
	pf.BoolVar(&flagMute, "mute", false, "Start without music")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(serveCmd)
}

// userDir is ~/.birds, or the working directory when home is unknown.
func userDir() string {
	if dir := config.UserDir(); dir != "" {
		return dir
	}
	return "."
}

// newLogger logs to w with the level picked by --debug.
func newLogger(w *os.File, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openLogFile opens ~/.birds/birds.log for appending. The terminal belongs
// to the game while it runs, so play logs go there.
func openLogFile() (*os.File, error) {
	dir := userDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "birds.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
