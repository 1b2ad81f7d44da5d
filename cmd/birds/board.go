package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-birds/internal/games/birds"
	"github.com/vovakirdan/tui-birds/internal/platform/tui"
	"github.com/vovakirdan/tui-birds/internal/storage"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse scores and achievements",
	Long: `Open the interactive scoreboard.

Controls:
  Tab/Left/Right  - Switch between scores and achievements
  Up/Down         - Scroll
  Q/Esc           - Quit`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func runBoard(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	return tui.RunScoreboard(store, birds.ID, "Birds", achievementInfos(), width, height)
}
