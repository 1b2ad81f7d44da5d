package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-birds/internal/games/birds"
	"github.com/vovakirdan/tui-birds/internal/storage"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

var (
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the local leaderboard",
	Long: `Display the top high scores recorded on this machine.

Examples:
  birds scores
  birds scores --limit 25
  birds scores --clear
  birds scores --db ./birds.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(birds.ID); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	scores, err := store.TopScores(birds.ID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - Birds")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'birds' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-20s  %-8s  %-5s  %-8s  %-7s  %s\n", "Rank", "Name", "Score", "Level", "Time", "Pts/Min", "Date")
	fmt.Printf("  %-4s  %-20s  %-8s  %-5s  %-8s  %-7s  %s\n", "----", "----", "-----", "-----", "----", "-------", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-20s  %-8d  %-5d  %-8s  %-7.0f  %s\n",
			i+1, e.Name, e.Score, e.Level,
			telemetry.FormatElapsed(time.Duration(e.ElapsedSecs)*time.Second),
			e.AvgPPM,
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	stats, err := store.GetGameStats(birds.ID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  |  Games: %d  |  Average: %.0f  |  Best level: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestLevel)
	}
	return nil
}
