package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-birds/internal/games/birds"
	"github.com/vovakirdan/tui-birds/internal/platform/tui"
	"github.com/vovakirdan/tui-birds/internal/storage"
)

var flagLockedToo bool

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show unlocked achievements",
	Long: `List the achievements unlocked on this machine.

Examples:
  birds achievements
  birds achievements --all`,
	Args: cobra.NoArgs,
	RunE: runAchievements,
}

func init() {
	achievementsCmd.Flags().BoolVarP(&flagLockedToo, "all", "a", false, "Also list locked achievements")
}

// achievementInfos adapts the game's catalog for the scoreboard.
func achievementInfos() []tui.AchievementInfo {
	catalog := birds.AchievementCatalog()
	out := make([]tui.AchievementInfo, len(catalog))
	for i, a := range catalog {
		out[i] = tui.AchievementInfo{ID: a.ID, Name: a.Name, Desc: a.Desc}
	}
	return out
}

func runAchievements(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	recs, err := store.UnlockedAchievements()
	if err != nil {
		return fmt.Errorf("retrieving achievements: %w", err)
	}
	unlocked := make(map[string]storage.UnlockRecord, len(recs))
	for _, r := range recs {
		unlocked[r.ID] = r
	}

	catalog := achievementInfos()
	fmt.Printf("Achievements - %d/%d unlocked\n\n", len(unlocked), len(catalog))

	for _, a := range catalog {
		r, ok := unlocked[a.ID]
		switch {
		case ok:
			fmt.Printf("  [x] %-26s %s  (%s)\n", a.Name, a.Desc, r.UnlockedAt.Local().Format("2006-01-02"))
		case flagLockedToo:
			fmt.Printf("  [ ] %-26s %s\n", a.Name, a.Desc)
		}
	}
	if len(unlocked) == 0 && !flagLockedToo {
		fmt.Println("None yet. Run 'birds achievements --all' to see what there is to unlock.")
	}
	return nil
}
