package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-birds/internal/storage"
)

var (
	flagEventLimit int
	flagCrashes    bool
)

var eventsCmd = &cobra.Command{
	Use:   "events [name]",
	Short: "Show recorded gameplay events",
	Long: `List the most recent gameplay events stored locally, newest first.
Give an event name such as swap, power_used or achievement_unlocked to
filter. With --crashes, list recorded crash reports instead.

Examples:
  birds events
  birds events swap -n 50
  birds events --crashes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().IntVarP(&flagEventLimit, "limit", "n", 20, "Number of entries to show")
	eventsCmd.Flags().BoolVar(&flagCrashes, "crashes", false, "Show crash reports")
}

func runEvents(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagCrashes {
		return printCrashes(store)
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	events, err := store.Events(name, flagEventLimit)
	if err != nil {
		return fmt.Errorf("retrieving events: %w", err)
	}
	total, err := store.CountEvents(name)
	if err != nil {
		return fmt.Errorf("counting events: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No events recorded yet.")
		return nil
	}
	for _, e := range events {
		fmt.Printf("  %s  %-22s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Name, formatParams(e.Params))
	}
	fmt.Printf("\nShowing %d of %d.\n", len(events), total)
	return nil
}

// formatParams renders params as sorted key=value pairs.
func formatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, params[k])
	}
	return strings.Join(parts, " ")
}

func printCrashes(store *storage.Store) error {
	crashes, err := store.Crashes(flagEventLimit)
	if err != nil {
		return fmt.Errorf("retrieving crashes: %w", err)
	}
	if len(crashes) == 0 {
		fmt.Println("No crashes recorded.")
		return nil
	}
	for _, c := range crashes {
		first, _, _ := strings.Cut(c.Trace, "\n")
		fmt.Printf("  #%d  %s  v%s  %s  (snapshot %d bytes)\n",
			c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04:05"), c.Version, first, len(c.Snapshot))
	}
	return nil
}
