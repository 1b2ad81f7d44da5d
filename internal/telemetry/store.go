package telemetry

import (
	"context"
	"errors"

	"github.com/vovakirdan/tui-birds/internal/storage"
)

// StoreSink writes telemetry into the local sqlite database.
type StoreSink struct {
	store     *storage.Store
	gameID    string
	sessionID string
}

// NewStoreSink records into store under gameID. The store stays owned by
// the caller; Close does not close it.
func NewStoreSink(store *storage.Store, gameID string, id Identity) *StoreSink {
	return &StoreSink{store: store, gameID: gameID, sessionID: id.SessionID}
}

func (s *StoreSink) SubmitScore(_ context.Context, sc Score) error {
	_, err := s.store.SaveScore(storage.ScoreEntry{
		GameID:      s.gameID,
		Name:        sc.Name,
		Score:       sc.Score,
		Level:       sc.Level,
		ElapsedSecs: int(sc.Elapsed),
		Swaps:       sc.Swaps,
		AvgPPM:      sc.AvgPPM,
		Version:     sc.Version,
	})
	return err
}

func (s *StoreSink) LogEvent(_ context.Context, name string, params map[string]any) error {
	return s.store.LogEvent(s.sessionID, name, params)
}

func (s *StoreSink) UnlockAchievement(_ context.Context, id string) error {
	_, err := s.store.UnlockAchievement(id)
	return err
}

func (s *StoreSink) ReportCrash(_ context.Context, c Crash) error {
	_, err := s.store.SaveCrash(c.Version, c.Trace, c.Snapshot)
	return err
}

// SyncAchievements merges ids into the stored unlocks.
func (s *StoreSink) SyncAchievements(_ context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if _, err := s.store.UnlockAchievement(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *StoreSink) Close() error { return nil }
