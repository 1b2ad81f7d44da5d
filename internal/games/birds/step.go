package birds

import (
	"time"

	"github.com/vovakirdan/tui-birds/internal/core"
	"github.com/vovakirdan/tui-birds/internal/telemetry"
)

// Step advances the world by one frame and returns the wait before the
// next one. A finished world ignores further steps.
func (w *World) Step(in core.InputFrame) time.Duration {
	if w.over {
		return w.TickInterval()
	}

	w.handleInput(in)
	w.refreshLevel()
	if w.paused {
		return w.TickInterval()
	}

	w.frame++
	w.obstacleTimer++
	w.batTimer++
	w.clock += w.frameSeconds()

	w.decayClockwork()
	w.ach.onFrame()

	w.admitSpawn()
	w.maybeQueueBat()
	w.maybeQueueObstacle()

	w.updateObstacles()
	w.updateBats()
	w.batsCrushObstacles()
	w.despawn()

	w.tickEffects()
	w.updateProjectiles()
	w.stealthBurst()
	w.tickPowerUps()

	w.moveBirds()
	w.autoBounceClockwork()
	w.refreshLevel()
	w.pruneNotes()

	if w.over {
		sc := telemetry.NewScore("", int(w.score), w.level, w.swaps, w.Elapsed())
		w.sink.LogEvent("game_over", map[string]any{
			"score":               sc.Score,
			"level":               sc.Level,
			"frames":              w.frame,
			"swaps":               sc.Swaps,
			"time_played_seconds": int(sc.Elapsed),
			"time_played":         sc.ElapsedStr,
			"version":             GameVersion,
			"avg_ppm":             sc.AvgPPM,
		})
	}
	return w.TickInterval()
}

// Clock returns the simulated seconds elapsed while unpaused.
func (w *World) Clock() float64 { return w.clock }

// Elapsed is Clock as a duration.
func (w *World) Elapsed() time.Duration {
	return time.Duration(w.clock * float64(time.Second))
}
