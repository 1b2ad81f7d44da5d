package birds

import (
	"math"
	"time"
)

// LevelThreshold returns the score needed to reach level n.
// threshold(1) = 1000, threshold(n) = threshold(n-1) + n*1200.
func LevelThreshold(n int) int {
	total := 1000
	for i := 2; i <= n; i++ {
		total += i * 1200
	}
	return total
}

// LevelForScore is the highest level whose threshold the score has passed,
// starting from level 1. It is pure, so spending score can lower the level.
func LevelForScore(score float64) int {
	lvl := 1
	for score >= float64(LevelThreshold(lvl+1)) {
		lvl++
	}
	return lvl
}

// FrameInterval is the wall time between frames at a level.
func FrameInterval(baseSleep, minSleep, speedup float64, level int) time.Duration {
	sec := math.Max(minSleep, baseSleep*math.Pow(speedup, float64(level)))
	return time.Duration(sec * float64(time.Second))
}

// framesFor converts a duration in frame seconds to a frame count.
func (w *World) framesFor(seconds float64) int {
	// tiny epsilon keeps 3.0/0.2 from landing on 14.999...
	return int(seconds/w.cfg.Timing.BaseSleep + 1e-9)
}

// AddScore credits points and re-checks score achievements.
func (w *World) AddScore(amount float64) {
	w.score += amount
	w.ach.onScore(w.score)
}

// DeductScore removes points, never going below zero.
func (w *World) DeductScore(amount float64) {
	w.score = math.Max(0, w.score-amount)
	w.ach.onScore(w.score)
}

func (w *World) refreshLevel() {
	w.level = LevelForScore(w.score)
}

// frameSeconds is the current frame interval in seconds. The simulated
// clock advances by exactly this amount per frame.
func (w *World) frameSeconds() float64 {
	t := w.cfg.Timing
	return math.Max(t.MinSleep, t.BaseSleep*math.Pow(t.LevelSpeedup, float64(w.level)))
}

// TickInterval is the wall time the platform should wait before the next Step.
func (w *World) TickInterval() time.Duration {
	t := w.cfg.Timing
	return FrameInterval(t.BaseSleep, t.MinSleep, t.LevelSpeedup, w.level)
}
