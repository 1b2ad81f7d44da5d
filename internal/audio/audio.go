// Package audio plays the background drum loop through the beep speaker.
// Audio is optional: if the speaker cannot start, the player goes quiet and
// the game carries on.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-birds/internal/config"
)

const sampleRate = beep.SampleRate(44100)

// Player is what the front end controls.
type Player interface {
	Start()
	Stop()
	Toggle() bool
	Playing() bool
	Close()
}

// swapped in tests
var (
	speakerInit = func(sr beep.SampleRate, buf int) error { return speaker.Init(sr, buf) }
	speakerPlay = func(s beep.Streamer) { speaker.Play(s) }
)

// Controller owns the speaker and the looped pattern.
type Controller struct {
	mu      sync.Mutex
	cfg     config.AudioConfig
	logger  *log.Logger
	ctrl    *beep.Ctrl
	ready   bool
	broken  bool
	playing bool
}

// New creates a controller. The speaker is opened on the first Start.
func New(cfg config.AudioConfig, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{cfg: cfg, logger: logger}
}

func (c *Controller) init() bool {
	if c.ready {
		return true
	}
	if c.broken {
		return false
	}
	if err := speakerInit(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		c.broken = true
		c.logger.Warn("audio unavailable, continuing without music", "error", err)
		return false
	}
	drums := NewDrumMachine(DefaultPattern, sampleRate, c.cfg.BPM)
	c.ctrl = &beep.Ctrl{Streamer: withVolume(drums, c.cfg.Volume), Paused: true}
	speakerPlay(c.ctrl)
	c.ready = true
	return true
}

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(vol, 1))}
}

func (c *Controller) setPaused(p bool) {
	speaker.Lock()
	c.ctrl.Paused = p
	speaker.Unlock()
}

// Start begins or resumes the loop.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing || !c.init() {
		return
	}
	c.setPaused(false)
	c.playing = true
}

// Stop pauses the loop.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.setPaused(true)
	c.playing = false
}

// Toggle flips playback and reports whether music is now on.
func (c *Controller) Toggle() bool {
	if c.Playing() {
		c.Stop()
	} else {
		c.Start()
	}
	return c.Playing()
}

func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Close silences the speaker for good.
func (c *Controller) Close() {
	c.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		speaker.Clear()
	}
}

// Nop is a Player for --mute and SSH sessions.
type Nop struct{}

func (Nop) Start() {}
func (Nop) Stop() {}
func (Nop) Toggle() bool { return false }
func (Nop) Playing() bool { return false }
func (Nop) Close() {}
