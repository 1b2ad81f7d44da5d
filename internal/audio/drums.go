package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Steps is the length of every drum pattern.
const Steps = 8

// Instrument is one synthesized drum voice.
type Instrument int

const (
	Kick Instrument = iota
	Snare
	HiHat
	Bass
	numInstruments
)

func (i Instrument) String() string {
	switch i {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case HiHat:
		return "hat"
	default:
		return "bass"
	}
}

// Pattern marks which instruments hit on each step.
type Pattern [numInstruments][Steps]bool

// DefaultPattern is the game's background loop.
var DefaultPattern = Pattern{
	Kick:  {true, false, false, true, true, false, false, false},
	Snare: {false, false, true, false, false, false, true, false},
	HiHat: {true, true, false, true, true, false, true, true},
	Bass:  {true, false, false, false, true, false, false, false},
}

// voiceLength is how long each hit rings, capped at the step length.
var voiceLength = [numInstruments]time.Duration{
	Kick:  120 * time.Millisecond,
	Snare: 90 * time.Millisecond,
	HiHat: 30 * time.Millisecond,
	Bass:  200 * time.Millisecond,
}

// DrumMachine streams a pattern in eighth notes at a tempo, forever.
type DrumMachine struct {
	pattern Pattern
	sr      beep.SampleRate
	step    int // samples per step
	pos     int
	noise   uint32
}

// NewDrumMachine creates a drum machine. bpm below 1 falls back to 120.
func NewDrumMachine(p Pattern, sr beep.SampleRate, bpm int) *DrumMachine {
	if bpm < 1 {
		bpm = 120
	}
	stepDur := time.Duration(float64(time.Minute) / float64(bpm) / 2)
	return &DrumMachine{
		pattern: p,
		sr:      sr,
		step:    max(1, sr.N(stepDur)),
		noise:   0x2545f491,
	}
}

// StepSamples is the length of one step in samples.
func (d *DrumMachine) StepSamples() int { return d.step }

// nextNoise is a xorshift so the hats sound the same every run.
func (d *DrumMachine) nextNoise() float64 {
	d.noise ^= d.noise << 13
	d.noise ^= d.noise >> 17
	d.noise ^= d.noise << 5
	return float64(d.noise)/float64(math.MaxUint32)*2 - 1
}

func (d *DrumMachine) sample() float64 {
	stepIdx := (d.pos / d.step) % Steps
	within := d.pos % d.step
	t := float64(within) / float64(d.sr)

	out := 0.0
	for inst := Instrument(0); inst < numInstruments; inst++ {
		if !d.pattern[inst][stepIdx] {
			continue
		}
		length := min(d.step, d.sr.N(voiceLength[inst]))
		if within >= length {
			continue
		}
		env := 1 - float64(within)/float64(length)
		switch inst {
		case Kick:
			freq := 55 * (1 + 2*env)
			out += 0.5 * env * math.Sin(2*math.Pi*freq*t)
		case Snare:
			out += 0.25 * env * (d.nextNoise() + 0.5*math.Sin(2*math.Pi*180*t))
		case HiHat:
			out += 0.12 * env * d.nextNoise()
		case Bass:
			out += 0.2 * env * math.Sin(2*math.Pi*82.4*t)
		}
	}
	return math.Max(-1, math.Min(1, out))
}

func (d *DrumMachine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := d.sample()
		samples[i][0] = v
		samples[i][1] = v
		d.pos++
	}
	return len(samples), true
}

func (d *DrumMachine) Err() error { return nil }
