// Package audio plays an optional synthesized rain ambience.
package audio

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// DefaultVolume is the linear playback volume of the ambience.
const DefaultVolume = 0.4

// ErrClosed is returned when starting an ambience after Stop.
var ErrClosed = errors.New("ambience closed")

// Ambience loops a rain-noise stream through the system speaker.
type Ambience struct {
	mu      sync.Mutex
	volume  float64
	seed    uint32
	ctrl    *beep.Ctrl
	started bool
	closed  bool
}

// NewAmbience creates an ambience at the given linear volume (0..1).
// seed varies the noise texture between runs.
func NewAmbience(volume float64, seed uint32) *Ambience {
	return &Ambience{volume: volume, seed: seed}
}

// Start opens the speaker and begins playback. Calling Start on a running
// ambience is a no-op.
func (a *Ambience) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if a.started {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	a.ctrl = &beep.Ctrl{Streamer: newVolume(NewRainGenerator(sampleRate, a.seed), a.volume)}
	speaker.Play(a.ctrl)
	a.started = true
	return nil
}

// Stop silences playback and releases the speaker. It is safe to call
// multiple times and without Start.
func (a *Ambience) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if !a.started {
		return
	}

	speaker.Lock()
	a.ctrl.Paused = true
	speaker.Unlock()

	speaker.Clear()
	speaker.Close()
	a.started = false
}

// Playing reports whether the ambience is currently audible.
func (a *Ambience) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}

// newVolume wraps s with a volume effect. Zero or negative volume is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// RainGenerator produces endless low-passed noise with slow gusts.
type RainGenerator struct {
	sr    beep.SampleRate
	pos   int
	state uint32
	lowL  float64
	lowR  float64
	gust  int
}

// NewRainGenerator creates a rain noise generator.
func NewRainGenerator(sr beep.SampleRate, seed uint32) *RainGenerator {
	if seed == 0 {
		seed = 0x2545f491
	}
	return &RainGenerator{
		sr:    sr,
		state: seed,
		gust:  sr.N(7 * time.Second),
	}
}

// next returns white noise in [-1, 1) from an xorshift32 state.
func (g *RainGenerator) next() float64 {
	g.state ^= g.state << 13
	g.state ^= g.state >> 17
	g.state ^= g.state << 5
	return float64(g.state)/float64(math.MaxUint32)*2 - 1
}

func (g *RainGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		// One-pole low-pass per channel softens the hiss into patter.
		g.lowL += 0.18 * (g.next() - g.lowL)
		g.lowR += 0.18 * (g.next() - g.lowR)

		cycle := float64(g.pos%g.gust) / float64(g.gust)
		envelope := 0.75 + 0.25*math.Sin(2*math.Pi*cycle)

		samples[i][0] = 0.6 * envelope * g.lowL
		samples[i][1] = 0.6 * envelope * g.lowR
		g.pos++
	}
	return len(samples), true
}

func (g *RainGenerator) Err() error {
	return nil
}
