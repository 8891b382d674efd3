// Package audio plays the bridge's sound effects and engine hum.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"BridgeSim/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)
	maxVoices  = 32
)

var ErrUnknownSound = errors.New("unknown sound")

type Options struct {
	// Speaker opens the system audio device. Without it the mix is only
	// produced when something pulls from Stream.
	Speaker bool
	Volume  float64 // master gain, 0..1
	Logger  *zerolog.Logger
}

// Engine implements game.Audio.
type Engine struct {
	mu      sync.Mutex
	speaker bool
	mixer   *beep.Mixer
	master  *effects.Volume
	hum     *hum
	humVol  *effects.Volume
	played  map[string]int
	log     zerolog.Logger
}

func New(opts Options) (*Engine, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	e := &Engine{
		mixer:  &beep.Mixer{},
		hum:    &hum{sr: sampleRate},
		played: make(map[string]int),
		log:    logger.With().Str("component", "audio").Logger(),
	}
	e.humVol = &effects.Volume{Streamer: e.hum, Base: 2, Volume: -4, Silent: true}
	e.mixer.Add(e.humVol)
	e.master = &effects.Volume{Streamer: e.mixer, Base: 2, Volume: gain(opts.Volume)}

	if opts.Speaker {
		if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			return e, fmt.Errorf("init speaker: %w", err)
		}
		e.speaker = true
		speaker.Play(e.master)
	}
	return e, nil
}

// gain maps a linear 0..1 volume to a base-2 exponent.
func gain(v float64) float64 {
	v = game.Clamp(v, 0, 1)
	if v == 0 {
		return -10
	}
	return -4 * (1 - v)
}

func (e *Engine) lock() {
	e.mu.Lock()
	if e.speaker {
		speaker.Lock()
	}
}

func (e *Engine) unlock() {
	if e.speaker {
		speaker.Unlock()
	}
	e.mu.Unlock()
}

// Play mixes in the named sound.
func (e *Engine) Play(name string) error {
	voice, ok := sounds[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSound, name)
	}
	e.lock()
	defer e.unlock()
	e.played[name]++
	if e.mixer.Len() >= maxVoices {
		e.log.Debug().Str("sound", name).Msg("voice limit reached")
		return nil
	}
	e.mixer.Add(voice(sampleRate))
	return nil
}

// PlaySound implements game.Audio.
func (e *Engine) PlaySound(name string) {
	if err := e.Play(name); err != nil {
		e.log.Warn().Err(err).Msg("sound skipped")
	}
}

// Update implements game.Audio. The hum tracks booster output.
func (e *Engine) Update(_ uint64, _ time.Duration, ship game.ShipView) {
	out := game.Clamp(ship.Boosters.Output, 0, 1)
	e.lock()
	defer e.unlock()
	e.hum.output = out
	e.humVol.Silent = out == 0
	e.humVol.Volume = -4 + 3*out
}

// Stream pulls mixed samples when no speaker is attached.
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	e.lock()
	defer e.unlock()
	return e.master.Stream(samples)
}

// Played reports how often each sound was requested.
func (e *Engine) Played(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.played[name]
}

// Voices is the number of streamers in the mix, the hum included.
func (e *Engine) Voices() int {
	e.lock()
	defer e.unlock()
	return e.mixer.Len()
}

// HumActive reports whether the engine hum is audible.
func (e *Engine) HumActive() bool {
	e.lock()
	defer e.unlock()
	return !e.humVol.Silent
}

// Close silences the mix.
func (e *Engine) Close() {
	e.lock()
	defer e.unlock()
	e.mixer.Clear()
}
