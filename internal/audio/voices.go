package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

type wave func(phase float64) float64 // phase in [0,1)

func sine(p float64) float64 { return math.Sin(2 * math.Pi * p) }

func square(p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}

func saw(p float64) float64 { return 2*p - 1 }

// sweep is a finite tone gliding from one frequency to another with a short
// attack and linear release.
type sweep struct {
	sr       beep.SampleRate
	from, to float64
	amp      float64
	shape    wave
	pos, n   int
	phase    float64
}

func newSweep(sr beep.SampleRate, from, to float64, d time.Duration, amp float64, shape wave) *sweep {
	return &sweep{sr: sr, from: from, to: to, amp: amp, shape: shape, n: sr.N(d)}
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.n {
		return 0, false
	}
	attack := s.sr.N(5 * time.Millisecond)
	i := 0
	for ; i < len(samples) && s.pos < s.n; i++ {
		t := float64(s.pos) / float64(s.n)
		freq := s.from + (s.to-s.from)*t
		env := 1 - t
		if s.pos < attack {
			env *= float64(s.pos) / float64(attack)
		}
		v := s.amp * env * s.shape(s.phase)
		samples[i][0], samples[i][1] = v, v
		s.phase += freq / float64(s.sr)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return i, true
}

func (s *sweep) Err() error { return nil }

// hum is the endless engine drone. Its pitch follows the booster output.
type hum struct {
	sr     beep.SampleRate
	phase  float64
	output float64 // read on the speaker goroutine under speaker.Lock
}

func (h *hum) Stream(samples [][2]float64) (int, bool) {
	freq := 55 + 55*h.output
	for i := range samples {
		v := 0.6*sine(h.phase) + 0.4*sine(math.Mod(h.phase*2, 1))
		samples[i][0], samples[i][1] = v*0.2, v*0.2
		h.phase += freq / float64(h.sr)
		h.phase -= math.Floor(h.phase)
	}
	return len(samples), true
}

func (h *hum) Err() error { return nil }

// sounds maps a sound name to its voice factory.
var sounds = map[string]func(sr beep.SampleRate) beep.Streamer{
	"bullet": func(sr beep.SampleRate) beep.Streamer {
		return newSweep(sr, 880, 220, 120*time.Millisecond, 0.3, square)
	},
	"yellow-alert": func(sr beep.SampleRate) beep.Streamer {
		return beep.Seq(
			newSweep(sr, 600, 600, 120*time.Millisecond, 0.25, sine),
			newSweep(sr, 800, 800, 120*time.Millisecond, 0.25, sine),
		)
	},
	"red-alert": func(sr beep.SampleRate) beep.Streamer {
		return newSweep(sr, 400, 900, 400*time.Millisecond, 0.3, saw)
	},
}
