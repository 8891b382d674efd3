package game

import "time"

// FrameClock tracks frame count, the wall-clock gap between frames and the stardate.
type FrameClock struct {
	Frame     uint64
	LastFrame time.Time
	TimeDelta time.Duration
	Stardate  float64 // epoch seconds, never decreases

	now     func() time.Time
	history *frameHistory
}

func NewFrameClock(now func() time.Time) *FrameClock {
	if now == nil {
		now = time.Now
	}
	t := now()
	return &FrameClock{
		LastFrame: t,
		Stardate:  stardateAt(t),
		now:       now,
		history:   newFrameHistory(frameHistoryLen),
	}
}

func stardateAt(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Update advances the clock by one frame using a single wall-clock reading.
func (c *FrameClock) Update() {
	t := c.now()
	c.Frame++
	c.TimeDelta = t.Sub(c.LastFrame)
	c.LastFrame = t
	if sd := stardateAt(t); sd > c.Stardate {
		c.Stardate = sd
	}
	c.history.push(c.TimeDelta)
}

// TimeDeltaMillis is the last frame gap in milliseconds.
func (c *FrameClock) TimeDeltaMillis() float64 {
	return float64(c.TimeDelta) / float64(time.Millisecond)
}

// FPS averages the recent frame gaps.
func (c *FrameClock) FPS() float64 {
	avg := c.history.average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

func (g *Game) updateVariables() { g.clock.Update() }
