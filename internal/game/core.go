package game

import (
	"math"
	"sync"
	"time"
)

type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64         { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) DistanceTo(b Vec3) float64 { return a.Sub(b).Len() }

// Normalize returns the unit vector of a, or the zero vector when a has no length.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Mat3 is a row-major 3x3 rotation matrix.
type Mat3 [3][3]float64

// RotationMatrix builds the rotation for Euler angles applied in X, Y, Z order.
func RotationMatrix(e Vec3) Mat3 {
	a, b := math.Cos(e.X), math.Sin(e.X)
	c, d := math.Cos(e.Y), math.Sin(e.Y)
	ce, f := math.Cos(e.Z), math.Sin(e.Z)
	ae, af := a*ce, a*f
	be, bf := b*ce, b*f
	return Mat3{
		{c * ce, -c * f, d},
		{af + be*d, ae - bf*d, -b * c},
		{bf - ae*d, be + af*d, a * c},
	}
}

// Axis returns column i of m: the local X, Y or Z axis in world space.
func (m Mat3) Axis(i int) Vec3 {
	return Vec3{m[0][i], m[1][i], m[2][i]}
}

func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle folds a radian angle into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// frameHistory keeps the most recent frame deltas in a ring buffer.
type frameHistory struct {
	buf   []time.Duration
	head  int
	size  int
	mu    sync.RWMutex
	limit int
}

func newFrameHistory(frames int) *frameHistory {
	n := frames
	if n < 1 {
		n = 1
	}
	return &frameHistory{buf: make([]time.Duration, n), limit: n}
}

func (h *frameHistory) push(d time.Duration) {
	h.mu.Lock()
	h.buf[h.head] = d
	h.head = (h.head + 1) % h.limit
	if h.size < h.limit {
		h.size++
	}
	h.mu.Unlock()
}

// average returns the mean delta over the retained window.
func (h *frameHistory) average() time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.size == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < h.size; i++ {
		idx := (h.head - 1 - i + h.limit) % h.limit
		total += h.buf[idx]
	}
	return total / time.Duration(h.size)
}
