package physics

import (
	"math"

	"BridgeSim/internal/game"
)

// Params tunes the per-frame flight model. Rates are per frame, not per second.
type Params struct {
	BoosterRamp    float64 // max change in booster output per frame
	Acceleration   float64 // units/frame² at full output
	MaxSpeed       float64 // units/frame
	AngularDamping float64 // fraction of angular velocity lost per frame (0..1)
	MarkerOutput   float64 // booster output the SIF can sustain indefinitely
	KDrain         float64 // SIF drain scale above the marker
	Exp            float64 // response exponent of the drain curve
	HullBleed      float64 // hull lost per unit of SIF deficit
}

const (
	DefaultBoosterRamp    = 0.05
	DefaultAcceleration   = 0.2
	DefaultMaxSpeed       = 40.0
	DefaultAngularDamping = 0.1
	DefaultMarkerOutput   = 0.6
	DefaultKDrain         = 2.0
	DefaultExp            = 1.5
	DefaultHullBleed      = 0.5
)

func DefaultParams() Params {
	return Params{
		BoosterRamp:    DefaultBoosterRamp,
		Acceleration:   DefaultAcceleration,
		MaxSpeed:       DefaultMaxSpeed,
		AngularDamping: DefaultAngularDamping,
		MarkerOutput:   DefaultMarkerOutput,
		KDrain:         DefaultKDrain,
		Exp:            DefaultExp,
		HullBleed:      DefaultHullBleed,
	}
}

// SanitizeParams replaces non-positive or out-of-range values with defaults.
func SanitizeParams(p Params) Params {
	d := DefaultParams()
	if p.BoosterRamp <= 0 {
		p.BoosterRamp = d.BoosterRamp
	}
	if p.Acceleration <= 0 {
		p.Acceleration = d.Acceleration
	}
	if p.MaxSpeed <= 0 {
		p.MaxSpeed = d.MaxSpeed
	}
	if p.AngularDamping < 0 || p.AngularDamping > 1 {
		p.AngularDamping = d.AngularDamping
	}
	if p.MarkerOutput <= 0 || p.MarkerOutput > 1 {
		p.MarkerOutput = d.MarkerOutput
	}
	if p.KDrain < 0 {
		p.KDrain = d.KDrain
	}
	if p.Exp <= 0 {
		p.Exp = d.Exp
	}
	if p.HullBleed < 0 {
		p.HullBleed = d.HullBleed
	}
	return p
}

// Overrides holds optional replacements for individual parameters.
type Overrides struct {
	BoosterRamp    *float64
	Acceleration   *float64
	MaxSpeed       *float64
	AngularDamping *float64
	MarkerOutput   *float64
	KDrain         *float64
	Exp            *float64
	HullBleed      *float64
}

func (o Overrides) Apply(base Params) Params {
	if o.BoosterRamp != nil {
		base.BoosterRamp = *o.BoosterRamp
	}
	if o.Acceleration != nil {
		base.Acceleration = *o.Acceleration
	}
	if o.MaxSpeed != nil {
		base.MaxSpeed = *o.MaxSpeed
	}
	if o.AngularDamping != nil {
		base.AngularDamping = *o.AngularDamping
	}
	if o.MarkerOutput != nil {
		base.MarkerOutput = *o.MarkerOutput
	}
	if o.KDrain != nil {
		base.KDrain = *o.KDrain
	}
	if o.Exp != nil {
		base.Exp = *o.Exp
	}
	if o.HullBleed != nil {
		base.HullBleed = *o.HullBleed
	}
	return SanitizeParams(base)
}

// Utilities is the default flight model.
type Utilities struct {
	P Params
}

func New(p Params) *Utilities {
	return &Utilities{P: SanitizeParams(p)}
}

// UpdateBoosters ramps output toward the requested throttle.
func (u *Utilities) UpdateBoosters(s *game.Ship) {
	b := &s.Boosters
	target := game.Clamp(b.Throttle, 0, 1)
	diff := target - b.Output
	if math.Abs(diff) <= u.P.BoosterRamp {
		b.Output = target
		return
	}
	b.Output += math.Copysign(u.P.BoosterRamp, diff)
}

// UpdateStructuralIntegrityFields drains the field while boosters run above
// the marker output and regenerates it otherwise. A deficit bleeds into the hull.
//
//	dev = output - marker
//	if dev > 0: Ṡ = Regen - KDrain * (dev/(1-marker))^Exp * Max/100
//	else:       Ṡ = Regen
func (u *Utilities) UpdateStructuralIntegrityFields(s *game.Ship) {
	f := &s.SIF
	rate := f.Regen
	if dev := s.Boosters.Output - u.P.MarkerOutput; dev > 0 {
		span := math.Max(1-u.P.MarkerOutput, 1e-6)
		rate -= u.P.KDrain * math.Pow(dev/span, u.P.Exp) * f.Max / 100
	}
	f.Strength += rate
	if f.Strength < 0 {
		s.Hull -= -f.Strength * u.P.HullBleed
		f.Strength = 0
	}
	if f.Strength > f.Max {
		f.Strength = f.Max
	}
	if s.Hull < 0 {
		s.Hull = 0
	}
}

// UpdateRotation integrates and damps angular velocity.
func (u *Utilities) UpdateRotation(s *game.Ship) {
	s.Rotation = s.Rotation.Add(s.AngularVelocity)
	s.Rotation = game.Vec3{
		X: game.WrapAngle(s.Rotation.X),
		Y: game.WrapAngle(s.Rotation.Y),
		Z: game.WrapAngle(s.Rotation.Z),
	}
	s.AngularVelocity = s.AngularVelocity.Scale(1 - u.P.AngularDamping)
}

// UpdateVelocities accelerates along the ship's forward (-Z) axis and moves it.
func (u *Utilities) UpdateVelocities(s *game.Ship) {
	forward := game.RotationMatrix(s.Rotation).Axis(2).Scale(-1)
	s.Velocity = s.Velocity.Add(forward.Scale(s.Boosters.Output * u.P.Acceleration))
	if speed := s.Velocity.Len(); speed > u.P.MaxSpeed {
		s.Velocity = s.Velocity.Scale(u.P.MaxSpeed / speed)
	}
	s.Position = s.Position.Add(s.Velocity)
}

// IsGameOver ends the session when the hull is gone or the mission is done.
func (u *Utilities) IsGameOver(v game.ShipView) bool {
	return v.Hull <= 0 || v.MissionComplete
}
