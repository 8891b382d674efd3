package game

import "math"

// Angles is a two-axis aim in radians.
type Angles struct{ X, Y float64 }

type Cannon struct {
	Mount         string
	Offset        Vec3 // mount point relative to the hull
	Rotation      Angles
	RotationDelta Angles
	Power         float64 // >0 requests a shot this frame
}

type Cannons struct {
	Fore *Cannon
	Aft  *Cannon
}

type Boosters struct {
	Throttle float64 // requested output, 0..1
	Output   float64 // current output after ramping
}

type StructuralIntegrityField struct {
	Strength float64
	Max      float64
	Regen    float64
}

// Ship is owned by the Game and mutated only on the loop goroutine.
type Ship struct {
	Position        Vec3
	Rotation        Vec3
	Velocity        Vec3
	AngularVelocity Vec3
	Boosters        Boosters
	SIF             StructuralIntegrityField
	Hull            float64
	Cannons         Cannons
	MissionComplete bool
}

func NewShip() *Ship {
	return &Ship{
		Hull: ShipMaxHull,
		SIF:  StructuralIntegrityField{Strength: SIFMax, Max: SIFMax, Regen: SIFRegen},
		Cannons: Cannons{
			Fore: &Cannon{Mount: MountFore, Offset: Vec3{Z: -10}},
			Aft:  &Cannon{Mount: MountAft, Offset: Vec3{Z: 10}, Rotation: Angles{Y: math.Pi}},
		},
	}
}

// Cannon returns the cannon on the given mount, or nil.
func (s *Ship) Cannon(mount string) *Cannon {
	switch mount {
	case MountFore:
		return s.Cannons.Fore
	case MountAft:
		return s.Cannons.Aft
	}
	return nil
}

// CannonView is a copy of a cannon's state at one instant.
type CannonView struct {
	Mount         string
	Offset        Vec3
	Rotation      Angles
	RotationDelta Angles
	Power         float64
}

func (c *Cannon) View() CannonView {
	if c == nil {
		return CannonView{}
	}
	return CannonView{
		Mount:         c.Mount,
		Offset:        c.Offset,
		Rotation:      c.Rotation,
		RotationDelta: c.RotationDelta,
		Power:         c.Power,
	}
}

// ShipView is the read-only copy handed to renderer, HUD and audio.
// It holds no pointers back into the Ship.
type ShipView struct {
	Position        Vec3
	Rotation        Vec3
	Velocity        Vec3
	AngularVelocity Vec3
	Boosters        Boosters
	SIF             StructuralIntegrityField
	Hull            float64
	Fore            CannonView
	Aft             CannonView
	MissionComplete bool
}

func (s *Ship) Snapshot() ShipView {
	return ShipView{
		Position:        s.Position,
		Rotation:        s.Rotation,
		Velocity:        s.Velocity,
		AngularVelocity: s.AngularVelocity,
		Boosters:        s.Boosters,
		SIF:             s.SIF,
		Hull:            s.Hull,
		Fore:            s.Cannons.Fore.View(),
		Aft:             s.Cannons.Aft.View(),
		MissionComplete: s.MissionComplete,
	}
}

// Speed is the magnitude of the ship's velocity.
func (v ShipView) Speed() float64 { return v.Velocity.Len() }
