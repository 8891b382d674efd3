package game

import "math"

// slewSnap absorbs the rounding a long slew accumulates, so a delta of
// k*SlewLimit still settles in k frames.
const slewSnap = SlewLimit * (1 + 1e-9)

// slewAxis moves rotation toward the commanded delta by at most SlewLimit,
// shrinking delta without overshooting zero.
func slewAxis(rotation, delta *float64) {
	d := *delta
	if math.Abs(d) > slewSnap {
		step := math.Copysign(SlewLimit, d)
		*rotation += step
		*delta = d - step
		return
	}
	*rotation += d
	*delta = 0
}

// UpdateCannon advances one frame of aim and consumes a pending shot.
// When fired is true, shot holds the cannon as it was when it fired.
func UpdateCannon(c *Cannon) (shot CannonView, fired bool) {
	if c == nil {
		return CannonView{}, false
	}
	slewAxis(&c.Rotation.Y, &c.RotationDelta.Y)
	slewAxis(&c.Rotation.X, &c.RotationDelta.X)
	if c.Power > 0 {
		shot = c.View()
		c.Power = 0
		return shot, true
	}
	return CannonView{}, false
}

func (g *Game) updateCannons() {
	for _, c := range []*Cannon{g.ship.Cannons.Fore, g.ship.Cannons.Aft} {
		shot, fired := UpdateCannon(c)
		if !fired {
			continue
		}
		g.renderer.FireBullet(shot)
		g.audio.PlaySound(SoundBullet)
		g.metrics.cannonFired(shot.Mount)
		g.trace.Debug().Str("mount", shot.Mount).Float64("power", shot.Power).Msg("cannon fired")
	}
}
