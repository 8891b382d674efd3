package game

import "math"

// Drone is a target that seeks the camera. Alive is cleared by the collision system.
type Drone struct {
	ID         int64
	Position   Vec3
	Rotation   Vec3
	XDir       float64
	Alive      bool
	XTranslate float64
	YTranslate float64
}

func (d *Drone) translate(axis int, dist float64) {
	d.Position = d.Position.Add(RotationMatrix(d.Rotation).Axis(axis).Scale(dist))
}

func (d *Drone) TranslateX(dist float64) { d.translate(0, dist) }
func (d *Drone) TranslateY(dist float64) { d.translate(1, dist) }
func (d *Drone) TranslateZ(dist float64) { d.translate(2, dist) }

// droneSeek sways a drone laterally while it is far from the camera and
// closes in once it is within approach range.
type droneSeek struct {
	drone *Drone
}

func (s droneSeek) Run(g *Game) bool {
	d := s.drone
	if !d.Alive {
		return true
	}
	cam := g.renderer.Camera().Position
	if cam.DistanceTo(d.Position) < droneApproachRadius {
		step := cam.Sub(d.Position)
		if step.Len() > droneApproachStep {
			step = step.Normalize().Scale(droneApproachStep)
		}
		d.Position = d.Position.Add(step)
	} else {
		d.YTranslate = math.Sin(float64(g.clock.Frame)/droneSwayPeriod) * g.clock.TimeDeltaMillis() * droneSwayScale
		d.XTranslate = math.Cos(d.YTranslate) * d.XDir * droneLateralStep
		if g.rand() < droneFlipChance {
			d.XDir = -d.XDir
		}
		d.TranslateY(d.YTranslate)
		d.TranslateX(d.XTranslate)
	}
	return !d.Alive
}

// SpawnTargetDrone places a drone just ahead of the camera, hands it to the
// renderer and queues its seeking behavior.
func (g *Game) SpawnTargetDrone() *Drone {
	g.nextDroneID++
	cam := g.renderer.Camera()
	d := &Drone{
		ID:       g.nextDroneID,
		Position: cam.Position,
		Rotation: cam.Rotation,
		XDir:     1,
		Alive:    true,
	}
	d.TranslateZ(-droneSpawnDistance)
	g.renderer.Track(d)
	g.queue.Add(droneSeek{drone: d})
	g.log.Info().Int64("drone", d.ID).Msg("target drone spawned")
	return d
}
