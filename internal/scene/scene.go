// Package scene is the renderer-side world: the camera riding the ship,
// tracked drones, bullets in flight and the collision pass between them.
package scene

import (
	"sort"

	"BridgeSim/internal/game"
)

const (
	DefaultCellSize     = 100.0
	DefaultBulletSpeed  = 20.0
	DefaultBulletTTL    = 120 // frames
	DefaultContactRange = 25.0
)

type Bullet struct {
	ID       int64
	Mount    string
	Position game.Vec3
	Velocity game.Vec3
	TTL      int
}

// Contact is a drone that reached the ship.
type Contact struct {
	Drone  int64
	Damage float64
}

// Events is what one Advance call resolved.
type Events struct {
	Destroyed []int64
	Contacts  []Contact
}

func (e Events) Empty() bool { return len(e.Destroyed) == 0 && len(e.Contacts) == 0 }

type Config struct {
	CellSize      float64
	BulletSpeed   float64
	BulletTTL     int
	ContactRange  float64
	ContactDamage float64
}

func DefaultConfig() Config {
	return Config{
		CellSize:      DefaultCellSize,
		BulletSpeed:   DefaultBulletSpeed,
		BulletTTL:     DefaultBulletTTL,
		ContactRange:  DefaultContactRange,
		ContactDamage: 10,
	}
}

// Scene is only touched from the loop goroutine.
type Scene struct {
	cfg     Config
	camera  game.CameraView
	drones  []*game.Drone
	bullets []*Bullet
	grid    *Grid

	nextBullet int64
	spawned    int
	destroyed  int
}

func New(cfg Config) *Scene {
	d := DefaultConfig()
	if cfg.CellSize <= 0 {
		cfg.CellSize = d.CellSize
	}
	if cfg.BulletSpeed <= 0 {
		cfg.BulletSpeed = d.BulletSpeed
	}
	if cfg.BulletTTL <= 0 {
		cfg.BulletTTL = d.BulletTTL
	}
	if cfg.ContactRange <= 0 {
		cfg.ContactRange = d.ContactRange
	}
	if cfg.ContactDamage < 0 {
		cfg.ContactDamage = d.ContactDamage
	}
	return &Scene{cfg: cfg, grid: NewGrid(cfg.CellSize)}
}

func (s *Scene) Camera() game.CameraView { return s.camera }

// Track adds a drone to the drone list and the spatial index.
func (s *Scene) Track(d *game.Drone) {
	if d == nil {
		return
	}
	s.drones = append(s.drones, d)
	s.grid.Insert(d)
	s.spawned++
}

// FireBullet launches a bullet from the cannon's mount along its aim.
func (s *Scene) FireBullet(c game.CannonView) *Bullet {
	hull := game.RotationMatrix(s.camera.Rotation)
	aim := game.RotationMatrix(game.Vec3{X: c.Rotation.X, Y: c.Rotation.Y})
	dir := hull.Apply(aim.Axis(2)).Scale(-1)
	s.nextBullet++
	b := &Bullet{
		ID:       s.nextBullet,
		Mount:    c.Mount,
		Position: s.camera.Position.Add(hull.Apply(c.Offset)),
		Velocity: dir.Scale(s.cfg.BulletSpeed),
		TTL:      s.cfg.BulletTTL,
	}
	s.bullets = append(s.bullets, b)
	return b
}

// Advance moves the camera onto the ship, steps bullets and resolves
// bullet hits and ship contacts. Dead drones leave the drone list.
func (s *Scene) Advance(ship game.ShipView) Events {
	s.camera = game.CameraView{Position: ship.Position, Rotation: ship.Rotation}

	s.grid.Rebuild(s.drones)
	var ev Events

	kept := s.bullets[:0]
	for _, b := range s.bullets {
		b.Position = b.Position.Add(b.Velocity)
		b.TTL--
		hits := s.grid.Query(b.Position, game.DroneRadius)
		if len(hits) > 0 {
			d := nearest(hits, b.Position)
			d.Alive = false
			s.grid.Remove(d)
			ev.Destroyed = append(ev.Destroyed, d.ID)
			s.destroyed++
			continue
		}
		if b.TTL > 0 {
			kept = append(kept, b)
		}
	}
	clear(s.bullets[len(kept):])
	s.bullets = kept

	for _, d := range s.grid.Query(s.camera.Position, s.cfg.ContactRange) {
		d.Alive = false
		s.grid.Remove(d)
		ev.Contacts = append(ev.Contacts, Contact{Drone: d.ID, Damage: s.cfg.ContactDamage})
	}
	sort.Slice(ev.Contacts, func(i, j int) bool { return ev.Contacts[i].Drone < ev.Contacts[j].Drone })

	live := s.drones[:0]
	for _, d := range s.drones {
		if d.Alive {
			live = append(live, d)
		}
	}
	clear(s.drones[len(live):])
	s.drones = live
	return ev
}

func nearest(ds []*game.Drone, p game.Vec3) *game.Drone {
	best := ds[0]
	bestDist := best.Position.DistanceTo(p)
	for _, d := range ds[1:] {
		if dist := d.Position.DistanceTo(p); dist < bestDist || (dist == bestDist && d.ID < best.ID) {
			best, bestDist = d, dist
		}
	}
	return best
}

// Drones returns the live drones. The slice is reused by the next Advance.
func (s *Scene) Drones() []*game.Drone { return s.drones }

func (s *Scene) Bullets() []*Bullet { return s.bullets }

// Cleared reports whether every spawned drone was shot down. Drones that
// rammed the ship do not count.
func (s *Scene) Cleared() bool {
	return s.spawned > 0 && s.destroyed == s.spawned
}

// Stats returns spawned and destroyed drone counts.
func (s *Scene) Stats() (spawned, destroyed int) { return s.spawned, s.destroyed }
