package scene

import (
	"math"

	"BridgeSim/internal/game"
)

type cellKey struct{ X, Y, Z int }

// cell holds the drones whose position falls inside one grid cube.
type cell struct {
	drones []*game.Drone
}

func (c *cell) add(d *game.Drone) {
	for _, have := range c.drones {
		if have == d {
			return
		}
	}
	c.drones = append(c.drones, d)
}

// remove swaps d with the last entry and shrinks the slice.
func (c *cell) remove(d *game.Drone) bool {
	for i, have := range c.drones {
		if have == d {
			last := len(c.drones) - 1
			c.drones[i] = c.drones[last]
			c.drones[last] = nil
			c.drones = c.drones[:last]
			return true
		}
	}
	return false
}

// Grid is a uniform spatial partition over drone positions.
type Grid struct {
	size  float64
	cells map[cellKey]*cell
	where map[*game.Drone]cellKey
}

func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		size:  cellSize,
		cells: make(map[cellKey]*cell),
		where: make(map[*game.Drone]cellKey),
	}
}

func (g *Grid) key(p game.Vec3) cellKey {
	return cellKey{
		X: int(math.Floor(p.X / g.size)),
		Y: int(math.Floor(p.Y / g.size)),
		Z: int(math.Floor(p.Z / g.size)),
	}
}

// Insert files d under its current position, moving it if it was indexed elsewhere.
func (g *Grid) Insert(d *game.Drone) {
	k := g.key(d.Position)
	if old, ok := g.where[d]; ok {
		if old == k {
			return
		}
		g.drop(d, old)
	}
	c := g.cells[k]
	if c == nil {
		c = &cell{}
		g.cells[k] = c
	}
	c.add(d)
	g.where[d] = k
}

func (g *Grid) Remove(d *game.Drone) {
	if k, ok := g.where[d]; ok {
		g.drop(d, k)
	}
}

func (g *Grid) drop(d *game.Drone, k cellKey) {
	if c := g.cells[k]; c != nil {
		c.remove(d)
		if len(c.drones) == 0 {
			delete(g.cells, k)
		}
	}
	delete(g.where, d)
}

// Rebuild re-files every live drone and forgets dead ones.
func (g *Grid) Rebuild(drones []*game.Drone) {
	for d := range g.where {
		if !d.Alive {
			g.Remove(d)
		}
	}
	for _, d := range drones {
		if d.Alive {
			g.Insert(d)
		}
	}
}

// Query returns live drones within radius of p.
func (g *Grid) Query(p game.Vec3, radius float64) []*game.Drone {
	lo := g.key(p.Sub(game.Vec3{X: radius, Y: radius, Z: radius}))
	hi := g.key(p.Add(game.Vec3{X: radius, Y: radius, Z: radius}))
	var out []*game.Drone
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				c := g.cells[cellKey{x, y, z}]
				if c == nil {
					continue
				}
				for _, d := range c.drones {
					if d.Alive && d.Position.DistanceTo(p) <= radius {
						out = append(out, d)
					}
				}
			}
		}
	}
	return out
}

// Len is the number of indexed drones.
func (g *Grid) Len() int { return len(g.where) }
