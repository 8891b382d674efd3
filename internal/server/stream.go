package server

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"BridgeSim/internal/game"
	"BridgeSim/internal/scene"
)

// Status is the latest frame summary served on "/".
type Status struct {
	Version   string  `json:"version"`
	Frame     uint64  `json:"frame"`
	Stardate  float64 `json:"stardate"`
	Alert     string  `json:"alert"`
	Hull      float64 `json:"hull"`
	Speed     float64 `json:"speed"`
	Drones    int     `json:"drones"`
	Destroyed int     `json:"destroyed"`
	Viewers   int     `json:"viewers"`
}

// StreamRenderer implements game.Renderer. It keeps the scene in step with
// the ship and streams protobuf snapshots to websocket viewers.
type StreamRenderer struct {
	scene    *scene.Scene
	hub      *Hub
	interval time.Duration
	now      func() time.Time
	lastSent time.Time
	game     *game.Game
	onEvents func(scene.Events)
	log      zerolog.Logger

	mu     sync.RWMutex
	status Status
}

// NewStreamRenderer sends at most rate snapshots per second; rate 0 sends every frame.
func NewStreamRenderer(sc *scene.Scene, hub *Hub, rate float64, logger zerolog.Logger) *StreamRenderer {
	var interval time.Duration
	if rate > 0 {
		interval = time.Duration(float64(time.Second) / rate)
	}
	return &StreamRenderer{
		scene:    sc,
		hub:      hub,
		interval: interval,
		now:      time.Now,
		log:      logger.With().Str("component", "renderer").Logger(),
		status:   Status{Version: game.Version},
	}
}

// Attach gives the renderer read access to alert and stardate. It is only
// consulted from inside Render.
func (r *StreamRenderer) Attach(g *game.Game) { r.game = g }

// OnEvents registers the collision callback. It runs on the loop goroutine.
func (r *StreamRenderer) OnEvents(fn func(scene.Events)) { r.onEvents = fn }

func (r *StreamRenderer) Camera() game.CameraView { return r.scene.Camera() }

func (r *StreamRenderer) Track(d *game.Drone) { r.scene.Track(d) }

func (r *StreamRenderer) FireBullet(c game.CannonView) {
	b := r.scene.FireBullet(c)
	r.log.Debug().Int64("bullet", b.ID).Str("mount", c.Mount).Msg("bullet away")
}

func (r *StreamRenderer) Render(frame uint64, dt time.Duration, ship game.ShipView) {
	ev := r.scene.Advance(ship)
	if !ev.Empty() && r.onEvents != nil {
		r.onEvents(ev)
	}

	alert, stardate := game.AlertNone, 0.0
	if r.game != nil {
		alert, stardate = r.game.Alert(), r.game.Stardate()
	}
	_, destroyed := r.scene.Stats()
	st := Status{
		Version:   game.Version,
		Frame:     frame,
		Stardate:  stardate,
		Alert:     alert.String(),
		Hull:      ship.Hull,
		Speed:     ship.Speed(),
		Drones:    len(r.scene.Drones()),
		Destroyed: destroyed,
	}
	if r.hub != nil {
		st.Viewers = r.hub.Viewers()
	}
	r.mu.Lock()
	r.status = st
	r.mu.Unlock()

	if r.hub == nil || st.Viewers == 0 {
		return
	}
	now := r.now()
	if r.interval > 0 && now.Sub(r.lastSent) < r.interval {
		return
	}
	data, err := r.encode(frame, dt, ship, st)
	if err != nil {
		r.log.Error().Err(err).Uint64("frame", frame).Msg("encode snapshot")
		return
	}
	r.lastSent = now
	r.hub.Broadcast(data)
}

func vec(v game.Vec3) []any { return []any{v.X, v.Y, v.Z} }

func (r *StreamRenderer) encode(frame uint64, dt time.Duration, ship game.ShipView, st Status) ([]byte, error) {
	drones := make([]any, 0, len(r.scene.Drones()))
	for _, d := range r.scene.Drones() {
		drones = append(drones, map[string]any{"id": d.ID, "pos": vec(d.Position)})
	}
	bullets := make([]any, 0, len(r.scene.Bullets()))
	for _, b := range r.scene.Bullets() {
		bullets = append(bullets, map[string]any{"id": b.ID, "mount": b.Mount, "pos": vec(b.Position)})
	}
	cannon := func(c game.CannonView) map[string]any {
		return map[string]any{"x": c.Rotation.X, "y": c.Rotation.Y}
	}

	s, err := structpb.NewStruct(map[string]any{
		"frame":     frame,
		"timeDelta": float64(dt) / float64(time.Millisecond),
		"stardate":  st.Stardate,
		"alert":     st.Alert,
		"ship": map[string]any{
			"pos":      vec(ship.Position),
			"rot":      vec(ship.Rotation),
			"vel":      vec(ship.Velocity),
			"hull":     ship.Hull,
			"sif":      ship.SIF.Strength,
			"output":   ship.Boosters.Output,
			"fore":     cannon(ship.Fore),
			"aft":      cannon(ship.Aft),
			"complete": ship.MissionComplete,
		},
		"drones":  drones,
		"bullets": bullets,
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// Status returns the latest frame summary. Safe from any goroutine.
func (r *StreamRenderer) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}
