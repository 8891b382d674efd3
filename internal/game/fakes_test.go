package game

import (
	"context"
	"time"
)

type callLog struct{ calls []string }

func (c *callLog) add(s string) {
	if c != nil {
		c.calls = append(c.calls, s)
	}
}

type fakePhysics struct {
	log      *callLog
	gameOver bool
}

func (p *fakePhysics) UpdateBoosters(*Ship)                  { p.log.add("boosters") }
func (p *fakePhysics) UpdateStructuralIntegrityFields(*Ship) { p.log.add("sif") }
func (p *fakePhysics) UpdateRotation(*Ship)                  { p.log.add("rotation") }
func (p *fakePhysics) UpdateVelocities(*Ship)                { p.log.add("velocity") }
func (p *fakePhysics) IsGameOver(ShipView) bool              { return p.gameOver }

type fakeRenderer struct {
	log     *callLog
	camera  CameraView
	fired   []CannonView
	frames  []uint64
	tracked []*Drone
}

func (r *fakeRenderer) Render(frame uint64, _ time.Duration, _ ShipView) {
	r.log.add("render")
	r.frames = append(r.frames, frame)
}
func (r *fakeRenderer) FireBullet(c CannonView) {
	r.log.add("fire")
	r.fired = append(r.fired, c)
}
func (r *fakeRenderer) Camera() CameraView { return r.camera }
func (r *fakeRenderer) Track(d *Drone)     { r.tracked = append(r.tracked, d) }

type fakeHUD struct {
	log    *callLog
	alerts []AlertLevel
	frames []uint64
	views  []ShipView
}

func (h *fakeHUD) Render(frame uint64, _ time.Duration, v ShipView, alert AlertLevel) {
	h.log.add("hud")
	h.frames = append(h.frames, frame)
	h.alerts = append(h.alerts, alert)
	h.views = append(h.views, v)
}

type fakeAudio struct {
	log     *callLog
	sounds  []string
	updates int
	views   []ShipView
}

func (a *fakeAudio) Update(_ uint64, _ time.Duration, v ShipView) {
	a.log.add("audio")
	a.updates++
	a.views = append(a.views, v)
}
func (a *fakeAudio) PlaySound(name string) { a.sounds = append(a.sounds, name) }

func (a *fakeAudio) count(name string) int {
	n := 0
	for _, s := range a.sounds {
		if s == name {
			n++
		}
	}
	return n
}

type fakePresentation struct {
	borders []AlertLevel
	flashes []AlertLevel
	banners []bool
	modal   []HelpEntry
}

func (p *fakePresentation) SetViewscreenBorder(l AlertLevel) { p.borders = append(p.borders, l) }
func (p *fakePresentation) FlashViewscreen(l AlertLevel)     { p.flashes = append(p.flashes, l) }
func (p *fakePresentation) ShowGuideModal(e []HelpEntry)     { p.modal = e }
func (p *fakePresentation) ShowGameOverBanner(v bool)        { p.banners = append(p.banners, v) }

type fakeConsole struct {
	replCalls int
	help      []HelpEntry
}

func (c *fakeConsole) REPL(context.Context) error {
	c.replCalls++
	return nil
}
func (c *fakeConsole) ShowHelp(cmd, args, desc string) {
	c.help = append(c.help, HelpEntry{Command: cmd, Arguments: args, Description: desc})
}

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

type harness struct {
	game      *Game
	log       *callLog
	physics   *fakePhysics
	renderer  *fakeRenderer
	hud       *fakeHUD
	audio     *fakeAudio
	present   *fakePresentation
	console   *fakeConsole
	scheduler *ManualScheduler
	clock     *fakeClock
}

func newHarness() *harness {
	h := &harness{
		log:       &callLog{},
		present:   &fakePresentation{},
		console:   &fakeConsole{},
		scheduler: NewManualScheduler(),
		clock:     &fakeClock{t: time.Unix(1700000000, 0), step: 16 * time.Millisecond},
	}
	h.physics = &fakePhysics{log: h.log}
	h.renderer = &fakeRenderer{log: h.log}
	h.hud = &fakeHUD{log: h.log}
	h.audio = &fakeAudio{log: h.log}
	h.game = New(Options{
		Ship:         NewShip(),
		Physics:      h.physics,
		Renderer:     h.renderer,
		HUD:          h.hud,
		Audio:        h.audio,
		Console:      h.console,
		Presentation: h.present,
		Scheduler:    h.scheduler,
		Now:          h.clock.now,
		Rand:         func() float64 { return 0.5 },
	})
	return h
}

// step runs n scheduled frames.
func (h *harness) step(n int) {
	for i := 0; i < n; i++ {
		if !h.scheduler.Step() {
			return
		}
	}
}
