package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoShip means the game was ticked without a ship. It is a setup bug and
// ends the session.
var ErrNoShip = errors.New("no ship object to work with")

type Options struct {
	Ship         *Ship
	Physics      Physics
	Renderer     Renderer
	HUD          HUD
	Audio        Audio
	Console      Console
	Presentation Presentation
	Scheduler    Scheduler
	Help         []HelpEntry

	Now    func() time.Time // wall clock, defaults to time.Now
	Rand   func() float64   // [0,1) source for drone jitter
	Logger *zerolog.Logger
}

// Game is the per-frame orchestrator. Everything except Add, Post and Tick
// itself must run on the loop goroutine: inside a behavior, a Post callback,
// or before the first frame is scheduled.
type Game struct {
	mu sync.Mutex // one tick at a time

	ship         *Ship
	physics      Physics
	renderer     Renderer
	hud          HUD
	audio        Audio
	console      Console
	presentation Presentation
	scheduler    Scheduler

	queue      *BehaviorQueue
	clock      *FrameClock
	alert      AlertLevel
	alertEpoch uint64
	victory    bool
	over       bool
	debug      bool
	err        error
	help       []HelpEntry

	nextDroneID int64
	rand        func() float64
	log         zerolog.Logger
	trace       zerolog.Logger
	metrics     *gameMetrics
}

func New(opts Options) *Game {
	g := &Game{
		ship:         opts.Ship,
		physics:      opts.Physics,
		renderer:     opts.Renderer,
		hud:          opts.HUD,
		audio:        opts.Audio,
		console:      opts.Console,
		presentation: opts.Presentation,
		scheduler:    opts.Scheduler,
		queue:        NewBehaviorQueue(),
		clock:        NewFrameClock(opts.Now),
		rand:         opts.Rand,
	}
	if g.physics == nil {
		g.physics = nopPhysics{}
	}
	if g.renderer == nil {
		g.renderer = nopRenderer{}
	}
	if g.hud == nil {
		g.hud = nopHUD{}
	}
	if g.audio == nil {
		g.audio = nopAudio{}
	}
	if g.console == nil {
		g.console = nopConsole{}
	}
	if g.presentation == nil {
		g.presentation = nopPresentation{}
	}
	if g.scheduler == nil {
		g.scheduler = NewManualScheduler()
	}
	if g.rand == nil {
		g.rand = rand.Float64
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	g.log = logger.With().Str("component", "game").Logger()
	g.trace = g.log.Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      10 * time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})

	metrics, err := newGameMetrics(g.queue)
	if err != nil {
		g.log.Warn().Err(err).Msg("metrics disabled")
	}
	g.metrics = metrics

	g.SetHelp(opts.Help)
	return g
}

// Tick runs one frame. The next frame is requested before any of this
// frame's work so a failure in the body does not stop the loop. Once the
// end-game check passes, nothing further is scheduled.
func (g *Game) Tick() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ship == nil {
		g.err = ErrNoShip
		g.log.Error().Err(ErrNoShip).Uint64("frame", g.clock.Frame).Msg("tick aborted")
		return ErrNoShip
	}

	if g.physics.IsGameOver(g.ship.Snapshot()) {
		if !g.over {
			g.over = true
			g.presentation.ShowGameOverBanner(g.victory)
			g.log.Info().Bool("victory", g.victory).Uint64("frame", g.clock.Frame).Msg("game over")
		}
		return nil
	}
	g.scheduler.RequestFrame(g.frame)

	g.physics.UpdateBoosters(g.ship)
	g.physics.UpdateStructuralIntegrityFields(g.ship)
	g.physics.UpdateRotation(g.ship)
	g.physics.UpdateVelocities(g.ship)
	g.updateCannons()

	g.runCustomFunctions()
	g.updateVariables()
	g.metrics.frame()

	// animation after logic, audio last of all
	frame, dt := g.clock.Frame, g.clock.TimeDelta
	view := g.ship.Snapshot()
	g.renderer.Render(frame, dt, view)
	g.hud.Render(frame, dt, view, g.alert)
	g.audio.Update(frame, dt, view)

	if g.debug {
		g.trace.Debug().Uint64("frame", frame).Dur("dt", dt).Int("behaviors", g.queue.Len()).Msg("tick")
	}
	return nil
}

// frame is the callback handed to the scheduler.
func (g *Game) frame() {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Interface("panic", r).Uint64("frame", g.clock.Frame).Msg("frame aborted")
		}
	}()
	_ = g.Tick()
}

// Run performs the first tick and then hands control to the console until
// it returns or ctx ends.
func (g *Game) Run(ctx context.Context) error {
	g.log.Info().Str("version", Version).Msg("bridge online")
	if err := g.Tick(); err != nil {
		return err
	}
	return g.console.REPL(ctx)
}

func (g *Game) Ship() *Ship { return g.ship }

func (g *Game) SetVictory(v bool) { g.victory = v }

func (g *Game) Victory() bool { return g.victory }

// Over reports whether the end-game check has fired.
func (g *Game) Over() bool { return g.over }

// Err returns the fatal error that stopped the loop, if any.
func (g *Game) Err() error { return g.err }

func (g *Game) SetDebug(on bool) { g.debug = on }

func (g *Game) FrameNumber() uint64 { return g.clock.Frame }

func (g *Game) TimeDelta() time.Duration { return g.clock.TimeDelta }

func (g *Game) Stardate() float64 { return g.clock.Stardate }

func (g *Game) FPS() float64 { return g.clock.FPS() }

// Behaviors counts live behavior entries.
func (g *Game) Behaviors() int { return g.queue.Len() }
