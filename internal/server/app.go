package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"BridgeSim/internal/audio"
	"BridgeSim/internal/config"
	"BridgeSim/internal/console"
	"BridgeSim/internal/game"
	"BridgeSim/internal/hud"
	"BridgeSim/internal/logging"
	"BridgeSim/internal/physics"
	"BridgeSim/internal/scene"
	"BridgeSim/internal/telemetry"
)

const shutdownWait = 3 * time.Second

// AppIO lets callers replace the process streams. Zero values mean
// stdin, stdout and stderr.
type AppIO struct {
	In     io.Reader
	Out    io.Writer
	LogOut io.Writer
	// Screen is used in terminal mode instead of opening the real terminal.
	Screen tcell.Screen
	// Ready receives the bound viewer address once the listener is up.
	Ready chan<- string
}

// StartApp wires the bridge together and runs it until the console quits,
// ctx ends or the loop stops with a fatal error.
func StartApp(ctx context.Context, cfg *config.Config, aio AppIO) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if aio.In == nil {
		aio.In = os.Stdin
	}
	if aio.Out == nil {
		aio.Out = os.Stdout
	}
	if aio.LogOut == nil {
		aio.LogOut = os.Stderr
	}

	var logFile io.Writer
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}

	// terminal mode draws logs and console output into the screen
	var (
		term    *hud.Terminal
		hudView game.HUD
		present game.Presentation
	)
	if cfg.HUD.Mode == "terminal" {
		screen := aio.Screen
		if screen == nil {
			s, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			screen = s
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		term = hud.NewTerminal(screen, cancel)
		term.Start(ctx)
		aio.In, aio.Out, aio.LogOut = term.Input(), term, term
	}

	logger := logging.Setup(cfg.LogLevel, aio.LogOut, logFile)
	log := logger.With().Str("component", "app").Logger()

	if term != nil {
		hudView, present = term, term
	} else {
		view := hud.NewLogView(logger, cfg.HUD.LogEvery)
		hudView, present = view, view
	}

	observers := hud.Fanout{hudView}
	if cfg.Influx.Enabled {
		sink, err := telemetry.Connect(ctx, telemetry.Config{
			URL:        cfg.Influx.URL,
			Token:      cfg.Influx.Token,
			Org:        cfg.Influx.Org,
			Bucket:     cfg.Influx.Bucket,
			Every:      cfg.Influx.Every,
			BackupPath: cfg.Influx.BackupPath,
		}, logger)
		if err != nil {
			log.Warn().Err(err).Msg("telemetry disabled")
		} else {
			defer sink.Close()
			observers = append(observers, sink)
		}
	}

	var sound game.Audio
	if cfg.Audio.Enabled {
		engine, err := audio.New(audio.Options{Speaker: true, Volume: cfg.Audio.Volume, Logger: &logger})
		if err != nil {
			log.Warn().Err(err).Msg("audio disabled")
		} else {
			defer engine.Close()
			sound = engine
		}
	}

	con := console.New(console.Options{In: aio.In, Out: aio.Out, Quit: cancel, Logger: &logger})
	hub := NewHub(con.ExecRemote, logger)
	defer hub.Close()
	renderer := NewStreamRenderer(scene.New(scene.DefaultConfig()), hub, cfg.ViewerRate, logger)
	ticker := game.NewFrameTicker(cfg.FrameRate)

	params := resolvePhysicsParams(cfg)
	g := game.New(game.Options{
		Ship:         game.NewShip(),
		Physics:      physics.New(params),
		Renderer:     renderer,
		HUD:          observers,
		Audio:        sound,
		Console:      con,
		Presentation: present,
		Scheduler:    ticker,
		Help:         con.Help(),
		Logger:       &logger,
	})
	g.SetDebug(cfg.Debug)
	con.Bind(g)
	renderer.Attach(g)
	renderer.OnEvents(collisionHandler(g, renderer, log))

	if n := cfg.Drones.Initial; n > 0 {
		g.Post(func(g *game.Game) {
			for i := 0; i < n; i++ {
				g.SpawnTargetDrone()
			}
		})
	}

	if cfg.Addr != "" {
		ln, err := net.Listen("tcp", cfg.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Addr, err)
		}
		srv := &http.Server{Handler: NewMux(hub, renderer.Status), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("viewer server stopped")
			}
		}()
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), shutdownWait)
			defer scancel()
			_ = srv.Shutdown(sctx)
		}()
		log.Info().Str("addr", ln.Addr().String()).
			Float64("marker", params.MarkerOutput).
			Float64("maxSpeed", params.MaxSpeed).
			Msg("viewer stream listening")
		if aio.Ready != nil {
			aio.Ready <- ln.Addr().String()
		}
	}

	ticker.Start(ctx)
	go func() {
		select {
		case <-ctx.Done():
		case <-ticker.Done():
			if term == nil || g.Err() != nil {
				cancel()
			}
		}
	}()

	if err := g.Run(ctx); err != nil {
		return err
	}
	// input ended; keep flying headless until quit, game over or shutdown
	<-ctx.Done()
	<-ticker.Done()
	return g.Err()
}

// collisionHandler turns scene events into game state changes. Hull damage
// and victory go through Post so they land in the next behavior pass.
func collisionHandler(g *game.Game, r *StreamRenderer, log zerolog.Logger) func(scene.Events) {
	return func(ev scene.Events) {
		for _, id := range ev.Destroyed {
			log.Info().Int64("drone", id).Msg("drone destroyed")
		}
		for _, c := range ev.Contacts {
			dmg := c.Damage
			log.Warn().Int64("drone", c.Drone).Float64("damage", dmg).Msg("drone impact")
			g.Post(func(g *game.Game) {
				s := g.Ship()
				s.Hull = max(s.Hull-dmg, 0)
			})
		}
		if r.scene.Cleared() {
			g.Post(func(g *game.Game) {
				if g.Ship().Hull > 0 {
					g.SetVictory(true)
					g.Ship().MissionComplete = true
				}
			})
		}
	}
}
