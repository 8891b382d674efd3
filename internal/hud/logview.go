package hud

import (
	"time"

	"github.com/rs/zerolog"

	"BridgeSim/internal/game"
)

// LogView is the headless HUD: it reports ship status to the logger every
// few frames and logs presentation events.
type LogView struct {
	every uint64
	log   zerolog.Logger
}

func NewLogView(logger zerolog.Logger, every int) *LogView {
	if every < 1 {
		every = 60
	}
	return &LogView{every: uint64(every), log: logger.With().Str("component", "hud").Logger()}
}

func (v *LogView) Render(frame uint64, dt time.Duration, ship game.ShipView, alert game.AlertLevel) {
	if frame%v.every != 0 {
		return
	}
	v.log.Info().
		Uint64("frame", frame).
		Dur("dt", dt).
		Float64("hull", ship.Hull).
		Float64("sif", ship.SIF.Strength).
		Float64("output", ship.Boosters.Output).
		Float64("speed", ship.Speed()).
		Stringer("alert", alert).
		Msg("status")
}

func (v *LogView) SetViewscreenBorder(level game.AlertLevel) {
	v.log.Info().Stringer("alert", level).Msg("viewscreen border")
}

func (v *LogView) FlashViewscreen(level game.AlertLevel) {
	v.log.Debug().Stringer("alert", level).Msg("viewscreen flash")
}

func (v *LogView) ShowGuideModal(entries []game.HelpEntry) {
	for _, e := range entries {
		v.log.Info().Str("command", e.Command).Str("args", e.Arguments).Msg(e.Description)
	}
}

func (v *LogView) ShowGameOverBanner(victory bool) {
	if victory {
		v.log.Info().Msg("MISSION COMPLETE")
		return
	}
	v.log.Warn().Msg("SHIP DESTROYED")
}

// Fanout delivers each HUD frame to every observer in order.
type Fanout []game.HUD

func (f Fanout) Render(frame uint64, dt time.Duration, ship game.ShipView, alert game.AlertLevel) {
	for _, h := range f {
		if h != nil {
			h.Render(frame, dt, ship, alert)
		}
	}
}
