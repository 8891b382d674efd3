package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAlert = errors.New("unknown alert level")

type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertYellow
	AlertRed
)

func (a AlertLevel) String() string {
	switch a {
	case AlertNone:
		return "none"
	case AlertYellow:
		return "yellow"
	case AlertRed:
		return "red"
	}
	return fmt.Sprintf("alert(%d)", int(a))
}

func ParseAlertLevel(s string) (AlertLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "":
		return AlertNone, nil
	case "yellow":
		return AlertYellow, nil
	case "red":
		return AlertRed, nil
	}
	return AlertNone, fmt.Errorf("%w: %q", ErrUnknownAlert, s)
}

// alertFlash drives the viewscreen flash and klaxon for one alert transition.
// It retires on the first pass after any later transition.
type alertFlash struct {
	level AlertLevel
	epoch uint64
}

func (a alertFlash) Run(g *Game) bool {
	if g.alertEpoch != a.epoch || g.alert != a.level {
		return true
	}
	frame := g.clock.Frame
	switch a.level {
	case AlertYellow:
		if frame%alertFlashEvery == 0 {
			g.presentation.FlashViewscreen(AlertYellow)
			g.audio.PlaySound(SoundYellowAlert)
		}
	case AlertRed:
		if frame%alertFlashEvery == 0 {
			g.presentation.FlashViewscreen(AlertRed)
		}
		if frame%redAlertSoundEvery == 0 {
			g.audio.PlaySound(SoundRedAlert)
		}
	default:
		return true
	}
	return false
}

// SetAlert switches the alert level unconditionally. Yellow and red install a
// flashing behavior; none restores the neutral viewscreen border.
func (g *Game) SetAlert(level AlertLevel) {
	g.alert = level
	g.alertEpoch++
	switch level {
	case AlertNone:
		g.presentation.SetViewscreenBorder(AlertNone)
	case AlertYellow, AlertRed:
		g.queue.Add(alertFlash{level: level, epoch: g.alertEpoch})
	}
	g.log.Info().Stringer("alert", level).Msg("alert level changed")
}

func (g *Game) Alert() AlertLevel { return g.alert }
