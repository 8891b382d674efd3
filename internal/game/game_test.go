package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickRunsStagesInOrder(t *testing.T) {
	h := newHarness()
	h.game.Ship().Cannons.Fore.Power = 1
	h.game.AddFunction(BehaviorFunc(func(*Game) bool {
		h.log.add("behavior")
		return true
	}))

	require.NoError(t, h.game.Tick())
	assert.Equal(t, []string{
		"boosters", "sif", "rotation", "velocity",
		"fire",
		"behavior",
		"render", "hud", "audio",
	}, h.log.calls)
}

func TestBehaviorsSeeFrameNumberBeforeClockUpdate(t *testing.T) {
	h := newHarness()
	var seen []uint64
	h.game.AddFunction(BehaviorFunc(func(g *Game) bool {
		seen = append(seen, g.FrameNumber())
		return len(seen) == 3
	}))
	for i := 0; i < 3; i++ {
		require.NoError(t, h.game.Tick())
	}
	assert.Equal(t, []uint64{0, 1, 2}, seen)
}

func TestTickSchedulesNextFrameBeforeWork(t *testing.T) {
	h := newHarness()
	h.game.AddFunction(BehaviorFunc(func(*Game) bool {
		assert.True(t, h.scheduler.Pending(), "next frame requested before behaviors run")
		return true
	}))
	require.NoError(t, h.game.Tick())
	assert.Equal(t, 1, h.scheduler.Requests)

	h.step(10)
	assert.Equal(t, uint64(11), h.game.FrameNumber())
}

func TestFramePanicKeepsLoopScheduled(t *testing.T) {
	h := newHarness()
	h.game.renderer = panickyRenderer{h.renderer}

	assert.NotPanics(t, func() { h.game.frame() })
	assert.True(t, h.scheduler.Pending())
}

type panickyRenderer struct{ *fakeRenderer }

func (panickyRenderer) Render(uint64, time.Duration, ShipView) { panic("renderer lost context") }

func TestTickWithoutShipIsFatal(t *testing.T) {
	h := newHarness()
	h.game.ship = nil

	err := h.game.Tick()
	assert.ErrorIs(t, err, ErrNoShip)
	assert.ErrorIs(t, h.game.Err(), ErrNoShip)
	assert.False(t, h.scheduler.Pending())
	assert.Empty(t, h.log.calls)
}

func TestDefeatShownOnceAndLoopStops(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.game.Tick())
	h.step(2)
	frozen := h.game.FrameNumber()
	require.Equal(t, uint64(3), frozen)

	h.physics.gameOver = true
	h.step(1)
	assert.False(t, h.scheduler.Pending(), "no further frames scheduled")
	assert.Equal(t, []bool{false}, h.present.banners)
	assert.True(t, h.game.Over())

	require.NoError(t, h.game.Tick())
	assert.Equal(t, []bool{false}, h.present.banners, "banner shown exactly once")
	assert.Equal(t, frozen, h.game.FrameNumber())
}

func TestVictoryBannerCarriesFlag(t *testing.T) {
	h := newHarness()
	h.game.SetVictory(true)
	h.physics.gameOver = true

	require.NoError(t, h.game.Tick())
	assert.Equal(t, []bool{true}, h.present.banners)
	assert.Zero(t, h.game.FrameNumber())
}

func TestRunTicksThenHandsOffToConsole(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.game.Run(context.Background()))

	assert.Equal(t, uint64(1), h.game.FrameNumber())
	assert.Equal(t, 1, h.console.replCalls)
	assert.True(t, h.scheduler.Pending())
}

func TestRunWithoutShipSkipsConsole(t *testing.T) {
	h := newHarness()
	h.game.ship = nil

	err := h.game.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoShip)
	assert.Zero(t, h.console.replCalls)
}

func TestNewFillsMissingCollaborators(t *testing.T) {
	g := New(Options{Ship: NewShip()})
	require.NoError(t, g.Tick())
	g.SetAlert(AlertRed)
	g.Guide(GuideModal)
	g.SpawnTargetDrone()
	require.NoError(t, g.Tick())
	assert.Equal(t, uint64(2), g.FrameNumber())
}

func TestHUDAndAudioSeeSnapshotNotShip(t *testing.T) {
	h := newHarness()
	h.game.Ship().Hull = 42
	require.NoError(t, h.game.Tick())

	require.Len(t, h.hud.views, 1)
	require.Len(t, h.audio.views, 1)
	assert.Equal(t, 42.0, h.hud.views[0].Hull)
	assert.Equal(t, 42.0, h.audio.views[0].Hull)

	h.hud.views[0].Hull = 0
	h.hud.views[0].Fore.Power = 9
	h.hud.views[0].Fore.Rotation.Y = 1
	h.audio.views[0].Hull = 0
	h.audio.views[0].Aft.Power = 9
	assert.Equal(t, 42.0, h.game.Ship().Hull)
	assert.Zero(t, h.game.Ship().Cannons.Fore.Power)
	assert.Zero(t, h.game.Ship().Cannons.Fore.Rotation.Y)
	assert.Zero(t, h.game.Ship().Cannons.Aft.Power)

	h.game.Ship().Hull = 40
	assert.Equal(t, 42.0, h.audio.views[0].Hull, "views do not track later ship changes")
}
