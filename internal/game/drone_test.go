package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnTargetDroneAheadOfCamera(t *testing.T) {
	h := newHarness()
	h.renderer.camera = CameraView{Position: Vec3{X: 10, Y: 0, Z: 0}}

	d := h.game.SpawnTargetDrone()
	require.Len(t, h.renderer.tracked, 1)
	assert.Same(t, d, h.renderer.tracked[0])
	assert.True(t, d.Alive)
	assert.Equal(t, 1.0, d.XDir)
	assert.InDelta(t, 10, d.Position.X, 1e-9)
	assert.InDelta(t, -droneSpawnDistance, d.Position.Z, 1e-9)
	assert.Equal(t, 1, h.game.Behaviors())
}

func TestSpawnFollowsCameraOrientation(t *testing.T) {
	h := newHarness()
	h.renderer.camera = CameraView{Rotation: Vec3{Y: math.Pi / 2}}

	d := h.game.SpawnTargetDrone()
	// yawed a quarter turn, the camera's -Z points along -X
	assert.InDelta(t, -droneSpawnDistance, d.Position.X, 1e-9)
	assert.InDelta(t, 0, d.Position.Z, 1e-9)
}

func TestDroneClosesInWithinApproachRadius(t *testing.T) {
	h := newHarness()
	d := h.game.SpawnTargetDrone()
	require.InDelta(t, 50, d.Position.Len(), 1e-9)

	require.NoError(t, h.game.Tick())
	assert.InDelta(t, 50-droneApproachStep, d.Position.Len(), 1e-9)
}

func TestDroneStopsAtCamera(t *testing.T) {
	h := newHarness()
	d := &Drone{Position: Vec3{Z: -2}, XDir: 1, Alive: true}
	h.game.AddFunction(droneSeek{drone: d})

	require.NoError(t, h.game.Tick())
	assert.InDelta(t, 0, d.Position.Len(), 1e-9)
}

func TestDroneSwaysWhenFar(t *testing.T) {
	h := newHarness()
	d := &Drone{Position: Vec3{Z: -1000}, XDir: 1, Alive: true}
	h.game.AddFunction(droneSeek{drone: d})

	require.NoError(t, h.game.Tick())
	// frame 0: no vertical sway, full lateral step
	assert.Zero(t, d.YTranslate)
	assert.Equal(t, droneLateralStep, d.XTranslate)
	assert.InDelta(t, droneLateralStep, d.Position.X, 1e-9)
	assert.Equal(t, 1.0, d.XDir)
}

func TestDroneFlipsDirectionOnLowRoll(t *testing.T) {
	h := newHarness()
	h.game.rand = func() float64 { return 0.05 }
	d := &Drone{Position: Vec3{Z: -1000}, XDir: 1, Alive: true}
	h.game.AddFunction(droneSeek{drone: d})

	require.NoError(t, h.game.Tick())
	assert.Equal(t, -1.0, d.XDir)
	assert.InDelta(t, droneLateralStep, d.Position.X, 1e-9, "flip applies from the next frame")

	require.NoError(t, h.game.Tick())
	assert.Equal(t, 1.0, d.XDir)
}

func TestDroneSwayScalesWithTimeDelta(t *testing.T) {
	h := newHarness()
	for i := 0; i < 10; i++ {
		require.NoError(t, h.game.Tick())
	}
	d := &Drone{Position: Vec3{Z: -1000}, XDir: 1, Alive: true}
	h.game.AddFunction(droneSeek{drone: d})
	require.NoError(t, h.game.Tick())

	want := math.Sin(10.0/droneSwayPeriod) * 16 * droneSwayScale
	assert.InDelta(t, want, d.YTranslate, 1e-9)
	assert.InDelta(t, want, d.Position.Y, 1e-9)
}

func TestDroneBehaviorRetiresWhenKilled(t *testing.T) {
	h := newHarness()
	d := h.game.SpawnTargetDrone()
	require.NoError(t, h.game.Tick())
	assert.Equal(t, 1, h.game.Behaviors())

	d.Alive = false
	before := d.Position
	require.NoError(t, h.game.Tick())
	assert.Zero(t, h.game.Behaviors())
	assert.Equal(t, before, d.Position)
}

func TestDroneIDsIncrease(t *testing.T) {
	h := newHarness()
	a := h.game.SpawnTargetDrone()
	b := h.game.SpawnTargetDrone()
	assert.Less(t, a.ID, b.ID)
}
