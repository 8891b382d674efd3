package game

import (
	"context"
	"time"
)

// Physics advances the ship's flight model. Each update mutates the ship in place.
type Physics interface {
	UpdateBoosters(s *Ship)
	UpdateStructuralIntegrityFields(s *Ship)
	UpdateRotation(s *Ship)
	UpdateVelocities(s *Ship)
	IsGameOver(v ShipView) bool
}

// CameraView is the renderer's camera as seen by game logic.
type CameraView struct {
	Position Vec3
	Rotation Vec3
}

type Renderer interface {
	Render(frame uint64, dt time.Duration, ship ShipView)
	FireBullet(cannon CannonView)
	Camera() CameraView
	// Track adds a drone to the renderer's drone list and spatial index.
	Track(d *Drone)
}

type HUD interface {
	Render(frame uint64, dt time.Duration, ship ShipView, alert AlertLevel)
}

type Audio interface {
	Update(frame uint64, dt time.Duration, ship ShipView)
	PlaySound(name string)
}

type Console interface {
	REPL(ctx context.Context) error
	ShowHelp(command, arguments, description string)
}

// Presentation is the UI surface outside the renderer: viewscreen border,
// guide dialog and the game-over banner.
type Presentation interface {
	SetViewscreenBorder(level AlertLevel)
	FlashViewscreen(level AlertLevel)
	ShowGuideModal(entries []HelpEntry)
	ShowGameOverBanner(victory bool)
}

// Scheduler runs fn before the next display refresh.
type Scheduler interface {
	RequestFrame(fn func())
}

type nopPhysics struct{}

func (nopPhysics) UpdateBoosters(*Ship)                  {}
func (nopPhysics) UpdateStructuralIntegrityFields(*Ship) {}
func (nopPhysics) UpdateRotation(*Ship)                  {}
func (nopPhysics) UpdateVelocities(*Ship)                {}
func (nopPhysics) IsGameOver(ShipView) bool              { return false }

type nopRenderer struct{}

func (nopRenderer) Render(uint64, time.Duration, ShipView) {}
func (nopRenderer) FireBullet(CannonView)                  {}
func (nopRenderer) Camera() CameraView                     { return CameraView{} }
func (nopRenderer) Track(*Drone)                           {}

type nopHUD struct{}

func (nopHUD) Render(uint64, time.Duration, ShipView, AlertLevel) {}

type nopAudio struct{}

func (nopAudio) Update(uint64, time.Duration, ShipView) {}
func (nopAudio) PlaySound(string)                       {}

type nopConsole struct{}

func (nopConsole) REPL(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
func (nopConsole) ShowHelp(string, string, string) {}

type nopPresentation struct{}

func (nopPresentation) SetViewscreenBorder(AlertLevel) {}
func (nopPresentation) FlashViewscreen(AlertLevel)     {}
func (nopPresentation) ShowGuideModal([]HelpEntry)     {}
func (nopPresentation) ShowGameOverBanner(bool)        {}
