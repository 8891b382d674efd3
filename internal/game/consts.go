package game

import "math"

const (
	Version = "0.2.2"

	SlewLimit = math.Pi / 64 // max cannon aim change per axis per frame

	ShipMaxHull = 100.0
	SIFMax      = 100.0
	SIFRegen    = 0.25 // per frame

	alertFlashEvery    = 30 // frames between viewscreen flashes
	redAlertSoundEvery = 15

	DroneRadius         = 50.0
	droneSpawnDistance  = 50.0
	droneApproachRadius = 500.0
	droneApproachStep   = 5.0
	droneSwayPeriod     = 20.0
	droneSwayScale      = 0.1
	droneLateralStep    = 3.0
	droneFlipChance     = 0.1

	frameHistoryLen = 60
)

const (
	SoundBullet      = "bullet"
	SoundYellowAlert = "yellow-alert"
	SoundRedAlert    = "red-alert"
)

const (
	MountFore = "fore"
	MountAft  = "aft"
)
