package server

import (
	"BridgeSim/internal/config"
	"BridgeSim/internal/physics"
)

// resolvePhysicsParams layers configured overrides over the defaults.
func resolvePhysicsParams(cfg *config.Config) physics.Params {
	return cfg.Physics.Apply(physics.DefaultParams())
}
