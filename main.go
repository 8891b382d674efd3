package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"BridgeSim/internal/config"
	"BridgeSim/internal/server"
)

func main() {
	fs := pflag.NewFlagSet("bridgesim", pflag.ExitOnError)
	config.Flags(fs)
	boosterRamp := fs.Float64("booster-ramp", math.NaN(), "override booster output change per frame")
	accel := fs.Float64("accel", math.NaN(), "override acceleration at full output")
	maxSpeed := fs.Float64("max-speed", math.NaN(), "override maximum speed")
	damping := fs.Float64("angular-damping", math.NaN(), "override angular damping (0-1)")
	marker := fs.Float64("sif-marker", math.NaN(), "override booster output the SIF sustains")
	kDrain := fs.Float64("sif-kdrain", math.NaN(), "override SIF drain scale above the marker")
	exp := fs.Float64("sif-exp", math.NaN(), "override SIF drain response exponent")
	bleed := fs.Float64("hull-bleed", math.NaN(), "override hull damage per unit of SIF deficit")
	_ = fs.Parse(os.Args[1:])

	dir, _ := fs.GetString("config-dir")
	cfg, err := config.Load(dir, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bridgesim:", err)
		os.Exit(2)
	}

	override := func(dst **float64, v *float64) {
		if !math.IsNaN(*v) {
			val := *v
			*dst = &val
		}
	}
	override(&cfg.Physics.BoosterRamp, boosterRamp)
	override(&cfg.Physics.Acceleration, accel)
	override(&cfg.Physics.MaxSpeed, maxSpeed)
	override(&cfg.Physics.AngularDamping, damping)
	override(&cfg.Physics.MarkerOutput, marker)
	override(&cfg.Physics.KDrain, kDrain)
	override(&cfg.Physics.Exp, exp)
	override(&cfg.Physics.HullBleed, bleed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = server.StartApp(ctx, cfg, server.AppIO{})
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "bridgesim:", err)
		os.Exit(1)
	}
}
