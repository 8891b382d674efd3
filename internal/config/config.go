package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"BridgeSim/internal/physics"
)

const (
	FileName  = "bridgesim.cfg.json"
	EnvPrefix = "BRIDGESIM"
)

type HUDConfig struct {
	Mode     string `mapstructure:"mode"` // terminal | log
	LogEvery int    `mapstructure:"logEvery"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

type InfluxConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	Token      string `mapstructure:"token"`
	Org        string `mapstructure:"org"`
	Bucket     string `mapstructure:"bucket"`
	Every      int    `mapstructure:"every"`
	BackupPath string `mapstructure:"backupPath"`
}

type DroneConfig struct {
	Initial int `mapstructure:"initial"`
}

type Config struct {
	LogLevel   string  `mapstructure:"logLevel"`
	LogFile    string  `mapstructure:"logFile"`
	Addr       string  `mapstructure:"addr"`
	FrameRate  float64 `mapstructure:"frameRate"`
	ViewerRate float64 `mapstructure:"viewerRate"`
	Debug      bool    `mapstructure:"debug"`

	HUD     HUDConfig          `mapstructure:"hud"`
	Audio   AudioConfig        `mapstructure:"audio"`
	Influx  InfluxConfig       `mapstructure:"influx"`
	Drones  DroneConfig        `mapstructure:"drones"`
	Physics physics.Overrides `mapstructure:"physics"`
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"log-level":   "logLevel",
	"log-file":    "logFile",
	"addr":        "addr",
	"frame-rate":  "frameRate",
	"viewer-rate": "viewerRate",
	"debug":       "debug",
	"hud":         "hud.mode",
	"audio":       "audio.enabled",
	"influx":      "influx.enabled",
	"drones":      "drones.initial",
}

// Flags defines the command-line overrides on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("config-dir", ".", "directory holding "+FileName)
	fs.String("log-level", "info", "TRACE, DEBUG, INFO, WARN or ERROR")
	fs.String("log-file", "", "also write logs to this file")
	fs.String("addr", ":8080", "viewer stream listen address")
	fs.Float64("frame-rate", 60, "frames per second")
	fs.Float64("viewer-rate", 20, "viewer snapshots per second")
	fs.Bool("debug", false, "trace every frame")
	fs.String("hud", "terminal", "terminal or log")
	fs.Bool("audio", false, "play sound through the system speaker")
	fs.Bool("influx", false, "write frame stats to InfluxDB")
	fs.Int("drones", 3, "target drones launched at start")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")
	v.SetDefault("addr", ":8080")
	v.SetDefault("frameRate", 60)
	v.SetDefault("viewerRate", 20)
	v.SetDefault("debug", false)

	v.SetDefault("hud.mode", "terminal")
	v.SetDefault("hud.logEvery", 60)

	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.volume", 0.8)

	v.SetDefault("influx.enabled", false)
	v.SetDefault("influx.url", "http://localhost:8086")
	v.SetDefault("influx.token", "")
	v.SetDefault("influx.org", "bridgesim")
	v.SetDefault("influx.bucket", "frames")
	v.SetDefault("influx.every", 30)
	v.SetDefault("influx.backupPath", "")

	v.SetDefault("drones.initial", 3)
}

// Load reads defaults, then the optional config file in dir, then
// BRIDGESIM_* environment variables, then any flags set on fs.
func Load(dir string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flag, key := range flagKeys {
			f := fs.Lookup(flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.HUD.Mode {
	case "terminal", "log":
	default:
		return fmt.Errorf("hud.mode %q: want terminal or log", c.HUD.Mode)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frameRate %v: must be positive", c.FrameRate)
	}
	if c.ViewerRate < 0 {
		return fmt.Errorf("viewerRate %v: must not be negative", c.ViewerRate)
	}
	if c.Drones.Initial < 0 {
		return fmt.Errorf("drones.initial %d: must not be negative", c.Drones.Initial)
	}
	return nil
}
