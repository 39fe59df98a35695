package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/suykerbuyk/touch-scale/internal/estimator"
)

// Config holds all touch-scale configuration.
type Config struct {
	Scale    ScaleConfig    `toml:"scale"`
	Tuning   TuningConfig   `toml:"tuning"`
	Demo     DemoConfig     `toml:"demo"`
	Simulate SimulateConfig `toml:"simulate"`
	Log      LogConfig      `toml:"log"`
	Trace    TraceConfig    `toml:"trace"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
	// Fixes lists the fields Sanitize replaced with defaults.
	Fixes []string `toml:"-"`
}

type ScaleConfig struct {
	MaxWeight   float64 `toml:"max_weight"`
	Sensitivity float64 `toml:"sensitivity"`
	Precision   float64 `toml:"precision"`
}

type TuningConfig struct {
	ExponentFloor float64 `toml:"exponent_floor"`
	AlphaBase     float64 `toml:"alpha_base"`
	AlphaGain     float64 `toml:"alpha_gain"`
	AlphaCap      float64 `toml:"alpha_cap"`
	NoiseStd      float64 `toml:"noise_std"`
	AreaReference float64 `toml:"area_reference"`
	AreaFactorMax float64 `toml:"area_factor_max"`
	Smoothing     bool    `toml:"smoothing"`
}

type DemoConfig struct {
	Step       float64 `toml:"step"`
	IntervalMs int     `toml:"interval_ms"`
}

type SimulateConfig struct {
	IntervalMs int `toml:"interval_ms"`
	Ticks      int `toml:"ticks"`
}

type LogConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type TraceConfig struct {
	Dir      string `toml:"dir"`
	Compress bool   `toml:"compress"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	s := estimator.DefaultSettings()
	t := estimator.DefaultTuning()
	return Config{
		Scale: ScaleConfig{
			MaxWeight:   s.MaxWeight,
			Sensitivity: s.Sensitivity,
			Precision:   s.Precision,
		},
		Tuning: TuningConfig{
			ExponentFloor: t.ExponentFloor,
			AlphaBase:     t.AlphaBase,
			AlphaGain:     t.AlphaGain,
			AlphaCap:      t.AlphaCap,
			NoiseStd:      t.NoiseStd,
			AreaReference: t.AreaReference,
			AreaFactorMax: t.AreaFactorMax,
			Smoothing:     t.Smoothing,
		},
		Demo: DemoConfig{
			Step:       0.03,
			IntervalMs: 20,
		},
		Simulate: SimulateConfig{
			IntervalMs: 100,
			Ticks:      50,
		},
		Log: LogConfig{
			Enabled: false,
			Path:    "~/.local/share/touch-scale/weighlog.db",
		},
		Trace: TraceConfig{
			Dir:      "~/.local/share/touch-scale/traces",
			Compress: true,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	cfg := DefaultConfig()
	cfg.finish()
	return cfg, nil
}

// LoadFile reads config from path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Path = path
	cfg.finish()
	return cfg, nil
}

func (c *Config) finish() {
	c.Fixes = c.Sanitize()
	c.Log.Path = expandHome(c.Log.Path)
	c.Trace.Dir = expandHome(c.Trace.Dir)
}

// Sanitize replaces out-of-domain values with their defaults and returns
// the names of the fields it replaced. It never fails.
func (c *Config) Sanitize() []string {
	d := DefaultConfig()
	var fixes []string

	fixFloat := func(name string, v *float64, ok func(float64) bool, def float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) || !ok(*v) {
			*v = def
			fixes = append(fixes, name)
		}
	}
	fixInt := func(name string, v *int, def int) {
		if *v <= 0 {
			*v = def
			fixes = append(fixes, name)
		}
	}
	pos := func(v float64) bool { return v > 0 }
	nonNeg := func(v float64) bool { return v >= 0 }
	unit := func(v float64) bool { return v > 0 && v < 1 }

	fixFloat("scale.max_weight", &c.Scale.MaxWeight, pos, d.Scale.MaxWeight)
	fixFloat("scale.sensitivity", &c.Scale.Sensitivity, pos, d.Scale.Sensitivity)
	fixFloat("scale.precision", &c.Scale.Precision, pos, d.Scale.Precision)

	fixFloat("tuning.exponent_floor", &c.Tuning.ExponentFloor, pos, d.Tuning.ExponentFloor)
	fixFloat("tuning.alpha_base", &c.Tuning.AlphaBase, unit, d.Tuning.AlphaBase)
	fixFloat("tuning.alpha_gain", &c.Tuning.AlphaGain, nonNeg, d.Tuning.AlphaGain)
	fixFloat("tuning.alpha_cap", &c.Tuning.AlphaCap, unit, d.Tuning.AlphaCap)
	fixFloat("tuning.noise_std", &c.Tuning.NoiseStd, nonNeg, d.Tuning.NoiseStd)
	fixFloat("tuning.area_reference", &c.Tuning.AreaReference, pos, d.Tuning.AreaReference)
	fixFloat("tuning.area_factor_max", &c.Tuning.AreaFactorMax, func(v float64) bool { return v >= 1 }, d.Tuning.AreaFactorMax)

	fixFloat("demo.step", &c.Demo.Step, func(v float64) bool { return v > 0 && v <= 1 }, d.Demo.Step)
	fixInt("demo.interval_ms", &c.Demo.IntervalMs, d.Demo.IntervalMs)
	fixInt("simulate.interval_ms", &c.Simulate.IntervalMs, d.Simulate.IntervalMs)
	fixInt("simulate.ticks", &c.Simulate.Ticks, d.Simulate.Ticks)

	if strings.TrimSpace(c.Log.Path) == "" {
		c.Log.Path = d.Log.Path
		fixes = append(fixes, "log.path")
	}
	if strings.TrimSpace(c.Trace.Dir) == "" {
		c.Trace.Dir = d.Trace.Dir
		fixes = append(fixes, "trace.dir")
	}

	return fixes
}

// Settings returns the estimator settings this config describes.
func (c Config) Settings() estimator.Settings {
	return estimator.Settings{
		MaxWeight:   c.Scale.MaxWeight,
		Sensitivity: c.Scale.Sensitivity,
		Precision:   c.Scale.Precision,
	}.Normalize()
}

// EstimatorTuning returns the estimator tuning this config describes.
func (c Config) EstimatorTuning() estimator.Tuning {
	return estimator.Tuning{
		ExponentFloor: c.Tuning.ExponentFloor,
		AlphaBase:     c.Tuning.AlphaBase,
		AlphaGain:     c.Tuning.AlphaGain,
		AlphaCap:      c.Tuning.AlphaCap,
		NoiseStd:      c.Tuning.NoiseStd,
		AreaReference: c.Tuning.AreaReference,
		AreaFactorMax: c.Tuning.AreaFactorMax,
		Smoothing:     c.Tuning.Smoothing,
	}.Normalize()
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "touch-scale", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "touch-scale", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
