package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is one setting in config.toml.
type Key struct {
	Section string
	Name    string
	Desc    string
	value   func(Config) any
}

// Path returns the dotted name, e.g. "scale.max_weight".
func (k Key) Path() string { return k.Section + "." + k.Name }

// Value returns the key's value in c as a TOML literal.
func (k Key) Value(c Config) string { return tomlLiteral(k.value(c)) }

// Default returns the key's default as a TOML literal.
func (k Key) Default() string { return k.Value(DefaultConfig()) }

// Keys lists every setting in file order.
var Keys = []Key{
	{"scale", "max_weight", "grams read at full pressure", func(c Config) any { return c.Scale.MaxWeight }},
	{"scale", "sensitivity", "curve steepness, higher reads heavier under a light touch", func(c Config) any { return c.Scale.Sensitivity }},
	{"scale", "precision", "rounding step in grams, also sets the displayed decimals", func(c Config) any { return c.Scale.Precision }},

	{"tuning", "exponent_floor", "lower bound on sensitivity in the curve exponent", func(c Config) any { return c.Tuning.ExponentFloor }},
	{"tuning", "alpha_base", "filter coefficient at sensitivity 0", func(c Config) any { return c.Tuning.AlphaBase }},
	{"tuning", "alpha_gain", "filter coefficient added per unit of sensitivity", func(c Config) any { return c.Tuning.AlphaGain }},
	{"tuning", "alpha_cap", "upper bound on the filter coefficient", func(c Config) any { return c.Tuning.AlphaCap }},
	{"tuning", "noise_std", "sensor noise in grams at sensitivity 1", func(c Config) any { return c.Tuning.NoiseStd }},
	{"tuning", "area_reference", "contact radius product that reads as area factor 1", func(c Config) any { return c.Tuning.AreaReference }},
	{"tuning", "area_factor_max", "largest contact area factor", func(c Config) any { return c.Tuning.AreaFactorMax }},
	{"tuning", "smoothing", "low-pass filter pressure readings as well as placed objects", func(c Config) any { return c.Tuning.Smoothing }},

	{"demo", "step", "pressure change per demo step", func(c Config) any { return c.Demo.Step }},
	{"demo", "interval_ms", "milliseconds between demo steps", func(c Config) any { return c.Demo.IntervalMs }},

	{"simulate", "interval_ms", "milliseconds between re-reads, also the run tick", func(c Config) any { return c.Simulate.IntervalMs }},
	{"simulate", "ticks", "re-reads per simulate run", func(c Config) any { return c.Simulate.Ticks }},

	{"log", "enabled", "store every reading in the weigh log", func(c Config) any { return c.Log.Enabled }},
	{"log", "path", "weigh log database", func(c Config) any { return c.Log.Path }},

	{"trace", "dir", "recorded and archived traces", func(c Config) any { return c.Trace.Dir }},
	{"trace", "compress", "zstd-compress traces started with run --save", func(c Config) any { return c.Trace.Compress }},
}

// Sections returns the table names of Keys in file order.
func Sections() []string {
	var out []string
	for _, k := range Keys {
		if len(out) == 0 || out[len(out)-1] != k.Section {
			out = append(out, k.Section)
		}
	}
	return out
}

// Encode renders c as a commented config.toml.
func Encode(c Config) string {
	var b strings.Builder
	b.WriteString("# touch-scale configuration. Edits apply while tscale is running.\n")
	section := ""
	for _, k := range Keys {
		if k.Section != section {
			section = k.Section
			fmt.Fprintf(&b, "\n[%s]\n", section)
		}
		fmt.Fprintf(&b, "# %s\n%s = %s\n", k.Desc, k.Name, k.Value(c))
	}
	return b.String()
}

func tomlLiteral(v any) string {
	switch v := v.(type) {
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
