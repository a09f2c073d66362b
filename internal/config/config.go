// Package config layers defaults, an optional YAML file, DECAY_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/halflife/internal/decay"
	"github.com/Makepad-fr/halflife/internal/export"
	"github.com/Makepad-fr/halflife/internal/isotope"
)

const EnvPrefix = "DECAY"

// Config is the resolved set of options for one run.
type Config struct {
	Theme     string  `mapstructure:"theme"`
	Isotope   string  `mapstructure:"isotope"`
	N0        float64 `mapstructure:"n0"`
	Unit      string  `mapstructure:"unit"`
	HalfLives float64 `mapstructure:"half_lives"`
	Samples   int     `mapstructure:"samples"`
	LogScale  bool    `mapstructure:"log_scale"`
	Precision int     `mapstructure:"precision"`
	Activity  bool    `mapstructure:"activity"`
	ExportDir string  `mapstructure:"export_dir"`
	Color     bool    `mapstructure:"color"`
	NoColor   bool    `mapstructure:"no_color"`

	Log Log `mapstructure:"log"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Range of the time axis, in half-lives.
const (
	MinHalfLives  = 0.5
	MaxHalfLives  = 10.0
	HalfLivesStep = 0.5
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", "classic")
	v.SetDefault("isotope", "C-14")
	v.SetDefault("n0", 1e6)
	v.SetDefault("unit", "years")
	v.SetDefault("half_lives", 5.0)
	v.SetDefault("samples", 600)
	v.SetDefault("log_scale", false)
	v.SetDefault("precision", export.DefaultPrecision)
	v.SetDefault("activity", false)
	v.SetDefault("export_dir", ".")
	v.SetDefault("color", false)
	v.SetDefault("no_color", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// RegisterFlags adds the root flags to fs. Flag names use dashes; the keys
// they bind to use underscores.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("theme", "classic", "color theme: classic, neon or mono")
	fs.String("isotope", "C-14", "isotope selected at start")
	fs.Float64("n0", 1e6, "initial number of nuclei N0")
	fs.String("unit", "years", "time unit: seconds, minutes, hours, days, years")
	fs.Float64("half-lives", 5, "time range in multiples of the half-life (0.5-10)")
	fs.Int("samples", 600, "number of samples on the time grid")
	fs.Bool("log-scale", false, "logarithmic scale")
	fs.Int("precision", export.DefaultPrecision, "significant digits in CSV output, 1-17 (-1 = shortest)")
	fs.Bool("activity", false, "add the activity column λ·N(t) to CSV output")
	fs.String("export-dir", ".", "directory CSV exports are written to")
	fs.Bool("color", false, "force colored output")
	fs.Bool("no-color", false, "disable colored output")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-file", "", "write logs to this file")
}

var flagKeys = map[string]string{
	"half-lives": "half_lives",
	"log-scale":  "log_scale",
	"export-dir": "export_dir",
	"no-color":   "no_color",
	"log-level":  "log.level",
	"log-file":   "log.file",
}

// Load resolves the configuration. fs must already be parsed; a nil fs
// means defaults, file and environment only.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			key := f.Name
			if k, ok := flagKeys[f.Name]; ok {
				key = k
			}
			if err := v.BindPFlag(key, f); err != nil {
				bindErr = errors.Join(bindErr, fmt.Errorf("bind flag %s: %w", f.Name, err))
			}
		})
		if bindErr != nil {
			return Config{}, bindErr
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		errs = append(errs, fmt.Errorf("theme: unknown theme %q", c.Theme))
	}
	if _, err := isotope.ParseTimeUnit(c.Unit); err != nil {
		errs = append(errs, fmt.Errorf("unit: %w", err))
	}
	if math.IsNaN(c.N0) || c.N0 <= 0 {
		errs = append(errs, fmt.Errorf("n0: must be positive, got %v", c.N0))
	}
	if c.HalfLives < MinHalfLives || c.HalfLives > MaxHalfLives {
		errs = append(errs, fmt.Errorf("half_lives: must be within [%v, %v], got %v", MinHalfLives, MaxHalfLives, c.HalfLives))
	}
	if c.Samples < decay.MinSamples || c.Samples > decay.MaxSamples {
		errs = append(errs, fmt.Errorf("samples: must be within [%d, %d], got %d", decay.MinSamples, decay.MaxSamples, c.Samples))
	}
	if c.Precision != export.ShortestPrecision && (c.Precision < 1 || c.Precision > export.MaxPrecision) {
		errs = append(errs, fmt.Errorf("precision: must be -1 (shortest) or within [1, %d], got %d", export.MaxPrecision, c.Precision))
	}
	if c.Color && c.NoColor {
		errs = append(errs, errors.New("color and no_color are mutually exclusive"))
	}
	return errors.Join(errs...)
}

// TimeUnit returns the parsed Unit. Call after Validate.
func (c Config) TimeUnit() isotope.TimeUnit {
	u, err := isotope.ParseTimeUnit(c.Unit)
	if err != nil {
		return isotope.Years
	}
	return u
}

// Params builds the calculator inputs for rec from c.
func (c Config) Params(rec isotope.Record) decay.Params {
	u := c.TimeUnit()
	return decay.Params{
		N0:       c.N0,
		MaxTime:  decay.HalfLives(rec, c.HalfLives, u),
		Samples:  c.Samples,
		LogScale: c.LogScale,
		Unit:     u,
	}
}

// ExportOptions returns the CSV options for a computation with decay constant lambda.
func (c Config) ExportOptions(lambda float64) export.Options {
	return export.Options{Precision: c.Precision, Activity: c.Activity, Lambda: lambda}
}
