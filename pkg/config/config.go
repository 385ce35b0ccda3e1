package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// EnvPrefix is prepended to every environment override, e.g. RAYTRACER_SAMPLES
const EnvPrefix = "RAYTRACER"

// RenderSettings is the user-facing render configuration
type RenderSettings struct {
	Scene     string `yaml:"scene" mapstructure:"scene"`
	SceneFile string `yaml:"scene_file" mapstructure:"scene_file"`
	Output    string `yaml:"output" mapstructure:"output"`

	Width      int    `yaml:"width" mapstructure:"width"`
	Height     int    `yaml:"height" mapstructure:"height"`
	Samples    int    `yaml:"samples" mapstructure:"samples"`
	MaxDepth   int    `yaml:"max_depth" mapstructure:"max_depth"`
	Workers    int    `yaml:"workers" mapstructure:"workers"`
	Seed       uint64 `yaml:"seed" mapstructure:"seed"`
	SeedMode   string `yaml:"seed_mode" mapstructure:"seed_mode"`
	Jitter     bool   `yaml:"jitter" mapstructure:"jitter"`
	Integrator string `yaml:"integrator" mapstructure:"integrator"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() RenderSettings {
	opts := renderer.DefaultOptions()
	return RenderSettings{
		Scene:      "default",
		Output:     "",
		Width:      opts.Width,
		Height:     opts.Height,
		Samples:    opts.SamplesPerPixel,
		MaxDepth:   opts.MaxDepth,
		Workers:    opts.NumWorkers,
		Seed:       opts.Seed,
		SeedMode:   string(opts.SeedMode),
		Jitter:     opts.Jitter,
		Integrator: opts.Integrator,
	}
}

// New returns a viper instance with defaults and environment overrides registered
func New() *viper.Viper {
	v := viper.New()
	defaults := DefaultSettings()

	v.SetDefault("scene", defaults.Scene)
	v.SetDefault("scene_file", defaults.SceneFile)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("width", defaults.Width)
	v.SetDefault("height", defaults.Height)
	v.SetDefault("samples", defaults.Samples)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("seed_mode", defaults.SeedMode)
	v.SetDefault("jitter", defaults.Jitter)
	v.SetDefault("integrator", defaults.Integrator)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds every flag in the set to the setting of the same name.
// Dashes in flag names map to underscores in setting keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ReplaceAll(flag.Name, "-", "_")
		if err := v.BindPFlag(key, flag); err != nil {
			bindErr = fmt.Errorf("error binding flag %s: %w", flag.Name, err)
		}
	})
	return bindErr
}

// Load reads the optional config file and decodes the merged settings.
// Precedence is flags, then environment, then file, then defaults.
func Load(v *viper.Viper, configFile string) (*RenderSettings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var settings RenderSettings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &settings, nil
}

// RenderOptions converts the settings into renderer options
func (s *RenderSettings) RenderOptions() renderer.Options {
	return renderer.Options{
		Width:           s.Width,
		Height:          s.Height,
		SamplesPerPixel: s.Samples,
		MaxDepth:        s.MaxDepth,
		NumWorkers:      s.Workers,
		Seed:            s.Seed,
		SeedMode:        renderer.SeedMode(s.SeedMode),
		Jitter:          s.Jitter,
		Integrator:      s.Integrator,
	}
}
