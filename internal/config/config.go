// Package config loads fgen CLI settings from defaults, an optional YAML file
// and FGEN_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const EnvPrefix = "FGEN"

type Config struct {
	LogLevel         string `mapstructure:"log_level"`
	Scenario         string `mapstructure:"scenario"`
	Out              string `mapstructure:"out"`
	WAV              string `mapstructure:"wav"`
	WAVRate          int    `mapstructure:"wav_rate"`
	SampleRate       int    `mapstructure:"sample_rate"`
	Mode             string `mapstructure:"mode"`
	Play             bool   `mapstructure:"play"`
	HoldReset        bool   `mapstructure:"hold_reset"`
	LegacyDoubleTick bool   `mapstructure:"legacy_double_tick"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("scenario", "")
	v.SetDefault("out", "")
	v.SetDefault("wav", "")
	// One sample per 1 ms host tick.
	v.SetDefault("wav_rate", 1000)
	v.SetDefault("sample_rate", 48000)
	v.SetDefault("mode", "lut")
	v.SetDefault("play", false)
	v.SetDefault("hold_reset", false)
	v.SetDefault("legacy_double_tick", false)
}

var ErrInvalid = errors.New("config: invalid value")

// Load reads path (if not empty) and the environment into a Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate %d", ErrInvalid, c.SampleRate)
	}
	if c.WAVRate <= 0 {
		return fmt.Errorf("%w: wav_rate %d", ErrInvalid, c.WAVRate)
	}
	return nil
}
