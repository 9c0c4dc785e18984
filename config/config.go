// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"strings"
	"time"

	"github.com/clipreel/clipreel/constant"
	"github.com/clipreel/clipreel/filesystem"
	"github.com/clipreel/clipreel/key"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Clipreel)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Clipreel)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// Playback assembles the controller tolerances from the current settings.
func Playback() playback.Config {
	ms := func(k string) time.Duration {
		return time.Duration(viper.GetInt(k)) * time.Millisecond
	}

	return playback.Config{
		EndEpsilon:            viper.GetFloat64(key.PlaybackEndEpsilon),
		RestartGuard:          viper.GetFloat64(key.PlaybackRestartGuard),
		SeekDebounce:          time.Duration(viper.GetFloat64(key.PlaybackSeekDebounce) * float64(time.Second)),
		SeekTolerance:         viper.GetFloat64(key.PlaybackSeekTolerance),
		SeekSettle:            ms(key.PlaybackSeekSettleMs),
		PlayDelay:             ms(key.PlaybackPlayDelayMs),
		SeekAckTimeout:        ms(key.PlaybackSeekAckTimeoutMs),
		SkipPreviousThreshold: viper.GetFloat64(key.PlaybackSkipPreviousThreshold),
	}
}
