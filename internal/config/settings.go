package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/danieljhkim/loadout/internal/profile"
)

// EnvPrefix prefixes every settings environment variable, as in
// LOADOUT_LOG_LEVEL.
const EnvPrefix = "LOADOUT"

// ErrInvalidSettings is returned when a setting has an unusable value.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the user preferences read from config.toml and the
// environment.
type Settings struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	// DefaultsProfile is the id of the Defaults profile
	DefaultsProfile string `mapstructure:"defaults_profile"`

	// Interactive enables the terminal prompter for conflict resolution
	Interactive bool `mapstructure:"interactive"`

	// AddonDirs are extra manifest directories read before the user's own
	AddonDirs []string `mapstructure:"addon_dirs"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel:        "warn",
		DefaultsProfile: profile.DefaultsID,
		Interactive:     true,
		AddonDirs:       []string{},
	}
}

// LoadSettings reads settings from the TOML file at path, if it exists,
// with LOADOUT_* environment variables taking precedence.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("defaults_profile", defaults.DefaultsProfile)
	v.SetDefault("interactive", defaults.Interactive)
	v.SetDefault("addon_dirs", defaults.AddonDirs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values that viper cannot.
func (s *Settings) Validate() error {
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidSettings, s.LogLevel)
	}
	if strings.TrimSpace(s.DefaultsProfile) == "" {
		return fmt.Errorf("%w: defaults_profile is empty", ErrInvalidSettings)
	}
	return nil
}

// Level returns the parsed log level.
func (s *Settings) Level() log.Level {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}
