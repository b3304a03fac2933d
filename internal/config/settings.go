package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment overrides, e.g. RAV_JOIN.
	EnvPrefix = "RAV"
	// DefaultProjectFile is the project file looked up in the working directory.
	DefaultProjectFile = "rav.yaml"
	// DefaultJoin joins the commands of a script.
	DefaultJoin = " && "
	// ShellVirtual selects the built-in shell interpreter.
	ShellVirtual = "virtual"
)

// Settings are the runtime options of one invocation. They come from flags,
// RAV_* environment variables and defaults, in that order of precedence.
type Settings struct {
	File       string `mapstructure:"file"`
	Join       string `mapstructure:"join"`
	Verbose    bool   `mapstructure:"verbose"`
	Traceback  bool   `mapstructure:"traceback"`
	Debug      bool   `mapstructure:"debug"`
	Shell      string `mapstructure:"shell"`
	StagingDir string `mapstructure:"staging_dir"`
}

// DefaultStagingDir is the shared directory downloads are verified in.
func DefaultStagingDir() string {
	return filepath.Join(os.TempDir(), "rav_downloads")
}

// DefaultSettings returns the settings used when nothing is overridden.
func DefaultSettings() Settings {
	return Settings{
		File:       DefaultProjectFile,
		Join:       DefaultJoin,
		StagingDir: DefaultStagingDir(),
	}
}

// NewViper returns a viper instance with defaults and RAV_* environment
// binding. Callers bind their flags onto it before LoadSettings.
func NewViper() *viper.Viper {
	v := viper.New()
	defaults := DefaultSettings()
	v.SetDefault("file", defaults.File)
	v.SetDefault("join", defaults.Join)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("traceback", defaults.Traceback)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("shell", defaults.Shell)
	v.SetDefault("staging_dir", defaults.StagingDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings unmarshals and validates the settings held by v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.File == "" {
		s.File = DefaultProjectFile
	}
	if s.StagingDir == "" {
		s.StagingDir = DefaultStagingDir()
	}
	// Shell is "", "virtual", or a shell executable name/path.
	if strings.ContainsAny(s.Shell, " \t\n") {
		return Settings{}, fmt.Errorf("invalid shell %q: expected an executable name or %q", s.Shell, ShellVirtual)
	}
	return s, nil
}
