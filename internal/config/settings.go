package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Settings holds tool-wide preferences. Profiles live in their own files or
// in the store; this file only says how the tool behaves.
type Settings struct {
	General GeneralSettings `toml:"general"`
	Log     LogSettings     `toml:"log"`
	Engine  EngineSettings  `toml:"engine"`
}

// GeneralSettings holds paths and output defaults
type GeneralSettings struct {
	DBPath        string `toml:"db_path" env:"DB_PATH"`
	DefaultFormat string `toml:"default_format" env:"FORMAT"`
	OutputDir     string `toml:"output_dir" env:"OUTPUT_DIR"`
}

// LogSettings configures the zap logger
type LogSettings struct {
	Level    string `toml:"level" env:"LOG_LEVEL"`       // debug, info, warn, error
	Encoding string `toml:"encoding" env:"LOG_ENCODING"` // console or json
}

// EngineSettings selects the projection policies
type EngineSettings struct {
	UnknownMethodPolicy string `toml:"unknown_method_policy" env:"UNKNOWN_METHOD_POLICY"` // skip or reject
	NetWorth            string `toml:"net_worth" env:"NET_WORTH"`                         // net or gross
	Debug               bool   `toml:"debug" env:"DEBUG"`
}

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PROJECTOR_"

// DefaultSettings returns sensible defaults
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			DBPath:        filepath.Join(DataDir(), "projector.db"),
			DefaultFormat: "console",
			OutputDir:     ".",
		},
		Log: LogSettings{
			Level:    "warn",
			Encoding: "console",
		},
		Engine: EngineSettings{
			UnknownMethodPolicy: "skip",
			NetWorth:            "net",
		},
	}
}

// DataDir returns the projector data directory
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "projector")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "projector")
}

// SettingsPath returns the settings file path
func SettingsPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "projector", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "projector", "config.toml")
}

// LoadSettings reads the settings file at path, falling back to defaults when
// it does not exist, then applies environment overrides.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading settings: %w", err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing settings: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from PROJECTOR_* environment variables.
// Unset variables leave the current value alone.
func ApplyEnv(cfg *Settings) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// SaveSettings writes the settings to path
func SaveSettings(path string, cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}
