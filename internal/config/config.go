// Package config loads SPECTRE's ambient process settings: log level, the
// data directory root and its per-root overrides, and supervisor tuning
// (poll interval, restart ceiling). This is distinct from captureconfig's
// CaptureConfig, which describes one capture session, not the process.
//
// Grounded on the teacher's internal/config/config.go Load/initViper
// pattern (YAML file + environment, via viper), trimmed of every
// BirdNET/species-specific field.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Settings is SPECTRE's process-wide ambient configuration.
type Settings struct {
	Debug bool `mapstructure:"debug"`

	Log struct {
		Level string `mapstructure:"level"` // debug, info, warn, error
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"log"`

	Data struct {
		Dir      string `mapstructure:"dir"`
		Batches  string `mapstructure:"batches_dir"`
		Logs     string `mapstructure:"logs_dir"`
		Configs  string `mapstructure:"configs_dir"`
	} `mapstructure:"data"`

	Supervisor struct {
		PollInterval time.Duration `mapstructure:"poll_interval"`
		MaxRestarts  int           `mapstructure:"max_restarts"`
	} `mapstructure:"supervisor"`
}

// SlogLevel parses Log.Level, defaulting to info on an empty or unknown value.
func (s *Settings) SlogLevel() slog.Level {
	switch s.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaults() Settings {
	var s Settings
	s.Log.Level = "info"
	s.Supervisor.PollInterval = time.Second
	s.Supervisor.MaxRestarts = 3
	return s
}

// Load reads config.yaml from the default search paths, overlays
// SPECTRE_*-prefixed environment variables (SPECTRE_DATA_DIR_PATH,
// SPECTRE_BATCHES_DIR_PATH, SPECTRE_LOGS_DIR_PATH, SPECTRE_CONFIGS_DIR_PATH —
// renamed from the original source's CHUNKS/LOGS/CONFIGS variables to match
// this spec's "batches" terminology), and unmarshals the result.
func Load() (*Settings, error) {
	s := defaults()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	for _, path := range defaultConfigPaths() {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("SPECTRE")
	v.AutomaticEnv()
	_ = v.BindEnv("data.dir", "SPECTRE_DATA_DIR_PATH")
	_ = v.BindEnv("data.batches_dir", "SPECTRE_BATCHES_DIR_PATH")
	_ = v.BindEnv("data.logs_dir", "SPECTRE_LOGS_DIR_PATH")
	_ = v.BindEnv("data.configs_dir", "SPECTRE_CONFIGS_DIR_PATH")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: unmarshal settings: %w", err)
	}
	return &s, nil
}

func defaultConfigPaths() []string {
	var out []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "windows":
			out = append(out, filepath.Join(homeDir, "AppData", "Local", "spectre"))
		default:
			out = append(out, filepath.Join(homeDir, ".config", "spectre"), "/etc/spectre")
		}
	}
	return append(out, ".")
}
