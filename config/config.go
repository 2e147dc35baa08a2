// Package config loads settings from a YAML file, a .env file, the
// environment, and command-line overrides, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "uitranscriber"
	envPrefix = "UITRANSCRIBER"
)

const (
	TUIAuto = "auto"
	TUIOn   = "on"
	TUIOff  = "off"
)

type Config struct {
	Output      string        `mapstructure:"output"`
	Interpreter string        `mapstructure:"interpreter"`
	ScriptName  string        `mapstructure:"script_name"`
	Pause       float64       `mapstructure:"pause"`
	LogPath     string        `mapstructure:"log_path"`
	TUI         string        `mapstructure:"tui"`
	Beep        bool          `mapstructure:"beep"`
	Hybrid      bool          `mapstructure:"hybrid"`
	LongPress   time.Duration `mapstructure:"long_press"`
	Debug       bool          `mapstructure:"debug"`

	FlushOnStop      bool `mapstructure:"flush_on_stop"`
	RepeatAllSpecial bool `mapstructure:"repeat_all_special"`
	EscapeText       bool `mapstructure:"escape_text"`
	RecordOnStart    bool `mapstructure:"record_on_start"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

var defaults = map[string]any{
	"output":             "transcribed.py",
	"interpreter":        "python",
	"script_name":        "transcribed.py",
	"pause":              0.5,
	"log_path":           "",
	"tui":                TUIAuto,
	"beep":               true,
	"hybrid":             true,
	"long_press":         350 * time.Millisecond,
	"debug":              false,
	"flush_on_stop":      false,
	"repeat_all_special": false,
	"escape_text":        false,
	"record_on_start":    false,
}

// Keys lists every recognised setting.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return keys
}

var ErrInvalid = errors.New("invalid configuration")

type Options struct {
	// File is an explicit config file; it must exist.
	File string
	// EnvFile is an explicit .env file; when empty ./.env is used if present.
	EnvFile string
	// SearchPaths replaces the default config file locations when non-nil.
	SearchPaths []string
	// Overrides win over every other source, typically flags the user set.
	Overrides map[string]any
}

// DefaultSearchPaths are tried in order when no file is given.
func DefaultSearchPaths() []string {
	paths := []string{"./" + appName + ".yml", "./" + appName + ".yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, appName, "config.yml"))
	}
	return paths
}

func Load(opts Options) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	file := opts.File
	if file != "" {
		if !exists(file) {
			return Config{}, fmt.Errorf("config file %s: %w", file, os.ErrNotExist)
		}
	} else {
		search := opts.SearchPaths
		if search == nil {
			search = DefaultSearchPaths()
		}
		for _, p := range search {
			if exists(p) {
				file = p
				break
			}
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" && exists(".env") {
		envFile = ".env"
	}
	if envFile != "" {
		// does not override variables already in the environment
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = file
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Interpreter == "":
		return fmt.Errorf("%w: interpreter is empty", ErrInvalid)
	case c.Pause < 0:
		return fmt.Errorf("%w: pause %v is negative", ErrInvalid, c.Pause)
	case c.LongPress <= 0:
		return fmt.Errorf("%w: long_press must be positive", ErrInvalid)
	}
	switch c.TUI {
	case TUIAuto, TUIOn, TUIOff:
	default:
		return fmt.Errorf("%w: tui must be auto, on or off, got %q", ErrInvalid, c.TUI)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
