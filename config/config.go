// This file is part of Switchboard.
//
// Switchboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Switchboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Switchboard.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads and saves the user's preferences as a TOML file in
// the user's configuration directory. A missing file is not an error: the
// defaults are written out on first run so the user has something to
// edit.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tregarth/switchboard/curated"
)

const (
	configDir  = "switchboard"
	configFile = "switchboard.toml"
)

// Config is the whole of the user's preferences.
type Config struct {
	Input    Input    `toml:"input"`
	Platform Platform `toml:"platform"`
	Log      Log      `toml:"log"`
}

// Input tunes the noise-filtering engine.
type Input struct {
	// the magnitude below which a filtered control's change is treated
	// as noise
	Epsilon float32 `toml:"epsilon"`

	// the dead zone applied to analog sticks by the platform backends
	DeadZoneMin float32 `toml:"dead_zone_min"`
	DeadZoneMax float32 `toml:"dead_zone_max"`
}

// Platform selects and tunes the platform backend.
type Platform struct {
	// "sdl" or "evdev". evdev is only available on linux
	Backend string `toml:"backend"`

	// forward rumble commands to the hardware
	EnableRumble bool `toml:"enable_rumble"`
}

// Log controls where log entries go.
type Log struct {
	// echo log entries to stderr as they happen
	Echo bool `toml:"echo"`
}

// Default returns the preferences used in the absence of a config file.
func Default() *Config {
	return &Config{
		Input: Input{
			Epsilon:     0.0001,
			DeadZoneMin: 0.125,
			DeadZoneMax: 0.925,
		},
		Platform: Platform{
			Backend:      "sdl",
			EnableRumble: true,
		},
		Log: Log{
			Echo: false,
		},
	}
}

// Path returns the location of the config file: the configDir directory
// inside the user's configuration directory, which is host OS dependent.
// See the os.UserConfigDir() documentation for details.
func Path() (string, error) {
	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", curated.Errorf("config: %v", err)
	}
	return filepath.Join(cnf, configDir, configFile), nil
}

// Load reads the preferences at path. If the file does not exist the
// defaults are saved there and returned. The returned Config is usable
// even when the error is not nil.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, curated.Errorf("config: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// Save writes the preferences to path, creating the directory if
// necessary.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return curated.Errorf("config: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf("config: %v", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return curated.Errorf("config: %v", err)
	}

	return nil
}

func (cfg *Config) validate() error {
	if cfg.Input.Epsilon < 0 {
		return curated.Errorf("config: epsilon must not be negative")
	}
	if cfg.Input.DeadZoneMin < 0 || cfg.Input.DeadZoneMax <= cfg.Input.DeadZoneMin {
		return curated.Errorf("config: dead zone range [%f, %f] is invalid",
			cfg.Input.DeadZoneMin, cfg.Input.DeadZoneMax)
	}
	switch cfg.Platform.Backend {
	case "sdl", "evdev":
	default:
		return curated.Errorf("config: unknown backend (%s)", cfg.Platform.Backend)
	}
	return nil
}
