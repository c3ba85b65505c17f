// Antimony
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Antimony.
//
// Antimony is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Antimony is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Antimony.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/antimony/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ANTIMONY_CFG"
	AppEnv        = "ANTIMONY_APP"
)

var ErrSchemaMismatch = errors.New("config schema version mismatch")

type Values struct {
	Store        Store    `toml:"store,omitempty"`
	Assets       Assets   `toml:"assets,omitempty"`
	Timer        Timer    `toml:"timer,omitempty"`
	Presence     Presence `toml:"presence,omitempty"`
	Playtime     Playtime `toml:"playtime,omitempty"`
	Service      Service  `toml:"service,omitempty"`
	ConfigSchema int      `toml:"config_schema"`
	DebugLogging bool     `toml:"debug_logging"`
}

type Store struct {
	Path string `toml:"path,omitempty"`
}

type Assets struct {
	Dir string `toml:"dir,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Timer: Timer{
		Accounting: AccountingTicks,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads config.toml from configDir, or from $ANTIMONY_CFG when
// set. A missing file is created from defaults. Values in the file are
// layered over defaults.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := cmp.Or(os.Getenv(CfgEnv), filepath.Join(configDir, CfgFile))
	log.Debug().Str("path", cfgPath).Msg("loading config")

	cfg := &Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	_, err := os.Stat(cfgPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info().Str("path", cfgPath).Msg("writing default config")
		if err := os.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load rereads the config file over the defaults.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	vals := c.defaults
	if err := toml.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", c.cfgPath, err)
	}
	if vals.ConfigSchema != SchemaVersion {
		log.Error().Int("got", vals.ConfigSchema).Int("want", SchemaVersion).
			Msg("config schema version mismatch")
		return fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, vals.ConfigSchema, SchemaVersion)
	}

	c.vals = vals
	return nil
}

// Save writes the current values. The file is replaced atomically so a
// crash never leaves a truncated config.
func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion
	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.cfgPath), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to chmod temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.cfgPath); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

// StorePath returns the path of the game record document. A relative
// configured path is resolved against dataDir.
func (c *Instance) StorePath(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return resolvePath(dataDir, c.vals.Store.Path, StoreFile)
}

// AssetsPath returns the directory holding banner images and fonts.
func (c *Instance) AssetsPath(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return resolvePath(dataDir, c.vals.Assets.Dir, AssetsDir)
}

func resolvePath(baseDir, configured, fallback string) string {
	if configured == "" {
		return filepath.Join(baseDir, fallback)
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(baseDir, configured)
}
