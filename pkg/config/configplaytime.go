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
	"fmt"
	"time"
)

const DefaultRetentionDays = 365

var defaultWarnings = []time.Duration{15 * time.Minute, 5 * time.Minute, time.Minute}

// Playtime holds the [playtime] table: the sqlite session log and the
// optional limit warnings shown while a game runs.
type Playtime struct {
	History   *bool          `toml:"history,omitempty"`
	Retention *int           `toml:"retention,omitempty"`
	Limits    PlaytimeLimits `toml:"limits,omitempty"`
}

// PlaytimeLimits durations are Go duration strings ("2h", "45m").
type PlaytimeLimits struct {
	Enabled  *bool    `toml:"enabled,omitempty"`
	Daily    string   `toml:"daily,omitempty"`
	Session  string   `toml:"session,omitempty"`
	Warnings []string `toml:"warnings,omitempty,multiline"`
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// parsePositive returns ok=false for anything that isn't a duration > 0.
func parsePositive(s string) (time.Duration, bool) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

func checkDuration(kind, s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("invalid %s: %w", kind, err)
	}
	return nil
}

func (c *Instance) HistoryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return derefOr(c.vals.Playtime.History, true)
}

func (c *Instance) SetHistoryEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Playtime.History = &enabled
}

// PlaytimeRetention is in days. 0 keeps history forever.
func (c *Instance) PlaytimeRetention() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return derefOr(c.vals.Playtime.Retention, DefaultRetentionDays)
}

func (c *Instance) SetPlaytimeRetention(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Playtime.Retention = &days
}

func (c *Instance) PlaytimeLimitsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return derefOr(c.vals.Playtime.Limits.Enabled, false)
}

func (c *Instance) SetPlaytimeLimitsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Playtime.Limits.Enabled = &enabled
}

// DailyLimit and SessionLimit are 0 when unset or invalid, which turns
// the matching rule off.
func (c *Instance) DailyLimit() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, _ := parsePositive(c.vals.Playtime.Limits.Daily)
	return d
}

func (c *Instance) SessionLimit() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, _ := parsePositive(c.vals.Playtime.Limits.Session)
	return d
}

func (c *Instance) SetDailyLimit(duration string) error {
	if err := checkDuration("daily limit", duration); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Playtime.Limits.Daily = duration
	return nil
}

func (c *Instance) SetSessionLimit(duration string) error {
	if err := checkDuration("session limit", duration); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Playtime.Limits.Session = duration
	return nil
}

// WarningIntervals lists how much remaining time triggers a warning.
// Bad entries are dropped rather than failing the whole list.
func (c *Instance) WarningIntervals() []time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw := c.vals.Playtime.Limits.Warnings
	if len(raw) == 0 {
		return append([]time.Duration(nil), defaultWarnings...)
	}

	out := make([]time.Duration, 0, len(raw))
	for _, s := range raw {
		if d, ok := parsePositive(s); ok {
			out = append(out, d)
		}
	}
	return out
}

func (c *Instance) SetWarningIntervals(intervals []string) error {
	for _, s := range intervals {
		if err := checkDuration("warning interval", s); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Playtime.Limits.Warnings = intervals
	return nil
}
