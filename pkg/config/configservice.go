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

import "strconv"

const defaultAPIPort = 7498

type Service struct {
	APIPort    *int     `toml:"api_port,omitempty"`
	APIListen  string   `toml:"api_listen,omitempty"`
	APIEnable  *bool    `toml:"api_enabled,omitempty"`
	AllowedIPs []string `toml:"allowed_ips,omitempty"`
}

// APIEnabled reports whether the status API is served while a timer runs.
// Disabled unless explicitly turned on.
func (c *Instance) APIEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.APIEnable == nil {
		return false
	}
	return *c.vals.Service.APIEnable
}

func (c *Instance) apiPortLocked() int {
	if c.vals.Service.APIPort == nil {
		return defaultAPIPort
	}
	return *c.vals.Service.APIPort
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiPortLocked()
}

// APIListen returns the listen address for the status API. The host part
// defaults to loopback.
func (c *Instance) APIListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	host := c.vals.Service.APIListen
	if host == "" {
		host = "127.0.0.1"
	}
	return host + ":" + strconv.Itoa(c.apiPortLocked())
}

// AllowedIPs lists the addresses and CIDR prefixes, besides loopback,
// that may use the status API. Empty allows everyone.
func (c *Instance) AllowedIPs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.AllowedIPs
}

func (c *Instance) SetAllowedIPs(ips []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Service.AllowedIPs = ips
}

func (c *Instance) SetAPIEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Service.APIEnable = &enabled
}
