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

const (
	// AccountingTicks credits exactly one second per timer tick. Ticks that
	// overrun are not recovered.
	AccountingTicks = "ticks"
	// AccountingElapsed credits whole seconds of monotonic time elapsed since
	// the session started, so overrun ticks are caught up on the next tick.
	AccountingElapsed = "elapsed"
)

type Timer struct {
	Accounting string `toml:"accounting,omitempty"`
}

// TimerAccounting returns the configured accounting mode, falling back to
// ticks for empty or unknown values.
func (c *Instance) TimerAccounting() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Timer.Accounting == AccountingElapsed {
		return AccountingElapsed
	}
	return AccountingTicks
}

func (c *Instance) SetTimerAccounting(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Timer.Accounting = mode
}
