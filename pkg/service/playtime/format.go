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

package playtime

import (
	"fmt"
	"io"
)

func splitSeconds(total int) (hours, minutes, seconds int) {
	total = max(0, total)
	return total / 3600, total / 60 % 60, total % 60
}

// FormatClock formats seconds as HH:MM:SS. Hours are not wrapped and grow
// past two digits as needed.
func FormatClock(total int) string {
	h, m, s := splitSeconds(total)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatMinutesHuman formats seconds as "{m} minutes" or
// "{h} hours {m} minutes", dropping the remaining seconds.
func FormatMinutesHuman(total int) string {
	h, m, _ := splitSeconds(total)
	if h == 0 {
		return fmt.Sprintf("%d minutes", m)
	}
	return fmt.Sprintf("%d hours %d minutes", h, m)
}

// FormatHours is the banner caption for a cumulative timer.
func FormatHours(total int) string {
	h, _, _ := splitSeconds(total)
	return fmt.Sprintf("Play time: %d hours", h)
}

// ConsoleSink rewrites a single terminal line with the running totals.
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Progress(p Progress) {
	_, _ = fmt.Fprintf(c.w, "\rtotal %s time: %s, session time: %s",
		p.Name, FormatClock(p.TotalSeconds), FormatClock(p.SessionSeconds))
}
