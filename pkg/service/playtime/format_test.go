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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFormatClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want  string
		total int
	}{
		{total: 0, want: "00:00:00"},
		{total: 61, want: "00:01:01"},
		{total: 3661, want: "01:01:01"},
		{total: 86399, want: "23:59:59"},
		{total: 90000, want: "25:00:00"},
		{total: 3600 * 3600, want: "3600:00:00"},
		{total: -5, want: "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatClock(tt.total))
		})
	}
}

func TestFormatMinutesHuman(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 minutes", FormatMinutesHuman(59))
	assert.Equal(t, "1 minutes", FormatMinutesHuman(60))
	assert.Equal(t, "59 minutes", FormatMinutesHuman(3599))
	assert.Equal(t, "1 hours 0 minutes", FormatMinutesHuman(3600))
	assert.Equal(t, "1 hours 1 minutes", FormatMinutesHuman(3661))
	assert.Equal(t, "100 hours 0 minutes", FormatMinutesHuman(360000))
}

func TestFormatHours(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Play time: 0 hours", FormatHours(3599))
	assert.Equal(t, "Play time: 1 hours", FormatHours(3600))
	assert.Equal(t, "Play time: 42 hours", FormatHours(42*3600+1234))
}

func TestPropertyFormatClockRoundTrips(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 50_000_000).Draw(t, "total")
		h, m, s := splitSeconds(total)
		if m > 59 || s > 59 {
			t.Fatalf("minutes %d seconds %d out of range", m, s)
		}
		if h*3600+m*60+s != total {
			t.Fatalf("split %d:%d:%d does not sum to %d", h, m, s, total)
		}
		if got := FormatClock(total); len(got) < 8 {
			t.Fatalf("short clock %q", got)
		}
	})
}

func TestConsoleSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewConsoleSink(&buf).Progress(Progress{
		Name:           "Celeste",
		TotalSeconds:   3661,
		SessionSeconds: 61,
	})

	assert.Equal(t, "\rtotal Celeste time: 01:01:01, session time: 00:01:01", buf.String())
}
