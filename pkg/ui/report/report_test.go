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

package report

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestChar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug string
		want byte
	}{
		{slug: "celeste", want: '$'},
		{slug: "a", want: '$'},
		{slug: "b", want: '%'},
		{slug: "ab", want: '%'},
		{slug: "", want: '#'},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Char(tt.slug))
		})
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	records := []*games.Record{
		{Slug: "celeste", Name: "Celeste", Timer: 3600},
		{Slug: "b", Name: "Bee", Timer: 1200},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, 80))

	want := "$ (75.00%) Celeste: 01:00:00\n" +
		"% (25.00%) Bee: 00:20:00\n" +
		"\n  " + "Celeste" + strings.Repeat(" ", 49) + "Bee" + strings.Repeat(" ", 16) +
		"\n[ " + strings.Repeat("$", 56) + strings.Repeat("%", 19) + " ]\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite_AbbreviatesNames(t *testing.T) {
	t.Parallel()

	records := []*games.Record{
		{Slug: "celeste", Name: "Celeste", Timer: 100},
		{Slug: "b", Name: "A Very Long Name", Timer: 10},
		{Slug: "ab", Name: "Tiny", Timer: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, 25))

	// 20 columns: 18, 2 and 0
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "  Celeste           ..", lines[4])
	assert.Equal(t, "[ "+strings.Repeat("$", 18)+"%%"+" ]", lines[5])
}

func TestWrite_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, 80))
	assert.Contains(t, buf.String(), "no games yet")
}

func TestWrite_ZeroTotal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	records := []*games.Record{{Slug: "celeste", Name: "Celeste"}}
	require.NoError(t, Write(&buf, records, 80))
	assert.Equal(t, "no play time recorded yet\n", buf.String())
}

func TestFitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		n    int
	}{
		{name: "pads", in: "Hades", n: 8, want: "Hades   "},
		{name: "exact", in: "Hades", n: 5, want: "Hades"},
		{name: "ellipsis", in: "Hades", n: 4, want: "... "},
		{name: "dots", in: "Hades", n: 2, want: ".."},
		{name: "zero", in: "Hades", n: 0, want: ""},
		{name: "wide runes", in: "大神", n: 5, want: "大神 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fitName(tt.in, tt.n))
		})
	}
}

func TestSizes_NeverNegative(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		timers := rapid.SliceOfN(rapid.IntRange(0, 1_000_000), 1, 20).Draw(t, "timers")
		size := rapid.IntRange(0, 500).Draw(t, "size")

		records := make([]*games.Record, len(timers))
		total := 0
		for i, timer := range timers {
			records[i] = &games.Record{Timer: timer}
			total += timer
		}

		sizes := Sizes(records, size)
		sum := 0
		for _, s := range sizes {
			if s < 0 {
				t.Fatalf("negative size %d", s)
			}
			sum += s
		}
		if total == 0 && sum != 0 {
			t.Fatalf("sizes %v for zero total", sizes)
		}
		// each entry rounds by at most half a column
		if diff := sum - size; total > 0 && (diff > len(timers) || diff < -len(timers)) {
			t.Fatalf("sizes %v sum to %d, want about %d", sizes, sum, size)
		}
	})
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "width")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, DefaultWidth, TerminalWidth(f))
}
