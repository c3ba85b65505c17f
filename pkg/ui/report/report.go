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

// Package report prints the summary of all tracked games.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	DefaultWidth = 80
	// room for the "[ " and " ]" around the bar
	barPadding = 5
	barChars   = "#@$%&"
)

// TerminalWidth returns the column count of f, or DefaultWidth when f is
// not a terminal.
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Char is the bar character of slug.
func Char(slug string) byte {
	hash := 0
	for i, r := range []rune(slug) {
		hash += (i + 1) * int(r)
	}
	return barChars[hash%len(barChars)]
}

// Sizes splits size columns between records in proportion to their
// time. Halves round to even.
func Sizes(records []*games.Record, size int) []int {
	total := 0
	for _, r := range records {
		total += r.Timer
	}
	sizes := make([]int, len(records))
	if total == 0 || size <= 0 {
		return sizes
	}
	for i, r := range records {
		sizes[i] = int(math.RoundToEven(float64(r.Timer) / float64(total) * float64(size)))
	}
	return sizes
}

// Write prints one line per record, then the names row and the bar fitted
// to width columns. records should be sorted by descending time.
func Write(w io.Writer, records []*games.Record, width int) error {
	total := 0
	for _, r := range records {
		total += r.Timer
	}
	var sb strings.Builder
	switch {
	case len(records) == 0:
		sb.WriteString("no games yet; add one with `add` subcommand\n")
	case total == 0:
		sb.WriteString("no play time recorded yet\n")
	default:
		writeSummary(&sb, records, total, width)
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeSummary(sb *strings.Builder, records []*games.Record, total, width int) {
	for _, r := range records {
		pct := float64(r.Timer) / float64(total) * 100
		fmt.Fprintf(sb, "%c (%.2f%%) %s: %s\n", Char(r.Slug), pct, r.Name, playtime.FormatClock(r.Timer))
	}

	sizes := Sizes(records, width-barPadding)

	sb.WriteString("\n  ")
	for i, r := range records {
		sb.WriteString(fitName(r.Name, sizes[i]))
	}

	sb.WriteString("\n[ ")
	for i, r := range records {
		sb.WriteString(strings.Repeat(string(Char(r.Slug)), sizes[i]))
	}
	sb.WriteString(" ]\n")
}

// fitName pads name to exactly n columns, or abbreviates it when it
// does not fit.
func fitName(name string, n int) string {
	nw := runewidth.StringWidth(name)
	switch {
	case nw <= n:
		return name + strings.Repeat(" ", n-nw)
	case n < 3:
		return strings.Repeat(".", n)
	default:
		return "..." + strings.Repeat(" ", n-3)
	}
}
