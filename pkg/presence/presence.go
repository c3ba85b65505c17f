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

// Package presence pushes a "now playing" status to external services.
package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/rs/zerolog/log"
)

// Activity is the status shown for the running game.
type Activity struct {
	Start      time.Time `json:"start,omitzero"`
	Slug       string    `json:"slug"`
	Details    string    `json:"details"`
	State      string    `json:"state"`
	LargeImage string    `json:"large_image,omitempty"`
	LargeText  string    `json:"large_text,omitempty"`
}

// Reporter is a connected presence service.
type Reporter interface {
	SetActivity(ctx context.Context, act Activity) error
	ClearActivity(ctx context.Context) error
	Close() error
}

// Multi reports to every reporter in turn. Failures do not stop the
// remaining reporters; errors are joined.
type Multi []Reporter

func (m Multi) SetActivity(ctx context.Context, act Activity) error {
	var errs []error
	for _, r := range m {
		if err := r.SetActivity(ctx, act); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) ClearActivity(ctx context.Context) error {
	var errs []error
	for _, r := range m {
		if err := r.ClearActivity(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildActivity describes rec with the given session length.
func BuildActivity(rec *games.Record, sessionSeconds int, start time.Time) Activity {
	return Activity{
		Slug:       rec.Slug,
		Details:    fmt.Sprintf("%s for %s", rec.Name, playtime.FormatMinutesHuman(rec.Timer)),
		State:      fmt.Sprintf("Played for %s in this session", playtime.FormatMinutesHuman(sessionSeconds)),
		LargeImage: rec.Slug,
		LargeText:  rec.Name,
		Start:      start,
	}
}

// minuteHook updates presence at each minute boundary of a timer run.
type minuteHook struct {
	reporter Reporter
	rec      *games.Record
	start    time.Time
	timeout  time.Duration
}

// NewMinuteHook returns a timer hook that sets rec's activity on reporter.
// rec is read on the timer goroutine, which owns it during the run. Each
// update is bounded by timeout so a stuck service cannot stall the timer.
func NewMinuteHook(reporter Reporter, rec *games.Record, start time.Time, timeout time.Duration) playtime.MinuteHook {
	return &minuteHook{
		reporter: reporter,
		rec:      rec,
		start:    start,
		timeout:  timeout,
	}
}

func (h *minuteHook) OnMinute(ctx context.Context, sessionSeconds int) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	act := BuildActivity(h.rec, sessionSeconds, h.start)
	if err := h.reporter.SetActivity(ctx, act); err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	log.Debug().Str("details", act.Details).Str("state", act.State).Msg("presence updated")
	return nil
}
