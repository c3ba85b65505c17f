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

// Package playtime runs the session timer for a launched game and the
// checks that hang off its minute boundaries.
package playtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/antimony/pkg/config"
	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// TickInterval is the nominal length of one timer tick.
const TickInterval = time.Second

// ExitReason is why a timer run ended. Both reasons are normal endings.
type ExitReason int

const (
	ReasonProcessExited ExitReason = iota + 1
	ReasonInterrupted
)

func (r ExitReason) String() string {
	switch r {
	case ReasonProcessExited:
		return "exited"
	case ReasonInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Process is the liveness view of a launched game the timer polls each
// tick. Exited must not block.
type Process interface {
	Exited() bool
}

// MinuteHook is called at every minute boundary of the cumulative timer,
// including the first tick of a run. Errors and panics are logged and never
// stop the timer.
type MinuteHook interface {
	OnMinute(ctx context.Context, sessionSeconds int) error
}

type MinuteHookFunc func(ctx context.Context, sessionSeconds int) error

func (f MinuteHookFunc) OnMinute(ctx context.Context, sessionSeconds int) error {
	return f(ctx, sessionSeconds)
}

// Hooks fans a minute boundary out to several hooks. Every hook runs even
// if an earlier one fails; the errors are joined.
type Hooks []MinuteHook

func (hs Hooks) OnMinute(ctx context.Context, sessionSeconds int) error {
	var errs []error
	for _, h := range hs {
		if h == nil {
			continue
		}
		if err := callHook(ctx, h, sessionSeconds); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Progress is a snapshot reported after each counted tick.
type Progress struct {
	Slug           string
	Name           string
	TotalSeconds   int
	SessionSeconds int
}

// ProgressSink receives tick progress. Implementations must return quickly;
// a slow sink delays the next tick.
type ProgressSink interface {
	Progress(p Progress)
}

// ProgressSinks reports to each sink in order.
type ProgressSinks []ProgressSink

func (ps ProgressSinks) Progress(p Progress) {
	for _, s := range ps {
		if s != nil {
			s.Progress(p)
		}
	}
}

// Result describes a finished run.
type Result struct {
	Reason         ExitReason
	SessionSeconds int
}

// Timer counts play time for one record while its process is alive.
type Timer struct {
	clock      clockwork.Clock
	hook       MinuteHook
	sink       ProgressSink
	accounting string
}

type Option func(*Timer)

func WithClock(clock clockwork.Clock) Option {
	return func(t *Timer) {
		t.clock = clock
	}
}

func WithMinuteHook(hook MinuteHook) Option {
	return func(t *Timer) {
		t.hook = hook
	}
}

func WithProgressSink(sink ProgressSink) Option {
	return func(t *Timer) {
		t.sink = sink
	}
}

// WithAccounting selects how ticks are credited: config.AccountingTicks
// (one second per tick) or config.AccountingElapsed (seconds lost to a
// slow tick are credited on the next one).
func WithAccounting(mode string) Option {
	return func(t *Timer) {
		t.accounting = mode
	}
}

func NewTimer(opts ...Option) *Timer {
	t := &Timer{
		clock:      clockwork.NewRealClock(),
		accounting: config.AccountingTicks,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = clockwork.NewRealClock()
	}
	return t
}

// Run ticks once per second until proc exits or ctx is cancelled, adding
// each counted second to rec.Timer. The caller must not touch rec until Run
// returns. Cancellation is reported as ReasonInterrupted with a nil error;
// rec then holds every tick completed so far and is safe to persist.
func (t *Timer) Run(ctx context.Context, rec *games.Record, proc Process) (Result, error) {
	if rec == nil {
		return Result{}, errors.New("timer: nil record")
	}
	if proc == nil {
		return Result{}, errors.New("timer: nil process")
	}

	session := 0
	lastMinute := -1
	loopStart := t.clock.Now()

	log.Info().Str("slug", rec.Slug).Int("timer", rec.Timer).
		Str("accounting", t.accounting).Msg("timer started")

	for {
		if ctx.Err() != nil {
			return t.finish(rec, ReasonInterrupted, session), nil
		}

		tickStart := t.clock.Now()
		minute := rec.Timer / 60

		if minute != lastMinute && t.hook != nil {
			if err := callHook(ctx, t.hook, session); err != nil {
				log.Warn().Err(err).Str("slug", rec.Slug).
					Int("minute", minute).Msg("minute hook failed")
			}
		}

		// the second in which the process exited is not counted
		if proc.Exited() {
			return t.finish(rec, ReasonProcessExited, session), nil
		}

		step := t.credit(loopStart, tickStart, session)
		rec.Timer += step
		session += step
		lastMinute = minute

		if t.sink != nil {
			if err := callSink(t.sink, Progress{
				Slug:           rec.Slug,
				Name:           rec.Name,
				TotalSeconds:   rec.Timer,
				SessionSeconds: session,
			}); err != nil {
				log.Warn().Err(err).Str("slug", rec.Slug).Msg("progress sink failed")
			}
		}

		wait := TickInterval - t.clock.Since(tickStart)
		if wait <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return t.finish(rec, ReasonInterrupted, session), nil
		case <-t.clock.After(wait):
		}
	}
}

// credit returns the seconds to add for the tick starting at tickStart.
func (t *Timer) credit(loopStart, tickStart time.Time, credited int) int {
	if t.accounting != config.AccountingElapsed {
		return 1
	}
	// seconds started since the loop began, including the current one
	due := int(tickStart.Sub(loopStart)/time.Second) + 1
	return max(1, due-credited)
}

func (*Timer) finish(rec *games.Record, reason ExitReason, session int) Result {
	log.Info().Str("slug", rec.Slug).Stringer("reason", reason).
		Int("session", session).Int("timer", rec.Timer).Msg("timer stopped")
	return Result{Reason: reason, SessionSeconds: session}
}

func callHook(ctx context.Context, h MinuteHook, sessionSeconds int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("minute hook panic: %v", r)
		}
	}()
	return h.OnMinute(ctx, sessionSeconds)
}

func callSink(sink ProgressSink, p Progress) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("progress sink panic: %v", r)
		}
	}()
	sink.Progress(p)
	return nil
}
