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
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ZaparooProject/antimony/pkg/config"
	"github.com/ZaparooProject/antimony/pkg/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// UsageSource reports play time from finished sessions since a point in
// time. The running session is not included.
type UsageSource interface {
	DailyUsage(since time.Time) (time.Duration, error)
}

// LimitsChecker is a MinuteHook that warns when a configured session or
// daily limit is near or reached. It never stops the game.
type LimitsChecker struct {
	sessionStart  time.Time
	clock         clockwork.Clock
	usage         UsageSource
	cfg           *config.Instance
	out           io.Writer
	warningsGiven map[time.Duration]bool
	limitReached  bool
}

// NewLimitsChecker creates a checker for a session starting now. usage may
// be nil when session history is disabled, in which case only the running
// session counts toward the daily limit.
func NewLimitsChecker(
	cfg *config.Instance,
	usage UsageSource,
	clock clockwork.Clock,
	out io.Writer,
) *LimitsChecker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if out == nil {
		out = io.Discard
	}
	return &LimitsChecker{
		cfg:           cfg,
		usage:         usage,
		clock:         clock,
		out:           out,
		sessionStart:  clock.Now(),
		warningsGiven: make(map[time.Duration]bool),
	}
}

func (lc *LimitsChecker) OnMinute(_ context.Context, sessionSeconds int) error {
	if !lc.cfg.PlaytimeLimitsEnabled() || lc.limitReached {
		return nil
	}

	rules := lc.createRules()
	if len(rules) == 0 {
		return nil
	}

	u, err := lc.usageAt(time.Duration(sessionSeconds) * time.Second)
	if err != nil {
		return fmt.Errorf("failed to calculate usage: %w", err)
	}

	var tightest *Verdict
	for _, rule := range rules {
		v, ok := rule.Check(u)
		if !ok {
			continue
		}
		if v.Reached {
			lc.limitReached = true
			log.Warn().Str("rule", v.Rule).Msg("playtime: time limit reached")
			_, _ = fmt.Fprintf(lc.out, "\n%s play time limit reached\n", v.Rule)
			return nil
		}
		if tightest == nil || v.Remaining < tightest.Remaining {
			tightest = &v
		}
	}

	if tightest != nil {
		lc.handleWarnings(tightest.Remaining, tightest.Rule)
	}
	return nil
}

// LimitReached reports whether a limit notice has been given this session.
func (lc *LimitsChecker) LimitReached() bool {
	return lc.limitReached
}

func (lc *LimitsChecker) usageAt(session time.Duration) (Usage, error) {
	now := lc.clock.Now()

	year, month, day := now.Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	// only the part of a session after midnight counts toward today
	sessionToday := session
	if sinceMidnight := now.Sub(todayStart); sessionToday > sinceMidnight {
		sessionToday = sinceMidnight
	}

	daily := sessionToday
	if lc.usage != nil {
		past, err := lc.usage.DailyUsage(todayStart)
		if err != nil {
			return Usage{}, fmt.Errorf("failed to read daily usage: %w", err)
		}
		daily += past
	}

	return Usage{
		Now:           now,
		Session:       session,
		Today:         daily,
		ClockReliable: helpers.IsClockReliable(now),
	}, nil
}

func (lc *LimitsChecker) createRules() []Rule {
	rules := make([]Rule, 0, 2)

	if limit := lc.cfg.SessionLimit(); limit > 0 {
		rules = append(rules, &SessionLimitRule{Limit: limit})
	}

	if limit := lc.cfg.DailyLimit(); limit > 0 {
		rules = append(rules, &DailyLimitRule{Limit: limit})
	}

	return rules
}

// handleWarnings emits at most one warning per configured interval per
// session. Only the tightest interval crossed is announced; the larger ones
// are marked as given with it.
func (lc *LimitsChecker) handleWarnings(remaining time.Duration, reason string) {
	intervals := lc.cfg.WarningIntervals()
	slices.Sort(intervals)

	var warningInterval time.Duration
	for _, interval := range intervals {
		if remaining > interval || lc.warningsGiven[interval] {
			continue
		}
		warningInterval = interval
		break
	}
	if warningInterval == 0 {
		return
	}

	for _, interval := range intervals {
		if interval >= warningInterval {
			lc.warningsGiven[interval] = true
		}
	}

	log.Info().Dur("remaining", remaining).Str("reason", reason).
		Msg("playtime: warning threshold reached")
	_, _ = fmt.Fprintf(lc.out, "\n%s of %s play time left\n",
		FormatMinutesHuman(int(remaining/time.Second)), reason)
}
