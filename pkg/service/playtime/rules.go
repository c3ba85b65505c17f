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

import "time"

const (
	LimitReasonSession = "session"
	LimitReasonDaily   = "daily"
)

// Usage is the play time a Rule is checked against.
type Usage struct {
	Now time.Time
	// counted by the timer this session
	Session time.Duration
	// played today, the part of the running session after midnight included
	Today time.Duration
	// false when the system clock looks unset
	ClockReliable bool
}

// Verdict is the outcome of checking one rule.
type Verdict struct {
	Rule      string
	Remaining time.Duration
	Reached   bool
}

// Rule is one play time limit.
type Rule interface {
	Name() string
	// Check returns ok false when the rule does not apply to u.
	Check(u Usage) (v Verdict, ok bool)
}

func verdict(rule string, limit, used time.Duration) Verdict {
	left := limit - used
	if left <= 0 {
		return Verdict{Rule: rule, Reached: true}
	}
	return Verdict{Rule: rule, Remaining: left}
}

// SessionLimitRule caps the length of one session. A zero Limit disables it.
type SessionLimitRule struct {
	Limit time.Duration
}

func (*SessionLimitRule) Name() string { return LimitReasonSession }

func (r *SessionLimitRule) Check(u Usage) (Verdict, bool) {
	if r.Limit <= 0 {
		return Verdict{}, false
	}
	return verdict(LimitReasonSession, r.Limit, u.Session), true
}

// DailyLimitRule caps the total play time of a calendar day. It does not
// apply while the clock is unreliable, since "today" is unknown then.
type DailyLimitRule struct {
	Limit time.Duration
}

func (*DailyLimitRule) Name() string { return LimitReasonDaily }

func (r *DailyLimitRule) Check(u Usage) (Verdict, bool) {
	if r.Limit <= 0 || !u.ClockReliable {
		return Verdict{}, false
	}
	return verdict(LimitReasonDaily, r.Limit, u.Today), true
}
