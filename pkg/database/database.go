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

package database

import (
	"time"
)

// Exit reasons stored with a session row.
const (
	ExitReasonRunning     = ""
	ExitReasonExited      = "exited"
	ExitReasonInterrupted = "interrupted"
	ExitReasonHanging     = "hanging"
)

// SessionEntry is a single play session of one game.
type SessionEntry struct {
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	ExitReason    string     `json:"exitReason"`
	DBID          int64      `json:"dbid"`
	PlayTime      int        `json:"playTime"`
	ClockReliable bool       `json:"clockReliable"`
}

type GenericDBI interface {
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

// SessionDBI is the session history store.
type SessionDBI interface {
	GenericDBI
	AddSession(entry *SessionEntry) (int64, error)
	UpdateSessionTime(dbid int64, playTime int) error
	CloseSession(dbid int64, endTime time.Time, playTime int, reason string) error
	CloseHangingSessions() error
	GetSessions(slug string, limit int) ([]SessionEntry, error)
	DailyUsage(since time.Time) (time.Duration, error)
	CleanupSessions(retentionDays int) (int64, error)
}
