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

// Package history records play sessions in the user database while a
// game is being timed.
package history

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/antimony/pkg/database"
	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/helpers"
	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Tracker owns the history row of one session. A nil database or a
// failed insert leaves it inert; timing never depends on it.
type Tracker struct {
	db    database.SessionDBI
	clock clockwork.Clock
	start time.Time
	dbid  atomic.Int64
}

func NewTracker(db database.SessionDBI, clock clockwork.Clock) *Tracker {
	return &Tracker{db: db, clock: clock}
}

// Maintain closes sessions left open by an unclean exit and removes
// sessions older than retentionDays. A retention of 0 keeps everything.
func Maintain(db database.SessionDBI, retentionDays int) {
	if err := db.CloseHangingSessions(); err != nil {
		log.Error().Err(err).Msg("error closing hanging sessions")
	}

	if retentionDays <= 0 {
		log.Debug().Msg("session history cleanup disabled (retention set to 0)")
		return
	}

	deleted, err := db.CleanupSessions(retentionDays)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("error cleaning up session history")
	case deleted > 0:
		log.Info().Msgf("deleted %d old sessions", deleted)
	default:
		log.Debug().Msg("no old sessions to clean up")
	}
}

// Start opens a history row for rec.
func (t *Tracker) Start(rec *games.Record) {
	if t.db == nil {
		return
	}
	t.start = t.clock.Now()
	entry := &database.SessionEntry{
		ID:            uuid.New().String(),
		Slug:          rec.Slug,
		Name:          rec.Name,
		StartTime:     t.start,
		ClockReliable: helpers.IsClockReliable(t.start),
	}
	dbid, err := t.db.AddSession(entry)
	if err != nil {
		log.Warn().Err(err).Msg("failed to add session history entry")
		return
	}
	t.dbid.Store(dbid)
	log.Debug().Int64("dbid", dbid).Str("slug", rec.Slug).Msg("created session history entry")
}

// OnMinute stores the session time so far.
func (t *Tracker) OnMinute(_ context.Context, sessionSeconds int) error {
	dbid := t.dbid.Load()
	if dbid == 0 || sessionSeconds == 0 {
		return nil
	}
	if err := t.db.UpdateSessionTime(dbid, sessionSeconds); err != nil {
		log.Warn().Err(err).Msg("failed to update session play time")
	}
	return nil
}

// Finish closes the history row with the result of the loop.
func (t *Tracker) Finish(res playtime.Result) {
	dbid := t.dbid.Swap(0)
	if dbid == 0 {
		return
	}
	reason := database.ExitReasonExited
	if res.Reason == playtime.ReasonInterrupted {
		reason = database.ExitReasonInterrupted
	}
	err := t.db.CloseSession(dbid, t.clock.Now(), res.SessionSeconds, reason)
	if err != nil {
		log.Error().Err(err).Int64("dbid", dbid).Msg("failed to close session history entry")
		return
	}
	log.Debug().Int64("dbid", dbid).Int("playTime", res.SessionSeconds).Msg("closed session history entry")
}
