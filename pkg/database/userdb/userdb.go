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

// Package userdb stores the play session history in a local sqlite
// database.
package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/antimony/pkg/config"
	"github.com/ZaparooProject/antimony/pkg/database"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("UserDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

type UserDB struct {
	sql     *sql.DB
	ctx     context.Context
	clock   clockwork.Clock
	dataDir string
}

var _ database.SessionDBI = (*UserDB)(nil)

// OpenUserDB opens (and creates if needed) the history database in
// dataDir and brings its schema up to date.
func OpenUserDB(ctx context.Context, dataDir string) (*UserDB, error) {
	db := &UserDB{
		ctx:     ctx,
		clock:   clockwork.NewRealClock(),
		dataDir: dataDir,
	}
	if err := db.Open(); err != nil {
		return db, err
	}
	if err := db.MigrateUp(); err != nil {
		return db, err
	}
	return db, nil
}

func (db *UserDB) Open() error {
	dbPath := db.GetDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for database: %w", err)
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	return nil
}

func (db *UserDB) GetDBPath() string {
	return filepath.Join(db.dataDir, config.UserDbFile)
}

func (db *UserDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *UserDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *UserDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting swaps in an existing connection and clock, then
// applies the schema.
func (db *UserDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, clock clockwork.Clock) error {
	db.sql = sqlDB
	db.ctx = ctx
	db.clock = clock
	return db.MigrateUp()
}

func (db *UserDB) AddSession(entry *database.SessionEntry) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddSession(db.ctx, db.sql, entry)
}

func (db *UserDB) UpdateSessionTime(dbid int64, playTime int) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateSessionTime(db.ctx, db.sql, dbid, playTime)
}

func (db *UserDB) CloseSession(dbid int64, endTime time.Time, playTime int, reason string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlCloseSession(db.ctx, db.sql, dbid, endTime, playTime, reason)
}

func (db *UserDB) CloseHangingSessions() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlCloseHangingSessions(db.ctx, db.sql)
}

func (db *UserDB) GetSessions(slug string, limit int) ([]database.SessionEntry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetSessions(db.ctx, db.sql, slug, limit)
}

// DailyUsage sums the play time of closed sessions started at or after
// since.
func (db *UserDB) DailyUsage(since time.Time) (time.Duration, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlDailyUsage(db.ctx, db.sql, since)
}

func (db *UserDB) CleanupSessions(retentionDays int) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	cutoff := db.clock.Now().AddDate(0, 0, -retentionDays)
	return sqlCleanupSessions(db.ctx, db.sql, cutoff)
}
