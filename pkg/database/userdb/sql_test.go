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

package userdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ZaparooProject/antimony/pkg/database"
	testsqlmock "github.com/ZaparooProject/antimony/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDB = errors.New("database is locked")

func TestSqlAddSession_Success(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	start := time.Unix(1735732800, 0)
	entry := &database.SessionEntry{
		ID:            "a1b2",
		Slug:          "celeste",
		Name:          "Celeste",
		StartTime:     start,
		ClockReliable: true,
	}

	mock.ExpectPrepare(`insert into Sessions`).
		ExpectExec().
		WithArgs("a1b2", "celeste", "Celeste", start.Unix(), 0, "", true).
		WillReturnResult(sqlmock.NewResult(7, 1))

	dbid, err := sqlAddSession(context.Background(), db, entry)
	require.NoError(t, err)
	assert.Equal(t, int64(7), dbid)
}

func TestSqlAddSession_ExecError(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	mock.ExpectPrepare(`insert into Sessions`).
		ExpectExec().
		WillReturnError(errDB)

	_, err := sqlAddSession(context.Background(), db, &database.SessionEntry{ID: "x"})
	require.ErrorIs(t, err, errDB)
	assert.Contains(t, err.Error(), "failed to execute session insert")
}

func TestSqlUpdateSessionTime(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	mock.ExpectPrepare(`update Sessions set PlayTime = \? where DBID = \? and EndTime is null`).
		ExpectExec().
		WithArgs(180, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, sqlUpdateSessionTime(context.Background(), db, 3, 180))
}

func TestSqlCloseSession(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	end := time.Unix(1735736400, 0)
	mock.ExpectPrepare(`update Sessions\s+set EndTime = \?, PlayTime = \?, ExitReason = \?`).
		ExpectExec().
		WithArgs(end.Unix(), 3600, database.ExitReasonInterrupted, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sqlCloseSession(context.Background(), db, 3, end, 3600, database.ExitReasonInterrupted)
	require.NoError(t, err)
}

func TestSqlCloseHangingSessions(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	mock.ExpectPrepare(`set EndTime = StartTime \+ PlayTime`).
		ExpectExec().
		WithArgs(database.ExitReasonHanging).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, sqlCloseHangingSessions(context.Background(), db))
}

func TestSqlGetSessions(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	rows := sqlmock.NewRows([]string{
		"DBID", "ID", "Slug", "Name", "StartTime", "EndTime",
		"PlayTime", "ExitReason", "ClockReliable",
	}).
		AddRow(int64(2), "b", "celeste", "Celeste", int64(2000), nil, 60, "", true).
		AddRow(int64(1), "a", "celeste", "Celeste", int64(1000), int64(1600), 600, "exited", true)

	mock.ExpectPrepare(`from Sessions\s+where Slug = \?`).
		ExpectQuery().
		WithArgs("celeste", 5).
		WillReturnRows(rows)

	sessions, err := sqlGetSessions(context.Background(), db, "celeste", 5)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, int64(2), sessions[0].DBID)
	assert.Nil(t, sessions[0].EndTime)
	assert.Equal(t, time.Unix(2000, 0), sessions[0].StartTime)

	require.NotNil(t, sessions[1].EndTime)
	assert.Equal(t, time.Unix(1600, 0), *sessions[1].EndTime)
	assert.Equal(t, 600, sessions[1].PlayTime)
	assert.Equal(t, "exited", sessions[1].ExitReason)
}

func TestSqlGetSessions_ClampsLimit(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	mock.ExpectPrepare(`from Sessions`).
		ExpectQuery().
		WithArgs("celeste", 100).
		WillReturnRows(sqlmock.NewRows([]string{"DBID"}))

	sessions, err := sqlGetSessions(context.Background(), db, "celeste", 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSqlDailyUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value any
		name  string
		want  time.Duration
	}{
		{name: "no sessions", value: nil, want: 0},
		{name: "some sessions", value: int64(5400), want: 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock := testsqlmock.New(t)

			since := time.Unix(1735689600, 0)
			mock.ExpectQuery(`select sum\(PlayTime\) from Sessions`).
				WithArgs(since.Unix()).
				WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(tt.value))

			got, err := sqlDailyUsage(context.Background(), db, since)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSqlCleanupSessions_VacuumsWhenRowsDeleted(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	cutoff := time.Unix(1730000000, 0)
	mock.ExpectPrepare(`delete from Sessions where StartTime < \?`).
		ExpectExec().
		WithArgs(cutoff.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`vacuum`).WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := sqlCleanupSessions(context.Background(), db, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}

func TestSqlCleanupSessions_NothingDeleted(t *testing.T) {
	t.Parallel()
	db, mock := testsqlmock.New(t)

	mock.ExpectPrepare(`delete from Sessions`).
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := sqlCleanupSessions(context.Background(), db, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestUserDB_NotConnected(t *testing.T) {
	t.Parallel()
	db := &UserDB{}

	_, err := db.AddSession(&database.SessionEntry{})
	require.ErrorIs(t, err, ErrNullSQL)
	require.ErrorIs(t, db.UpdateSessionTime(1, 1), ErrNullSQL)
	require.ErrorIs(t, db.CloseHangingSessions(), ErrNullSQL)
	_, err = db.DailyUsage(time.Now())
	require.ErrorIs(t, err, ErrNullSQL)
	assert.NoError(t, db.Close())
}
