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
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/ZaparooProject/antimony/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run user database migrations: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `vacuum;`)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql statement")
	}
}

func sqlAddSession(ctx context.Context, db *sql.DB, entry *database.SessionEntry) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `
		insert into Sessions(
			ID, Slug, Name, StartTime, PlayTime, ExitReason, ClockReliable
		) values (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare session insert statement: %w", err)
	}
	defer closeStmt(stmt)

	result, err := stmt.ExecContext(ctx,
		entry.ID,
		entry.Slug,
		entry.Name,
		entry.StartTime.Unix(),
		entry.PlayTime,
		entry.ExitReason,
		entry.ClockReliable,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to execute session insert: %w", err)
	}

	dbid, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session insert id: %w", err)
	}
	return dbid, nil
}

func sqlUpdateSessionTime(ctx context.Context, db *sql.DB, dbid int64, playTime int) error {
	stmt, err := db.PrepareContext(ctx, `
		update Sessions set PlayTime = ? where DBID = ? and EndTime is null;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare session update statement: %w", err)
	}
	defer closeStmt(stmt)

	if _, err := stmt.ExecContext(ctx, playTime, dbid); err != nil {
		return fmt.Errorf("failed to update session time: %w", err)
	}
	return nil
}

func sqlCloseSession(
	ctx context.Context,
	db *sql.DB,
	dbid int64,
	endTime time.Time,
	playTime int,
	reason string,
) error {
	stmt, err := db.PrepareContext(ctx, `
		update Sessions
		set EndTime = ?, PlayTime = ?, ExitReason = ?
		where DBID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare session close statement: %w", err)
	}
	defer closeStmt(stmt)

	if _, err := stmt.ExecContext(ctx, endTime.Unix(), playTime, reason, dbid); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// A session left open by a crash is closed at its last recorded play
// time.
func sqlCloseHangingSessions(ctx context.Context, db *sql.DB) error {
	stmt, err := db.PrepareContext(ctx, `
		update Sessions
		set EndTime = StartTime + PlayTime, ExitReason = ?
		where EndTime is null;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare close hanging sessions statement: %w", err)
	}
	defer closeStmt(stmt)

	result, err := stmt.ExecContext(ctx, database.ExitReasonHanging)
	if err != nil {
		return fmt.Errorf("failed to close hanging sessions: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		log.Info().Msgf("closed %d hanging sessions", rows)
	}
	return nil
}

func sqlGetSessions(ctx context.Context, db *sql.DB, slug string, limit int) ([]database.SessionEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	list := make([]database.SessionEntry, 0, limit)

	stmt, err := db.PrepareContext(ctx, `
		select
			DBID, ID, Slug, Name, StartTime, EndTime,
			PlayTime, ExitReason, ClockReliable
		from Sessions
		where Slug = ?
		order by StartTime desc, DBID desc
		limit ?;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare sessions query statement: %w", err)
	}
	defer closeStmt(stmt)

	rows, err := stmt.QueryContext(ctx, slug, limit)
	if err != nil {
		return list, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	for rows.Next() {
		var entry database.SessionEntry
		var startTime int64
		var endTime sql.NullInt64
		err = rows.Scan(
			&entry.DBID,
			&entry.ID,
			&entry.Slug,
			&entry.Name,
			&startTime,
			&endTime,
			&entry.PlayTime,
			&entry.ExitReason,
			&entry.ClockReliable,
		)
		if err != nil {
			return list, fmt.Errorf("failed to scan session row: %w", err)
		}
		entry.StartTime = time.Unix(startTime, 0)
		if endTime.Valid {
			end := time.Unix(endTime.Int64, 0)
			entry.EndTime = &end
		}
		list = append(list, entry)
	}

	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating session rows: %w", err)
	}
	return list, nil
}

func sqlDailyUsage(ctx context.Context, db *sql.DB, since time.Time) (time.Duration, error) {
	var total sql.NullInt64
	err := db.QueryRowContext(ctx, `
		select sum(PlayTime) from Sessions
		where StartTime >= ? and EndTime is not null;
	`, since.Unix()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query daily usage: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return time.Duration(total.Int64) * time.Second, nil
}

func sqlCleanupSessions(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	stmt, err := db.PrepareContext(ctx, `
		delete from Sessions where StartTime < ? and EndTime is not null;
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare session cleanup statement: %w", err)
	}
	defer closeStmt(stmt)

	result, err := stmt.ExecContext(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to execute session cleanup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		if err := sqlVacuum(ctx, db); err != nil {
			return rowsAffected, fmt.Errorf("cleanup succeeded but vacuum failed: %w", err)
		}
	}
	return rowsAffected, nil
}
