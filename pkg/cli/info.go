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

package cli

import (
	"fmt"
	"io"

	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const recentSessions = 5

func newInfoCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "info <game>",
		Short: "Show the elapsed time of a game",
		Args:  slugArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(deps)
			if err != nil {
				return err
			}
			rec, err := lookup(store, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s info:\n", rec.Name)
			_, _ = fmt.Fprintf(out, "elapsed time: %s\n", playtime.FormatClock(rec.Timer))
			if rec.Process != "" {
				_, _ = fmt.Fprintf(out, "executable: %s\n", rec.Process)
			}
			if rec.Watch != "" {
				_, _ = fmt.Fprintf(out, "watching: %s\n", rec.Watch)
			}

			if deps.Cfg.HistoryEnabled() && deps.OpenHistory != nil {
				printSessions(cmd, deps, rec.Slug, out)
			}
			return nil
		},
	}
}

// printSessions lists the most recent sessions. History is optional, so
// failures are only logged.
func printSessions(cmd *cobra.Command, deps *Deps, slug string, out io.Writer) {
	db, err := deps.OpenHistory(cmd.Context())
	if err != nil {
		log.Warn().Err(err).Msg("session history unavailable")
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing session history")
		}
	}()

	sessions, err := db.GetSessions(slug, recentSessions)
	if err != nil {
		log.Warn().Err(err).Msg("error reading session history")
		return
	}
	if len(sessions) == 0 {
		return
	}

	_, _ = fmt.Fprintln(out, "recent sessions:")
	for _, s := range sessions {
		reason := s.ExitReason
		if s.EndTime == nil {
			reason = "running"
		}
		_, _ = fmt.Fprintf(out, "  %s  %s  %s\n",
			s.StartTime.Local().Format("2006-01-02 15:04"),
			playtime.FormatClock(s.PlayTime),
			reason,
		)
	}
}
