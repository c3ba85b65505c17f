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
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ZaparooProject/antimony/pkg/api"
	apimw "github.com/ZaparooProject/antimony/pkg/api/middleware"
	"github.com/ZaparooProject/antimony/pkg/config"
	"github.com/ZaparooProject/antimony/pkg/database"
	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/presence"
	"github.com/ZaparooProject/antimony/pkg/presence/discord"
	"github.com/ZaparooProject/antimony/pkg/service/history"
	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newTimeCmd(deps *Deps) *cobra.Command {
	var noRPC bool

	cmd := &cobra.Command{
		Use:   "time <game>",
		Short: "Launch a game and count its play time",
		Args:  slugArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimer(cmd.Context(), cmd.OutOrStdout(), deps, args[0], noRPC)
		},
	}

	cmd.Flags().BoolVar(&noRPC, "no-rpc", false, "forcefully disable discord rpc")

	return cmd
}

// runTimer launches slug and counts until the game exits or ctx is
// cancelled. Cancellation is a normal way to stop and is not an error.
func runTimer(ctx context.Context, out io.Writer, deps *Deps, slug string, noRPC bool) error {
	cfg := deps.Cfg

	store, err := openStore(deps)
	if err != nil {
		return err
	}
	rec, err := lookup(store, slug)
	if err != nil {
		return err
	}
	if _, err := rec.Executable(); err != nil {
		return fmt.Errorf("%w; set one with `add %s --exec <path>`", err, slug)
	}

	reporter := connectPresence(ctx, out, deps, noRPC)
	defer closePresence(reporter)

	handle, err := deps.Launcher.Launch(rec)
	if err != nil {
		return err
	}

	var hooks playtime.Hooks
	sinks := playtime.ProgressSinks{playtime.NewConsoleSink(out)}
	start := deps.Clock.Now()

	if reporter != nil {
		hooks = append(hooks, presence.NewMinuteHook(reporter, rec, start, config.PresenceTimeout))
	}

	db := openHistory(ctx, deps)
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing session history")
			}
		}()
	}
	tracker := history.NewTracker(db, deps.Clock)
	tracker.Start(rec)
	hooks = append(hooks, tracker)

	if cfg.PlaytimeLimitsEnabled() {
		var usage playtime.UsageSource
		if db != nil {
			usage = db
		}
		hooks = append(hooks, playtime.NewLimitsChecker(cfg, usage, deps.Clock, out))
	}

	apiCtx, stopAPI := context.WithCancel(ctx)
	defer stopAPI()
	var status *api.Status
	if cfg.APIEnabled() {
		status = startStatusAPI(apiCtx, deps)
		if status != nil {
			sinks = append(sinks, status)
		}
	}

	timer := playtime.NewTimer(
		playtime.WithClock(deps.Clock),
		playtime.WithMinuteHook(hooks),
		playtime.WithProgressSink(sinks),
		playtime.WithAccounting(cfg.TimerAccounting()),
	)

	res, err := timer.Run(ctx, rec, handle)
	if err != nil {
		return fmt.Errorf("error running timer: %w", err)
	}

	tracker.Finish(res)
	if status != nil {
		status.Stop()
	}
	printResult(out, rec, res, handle.ExitErr())

	if err := store.Save(); err != nil {
		return fmt.Errorf("error saving games: %w", err)
	}
	return nil
}

func printResult(out io.Writer, rec *games.Record, res playtime.Result, exitErr error) {
	switch res.Reason {
	case playtime.ReasonInterrupted:
		_, _ = fmt.Fprintf(out, "\ntimer for %s is interrupted\n", rec.Name)
	default:
		_, _ = fmt.Fprintf(out, "\n%s exited, timer stopped\n", rec.Name)
		if exitErr != nil {
			log.Info().Err(exitErr).Str("slug", rec.Slug).Msg("game exited with error")
		}
	}
	_, _ = fmt.Fprintf(out, "played %s this session, %s in total\n",
		playtime.FormatClock(res.SessionSeconds), playtime.FormatClock(rec.Timer))
}

// connectPresence connects every configured presence service. Services
// that cannot be reached are skipped for this run.
func connectPresence(ctx context.Context, out io.Writer, deps *Deps, noRPC bool) presence.Reporter {
	cfg := deps.Cfg
	var reporters presence.Multi

	switch {
	case noRPC || !cfg.DiscordEnabled() || deps.ConnectDiscord == nil:
		_, _ = fmt.Fprintln(out, "no rpc option is selected, running locally")
	default:
		dctx, cancel := context.WithTimeout(ctx, config.PresenceTimeout)
		client, err := deps.ConnectDiscord(dctx, cfg.DiscordAppID())
		cancel()
		if err != nil {
			if !errors.Is(err, discord.ErrNotRunning) {
				log.Warn().Err(err).Msg("discord rpc unavailable")
			}
			_, _ = fmt.Fprintln(out, "discord is not opened, running locally")
		} else {
			_, _ = fmt.Fprintln(out, "discord is opened, rpc started")
			reporters = append(reporters, client)
		}
	}

	if broker := cfg.MQTTBroker(); broker != "" && deps.ConnectMQTT != nil {
		mctx, cancel := context.WithTimeout(ctx, config.PresenceTimeout)
		pub, err := deps.ConnectMQTT(mctx, broker, cfg.MQTTTopic())
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("mqtt presence unavailable")
			_, _ = fmt.Fprintln(out, "mqtt broker is not reachable, not publishing")
		} else {
			reporters = append(reporters, pub)
		}
	}

	if len(reporters) == 0 {
		return nil
	}
	return reporters
}

// closePresence clears the activity and disconnects. It runs after the
// timer context may already be cancelled, so it uses its own.
func closePresence(reporter presence.Reporter) {
	if reporter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.PresenceTimeout)
	defer cancel()
	if err := reporter.ClearActivity(ctx); err != nil {
		log.Warn().Err(err).Msg("error clearing presence")
	}
	if err := reporter.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing presence")
	}
}

// openHistory returns nil when history is disabled or unavailable.
func openHistory(ctx context.Context, deps *Deps) database.SessionDBI {
	if !deps.Cfg.HistoryEnabled() || deps.OpenHistory == nil {
		return nil
	}
	db, err := deps.OpenHistory(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session history unavailable, not recording")
		if db != nil {
			_ = db.Close()
		}
		return nil
	}
	history.Maintain(db, deps.Cfg.PlaytimeRetention())
	return db
}

func startStatusAPI(ctx context.Context, deps *Deps) *api.Status {
	reg := prometheus.NewRegistry()
	status := api.NewStatus(deps.Clock, reg)
	done, err := api.Serve(ctx, deps.Cfg.APIListen(), api.NewRouter(status, reg, apimw.NewAllowList(deps.Cfg.AllowedIPs())))
	if err != nil {
		log.Warn().Err(err).Msg("status api unavailable")
		return nil
	}
	go func() {
		if err := <-done; err != nil {
			log.Error().Err(err).Msg("status api stopped")
		}
	}()
	return status
}
