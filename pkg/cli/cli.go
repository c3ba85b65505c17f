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

// Package cli implements the antimony command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/antimony/pkg/config"
	"github.com/ZaparooProject/antimony/pkg/database"
	"github.com/ZaparooProject/antimony/pkg/database/userdb"
	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/helpers"
	"github.com/ZaparooProject/antimony/pkg/helpers/command"
	"github.com/ZaparooProject/antimony/pkg/launcher"
	"github.com/ZaparooProject/antimony/pkg/presence"
	"github.com/ZaparooProject/antimony/pkg/presence/discord"
	"github.com/ZaparooProject/antimony/pkg/service/publishers"
	"github.com/ZaparooProject/antimony/pkg/ui/report"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Deps are the collaborators of every subcommand. Tests replace them.
type Deps struct {
	Cfg      *config.Instance
	Fs       afero.Fs
	Clock    clockwork.Clock
	Launcher *launcher.Launcher
	In       io.Reader

	ConnectDiscord func(ctx context.Context, appID string) (presence.Reporter, error)
	ConnectMQTT    func(ctx context.Context, broker, topic string) (presence.Reporter, error)
	OpenHistory    func(ctx context.Context) (database.SessionDBI, error)
	TermWidth      func() int

	DataDir string
	// img writes its output here
	WorkDir string
}

// DefaultDeps wires the real implementations for cfg.
func DefaultDeps(cfg *config.Instance) *Deps {
	dataDir := helpers.DataDir()
	return &Deps{
		Cfg:      cfg,
		Fs:       afero.NewOsFs(),
		Clock:    clockwork.NewRealClock(),
		Launcher: launcher.New(&command.RealExecutor{}),
		In:       os.Stdin,
		DataDir:  dataDir,
		ConnectDiscord: func(ctx context.Context, appID string) (presence.Reporter, error) {
			return discord.Connect(ctx, appID)
		},
		ConnectMQTT: func(ctx context.Context, broker, topic string) (presence.Reporter, error) {
			p := publishers.NewMQTTPublisher(broker, topic)
			if err := p.Connect(ctx); err != nil {
				return nil, err
			}
			return p, nil
		},
		OpenHistory: func(ctx context.Context) (database.SessionDBI, error) {
			return userdb.OpenUserDB(ctx, dataDir)
		},
		TermWidth: func() int {
			return report.TerminalWidth(os.Stdout)
		},
	}
}

// Setup creates the data directories, starts logging and loads the
// config. Extra log writers, such as stderr for --verbose, go in writers.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaults config.Values, writers []io.Writer) (*config.Instance, error) {
	for _, dir := range []string{helpers.ConfigDir(), helpers.DataDir(), helpers.LogDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}

	if err := helpers.InitLogging(helpers.LogDir(), writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaults)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.SetLogLevel(cfg.DebugLogging())

	log.Info().Str("version", config.AppVersion).Str("config", cfg.Path()).Msg("antimony starting")
	return cfg, nil
}

// NewRootCmd builds the command tree. Running it with no subcommand
// prints the report of all games.
func NewRootCmd(deps *Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName + " <subcommand> [game] [options]",
		Short:         "Track how long you play your games",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			return asUsageError(cobra.NoArgs(cmd, args))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, deps)
		},
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return asUsageError(err)
	})

	root.AddCommand(
		newAddCmd(deps),
		newInfoCmd(deps),
		newTimeCmd(deps),
		newImgCmd(deps),
	)

	return root
}

// Execute prints the version banner and runs root with args. Errors are
// printed to the command's error stream before being returned.
func Execute(ctx context.Context, root *cobra.Command, args []string) error {
	_, _ = fmt.Fprintf(root.OutOrStdout(), "%s v%s\n", config.AppName, config.AppVersion)

	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		_, _ = fmt.Fprintf(root.ErrOrStderr(), "error: %s\n", err)
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			_, _ = fmt.Fprintf(root.ErrOrStderr(), "Run '%s --help' for usage.\n", config.AppName)
		}
	}
	return err
}

// usageError marks mistakes in the command line itself.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func asUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// slugArg requires exactly one game slug.
func slugArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return asUsageError(fmt.Errorf("%s expects a game slug", cmd.Name()))
	}
	return nil
}

func openStore(deps *Deps) (*games.Store, error) {
	store, err := games.Open(deps.Fs, deps.Cfg.StorePath(deps.DataDir))
	if err != nil {
		return nil, fmt.Errorf("error loading games: %w", err)
	}
	return store, nil
}

// lookup returns slug's record or a not found error pointing at add.
func lookup(store *games.Store, slug string) (*games.Record, error) {
	rec, err := store.Get(slug)
	if err != nil {
		return nil, fmt.Errorf("%w; add with `add` subcommand", err)
	}
	return rec, nil
}

func runReport(cmd *cobra.Command, deps *Deps) error {
	store, err := openStore(deps)
	if err != nil {
		return err
	}
	width := report.DefaultWidth
	if deps.TermWidth != nil {
		width = deps.TermWidth()
	}
	return report.Write(cmd.OutOrStdout(), store.Records(), width)
}
