/*
Antimony
Copyright (c) 2026 The Zaparoo Project Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of Antimony.

Antimony is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Antimony is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Antimony.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/ZaparooProject/antimony/pkg/cli"
	"github.com/ZaparooProject/antimony/pkg/config"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func run(args []string) error {
	// logging starts before cobra parses flags
	var writers []io.Writer
	if slices.Contains(args, "--verbose") {
		writers = append(writers, os.Stderr)
	}

	cfg, err := cli.Setup(config.BaseDefaults, writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return err
	}

	deps := cli.DefaultDeps(cfg)
	if deps.WorkDir, err = os.Getwd(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return fmt.Errorf("error getting working directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(deps)
	root.PersistentFlags().Bool("verbose", false, "also write logs to stderr")

	err = cli.Execute(ctx, root, args)
	if err != nil {
		log.Debug().Err(err).Msg("exiting with error")
	}
	return err
}
