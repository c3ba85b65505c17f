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

// Package launcher starts a game's executable and reports when it, or the
// real game it handed off to, has exited.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/helpers"
	"github.com/ZaparooProject/antimony/pkg/helpers/command"
	"github.com/rs/zerolog/log"
)

// Launcher starts games through a command.Executor.
type Launcher struct {
	exec  command.Executor
	find  func(watch string) (*os.Process, error)
	alive func(proc *os.Process) bool
}

func New(exec command.Executor) *Launcher {
	if exec == nil {
		exec = &command.RealExecutor{}
	}
	return &Launcher{
		exec:  exec,
		find:  FindWatchedProcess,
		alive: helpers.IsProcessRunning,
	}
}

// Launch starts the record's executable from its own directory. The child
// is detached from the terminal's process group and keeps running if the
// timer is interrupted.
func (l *Launcher) Launch(rec *games.Record) (*Handle, error) {
	exe, err := rec.Executable()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(exe)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", rec.Slug, games.ErrNoExecutable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w: %s is a directory", rec.Slug, games.ErrNoExecutable, exe)
	}

	child, err := l.exec.Start(command.StartOptions{
		Dir:    filepath.Dir(exe),
		Detach: true,
	}, exe)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", exe, err)
	}

	log.Info().Str("slug", rec.Slug).Str("exe", exe).Int("pid", child.Pid()).
		Msg("launched game")

	return &Handle{
		child: child,
		watch: rec.Watch,
		find:  l.find,
		alive: l.alive,
	}, nil
}

// Handle tracks a launched game. It is polled from a single goroutine.
type Handle struct {
	child   command.Process
	watched *os.Process
	find    func(watch string) (*os.Process, error)
	alive   func(proc *os.Process) bool
	watch   string
}

// Pid returns the launched child's process ID.
func (h *Handle) Pid() int {
	return h.child.Pid()
}

// Exited reports whether the game is gone. Without a watch path this is
// the launched child's exit. With one, a running process matching the watch
// path keeps the game alive after the child has exited.
func (h *Handle) Exited() bool {
	if !h.child.Exited() {
		return false
	}
	if h.watch == "" {
		return true
	}

	if h.watched != nil {
		if h.alive(h.watched) {
			return false
		}
		log.Info().Int("pid", h.watched.Pid).Msg("watched game process exited")
		h.watched = nil
	}

	proc, err := h.find(h.watch)
	if err != nil {
		log.Warn().Err(err).Str("watch", h.watch).Msg("failed to scan for watched process")
		return true
	}
	if proc == nil {
		return true
	}

	log.Info().Int("pid", proc.Pid).Str("watch", h.watch).Msg("following watched game process")
	h.watched = proc
	return false
}

// ExitErr returns the launched child's wait error, if it has exited.
func (h *Handle) ExitErr() error {
	err := h.child.Err()
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		log.Debug().Int("code", exitErr.ExitCode()).Msg("game exited with non-zero code")
	}
	return err
}
