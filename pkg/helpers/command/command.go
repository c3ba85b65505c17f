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

package command

import (
	"context"
	"os"
	"os/exec"
)

// StartOptions configures command startup behavior.
type StartOptions struct {
	// Dir is the working directory of the child. Empty inherits ours.
	Dir string
	// Detach starts the child in its own process group so a terminal
	// interrupt sent to antimony is not delivered to the child as well.
	Detach bool
}

// Process is a handle to a started child process.
type Process interface {
	// Pid returns the OS process ID of the child.
	Pid() int
	// Exited reports, without blocking, whether the child has terminated.
	Exited() bool
	// Done is closed once the child has terminated and been reaped.
	Done() <-chan struct{}
	// Err returns the child's wait error. It is nil until Done is closed.
	Err() error
}

// Executor provides an abstraction over exec.Command for testability.
// This allows processes to be mocked in tests without starting real
// system commands.
type Executor interface {
	// Start starts a command without waiting for it to complete and
	// returns a handle that can be polled for exit.
	Start(opts StartOptions, name string, args ...string) (Process, error)
}

// RealExecutor uses actual exec.Command to start system commands.
// This is the production implementation used in normal operation.
type RealExecutor struct{}

// Start starts a system command with inherited stdio. The child is not
// bound to any context: cancelling a timer must never kill the game.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Start(opts StartOptions, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(context.Background(), name, args...)
	cmd.Dir = opts.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	applyStartOptions(cmd, opts)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	c := &child{
		cmd:  cmd,
		done: make(chan struct{}),
	}
	go c.wait()

	return c, nil
}

type child struct {
	err  error
	cmd  *exec.Cmd
	done chan struct{}
}

func (c *child) wait() {
	c.err = c.cmd.Wait()
	close(c.done)
}

func (c *child) Pid() int {
	return c.cmd.Process.Pid
}

func (c *child) Exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *child) Done() <-chan struct{} {
	return c.done
}

func (c *child) Err() error {
	if !c.Exited() {
		return nil
	}
	return c.err
}
