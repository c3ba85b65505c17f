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

package helpers

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sleepCommand(ctx context.Context) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "ping", "-n", "11", "127.0.0.1")
	}
	return exec.CommandContext(ctx, "sleep", "10")
}

func exitCommand(ctx context.Context) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/c", "exit", "0")
	}
	return exec.CommandContext(ctx, "true")
}

func TestIsProcessRunning_Self(t *testing.T) {
	t.Parallel()

	self, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	assert.True(t, IsProcessRunning(self))
	assert.True(t, IsPidRunning(os.Getpid()))
}

func TestIsProcessRunning_Invalid(t *testing.T) {
	t.Parallel()

	assert.False(t, IsProcessRunning(nil))
	assert.False(t, IsPidRunning(0))
	assert.False(t, IsPidRunning(-5))
}

func TestIsProcessRunning_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := sleepCommand(ctx)
	require.NoError(t, cmd.Start())
	assert.True(t, IsProcessRunning(cmd.Process))

	require.NoError(t, cmd.Process.Kill())
	_ = cmd.Wait()
	assert.False(t, IsProcessRunning(cmd.Process))
}

func TestIsProcessRunning_Exited(t *testing.T) {
	t.Parallel()

	cmd := exitCommand(context.Background())
	require.NoError(t, cmd.Start())
	require.NoError(t, cmd.Wait())
	assert.False(t, IsProcessRunning(cmd.Process))
}
