//go:build !windows

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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, proc Process) {
	t.Helper()
	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}
}

func TestRealExecutor_Start(t *testing.T) {
	t.Parallel()

	executor := &RealExecutor{}

	t.Run("short_lived_command_exits", func(t *testing.T) {
		t.Parallel()

		proc, err := executor.Start(StartOptions{}, "true")
		require.NoError(t, err)
		assert.Positive(t, proc.Pid())

		waitDone(t, proc)

		assert.True(t, proc.Exited())
		assert.NoError(t, proc.Err())
	})

	t.Run("failed_command_reports_wait_error", func(t *testing.T) {
		t.Parallel()

		proc, err := executor.Start(StartOptions{}, "false")
		require.NoError(t, err)

		waitDone(t, proc)

		assert.Error(t, proc.Err())
	})

	t.Run("long_running_command_is_not_exited", func(t *testing.T) {
		t.Parallel()

		proc, err := executor.Start(StartOptions{Detach: true}, "sleep", "10")
		require.NoError(t, err)

		assert.False(t, proc.Exited())
		assert.NoError(t, proc.Err())

		osProc, err := os.FindProcess(proc.Pid())
		require.NoError(t, err)
		require.NoError(t, osProc.Kill())

		waitDone(t, proc)
		assert.True(t, proc.Exited())
	})

	t.Run("runs_in_working_directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		proc, err := executor.Start(StartOptions{Dir: dir}, "sh", "-c", "touch marker")
		require.NoError(t, err)

		waitDone(t, proc)
		require.NoError(t, proc.Err())

		_, err = os.Stat(filepath.Join(dir, "marker"))
		assert.NoError(t, err)
	})

	t.Run("returns_error_for_nonexistent_command", func(t *testing.T) {
		t.Parallel()

		_, err := executor.Start(StartOptions{}, "nonexistent_command_that_should_not_exist_12345")

		require.Error(t, err)
	})
}

func TestExecutor_Interface(t *testing.T) {
	t.Parallel()

	var _ Executor = (*RealExecutor)(nil)
}
