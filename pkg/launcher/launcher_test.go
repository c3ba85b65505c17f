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

package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/helpers/command"
	"github.com/ZaparooProject/antimony/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Celeste")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	exe := filepath.Join(dir, "Celeste.bin")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // test executable
	return exe
}

func TestLaunch_StartsFromExecutableDir(t *testing.T) {
	t.Parallel()

	exe := writeExecutable(t)
	proc := mocks.NewFakeProcess(4242)

	mockCmd := &mocks.MockCommandExecutor{}
	mockCmd.On("Start", command.StartOptions{Dir: filepath.Dir(exe), Detach: true}, exe, mock.Anything).
		Return(proc, nil)

	h, err := New(mockCmd).Launch(&games.Record{Slug: "celeste", Process: exe})
	require.NoError(t, err)
	assert.Equal(t, 4242, h.Pid())
	assert.False(t, h.Exited())

	proc.Exit(nil)
	assert.True(t, h.Exited())
	require.NoError(t, h.ExitErr())

	mockCmd.AssertExpectations(t)
}

func TestLaunch_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		exe  string
	}{
		{name: "no executable set", exe: ""},
		{name: "missing file", exe: filepath.Join(dir, "missing.exe")},
		{name: "directory", exe: dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockCmd := &mocks.MockCommandExecutor{}
			_, err := New(mockCmd).Launch(&games.Record{Slug: "celeste", Process: tt.exe})
			require.ErrorIs(t, err, games.ErrNoExecutable)
			mockCmd.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLaunch_StartFailure(t *testing.T) {
	t.Parallel()

	exe := writeExecutable(t)
	mockCmd := &mocks.MockCommandExecutor{}
	mockCmd.On("Start", mock.Anything, exe, mock.Anything).Return(nil, errors.New("exec format error"))

	_, err := New(mockCmd).Launch(&games.Record{Slug: "celeste", Process: exe})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec format error")
}

func TestHandle_FollowsWatchedProcess(t *testing.T) {
	t.Parallel()

	child := mocks.NewFakeProcess(100)
	game := &os.Process{Pid: 200}

	finds := 0
	gameAlive := true
	h := &Handle{
		child: child,
		watch: "/games/celeste",
		find: func(watch string) (*os.Process, error) {
			assert.Equal(t, "/games/celeste", watch)
			finds++
			if finds == 1 {
				return game, nil
			}
			return nil, nil
		},
		alive: func(p *os.Process) bool {
			assert.Same(t, game, p)
			return gameAlive
		},
	}

	assert.False(t, h.Exited(), "child still running")
	assert.Equal(t, 0, finds, "no scan while the child runs")

	child.Exit(nil)
	assert.False(t, h.Exited(), "handed off to the watched process")
	assert.False(t, h.Exited())
	assert.Equal(t, 1, finds, "watched process is not rescanned while alive")

	gameAlive = false
	assert.True(t, h.Exited())
	assert.Equal(t, 2, finds)
}

func TestHandle_WatchNotFoundExits(t *testing.T) {
	t.Parallel()

	child := mocks.NewFakeProcess(100)
	child.Exit(errors.New("exit status 1"))

	h := &Handle{
		child: child,
		watch: "/games/hades",
		find:  func(string) (*os.Process, error) { return nil, errors.New("permission denied") },
		alive: func(*os.Process) bool { return false },
	}

	assert.True(t, h.Exited())
	require.Error(t, h.ExitErr())
}

func TestHandle_NoWatchFollowsChildOnly(t *testing.T) {
	t.Parallel()

	child := mocks.NewFakeProcess(100)
	h := &Handle{
		child: child,
		find: func(string) (*os.Process, error) {
			t.Fatal("find must not be called without a watch path")
			return nil, nil
		},
	}

	assert.False(t, h.Exited())
	child.Exit(nil)
	assert.True(t, h.Exited())
}
