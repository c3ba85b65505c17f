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
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesWatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		exe   string
		watch string
		want  bool
	}{
		{name: "exact", exe: "/games/celeste/Celeste", watch: "/games/celeste/Celeste", want: true},
		{name: "under directory", exe: "/games/celeste/bin/Celeste", watch: "/games/celeste", want: true},
		{name: "trailing slash", exe: "/games/celeste/Celeste", watch: "/games/celeste/", want: true},
		{name: "sibling prefix", exe: "/games/celeste2/Celeste", watch: "/games/celeste", want: false},
		{name: "other", exe: "/usr/bin/bash", watch: "/games/celeste", want: false},
		{name: "empty watch", exe: "/games/celeste/Celeste", watch: "", want: false},
		{name: "empty exe", exe: "", watch: "/games/celeste", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MatchesWatch(filepath.FromSlash(tt.exe), filepath.FromSlash(tt.watch)))
		})
	}
}

func TestFindWatchedProcess_FindsRunningProcess(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}

	path, err := exec.LookPath("sleep")
	require.NoError(t, err)
	path, err = filepath.EvalSymlinks(path)
	require.NoError(t, err)

	cmd := exec.Command(path, "10")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	proc, err := FindWatchedProcess(path)
	require.NoError(t, err)
	require.NotNil(t, proc)
	assert.Positive(t, proc.Pid)
}

func TestFindWatchedProcess_NoMatch(t *testing.T) {
	t.Parallel()

	proc, err := FindWatchedProcess(filepath.Join(t.TempDir(), "no-such-game"))
	require.NoError(t, err)
	assert.Nil(t, proc)
}

func TestFindWatchedProcess_SkipsSelf(t *testing.T) {
	t.Parallel()

	self, err := os.Executable()
	require.NoError(t, err)
	self, err = filepath.EvalSymlinks(self)
	require.NoError(t, err)

	proc, err := FindWatchedProcess(self)
	require.NoError(t, err)
	if proc != nil {
		assert.NotEqual(t, os.Getpid(), proc.Pid)
	}
}
