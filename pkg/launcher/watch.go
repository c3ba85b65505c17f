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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// MatchesWatch reports whether exe is the watch path itself or lives under
// it when watch is a directory.
func MatchesWatch(exe, watch string) bool {
	if exe == "" || watch == "" {
		return false
	}
	exe = filepath.Clean(exe)
	watch = filepath.Clean(watch)
	if exe == watch {
		return true
	}
	return strings.HasPrefix(exe, watch+string(filepath.Separator))
}

// FindWatchedProcess scans running processes for one whose executable
// matches watch. It returns nil without error when none is found. Our own
// process is never matched.
func FindWatchedProcess(watch string) (*os.Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	for _, p := range procs {
		pid := int(p.Pid)
		if pid == self {
			continue
		}

		exe, err := p.Exe()
		if err != nil {
			continue
		}
		if !MatchesWatch(exe, watch) {
			continue
		}

		proc, err := os.FindProcess(pid)
		if err != nil {
			continue
		}
		log.Debug().Int("pid", pid).Str("exe", exe).Msg("found watched process")
		return proc, nil
	}

	return nil, nil //nolint:nilnil // no matching process
}
