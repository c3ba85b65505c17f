//go:build windows

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
	"os"

	"golang.org/x/sys/windows"
)

// exit code reported while a process is alive
const stillActive = 259

// IsPidRunning reports whether a process with pid exists and has not
// exited. Processes that cannot be opened count as gone.
func IsPidRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	//nolint:gosec // pid checked positive, Windows PIDs are 32-bit
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer func() { _ = windows.CloseHandle(h) }()

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}

// IsProcessRunning reports whether proc is still alive.
func IsProcessRunning(proc *os.Process) bool {
	if proc == nil {
		return false
	}
	return IsPidRunning(proc.Pid)
}
