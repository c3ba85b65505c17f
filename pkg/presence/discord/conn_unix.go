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

package discord

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
)

// sandboxed installs put the socket in a subdirectory of the runtime dir
var socketSubdirs = []string{
	"",
	filepath.Join("app", "com.discordapp.Discord"),
	"snap.discord",
}

func endpoints() []string {
	var dirs []string
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if v := os.Getenv(env); v != "" && !slices.Contains(dirs, v) {
			dirs = append(dirs, v)
		}
	}
	if !slices.Contains(dirs, "/tmp") {
		dirs = append(dirs, "/tmp")
	}

	paths := make([]string, 0, len(dirs)*len(socketSubdirs)*pipeCount)
	for _, dir := range dirs {
		for _, sub := range socketSubdirs {
			for i := range pipeCount {
				paths = append(paths, filepath.Join(dir, sub, fmt.Sprintf("discord-ipc-%d", i)))
			}
		}
	}
	return paths
}

func dialEndpoint(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", path, err)
	}
	return conn, nil
}
