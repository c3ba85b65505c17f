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

package cli

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/spf13/cobra"
)

func newAddCmd(deps *Deps) *cobra.Command {
	var name, exe, watch string

	cmd := &cobra.Command{
		Use:   "add <game>",
		Short: "Add a game, or update its name and executable",
		Args:  slugArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if err := games.ValidateSlug(slug); err != nil {
				return err
			}
			store, err := openStore(deps)
			if err != nil {
				return err
			}

			in := bufio.NewReader(deps.In)
			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("name") {
				if name, err = prompt(in, out, "full game name: "); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("exec") {
				if exe, err = prompt(in, out, "game executable path: "); err != nil {
					return err
				}
			}

			// blank answers keep the current values
			existed, _ := store.Get(slug)
			if existed != nil {
				name = cmp.Or(name, existed.Name)
				exe = cmp.Or(exe, existed.Process)
			}
			name = cmp.Or(name, slug)

			rec := store.Put(slug, name, exe)
			if cmd.Flags().Changed("watch") {
				rec.Watch = watch
			}

			if err := store.Save(); err != nil {
				return fmt.Errorf("error saving games: %w", err)
			}

			verb := "added"
			if existed != nil {
				verb = "updated"
			}
			_, _ = fmt.Fprintf(out, "%s %s (%s)\n", verb, rec.Name, slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full game name")
	cmd.Flags().StringVar(&exe, "exec", "", "path to the game executable")
	cmd.Flags().StringVar(&watch, "watch", "",
		"executable path or directory of the real game, when the executable is a launcher")

	return cmd
}

// prompt reads one trimmed line. A missing final newline is accepted.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
