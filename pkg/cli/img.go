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
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/antimony/pkg/banner"
	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/spf13/cobra"
)

func newImgCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "img <game>",
		Short: "Generate a play time banner for a game",
		Args:  slugArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(deps)
			if err != nil {
				return err
			}
			rec, err := lookup(store, args[0])
			if err != nil {
				return err
			}
			// the store may have been edited by hand
			if err := games.ValidateSlug(rec.Slug); err != nil {
				return err
			}

			r := banner.NewRenderer(deps.Fs, deps.Cfg.AssetsPath(deps.DataDir))
			img, err := r.Render(rec)
			if err != nil {
				return fmt.Errorf("error generating image: %w", err)
			}

			path := filepath.Join(deps.WorkDir, rec.Slug+".png")
			if err := banner.Save(deps.Fs, path, img); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			return nil
		},
	}
}
