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

// Package banner renders the 300x100 play time banner of a game.
package banner

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/antimony/pkg/games"
	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 300
	Height = 100

	iconSize = 64
	iconX    = 18
	iconY    = 18

	textX       = 94
	titleY      = 23
	captionY    = 54
	titleSize   = 30
	captionSize = 20

	gradStart = 0.6
	gradEnd   = 1.0

	imgsDir    = "imgs"
	bannerFile = "banner.png"
	iconFile   = "icon.png"

	TitleFont   = "Montserrat-SemiBoldItalic.ttf"
	CaptionFont = "Montserrat-Italic.ttf"
)

var (
	ErrNoBanner = errors.New("no banner image")
	ErrNoIcon   = errors.New("no icon image")
)

// Renderer composes banners from the images and fonts under an assets
// directory.
type Renderer struct {
	fs        afero.Fs
	assetsDir string
}

func NewRenderer(fs afero.Fs, assetsDir string) *Renderer {
	return &Renderer{fs: fs, assetsDir: assetsDir}
}

// Paths returns the banner and icon paths of slug.
func (r *Renderer) Paths(slug string) (bannerPath, iconPath string) {
	dir := filepath.Join(r.assetsDir, imgsDir, slug)
	return filepath.Join(dir, bannerFile), filepath.Join(dir, iconFile)
}

// Render draws the banner of rec. Both the banner and icon images must
// exist.
func (r *Renderer) Render(rec *games.Record) (*image.RGBA, error) {
	bannerPath, iconPath := r.Paths(rec.Slug)

	bannerImg, err := r.loadImage(bannerPath, ErrNoBanner)
	if err != nil {
		return nil, err
	}
	iconImg, err := r.loadImage(iconPath, ErrNoIcon)
	if err != nil {
		return nil, err
	}

	titleFace, err := r.loadFace(TitleFont, gomediumitalic.TTF, titleSize)
	if err != nil {
		return nil, err
	}
	defer func() { _ = titleFace.Close() }()
	captionFace, err := r.loadFace(CaptionFont, goitalic.TTF, captionSize)
	if err != nil {
		return nil, err
	}
	defer func() { _ = captionFace.Close() }()

	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(canvas, fitRect(bannerImg.Bounds()), bannerImg, bannerImg.Bounds(), draw.Src, nil)
	applyGradient(canvas, averageColor(bannerImg))

	icon := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	round := roundMask(iconImg)
	draw.CatmullRom.Scale(icon, icon.Bounds(), round, round.Bounds(), draw.Src, nil)
	draw.Draw(canvas, image.Rect(iconX, iconY, iconX+iconSize, iconY+iconSize), icon, image.Point{}, draw.Over)

	drawText(canvas, titleFace, textX, titleY, rec.Name)
	drawText(canvas, captionFace, textX, captionY, playtime.FormatHours(rec.Timer))

	return canvas, nil
}

// Save writes img as a PNG to path.
func Save(fs afero.Fs, path string, img image.Image) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) loadImage(path string, missing error) (image.Image, error) {
	f, err := r.fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", missing, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// loadFace uses the named font from the assets directory, or the
// fallback when it is absent or unreadable.
func (r *Renderer) loadFace(name string, fallback []byte, size float64) (font.Face, error) {
	path := filepath.Join(r.assetsDir, name)
	f, err := r.parseFont(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("unusable font, using fallback")
		}
		f, err = opentype.Parse(fallback)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fallback font: %w", err)
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func (r *Renderer) parseFont(path string) (*opentype.Font, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return f, nil
}

// fitRect scales b to a height of 100 when portrait and a width of 300
// otherwise, anchored at the origin. Overflow is cropped by the canvas.
func fitRect(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.Rectangle{}
	}
	if w < h {
		return image.Rect(0, 0, w*Height/h, Height)
	}
	return image.Rect(0, 0, Width, h*Width/w)
}

func averageColor(img image.Image) color.RGBA {
	b := img.Bounds()
	n := uint64(b.Dx()) * uint64(b.Dy())
	if n == 0 {
		return color.RGBA{A: 0xff}
	}
	var rs, gs, bs uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rs += uint64(c.R)
			gs += uint64(c.G)
			bs += uint64(c.B)
		}
	}
	return color.RGBA{R: uint8(rs / n), G: uint8(gs / n), B: uint8(bs / n), A: 0xff}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// applyGradient blends every row towards target, more so further down.
func applyGradient(img *image.RGBA, target color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := lerp(gradStart, gradEnd, float64(y-b.Min.Y)/float64(b.Dy()))
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(lerp(float64(c.R), float64(target.R), t)),
				G: uint8(lerp(float64(c.G), float64(target.G), t)),
				B: uint8(lerp(float64(c.B), float64(target.B), t)),
				A: 0xff,
			})
		}
	}
}

// roundMask copies img with everything outside its inscribed circle
// made transparent.
func roundMask(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	r := float64(b.Dx()) / 2
	for y := range b.Dy() {
		for x := range b.Dx() {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy >= r*r {
				out.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return out
}

// drawText places s with its ascender line at (x, y).
func drawText(dst draw.Image, face font.Face, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}
