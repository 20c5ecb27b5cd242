// Package testutil provides synthetic images and scripted recognizers for
// pipeline tests.
package testutil

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextImageConfig configures synthetic packaging-crop generation.
type TextImageConfig struct {
	// Lines are drawn top to bottom with even spacing.
	Lines []string

	Width  int
	Height int

	Background color.Color
	Foreground color.Color

	// Rotation tilts the final image, in degrees.
	Rotation float64

	// ShadowGradient overlays a linear brightness ramp across the width,
	// darkening the left edge by the given amount (0-255).
	ShadowGradient float64
}

// DefaultTextImageConfig returns a two-line crop config with good contrast.
func DefaultTextImageConfig() TextImageConfig {
	return TextImageConfig{
		Lines:      []string{"LOTE 202522", "VAL 12/2026"},
		Width:      320,
		Height:     96,
		Background: color.White,
		Foreground: color.Black,
	}
}

// GenerateTextImage renders the configured lines with a fixed bitmap font,
// then applies the optional shadow gradient and rotation.
func GenerateTextImage(cfg TextImageConfig) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{cfg.Foreground},
		Face: face,
	}

	lineHeight := cfg.Height / (len(cfg.Lines) + 1)
	for i, line := range cfg.Lines {
		textWidth := font.MeasureString(face, line).Ceil()
		x := (cfg.Width - textWidth) / 2
		if x < 2 {
			x = 2
		}
		y := (i+1)*lineHeight + face.Metrics().Ascent.Ceil()/2
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
	}

	var out image.Image = img
	if cfg.ShadowGradient > 0 {
		out = applyShadowGradient(img, cfg.ShadowGradient)
	}
	if cfg.Rotation != 0 {
		out = imaging.Rotate(out, cfg.Rotation, color.White)
	}
	return out
}

// applyShadowGradient darkens pixels linearly from left (full strength) to
// right (none), simulating a side-lit shelf photo.
func applyShadowGradient(img *image.RGBA, strength float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	w := float64(b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			drop := strength * (1 - float64(x-b.Min.X)/w)
			r, g, bl, a := img.At(x, y).RGBA()
			out.Set(x, y, color.RGBA{
				R: subClamp(uint8(r>>8), drop),
				G: subClamp(uint8(g>>8), drop),
				B: subClamp(uint8(bl>>8), drop),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

func subClamp(v uint8, d float64) uint8 {
	r := float64(v) - d
	if r < 0 {
		return 0
	}
	return uint8(r)
}

// SolidImage returns a uniform image of the given size and shade.
func SolidImage(w, h int, shade uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	return img
}
