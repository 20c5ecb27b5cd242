package photometric

import (
	"image"
)

// clahe applies contrast-limited adaptive histogram equalization. The image
// is divided into a tile grid, each tile gets a clipped-histogram
// equalization LUT, and every pixel is mapped through a bilinear blend of
// the four surrounding tile LUTs to avoid visible tile seams.
func (n *Normalizer) clahe(g *image.Gray, clipLimit float64) *image.Gray {
	return claheGray(g, clipLimit, n.cfg.CLAHETileGrid[0], n.cfg.CLAHETileGrid[1])
}

func claheGray(g *image.Gray, clipLimit float64, tilesX, tilesY int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return g
	}
	if tilesX < 1 {
		tilesX = 1
	}
	if tilesY < 1 {
		tilesY = 1
	}
	// Tiles smaller than a glyph produce LUTs dominated by a handful of
	// pixels; shrink the grid for small crops instead.
	for tilesX > 1 && w/tilesX < 16 {
		tilesX--
	}
	for tilesY > 1 && h/tilesY < 16 {
		tilesY--
	}

	tileW := (w + tilesX - 1) / tilesX
	tileH := (h + tilesY - 1) / tilesY

	luts := make([][256]uint8, tilesX*tilesY)
	for ty := range tilesY {
		for tx := range tilesX {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := minInt(x0+tileW, w), minInt(y0+tileH, h)
			luts[ty*tilesX+tx] = tileLUT(g, x0, y0, x1, y1, clipLimit)
		}
	}

	out := image.NewGray(b)
	for y := range h {
		// Tile-center coordinates for interpolation.
		fy := (float64(y)-float64(tileH)/2 + 0.5) / float64(tileH)
		ty0 := int(fy)
		if fy < 0 {
			ty0 = -1
		}
		ty1 := ty0 + 1
		wy := fy - float64(ty0)
		cty0 := clampInt(ty0, 0, tilesY-1)
		cty1 := clampInt(ty1, 0, tilesY-1)

		for x := range w {
			fx := (float64(x)-float64(tileW)/2 + 0.5) / float64(tileW)
			tx0 := int(fx)
			if fx < 0 {
				tx0 = -1
			}
			tx1 := tx0 + 1
			wx := fx - float64(tx0)
			ctx0 := clampInt(tx0, 0, tilesX-1)
			ctx1 := clampInt(tx1, 0, tilesX-1)

			v := g.Pix[y*g.Stride+x]
			v00 := float64(luts[cty0*tilesX+ctx0][v])
			v10 := float64(luts[cty0*tilesX+ctx1][v])
			v01 := float64(luts[cty1*tilesX+ctx0][v])
			v11 := float64(luts[cty1*tilesX+ctx1][v])
			top := v00 + (v10-v00)*wx
			bot := v01 + (v11-v01)*wx
			out.Pix[y*out.Stride+x] = clampByte(top + (bot-top)*wy)
		}
	}
	return out
}

// tileLUT builds the equalization LUT for one tile with histogram clipping:
// bins above clipLimit times the uniform level are truncated and the excess
// is redistributed evenly, which bounds the local contrast gain.
func tileLUT(g *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	n := 0
	for y := y0; y < y1; y++ {
		row := y * g.Stride
		for x := x0; x < x1; x++ {
			hist[g.Pix[row+x]]++
			n++
		}
	}
	var lut [256]uint8
	if n == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	clip := int(clipLimit * float64(n) / 256)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}
	share := excess / 256
	rem := excess % 256
	for i := range hist {
		hist[i] += share
		if i < rem {
			hist[i]++
		}
	}

	cum := 0
	for i := range hist {
		cum += hist[i]
		lut[i] = clampByte(float64(cum) * 255 / float64(n))
	}
	return lut
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
