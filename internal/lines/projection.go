package lines

import (
	"github.com/shelfscan/expiryocr/internal/utils"
)

// projectRows sums foreground pixels per row.
func projectRows(mask []bool, w, h int) []int {
	sums := make([]int, h)
	for y := range h {
		row := y * w
		n := 0
		for x := range w {
			if mask[row+x] {
				n++
			}
		}
		sums[y] = n
	}
	return sums
}

// detectByProjection finds line bands from the horizontal projection
// histogram. Rows above the noise floor qualify; qualifying runs separated by
// gaps of at most MaxLineGap rows are merged; bands shorter than
// MinLineHeight are discarded.
func detectByProjection(mask []bool, w, h int, cfg Config) []utils.Box {
	sums := projectRows(mask, w, h)
	peak := 0
	for _, s := range sums {
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		return nil
	}
	floor := int(cfg.NoiseFloor * float64(peak))
	if floor < 1 {
		floor = 1
	}

	type band struct{ y0, y1 int }
	var bands []band
	inBand := false
	start := 0
	gap := 0
	for y := range h {
		if sums[y] >= floor {
			if !inBand {
				inBand = true
				start = y
			}
			gap = 0
			continue
		}
		if inBand {
			gap++
			if gap > cfg.MaxLineGap {
				bands = append(bands, band{y0: start, y1: y - gap + 1})
				inBand = false
				gap = 0
			}
		}
	}
	if inBand {
		end := h
		// Trim trailing sub-floor rows absorbed by the gap counter.
		for end > start && sums[end-1] < floor {
			end--
		}
		bands = append(bands, band{y0: start, y1: end})
	}

	boxes := make([]utils.Box, 0, len(bands))
	for _, b := range bands {
		if b.y1-b.y0 < cfg.MinLineHeight {
			continue
		}
		x0, x1 := horizontalExtent(mask, w, b.y0, b.y1)
		if x1 <= x0 {
			continue
		}
		boxes = append(boxes, utils.NewBox(float64(x0), float64(b.y0), float64(x1), float64(b.y1)))
	}
	return boxes
}

// horizontalExtent returns the [x0,x1) span of foreground pixels within rows
// [y0,y1).
func horizontalExtent(mask []bool, w, y0, y1 int) (int, int) {
	x0, x1 := w, 0
	for y := y0; y < y1; y++ {
		row := y * w
		for x := range w {
			if mask[row+x] {
				if x < x0 {
					x0 = x
				}
				if x+1 > x1 {
					x1 = x + 1
				}
			}
		}
	}
	return x0, x1
}
