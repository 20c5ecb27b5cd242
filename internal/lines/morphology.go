package lines

import (
	"sort"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// detectByMorphology merges same-line glyphs into contiguous blobs with a
// wide horizontal dilation, then takes the bounding boxes of the resulting
// components as lines.
func detectByMorphology(mask []bool, w, h int, cfg Config) []utils.Box {
	k := cfg.DilationWidth
	if k < 3 {
		k = 3
	}
	dilated := utils.DilateHorizontal(mask, w, h, k)
	comps := connectedComponents(dilated, w, h)
	if len(comps) == 0 {
		return nil
	}

	boxes := make([]utils.Box, 0, len(comps))
	for _, c := range comps {
		if c.maxY-c.minY+1 < cfg.MinLineHeight {
			continue
		}
		boxes = append(boxes, utils.NewBox(float64(c.minX), float64(c.minY), float64(c.maxX+1), float64(c.maxY+1)))
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].MinY < boxes[j].MinY })
	return mergeVerticallyAligned(boxes, cfg)
}

// mergeVerticallyAligned merges boxes whose vertical spans substantially
// overlap; dilation can still split one line into multiple blobs when word
// spacing exceeds the kernel width.
func mergeVerticallyAligned(boxes []utils.Box, cfg Config) []utils.Box {
	if len(boxes) <= 1 {
		return boxes
	}
	out := []utils.Box{boxes[0]}
	for _, b := range boxes[1:] {
		last := &out[len(out)-1]
		minH := last.Height()
		if b.Height() < minH {
			minH = b.Height()
		}
		if last.VerticalOverlap(b) > 0.5*minH {
			*last = utils.NewBox(
				minFloat(last.MinX, b.MinX), minFloat(last.MinY, b.MinY),
				maxFloat(last.MaxX, b.MaxX), maxFloat(last.MaxY, b.MaxY),
			)
			continue
		}
		out = append(out, b)
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
