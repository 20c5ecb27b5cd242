package lines

import (
	"sort"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// component is a connected foreground blob with its bounding extent.
type component struct {
	minX, minY, maxX, maxY int
	count                  int
}

func (c component) centerY() float64 { return float64(c.minY+c.maxY+1) / 2 }

// minComponentArea filters speckle noise before clustering.
const minComponentArea = 3

// connectedComponents finds 4-connected foreground components in the mask.
func connectedComponents(mask []bool, w, h int) []component {
	visited := make([]bool, w*h)
	var comps []component

	queue := make([]int, 0, 256)
	for y := range h {
		for x := range w {
			idx := y*w + x
			if !mask[idx] || visited[idx] {
				continue
			}
			c := component{minX: x, minY: y, maxX: x, maxY: y}
			queue = queue[:0]
			queue = append(queue, idx)
			visited[idx] = true
			for len(queue) > 0 {
				ci := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				cx, cy := ci%w, ci/w
				c.count++
				if cx < c.minX {
					c.minX = cx
				}
				if cy < c.minY {
					c.minY = cy
				}
				if cx > c.maxX {
					c.maxX = cx
				}
				if cy > c.maxY {
					c.maxY = cy
				}
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						ni := ny*w + nx
						if mask[ni] && !visited[ni] {
							visited[ni] = true
							queue = append(queue, ni)
						}
					}
				}
			}
			if c.count >= minComponentArea {
				comps = append(comps, c)
			}
		}
	}
	return comps
}

// detectByClustering groups connected components into lines by density-based
// clustering of their vertical centers. In one dimension DBSCAN with
// minPts=1 reduces to splitting the sorted centers wherever the gap between
// neighbors exceeds eps, which is what this implements.
func detectByClustering(mask []bool, w, h int, cfg Config) []utils.Box {
	comps := connectedComponents(mask, w, h)
	if len(comps) == 0 {
		return nil
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].centerY() < comps[j].centerY() })

	var boxes []utils.Box
	cluster := []component{comps[0]}
	flush := func() {
		if box, ok := clusterBox(cluster); ok {
			boxes = append(boxes, box)
		}
	}
	for _, c := range comps[1:] {
		prev := cluster[len(cluster)-1]
		if c.centerY()-prev.centerY() > cfg.DBSCANEps {
			flush()
			cluster = cluster[:0]
		}
		cluster = append(cluster, c)
	}
	flush()
	return boxes
}

// clusterBox returns the bounding union of a cluster's components.
func clusterBox(cluster []component) (utils.Box, bool) {
	if len(cluster) == 0 {
		return utils.Box{}, false
	}
	minX, minY := cluster[0].minX, cluster[0].minY
	maxX, maxY := cluster[0].maxX, cluster[0].maxY
	for _, c := range cluster[1:] {
		if c.minX < minX {
			minX = c.minX
		}
		if c.minY < minY {
			minY = c.minY
		}
		if c.maxX > maxX {
			maxX = c.maxX
		}
		if c.maxY > maxY {
			maxY = c.maxY
		}
	}
	return utils.NewBox(float64(minX), float64(minY), float64(maxX+1), float64(maxY+1)), true
}
