package lines

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// Region is a detected text-line segment in working-image coordinates.
// Immutable after detection; one pipeline pass lifetime.
type Region struct {
	Box   utils.Box
	Angle float64 // residual skew estimate in degrees, 0 if pre-corrected
	Index int     // top-to-bottom ordering
}

// Result is the output of one detection pass.
type Result struct {
	// Image is the working image the regions refer to. It differs from the
	// input only when a global pre-rotation was applied.
	Image image.Image
	// Gray is the grayscale working raster, shared with downstream stages.
	Gray    *image.Gray
	Regions []Region
	// AppliedRotation is the global skew correction already applied, in
	// degrees. Downstream deskew must not correct it again.
	AppliedRotation float64
	// Method names the algorithm that produced the final decomposition.
	Method string
}

// Detector splits a cropped region into candidate text lines.
type Detector struct {
	cfg Config
}

// NewDetector validates the configuration and returns a detector.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config { return d.cfg }

// DetectLines recomputes line regions from scratch for the given image.
// Deterministic for deterministic inputs. The returned sequence is ordered
// top-to-bottom and never empty: an image with no detectable lines yields a
// single synthetic region spanning the whole input.
func (d *Detector) DetectLines(img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	working := img
	gray := utils.ToGray(img)
	applied := 0.0
	residual := 0.0

	// Rotation pre-check: only correct up-front when the skew is large
	// enough to break row-based splitting. Small skew is left to the
	// per-line geometric normalizer.
	if angle, ok := utils.EstimateSkewAngle(gray, 45); ok {
		if abs(angle) > d.cfg.MaxRotationAngle {
			working = imaging.Rotate(img, angle, color.White)
			gray = utils.ToGray(working)
			applied = angle
			slog.Debug("line detection pre-rotation applied", "angle", angle)
		} else {
			residual = angle
		}
	}

	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	mask, fgCount := utils.ForegroundMask(gray)

	var boxes []utils.Box
	method := string(d.cfg.Method)
	if fgCount > 0 {
		boxes, method = d.split(mask, w, h)
	}

	if len(boxes) == 0 {
		// Fail-soft: the rest of the pipeline expects at least one line.
		boxes = []utils.Box{utils.NewBox(0, 0, float64(w), float64(h))}
		method = "synthetic"
		slog.Debug("no lines detected, using synthetic whole-image region")
	}

	regions := regionsFromBoxes(boxes, residual, d.cfg.OverlapTolerance)
	return &Result{
		Image:           working,
		Gray:            gray,
		Regions:         regions,
		AppliedRotation: applied,
		Method:          method,
	}, nil
}

// split dispatches to the configured detection method.
func (d *Detector) split(mask []bool, w, h int) ([]utils.Box, string) {
	switch d.cfg.Method {
	case MethodProjection:
		return detectByProjection(mask, w, h, d.cfg), string(MethodProjection)
	case MethodClustering:
		return detectByClustering(mask, w, h, d.cfg), string(MethodClustering)
	case MethodMorphology:
		return detectByMorphology(mask, w, h, d.cfg), string(MethodMorphology)
	default:
		return d.splitHybrid(mask, w, h)
	}
}

// splitHybrid runs projection first and falls back to clustering when
// projection yields nothing or a single ambiguous band covering most of the
// image height. The decomposition with more non-degenerate segments wins;
// ties keep projection.
func (d *Detector) splitHybrid(mask []bool, w, h int) ([]utils.Box, string) {
	proj := detectByProjection(mask, w, h, d.cfg)

	ambiguous := len(proj) == 1 && proj[0].Height() >= d.cfg.SingleLineCoverage*float64(h)
	if len(proj) > 0 && !ambiguous {
		return proj, string(MethodProjection)
	}

	clus := detectByClustering(mask, w, h, d.cfg)
	if countUsable(clus, d.cfg.MinLineHeight) > countUsable(proj, d.cfg.MinLineHeight) {
		return clus, string(MethodClustering)
	}
	if len(proj) > 0 {
		return proj, string(MethodProjection)
	}
	return clus, string(MethodClustering)
}

func countUsable(boxes []utils.Box, minHeight int) int {
	n := 0
	for _, b := range boxes {
		if b.Height() >= float64(minHeight) {
			n++
		}
	}
	return n
}

// regionsFromBoxes sorts boxes top-to-bottom, resolves overlaps beyond the
// tolerance by splitting at the midpoint, and assigns ordering indices.
// Splitting can reorder nested boxes, so the pass repeats until the
// invariant holds.
func regionsFromBoxes(boxes []utils.Box, angle float64, tolerance int) []Region {
	for range 4 {
		sort.Slice(boxes, func(i, j int) bool { return boxes[i].MinY < boxes[j].MinY })
		clean := true
		for i := 1; i < len(boxes); i++ {
			prev := &boxes[i-1]
			cur := &boxes[i]
			overlap := prev.MaxY - cur.MinY
			if overlap > float64(tolerance) {
				mid := (prev.MaxY + cur.MinY) / 2
				prev.MaxY = mid
				cur.MinY = mid
				if cur.MaxY < cur.MinY {
					cur.MaxY = cur.MinY
				}
				clean = false
			}
		}
		if clean {
			break
		}
	}
	regions := make([]Region, len(boxes))
	for i, b := range boxes {
		regions[i] = Region{Box: b, Angle: angle, Index: i}
	}
	return regions
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
