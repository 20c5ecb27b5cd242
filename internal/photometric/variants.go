package photometric

import (
	"image"
)

// Variant is one independent preprocessing rendition of a line image, fed to
// recognition as an ensemble candidate.
type Variant struct {
	// Label names the rendition (baseline, clahe, threshold, ...).
	Label string
	// Order is the variant's position in the canonical generation order,
	// used as the deterministic tie-breaker when reranking scores are equal.
	Order int
	// Image is the processed line image.
	Image *image.Gray
}

// Canonical variant labels, in generation order.
const (
	VariantBaseline          = "baseline"
	VariantCLAHE             = "clahe"
	VariantCLAHEStrong       = "clahe_strong"
	VariantThreshold         = "threshold"
	VariantInvert            = "invert"
	VariantAdaptiveThreshold = "adaptive_threshold"
	VariantSharp             = "sharp"
)

// VariantLabels lists every variant label in canonical order.
func VariantLabels() []string {
	return []string{
		VariantBaseline,
		VariantCLAHE,
		VariantCLAHEStrong,
		VariantThreshold,
		VariantInvert,
		VariantAdaptiveThreshold,
		VariantSharp,
	}
}

// GenerateVariants produces the ensemble candidates for one line image, in
// canonical order. Every variant is derived independently from the shared
// base pass (denoise + shadow removal + brightness), so one variant's
// transforms never leak into another.
func (n *Normalizer) GenerateVariants(img image.Image) []Variant {
	base := n.base(img)

	strongClip := n.cfg.CLAHEClipLimit * 1.5
	adaptiveBlock := base.Bounds().Dy()/2*2 + 1
	if adaptiveBlock < 15 {
		adaptiveBlock = 15
	}

	variants := []Variant{
		{Label: VariantBaseline, Image: base},
		{Label: VariantCLAHE, Image: n.clahe(base, n.cfg.CLAHEClipLimit)},
		{Label: VariantCLAHEStrong, Image: n.clahe(base, strongClip)},
		{Label: VariantThreshold, Image: otsuBinarize(base)},
		{Label: VariantInvert, Image: invertGray(otsuBinarize(base))},
		{Label: VariantAdaptiveThreshold, Image: adaptiveBinarize(base, adaptiveBlock, 10)},
		{Label: VariantSharp, Image: n.sharpen(n.clahe(base, n.cfg.CLAHEClipLimit))},
	}
	for i := range variants {
		variants[i].Order = i
	}
	return variants
}
