// Package photometric normalizes line-image lighting and contrast and
// generates the ensemble candidate variants.
package photometric

import (
	"fmt"
)

// DenoiseMethod selects the denoising filter.
type DenoiseMethod string

const (
	DenoiseBilateral DenoiseMethod = "bilateral"
	DenoiseMedian    DenoiseMethod = "median"
	DenoiseNone      DenoiseMethod = "none"
)

// Config holds photometric normalization settings.
type Config struct {
	// BrightnessNormalize toggles linear brightness correction toward
	// TargetBrightness.
	BrightnessNormalize bool `mapstructure:"brightness_normalize" yaml:"brightness_normalize" json:"brightness_normalize"`

	// TargetBrightness is the desired mean intensity. Configuration may
	// supply it as a multi-channel color value; the loader coerces it to a
	// scalar before it reaches this field.
	TargetBrightness float64 `mapstructure:"target_brightness" yaml:"target_brightness" json:"target_brightness"`

	// BrightnessTolerance is the mean deviation below which no correction
	// is applied.
	BrightnessTolerance float64 `mapstructure:"brightness_tolerance" yaml:"brightness_tolerance" json:"brightness_tolerance"`

	// DenoiseMethod selects bilateral (edge-preserving, preferred for
	// text), median, or none.
	DenoiseMethod DenoiseMethod `mapstructure:"denoise_method" yaml:"denoise_method" json:"denoise_method"`

	// DenoiseRadius is the filter radius in pixels.
	DenoiseRadius float64 `mapstructure:"denoise_radius" yaml:"denoise_radius" json:"denoise_radius"`

	// BilateralSigmaColor controls how strongly intensity differences
	// suppress bilateral smoothing.
	BilateralSigmaColor float64 `mapstructure:"bilateral_sigma_color" yaml:"bilateral_sigma_color" json:"bilateral_sigma_color"`

	// ShadowRemoval toggles blurred-background subtraction.
	ShadowRemoval bool `mapstructure:"shadow_removal" yaml:"shadow_removal" json:"shadow_removal"`

	// ShadowKernelSize is the background blur kernel. Must be odd; even
	// values are rejected at validation.
	ShadowKernelSize int `mapstructure:"shadow_kernel_size" yaml:"shadow_kernel_size" json:"shadow_kernel_size"`

	// CLAHEClipLimit bounds local contrast amplification. The stable
	// operating range is 1.2-1.6; values above ~2.0 amplify sensor noise
	// more than they aid legibility.
	CLAHEClipLimit float64 `mapstructure:"clahe_clip_limit" yaml:"clahe_clip_limit" json:"clahe_clip_limit"`

	// CLAHETileGrid is the [columns, rows] tile grid.
	CLAHETileGrid []int `mapstructure:"clahe_tile_grid" yaml:"clahe_tile_grid" json:"clahe_tile_grid"`

	// SharpenEnabled toggles unsharp-mask edge enhancement.
	SharpenEnabled bool `mapstructure:"sharpen_enabled" yaml:"sharpen_enabled" json:"sharpen_enabled"`

	// SharpenStrength is the unsharp-mask amount.
	SharpenStrength float64 `mapstructure:"sharpen_strength" yaml:"sharpen_strength" json:"sharpen_strength"`
}

// DefaultConfig returns default photometric settings.
func DefaultConfig() Config {
	return Config{
		BrightnessNormalize: true,
		TargetBrightness:    130,
		BrightnessTolerance: 10,
		DenoiseMethod:       DenoiseBilateral,
		DenoiseRadius:       2,
		BilateralSigmaColor: 25,
		ShadowRemoval:       true,
		ShadowKernelSize:    31,
		CLAHEClipLimit:      1.4,
		CLAHETileGrid:       []int{8, 8},
		SharpenEnabled:      false,
		SharpenStrength:     0.5,
	}
}

// Validate checks configuration sanity. Fails fast on malformed options so
// errors surface at construction, not mid-run.
func (c Config) Validate() error {
	switch c.DenoiseMethod {
	case DenoiseBilateral, DenoiseMedian, DenoiseNone:
	default:
		return fmt.Errorf("unknown denoise method: %q", c.DenoiseMethod)
	}
	if c.TargetBrightness < 0 || c.TargetBrightness > 255 {
		return fmt.Errorf("target_brightness must be in [0,255], got %g", c.TargetBrightness)
	}
	if c.BrightnessTolerance < 0 {
		return fmt.Errorf("brightness_tolerance must be >= 0, got %g", c.BrightnessTolerance)
	}
	if c.ShadowKernelSize <= 0 || c.ShadowKernelSize%2 == 0 {
		return fmt.Errorf("shadow_kernel_size must be positive and odd, got %d", c.ShadowKernelSize)
	}
	if c.CLAHEClipLimit < 1 {
		return fmt.Errorf("clahe_clip_limit must be >= 1, got %g", c.CLAHEClipLimit)
	}
	if len(c.CLAHETileGrid) != 2 || c.CLAHETileGrid[0] <= 0 || c.CLAHETileGrid[1] <= 0 {
		return fmt.Errorf("clahe_tile_grid must be two positive integers, got %v", c.CLAHETileGrid)
	}
	if c.SharpenStrength < 0 {
		return fmt.Errorf("sharpen_strength must be >= 0, got %g", c.SharpenStrength)
	}
	return nil
}
