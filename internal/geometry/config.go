// Package geometry deskews and optionally perspective-corrects line images
// before recognition.
package geometry

import (
	"fmt"
)

// Config holds geometric normalization settings.
type Config struct {
	// EnableDeskew toggles Hough-based rotation correction.
	EnableDeskew bool `mapstructure:"enable_deskew" yaml:"enable_deskew" json:"enable_deskew"`

	// MaxAngle is the largest skew (degrees) the deskew stage will correct.
	// Larger estimates are treated as unreliable and skipped.
	MaxAngle float64 `mapstructure:"max_angle" yaml:"max_angle" json:"max_angle"`

	// EnablePerspective toggles quadrilateral perspective correction.
	// Off by default; the stage only warps when all sanity checks pass.
	EnablePerspective bool `mapstructure:"enable_perspective" yaml:"enable_perspective" json:"enable_perspective"`

	// TargetHeights lists the output heights (pixels) produced per line.
	TargetHeights []int `mapstructure:"target_heights" yaml:"target_heights" json:"target_heights"`

	// MaxWidth clamps the resized width; 0 means unclamped.
	MaxWidth int `mapstructure:"max_width" yaml:"max_width" json:"max_width"`
}

// DefaultConfig returns default geometric normalizer settings.
func DefaultConfig() Config {
	return Config{
		EnableDeskew:      true,
		MaxAngle:          10.0,
		EnablePerspective: false,
		TargetHeights:     []int{48},
		MaxWidth:          0,
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	if c.MaxAngle <= 0 || c.MaxAngle > 45 {
		return fmt.Errorf("max_angle must be in (0,45], got %g", c.MaxAngle)
	}
	if len(c.TargetHeights) == 0 {
		return fmt.Errorf("target_heights must not be empty")
	}
	for _, h := range c.TargetHeights {
		if h <= 0 {
			return fmt.Errorf("target height must be > 0, got %d", h)
		}
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width must be >= 0, got %d", c.MaxWidth)
	}
	return nil
}

// Perspective sanity-check bounds. A warp is applied only when every check
// passes; otherwise the stage is a strict no-op.
const (
	minQuadAreaRatio    = 0.30
	maxQuadAspect       = 20.0
	maxCorrectiveAngle  = 15.0
	maxWarpScale        = 2.0
	minWarpedDimension  = 10
)
