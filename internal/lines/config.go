// Package lines splits a cropped date region into candidate single-line
// sub-images for recognition.
package lines

import (
	"fmt"
)

// Method selects the line detection algorithm.
type Method string

const (
	MethodProjection Method = "projection"
	MethodClustering Method = "clustering"
	MethodMorphology Method = "morphology"
	MethodHybrid     Method = "hybrid"
)

// Config holds line detector settings.
type Config struct {
	Method Method `mapstructure:"method" yaml:"method" json:"method"`

	// MinLineHeight discards detected bands shorter than this many pixels.
	MinLineHeight int `mapstructure:"min_line_height" yaml:"min_line_height" json:"min_line_height"`

	// MaxLineGap merges projection bands separated by at most this many
	// empty rows.
	MaxLineGap int `mapstructure:"max_line_gap" yaml:"max_line_gap" json:"max_line_gap"`

	// NoiseFloor is the fraction of the peak row projection below which a
	// row is treated as background.
	NoiseFloor float64 `mapstructure:"noise_floor" yaml:"noise_floor" json:"noise_floor"`

	// DBSCANEps is the vertical distance (pixels) within which component
	// centers are clustered into the same line.
	DBSCANEps float64 `mapstructure:"dbscan_eps" yaml:"dbscan_eps" json:"dbscan_eps"`

	// DilationWidth is the horizontal structuring element width for the
	// morphology method.
	DilationWidth int `mapstructure:"dilation_width" yaml:"dilation_width" json:"dilation_width"`

	// MaxRotationAngle triggers a whole-image pre-rotation when the
	// estimated global skew exceeds it. The applied rotation is recorded on
	// the result so downstream deskew does not double-correct.
	MaxRotationAngle float64 `mapstructure:"max_rotation_angle" yaml:"max_rotation_angle" json:"max_rotation_angle"`

	// SingleLineCoverage is the fraction of image height above which a
	// lone projection band is considered an ambiguous multi-line case and
	// the hybrid method falls back to clustering. Empirical tunable.
	SingleLineCoverage float64 `mapstructure:"single_line_coverage" yaml:"single_line_coverage" json:"single_line_coverage"`

	// OverlapTolerance is the maximum vertical overlap (pixels) allowed
	// between adjacent detected lines.
	OverlapTolerance int `mapstructure:"overlap_tolerance" yaml:"overlap_tolerance" json:"overlap_tolerance"`
}

// DefaultConfig returns default line detector settings.
func DefaultConfig() Config {
	return Config{
		Method:             MethodHybrid,
		MinLineHeight:      8,
		MaxLineGap:         4,
		NoiseFloor:         0.08,
		DBSCANEps:          10,
		DilationWidth:      24,
		MaxRotationAngle:   5.0,
		SingleLineCoverage: 0.9,
		OverlapTolerance:   2,
	}
}

// Validate checks configuration sanity. Called at pipeline construction.
func (c Config) Validate() error {
	switch c.Method {
	case MethodProjection, MethodClustering, MethodMorphology, MethodHybrid:
	default:
		return fmt.Errorf("unknown line detection method: %q", c.Method)
	}
	if c.MinLineHeight <= 0 {
		return fmt.Errorf("min_line_height must be > 0, got %d", c.MinLineHeight)
	}
	if c.MaxLineGap < 0 {
		return fmt.Errorf("max_line_gap must be >= 0, got %d", c.MaxLineGap)
	}
	if c.NoiseFloor < 0 || c.NoiseFloor >= 1 {
		return fmt.Errorf("noise_floor must be in [0,1), got %g", c.NoiseFloor)
	}
	if c.DBSCANEps <= 0 {
		return fmt.Errorf("dbscan_eps must be > 0, got %g", c.DBSCANEps)
	}
	if c.MaxRotationAngle < 0 || c.MaxRotationAngle > 45 {
		return fmt.Errorf("max_rotation_angle must be in [0,45], got %g", c.MaxRotationAngle)
	}
	if c.SingleLineCoverage <= 0 || c.SingleLineCoverage > 1 {
		return fmt.Errorf("single_line_coverage must be in (0,1], got %g", c.SingleLineCoverage)
	}
	return nil
}
