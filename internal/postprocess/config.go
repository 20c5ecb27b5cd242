// Package postprocess applies contextual, rule-based correction to raw
// recognition output: uppercase normalization, ambiguity mapping, fuzzy
// dictionary correction, and known-format repair.
package postprocess

import (
	"fmt"
)

// DefaultKnownWords is the packaging vocabulary used for fuzzy correction.
var DefaultKnownWords = []string{"LOT", "LOTE", "DATE", "BATCH", "MFG", "EXP", "VALIDADE"}

// Config holds postprocessing settings.
type Config struct {
	// Uppercase toggles uppercase normalization.
	Uppercase bool `mapstructure:"uppercase" yaml:"uppercase" json:"uppercase"`

	// AmbiguityMapping toggles contextual digit/letter disambiguation.
	AmbiguityMapping bool `mapstructure:"ambiguity_mapping" yaml:"ambiguity_mapping" json:"ambiguity_mapping"`

	// FuzzyThreshold is the maximum edit distance for dictionary
	// correction. Zero disables fuzzy correction.
	FuzzyThreshold int `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold" json:"fuzzy_threshold"`

	// KnownWords is the correction vocabulary. Entries are matched
	// case-insensitively and replacements are emitted uppercase.
	KnownWords []string `mapstructure:"known_words" yaml:"known_words" json:"known_words"`

	// FormatRepair toggles regex-based date and code repair.
	FormatRepair bool `mapstructure:"format_repair" yaml:"format_repair" json:"format_repair"`
}

// DefaultConfig returns default postprocessing settings.
func DefaultConfig() Config {
	return Config{
		Uppercase:        true,
		AmbiguityMapping: true,
		FuzzyThreshold:   2,
		KnownWords:       append([]string(nil), DefaultKnownWords...),
		FormatRepair:     true,
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	if c.FuzzyThreshold < 0 {
		return fmt.Errorf("fuzzy_threshold must be >= 0, got %d", c.FuzzyThreshold)
	}
	for _, w := range c.KnownWords {
		if w == "" {
			return fmt.Errorf("known_words must not contain empty entries")
		}
	}
	return nil
}
