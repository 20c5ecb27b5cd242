// Package rerank selects the best recognition among ensemble variants using
// confidence, format, keyword and contextual signals.
package rerank

import (
	"fmt"
)

// Strategy selects how the winner is chosen.
type Strategy string

const (
	// StrategyConfidence picks the maximum raw backend confidence.
	// Fastest, least robust.
	StrategyConfidence Strategy = "confidence"
	// StrategyVoting picks the textual majority across variants.
	StrategyVoting Strategy = "voting"
	// StrategyRerank applies the full weighted score. Default.
	StrategyRerank Strategy = "rerank"
)

// Weights are the scoring policy terms. Confidence carries roughly half the
// total weight under defaults; bonuses and penalties share the rest.
type Weights struct {
	Confidence float64 `mapstructure:"confidence" yaml:"confidence" json:"confidence"`
	Format     float64 `mapstructure:"format" yaml:"format" json:"format"`
	Keyword    float64 `mapstructure:"keyword" yaml:"keyword" json:"keyword"`
	Contextual float64 `mapstructure:"contextual" yaml:"contextual" json:"contextual"`
	Short      float64 `mapstructure:"short" yaml:"short" json:"short"`
	Symbol     float64 `mapstructure:"symbol" yaml:"symbol" json:"symbol"`
	Whitespace float64 `mapstructure:"whitespace" yaml:"whitespace" json:"whitespace"`
}

// Config holds reranking settings.
type Config struct {
	Strategy Strategy `mapstructure:"strategy" yaml:"strategy" json:"strategy"`
	Weights  Weights  `mapstructure:"weights" yaml:"weights" json:"weights"`

	// MinLength is the text length below which the short-text penalty
	// applies.
	MinLength int `mapstructure:"min_length" yaml:"min_length" json:"min_length"`

	// Epsilon is the score band within which two candidates count as tied;
	// ties resolve to the earlier canonical variant.
	Epsilon float64 `mapstructure:"epsilon" yaml:"epsilon" json:"epsilon"`
}

// DefaultConfig returns the default scoring policy.
func DefaultConfig() Config {
	return Config{
		Strategy: StrategyRerank,
		Weights: Weights{
			Confidence: 1.0,
			Format:     0.35,
			Keyword:    0.25,
			Contextual: 0.25,
			Short:      0.25,
			Symbol:     0.2,
			Whitespace: 0.1,
		},
		MinLength: 4,
		Epsilon:   1e-9,
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyConfidence, StrategyVoting, StrategyRerank:
	default:
		return fmt.Errorf("unknown rerank strategy: %q", c.Strategy)
	}
	if c.Weights.Confidence <= 0 {
		return fmt.Errorf("confidence weight must be > 0, got %g", c.Weights.Confidence)
	}
	if c.MinLength < 0 {
		return fmt.Errorf("min_length must be >= 0, got %d", c.MinLength)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon must be >= 0, got %g", c.Epsilon)
	}
	return nil
}
