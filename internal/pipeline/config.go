// Package pipeline orchestrates the expiry-code recognition flow: line
// detection, geometric and photometric normalization, ensemble recognition,
// reranking, and contextual postprocessing.
package pipeline

import (
	"runtime"

	"github.com/shelfscan/expiryocr/internal/geometry"
	"github.com/shelfscan/expiryocr/internal/lines"
	"github.com/shelfscan/expiryocr/internal/photometric"
	"github.com/shelfscan/expiryocr/internal/postprocess"
	"github.com/shelfscan/expiryocr/internal/recognizer"
	"github.com/shelfscan/expiryocr/internal/rerank"
)

// Config holds configuration for the pipeline and its components.
type Config struct {
	Lines       lines.Config       `mapstructure:"line_detector" yaml:"line_detector" json:"line_detector"`
	Geometry    geometry.Config    `mapstructure:"geometric_normalizer" yaml:"geometric_normalizer" json:"geometric_normalizer"`
	Photometric photometric.Config `mapstructure:"photometric_normalizer" yaml:"photometric_normalizer" json:"photometric_normalizer"`
	Recognizer  recognizer.Options `mapstructure:"recognizer" yaml:"recognizer" json:"recognizer"`
	Rerank      rerank.Config      `mapstructure:"rerank" yaml:"rerank" json:"rerank"`
	Postprocess postprocess.Config `mapstructure:"postprocessor" yaml:"postprocessor" json:"postprocessor"`
	Parallel    ParallelConfig     `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
}

// ParallelConfig bounds ensemble concurrency. Variants within a line are
// independent, so they can recognize in parallel against a shared backend.
type ParallelConfig struct {
	// VariantWorkers is the worker count for per-line variant recognition.
	// Zero means runtime.NumCPU(); one forces sequential execution.
	VariantWorkers int `mapstructure:"variant_workers" yaml:"variant_workers" json:"variant_workers"`
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Lines:       lines.DefaultConfig(),
		Geometry:    geometry.DefaultConfig(),
		Photometric: photometric.DefaultConfig(),
		Recognizer:  recognizer.DefaultOptions(),
		Rerank:      rerank.DefaultConfig(),
		Postprocess: postprocess.DefaultConfig(),
		Parallel:    ParallelConfig{VariantWorkers: runtime.NumCPU()},
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg Config
	rec recognizer.Recognizer
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithRecognizer injects the recognition backend. When omitted, Build uses
// the backend compiled into the binary.
func (b *Builder) WithRecognizer(rec recognizer.Recognizer) *Builder {
	b.rec = rec
	return b
}

// WithLineMethod sets the line detection method.
func (b *Builder) WithLineMethod(m lines.Method) *Builder {
	b.cfg.Lines.Method = m
	return b
}

// WithTargetHeights sets the geometric resize targets.
func (b *Builder) WithTargetHeights(heights ...int) *Builder {
	if len(heights) > 0 {
		b.cfg.Geometry.TargetHeights = heights
	}
	return b
}

// WithPerspective toggles perspective correction.
func (b *Builder) WithPerspective(enabled bool) *Builder {
	b.cfg.Geometry.EnablePerspective = enabled
	return b
}

// WithStrategy sets the ensemble selection strategy.
func (b *Builder) WithStrategy(s rerank.Strategy) *Builder {
	b.cfg.Rerank.Strategy = s
	return b
}

// WithVariantWorkers bounds ensemble concurrency.
func (b *Builder) WithVariantWorkers(n int) *Builder {
	if n >= 0 {
		b.cfg.Parallel.VariantWorkers = n
	}
	return b
}

// Build validates all component configurations and assembles the pipeline.
// Configuration errors surface here, never mid-run.
func (b *Builder) Build() (*Pipeline, error) {
	detector, err := lines.NewDetector(b.cfg.Lines)
	if err != nil {
		return nil, err
	}
	geom, err := geometry.NewNormalizer(b.cfg.Geometry)
	if err != nil {
		return nil, err
	}
	photo, err := photometric.NewNormalizer(b.cfg.Photometric)
	if err != nil {
		return nil, err
	}
	post, err := postprocess.NewPostprocessor(b.cfg.Postprocess)
	if err != nil {
		return nil, err
	}
	ranker, err := rerank.NewReranker(b.cfg.Rerank, post)
	if err != nil {
		return nil, err
	}
	rec := b.rec
	if rec == nil {
		rec, err = recognizer.New(b.cfg.Recognizer)
		if err != nil {
			return nil, err
		}
	}

	return &Pipeline{
		cfg:      b.cfg,
		detector: detector,
		geom:     geom,
		photo:    photo,
		rec:      rec,
		ranker:   ranker,
		post:     post,
		metrics:  sharedMetrics(),
	}, nil
}
