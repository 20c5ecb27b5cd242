package pipeline

import (
	"github.com/shelfscan/expiryocr/internal/geometry"
	"github.com/shelfscan/expiryocr/internal/lines"
	"github.com/shelfscan/expiryocr/internal/photometric"
	"github.com/shelfscan/expiryocr/internal/postprocess"
	"github.com/shelfscan/expiryocr/internal/recognizer"
	"github.com/shelfscan/expiryocr/internal/rerank"
)

// Pipeline sequences line detection, normalization, ensemble recognition,
// reranking and postprocessing. Instances are safe for concurrent use as
// long as the injected recognizer is; all other components are stateless
// after construction.
type Pipeline struct {
	cfg      Config
	detector *lines.Detector
	geom     *geometry.Normalizer
	photo    *photometric.Normalizer
	rec      recognizer.Recognizer
	ranker   *rerank.Reranker
	post     *postprocess.Postprocessor
	metrics  *metrics
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Recognizer returns the active recognition backend.
func (p *Pipeline) Recognizer() recognizer.Recognizer { return p.rec }
