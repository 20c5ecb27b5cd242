package pipeline

import (
	"context"
	"image"
	"log/slog"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/shelfscan/expiryocr/internal/common"
	"github.com/shelfscan/expiryocr/internal/lines"
	"github.com/shelfscan/expiryocr/internal/photometric"
	"github.com/shelfscan/expiryocr/internal/postprocess"
)

// Process runs the pipeline on one cropped image.
func (p *Pipeline) Process(img image.Image) (*Result, error) {
	return p.ProcessContext(context.Background(), img)
}

// ProcessContext runs the pipeline with cancellation support. Degenerate
// images are not errors: the result degrades to empty text with zero
// confidence. The only returned errors are a canceled context and a nil
// input.
func (p *Pipeline) ProcessContext(ctx context.Context, img image.Image) (*Result, error) {
	total := common.NewNamedTimer("pipeline")
	result := &Result{Lines: []LineTrace{}}

	detectTimer := common.NewTimer()
	detection, err := p.detector.DetectLines(img)
	if err != nil {
		return nil, err
	}
	result.Processing.DetectNs = detectTimer.Stop().Nanoseconds()
	result.AppliedRotation = detection.AppliedRotation
	p.metrics.linesDetected.Add(float64(len(detection.Regions)))

	skewCorrected := detection.AppliedRotation != 0
	sum := 0.0
	scored := 0
	texts := make([]string, 0, len(detection.Regions))
	for _, region := range detection.Regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trace := p.processLine(ctx, detection, region, skewCorrected, result)
		result.Lines = append(result.Lines, trace)
		if trace.Text != "" {
			texts = append(texts, trace.Text)
			sum += trace.Confidence
			scored++
		}
	}

	result.Text = strings.Join(texts, " ")
	if scored > 0 {
		result.Confidence = sum / float64(scored)
	}
	if d, ok := postprocess.ExtractDate(result.Text); ok {
		result.Date = &d
	}

	result.Processing.TotalNs = total.Stop().Nanoseconds()
	p.metrics.imagesProcessed.Inc()
	p.metrics.processDuration.Observe(total.Duration().Seconds())
	return result, nil
}

// processLine runs normalization, the recognition ensemble, reranking and
// postprocessing for a single detected line. It never fails: a line with no
// usable recognition contributes an empty trace.
func (p *Pipeline) processLine(ctx context.Context, detection *lines.Result, region lines.Region, skewCorrected bool, result *Result) LineTrace {
	trace := LineTrace{Index: region.Index, Angle: region.Angle}
	rect := region.Box.ToRect(detection.Image.Bounds())
	trace.Box.X, trace.Box.Y = rect.Min.X, rect.Min.Y
	trace.Box.W, trace.Box.H = rect.Dx(), rect.Dy()
	if rect.Dx() == 0 || rect.Dy() == 0 {
		return trace
	}

	normTimer := common.NewTimer()
	lineImg := imaging.Crop(detection.Image, rect)
	heights := p.geom.NormalizeWithHint(lineImg, skewCorrected)
	variants := p.photo.GenerateVariants(heights[0])
	// Extra target heights contribute their baseline rendition as
	// additional candidates, ordered after the canonical set.
	for i, scaled := range heights[1:] {
		extra := p.photo.Normalize(scaled)
		variants = append(variants, photometric.Variant{
			Label: photometric.VariantBaseline + "_alt" + strconv.Itoa(i+1),
			Order: len(variants),
			Image: extra,
		})
	}
	result.Processing.NormalizeNs += normTimer.Stop().Nanoseconds()

	recTimer := common.NewTimer()
	candidates := p.recognizeVariants(ctx, variants)
	result.Processing.RecognizeNs += recTimer.Stop().Nanoseconds()
	trace.Candidates = len(candidates)

	winner, ok := p.ranker.Rank(candidates)
	if !ok {
		slog.Debug("line produced no usable recognition", "line", region.Index)
		return trace
	}

	trace.WinningVariant = winner.Label
	trace.RawText = winner.Text
	trace.Text = p.post.Correct(winner.Text)
	trace.Confidence = winner.Confidence
	trace.Score = winner.Score
	trace.Terms = winner.Terms
	return trace
}
