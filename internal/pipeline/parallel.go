package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/shelfscan/expiryocr/internal/photometric"
	"github.com/shelfscan/expiryocr/internal/rerank"
)

// recognizeVariants runs the recognition ensemble for one line. Variants are
// independent, so they fan out over a bounded worker pool. A single
// variant's failure (error or panic from the backend) is contained: it is
// logged, counted, and excluded from the candidate set.
func (p *Pipeline) recognizeVariants(ctx context.Context, variants []photometric.Variant) []rerank.Candidate {
	workers := p.cfg.Parallel.VariantWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(variants) {
		workers = len(variants)
	}

	if workers <= 1 {
		out := make([]rerank.Candidate, 0, len(variants))
		for _, v := range variants {
			if c, ok := p.recognizeVariant(ctx, v); ok {
				out = append(out, c)
			}
		}
		return out
	}

	jobs := make(chan photometric.Variant, len(variants))
	results := make(chan rerank.Candidate, len(variants))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range jobs {
				if c, ok := p.recognizeVariant(ctx, v); ok {
					results <- c
				}
			}
		}()
	}

	for _, v := range variants {
		jobs <- v
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]rerank.Candidate, 0, len(variants))
	for c := range results {
		out = append(out, c)
	}
	// Canonical order regardless of worker completion order.
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// recognizeVariant invokes the backend for one variant. Backends may panic
// on malformed input; that is treated the same as an error return.
func (p *Pipeline) recognizeVariant(ctx context.Context, v photometric.Variant) (c rerank.Candidate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("recognizer panicked on variant", "variant", v.Label, "panic", r)
			p.metrics.variantFailures.Inc()
			ok = false
		}
	}()

	if err := ctx.Err(); err != nil {
		return rerank.Candidate{}, false
	}
	res, err := p.rec.Recognize(ctx, v.Image)
	if err != nil {
		slog.Debug("variant recognition failed", "variant", v.Label, "error", err)
		p.metrics.variantFailures.Inc()
		return rerank.Candidate{}, false
	}
	return rerank.Candidate{
		Label:      v.Label,
		Order:      v.Order,
		Text:       res.Text,
		Confidence: clamp01(res.Confidence),
	}, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
