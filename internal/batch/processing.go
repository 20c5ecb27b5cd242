package batch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/shelfscan/expiryocr/internal/pipeline"
	"github.com/shelfscan/expiryocr/internal/utils"
)

// Run processes every discovered file through the pipeline. One file's
// failure (unreadable, undecodable) is recorded and the run continues;
// results come back in input order.
func Run(ctx context.Context, p *pipeline.Pipeline, paths []string, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	start := time.Now()
	before := pipeline.CaptureMemory()

	results := make([]FileResult, len(paths))
	jobs := make(chan int, len(paths))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = FileResult{Path: paths[idx], Err: ctx.Err().Error()}
					continue
				}
				results[idx] = processFile(ctx, p, paths[idx], cfg.Timeout)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != "" {
			failed++
		}
	}

	after := pipeline.CaptureMemory()
	slog.Debug("batch memory",
		"heap_before", before.HeapAlloc, "heap_after", after.HeapAlloc, "gc_cycles", after.NumGC-before.NumGC)

	return &Result{
		Files:       results,
		Duration:    time.Since(start),
		WorkerCount: workers,
		Failed:      failed,
	}, ctx.Err()
}

func processFile(ctx context.Context, p *pipeline.Pipeline, path string, timeout time.Duration) FileResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	img, err := utils.LoadImage(path)
	if err != nil {
		slog.Warn("skipping unreadable image", "path", path, "error", err)
		return FileResult{Path: path, Err: err.Error()}
	}
	res, err := p.ProcessContext(ctx, img)
	if err != nil {
		slog.Warn("pipeline failed for image", "path", path, "error", err)
		return FileResult{Path: path, Err: err.Error()}
	}
	return FileResult{Path: path, Result: res}
}
