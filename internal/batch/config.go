// Package batch runs the recognition pipeline over many image files with a
// bounded worker pool, continuing past per-file failures.
package batch

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shelfscan/expiryocr/internal/pipeline"
)

// Config holds batch driver settings.
type Config struct {
	// Workers is the file-level worker count. Zero means runtime.NumCPU().
	Workers int

	// Timeout is the per-image wall-clock budget. Zero disables it.
	Timeout time.Duration

	// Recursive enables directory recursion during discovery.
	Recursive bool

	// IncludePatterns and ExcludePatterns filter discovered files by glob
	// against the base name.
	IncludePatterns []string
	ExcludePatterns []string

	// Format selects output formatting: text, json or yaml.
	Format string

	// OutputFile receives formatted results; empty writes to stdout.
	OutputFile string

	// Quiet suppresses progress and statistics output.
	Quiet bool
}

// DefaultConfig returns batch defaults.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Format:  "text",
	}
}

// Validate checks configuration sanity.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format: %q", c.Format)
	}
	return nil
}

// FileResult pairs one input path with its pipeline outcome.
type FileResult struct {
	Path   string           `json:"path" yaml:"path"`
	Result *pipeline.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Err    string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result aggregates one batch run.
type Result struct {
	Files       []FileResult  `json:"files" yaml:"files"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
	WorkerCount int           `json:"workers" yaml:"workers"`
	Failed      int           `json:"failed" yaml:"failed"`
}

// SaveResults writes formatted results to the configured output file or
// stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := formatResults(r, format)
	if err != nil {
		return fmt.Errorf("format results: %w", err)
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		if !quiet {
			fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
		return nil
	}
	_, err = fmt.Fprint(os.Stdout, output)
	return err
}

// PrintStats prints run statistics to stdout.
func (r *Result) PrintStats() {
	processed := len(r.Files) - r.Failed
	fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	fmt.Fprintf(os.Stdout, "  Total images: %d\n", len(r.Files))
	fmt.Fprintf(os.Stdout, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stdout, "  Failed: %d\n", r.Failed)
	fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if len(r.Files) > 0 {
		fmt.Fprintf(os.Stdout, "  Avg per image: %v\n",
			(r.Duration / time.Duration(len(r.Files))).Round(time.Millisecond))
	}
}
