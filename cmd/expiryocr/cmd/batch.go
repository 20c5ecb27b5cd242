package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfscan/expiryocr/internal/batch"
	"github.com/shelfscan/expiryocr/internal/pipeline"
)

// batchCmd processes many images with a worker pool.
var batchCmd = &cobra.Command{
	Use:   "batch <files-or-dirs>...",
	Short: "Recognize expiry/lot codes from many images",
	Long: `Process multiple image files or directories through the pipeline.

A single file's failure does not stop the run; it is reported in the
results and the batch continues.

Examples:
  expiryocr batch ./crops --recursive
  expiryocr batch a.jpg b.jpg --format json --output results.json
  expiryocr batch ./crops --include 'lot_*.png' --workers 4`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		bcfg := batch.DefaultConfig()
		bcfg.Recursive, _ = cmd.Flags().GetBool("recursive")
		bcfg.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
		bcfg.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
		bcfg.Quiet, _ = cmd.Flags().GetBool("quiet")
		if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
			bcfg.Workers = workers
		} else if cfg.Batch.Workers > 0 {
			bcfg.Workers = cfg.Batch.Workers
		}
		if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
			bcfg.Timeout = timeout
		} else {
			bcfg.Timeout = cfg.Batch.Timeout
		}
		if f, _ := cmd.Flags().GetString("format"); f != "" {
			bcfg.Format = f
		} else if cfg.Output.Format != "" {
			bcfg.Format = cfg.Output.Format
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			bcfg.OutputFile = out
		} else {
			bcfg.OutputFile = cfg.Output.File
		}
		if err := bcfg.Validate(); err != nil {
			return err
		}

		paths, err := batch.DiscoverImageFiles(args, bcfg)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return errors.New("no image files found")
		}

		p, err := pipeline.NewBuilder().WithConfig(cfg.Pipeline).Build()
		if err != nil {
			return fmt.Errorf("build pipeline: %w", err)
		}

		result, err := batch.Run(cmd.Context(), p, paths, bcfg)
		if err != nil {
			return err
		}
		if err := result.SaveResults(bcfg.Format, bcfg.OutputFile, bcfg.Quiet); err != nil {
			return err
		}
		if !bcfg.Quiet {
			result.PrintStats()
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().Bool("recursive", false, "recurse into directories")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns to include (matched against base name)")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns to exclude")
	batchCmd.Flags().Int("workers", 0, "worker count (0 = number of CPUs)")
	batchCmd.Flags().Duration("timeout", 0, "per-image processing timeout")
	batchCmd.Flags().String("format", "", "output format (text, json, yaml)")
	batchCmd.Flags().String("output", "", "write results to file instead of stdout")
	batchCmd.Flags().Bool("quiet", false, "suppress statistics output")

	rootCmd.AddCommand(batchCmd)
}
