package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shelfscan/expiryocr/internal/config"
	"github.com/shelfscan/expiryocr/internal/pipeline"
	"github.com/shelfscan/expiryocr/internal/rerank"
	"github.com/shelfscan/expiryocr/internal/utils"
)

// imageCmd processes a single cropped image.
var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Recognize an expiry/lot code from one cropped image",
	Long: `Run the recognition pipeline on a single cropped packaging image.

Supported formats: JPEG, PNG, BMP

Examples:
  expiryocr image crop.jpg
  expiryocr image crop.png --format json
  expiryocr image crop.jpg --strategy voting`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		applyImageFlags(cmd, cfg)

		p, err := pipeline.NewBuilder().WithConfig(cfg.Pipeline).Build()
		if err != nil {
			return fmt.Errorf("build pipeline: %w", err)
		}

		img, err := utils.LoadImage(args[0])
		if err != nil {
			return fmt.Errorf("load image: %w", err)
		}
		result, err := p.ProcessContext(cmd.Context(), img)
		if err != nil {
			return err
		}
		return printResult(cmd, result, cfg.Output.Format)
	},
}

func applyImageFlags(cmd *cobra.Command, cfg *config.Config) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		cfg.Output.Format = f
	}
	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		cfg.Pipeline.Rerank.Strategy = rerank.Strategy(s)
	}
	if heights, _ := cmd.Flags().GetIntSlice("heights"); len(heights) > 0 {
		cfg.Pipeline.Geometry.TargetHeights = heights
	}
	if p, _ := cmd.Flags().GetBool("perspective"); p {
		cfg.Pipeline.Geometry.EnablePerspective = true
	}
}

func printResult(cmd *cobra.Command, result *pipeline.Result, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, string(data))
		return err
	case "text", "":
		fmt.Fprintf(out, "Text: %s\n", result.Text)
		fmt.Fprintf(out, "Confidence: %.2f\n", result.Confidence)
		if result.Date != nil {
			fmt.Fprintf(out, "Date: %s\n", result.Date)
		}
		for _, line := range result.Lines {
			fmt.Fprintf(out, "  line %d [%s]: %q (%.2f)\n",
				line.Index, line.WinningVariant, line.Text, line.Confidence)
		}
		return nil
	default:
		return errors.New("unknown output format: " + format)
	}
}

func init() {
	imageCmd.Flags().String("format", "", "output format (text, json, yaml)")
	imageCmd.Flags().String("strategy", "", "ensemble strategy (confidence, voting, rerank)")
	imageCmd.Flags().IntSlice("heights", nil, "target line heights in pixels")
	imageCmd.Flags().Bool("perspective", false, "enable perspective correction")

	rootCmd.AddCommand(imageCmd)
}
