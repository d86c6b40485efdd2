// Package main provides the CLI entry point for the mold-library pipeline.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/output"
)

var (
	outDir      string
	thumbnails  bool
	thumbMax    int
	libraryPath string
	reportPath  string
	labelsDir   string
)

func main() {
	// .env supplies defaults for repeated local runs; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "moldpipe",
		Short: "Resolve product identity across mold-library spreadsheets and slide decks",
		Long: `moldpipe recovers the row-to-image binding from a mold-library
spreadsheet's embedded-image extension, and recovers product identifiers
and quantities from a slide-deck design's shape tree.`,
	}

	imagesCmd := &cobra.Command{
		Use:   "images [library.xlsx]",
		Short: "Extract and materialize product images from the mold library",
		Args:  cobra.ExactArgs(1),
		RunE:  runImages,
	}
	imagesCmd.Flags().StringVarP(&outDir, "out", "o", envOr("MOLDPIPE_OUT", "images"), "Output image directory")
	imagesCmd.Flags().BoolVar(&thumbnails, "thumbs", false, "Also generate thumbnails")
	imagesCmd.Flags().IntVar(&thumbMax, "thumb-max", 0, "Maximum thumbnail dimension in pixels")

	deckCmd := &cobra.Command{
		Use:   "deck [design.pptx]",
		Short: "Extract pdid labels from a deck and aggregate device counts",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeck,
	}
	deckCmd.Flags().StringVarP(&libraryPath, "library", "l", os.Getenv("MOLDPIPE_LIBRARY"), "Mold-library spreadsheet path")
	deckCmd.Flags().StringVarP(&reportPath, "report", "r", "", "Write the aggregate report JSON to this path")
	deckCmd.Flags().StringVar(&labelsDir, "labels", "", "Write the raw label report (JSON and CSV) into this directory")

	rootCmd.AddCommand(imagesCmd, deckCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImages(cmd *cobra.Command, args []string) error {
	catalogPath := args[0]
	if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", catalogPath)
	}

	opts := moldlib.DefaultOptions()
	opts.OutDir = outDir
	opts.Thumbnails = thumbnails
	opts.ThumbMax = thumbMax

	res, err := moldlib.ExtractImages(catalogPath, opts)
	if err != nil {
		return fmt.Errorf("image extraction failed: %w", err)
	}

	fmt.Printf("rows with image formulas: %d\n", len(res.Formulas))
	fmt.Printf("total mappings:           %d\n", res.Summary.TotalMappings)
	fmt.Printf("complete:                 %d\n", res.Summary.CompleteMappings)
	fmt.Printf("missing pdid:             %d\n", res.Summary.MissingPDID)
	fmt.Printf("missing image:            %d\n", res.Summary.MissingImages)
	fmt.Printf("completeness rate:        %.2f%%\n", res.Summary.CompletenessRate)
	fmt.Printf("mapping file:             %s\n", res.MappingJSON)
	return nil
}

func runDeck(cmd *cobra.Command, args []string) error {
	deckPath := args[0]
	if _, err := os.Stat(deckPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", deckPath)
	}
	if libraryPath == "" {
		return fmt.Errorf("mold-library path required (--library or MOLDPIPE_LIBRARY)")
	}

	res, err := moldlib.AnalyzeDeck(deckPath, libraryPath, moldlib.DefaultOptions())
	if err != nil {
		return fmt.Errorf("deck analysis failed: %w", err)
	}

	fmt.Printf("slides scanned:     %d\n", res.Labels.TotalSlides)
	fmt.Printf("labels found:       %d\n", res.Labels.TotalLabelsFound)
	fmt.Printf("matched devices:    %d\n", res.Aggregate.SuccessfulMatches)
	fmt.Printf("unmatched labels:   %d\n", len(res.Aggregate.UnmatchedLabels))
	fmt.Printf("estimated total:    %s\n", res.Aggregate.TotalPrice.StringFixed(2))
	for _, bucket := range res.Aggregate.Categories {
		fmt.Printf("  %s: %d devices, %s\n", bucket.Name, bucket.TotalCount, bucket.TotalPrice.StringFixed(2))
	}

	if reportPath != "" {
		if err := output.WriteAggregateJSON(reportPath, res.Aggregate); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("report written:     %s\n", reportPath)
	}
	if labelsDir != "" {
		jsonPath := filepath.Join(labelsDir, "label_report.json")
		if err := output.WriteLabelReportJSON(jsonPath, res.Labels); err != nil {
			return fmt.Errorf("failed to write label report: %w", err)
		}
		if err := output.WriteLabelCSV(filepath.Join(labelsDir, "label_report.csv"), res.Labels); err != nil {
			return fmt.Errorf("failed to write label report: %w", err)
		}
		fmt.Printf("labels written:     %s\n", labelsDir)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
