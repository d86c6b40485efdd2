package moldlib

import (
	"path/filepath"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/catalog"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/container"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/materialize"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/output"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/parser"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/stats"
)

// ImageResult is the spreadsheet-side pipeline result. Each stage augments
// the result of the previous one; nothing is mutated across stages.
type ImageResult struct {
	// Catalog is the loaded product table.
	Catalog *catalog.Catalog
	// Formulas are the recognized image-reference formulas.
	Formulas []models.ImageFormula
	// Entries are the classified per-row mapping entries.
	Entries []models.MappingEntry
	// Summary is the completeness roll-up.
	Summary models.ValidationSummary
	// MappingJSON and MappingCSV are the written mapping file paths.
	MappingJSON string
	MappingCSV  string
}

// DeckResult is the deck-side pipeline result.
type DeckResult struct {
	// Labels is the shape-tree extraction report.
	Labels *models.LabelReport
	// Aggregate joins the labels against the catalog.
	Aggregate *models.AggregateReport
}

// ExtractImages runs the spreadsheet-side pipeline: load the catalog,
// recognize image formulas, resolve the relationship chain (falling back
// to legacy anchored pictures, then to media filename matching, when the
// registry is absent), materialize one image per product, validate
// completeness and write the mapping files. Only an unreadable container
// halts the run.
func ExtractImages(catalogPath string, opts Options) (*ImageResult, error) {
	log := opts.logger()

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, stageErr("catalog", err)
	}
	res := &ImageResult{Catalog: cat}

	c, err := container.Open(catalogPath)
	if err != nil {
		return nil, stageErr("container", err)
	}
	defer c.Close()

	rowsByNumber := make(map[int]models.CatalogRow, len(cat.Rows))
	for _, r := range cat.Rows {
		rowsByNumber[r.Row] = r
	}

	res.Formulas = parser.ExtractImageFormulas(cat, log)

	registry, err := parser.ParseRegistry(c, log)
	if err != nil {
		return nil, stageErr("registry", err)
	}
	if registry != nil {
		res.Entries = parser.ResolveChain(res.Formulas, registry, rowsByNumber)
	} else {
		log.Info("no cellimages registry, using anchored-picture fallback",
			"catalog", catalogPath)
		res.Entries = parser.ResolveAnchors(c, rowsByNumber, log)
		if len(res.Entries) == 0 {
			res.Entries = parser.ResolveFilenames(c, res.Formulas, rowsByNumber, log)
		}
	}

	m := &materialize.Materializer{
		OutDir:     opts.OutDir,
		Thumbnails: opts.Thumbnails,
		ThumbMax:   opts.ThumbMax,
		Logger:     log,
	}
	res.Entries, err = m.Run(res.Entries)
	if err != nil {
		return nil, stageErr("materialize", err)
	}

	res.Summary, res.Entries = stats.Validate(res.Entries)
	if res.Summary.TotalMappings > 0 && res.Summary.CompleteMappings == 0 {
		log.Warn("no mapping resolved completely",
			"total", res.Summary.TotalMappings, "catalog", catalogPath)
	}

	doc := output.MappingDocument{
		Metadata: output.MappingMetadata{
			SourceFile:    filepath.Base(catalogPath),
			ImagesDir:     opts.OutDir,
			TotalMappings: res.Summary.TotalMappings,
		},
		Entries: res.Entries,
		Summary: res.Summary,
	}
	res.MappingJSON = filepath.Join(opts.OutDir, "image_mapping.json")
	res.MappingCSV = filepath.Join(opts.OutDir, "image_mapping.csv")
	if err := output.WriteMappingJSON(res.MappingJSON, doc); err != nil {
		return nil, stageErr("mapping_file", err)
	}
	if err := output.WriteMappingCSV(res.MappingCSV, res.Entries); err != nil {
		return nil, stageErr("mapping_file", err)
	}
	return res, nil
}

// AnalyzeDeck runs the deck-side pipeline: extract pdid labels from the
// presentation's shape trees and aggregate them against the catalog.
func AnalyzeDeck(deckPath, catalogPath string, opts Options) (*DeckResult, error) {
	log := opts.logger()

	c, err := container.Open(deckPath)
	if err != nil {
		return nil, stageErr("container", err)
	}
	defer c.Close()

	labels, err := parser.ExtractLabels(c)
	if err != nil {
		return nil, stageErr("labels", err)
	}

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, stageErr("catalog", err)
	}

	agg := stats.Aggregate(labels, cat)
	if labels.TotalLabelsFound > 0 && agg.SuccessfulMatches == 0 {
		log.Warn("no label matched the catalog",
			"labels", labels.TotalLabelsFound, "deck", deckPath)
	}
	if labels.TotalSlides > 0 && labels.TotalLabelsFound == 0 {
		log.Warn("deck contains no pdid labels", "deck", deckPath)
	}
	return &DeckResult{Labels: labels, Aggregate: agg}, nil
}
