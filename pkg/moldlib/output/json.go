// Package output serializes pipeline results to the durable mapping and
// report files consumed by the downstream report generator.
package output

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// MappingMetadata describes the run that produced a mapping document.
// It deliberately carries no timestamp: reruns over an unmodified catalog
// must produce byte-identical files.
type MappingMetadata struct {
	SourceFile    string `json:"source_file"`
	ImagesDir     string `json:"images_directory"`
	TotalMappings int    `json:"total_mappings"`
}

// MappingDocument is the serialized mapping file: the full per-row chain
// plus the completeness summary.
type MappingDocument struct {
	Metadata MappingMetadata          `json:"metadata"`
	Entries  []models.MappingEntry    `json:"mapping_chain"`
	Summary  models.ValidationSummary `json:"validation_summary"`
}

// WriteMappingJSON writes the mapping document, overwriting any prior run.
func WriteMappingJSON(path string, doc MappingDocument) error {
	return writeJSON(path, doc)
}

// WriteLabelReportJSON writes the deck-side label extraction report.
func WriteLabelReportJSON(path string, report *models.LabelReport) error {
	return writeJSON(path, report)
}

// WriteAggregateJSON writes the device aggregation report.
func WriteAggregateJSON(path string, report *models.AggregateReport) error {
	return writeJSON(path, report)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
