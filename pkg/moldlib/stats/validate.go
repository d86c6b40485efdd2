// Package stats classifies mapping completeness and rolls extracted labels
// up into device, brand and category aggregates.
package stats

import (
	"math"
	"os"

	"github.com/tiendc/go-deepcopy"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// Validate classifies every mapping entry and computes the completeness
// summary. It is a pure function over its input: entries are deep-copied
// before classification, so repeated runs over the same input produce
// identical output and the caller's slice is never mutated.
func Validate(entries []models.MappingEntry) (models.ValidationSummary, []models.MappingEntry) {
	var classified []models.MappingEntry
	if err := deepcopy.Copy(&classified, entries); err != nil {
		// MappingEntry is a plain value struct; a copy failure would mean
		// the model itself is broken.
		classified = append(classified, entries...)
	}

	summary := models.ValidationSummary{TotalMappings: len(classified)}
	for i := range classified {
		e := &classified[i]
		switch {
		case e.PDID == "":
			e.Status = models.StatusMissingPDID
			summary.MissingPDID++
		case !mediaExists(e.MaterializedPath) && !mediaExists(e.MediaPath):
			e.Status = models.StatusMissingImage
			summary.MissingImages++
		default:
			e.Status = models.StatusComplete
			summary.CompleteMappings++
		}
	}
	if summary.TotalMappings > 0 {
		rate := float64(summary.CompleteMappings) / float64(summary.TotalMappings) * 100
		summary.CompletenessRate = math.Round(rate*100) / 100
	}
	return summary, classified
}

func mediaExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
