package parser

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/container"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// ResolveFilenames is the lowest-confidence fallback, used when neither the
// cellimages registry nor anchored pictures are present: media part base
// names carrying the ID_ prefix are treated as image identifiers and matched
// against the parsed formulas. Entries carry filename confidence so
// downstream consumers can weight them accordingly.
func ResolveFilenames(c *container.Container, formulas []models.ImageFormula, rows map[int]models.CatalogRow, logger *slog.Logger) []models.MappingEntry {
	if logger == nil {
		logger = slog.Default()
	}

	index := make(map[string]models.RegistryEntry)
	for _, part := range c.Parts("xl/media/") {
		base := strings.TrimSuffix(filepath.Base(part), filepath.Ext(part))
		if !strings.HasPrefix(base, idPrefix) {
			continue
		}
		if _, ok := index[base]; !ok {
			index[base] = models.RegistryEntry{
				ImageID:      base,
				PartName:     part,
				MediaPath:    c.PartPath(part),
				TargetExists: true,
			}
		}
	}
	if len(index) == 0 {
		return nil
	}
	logger.Info("matching image formulas against media filenames",
		"candidates", len(index), "container", c.SourcePath())

	return resolveEntries(index, formulas, rows, models.MappingFilename)
}
