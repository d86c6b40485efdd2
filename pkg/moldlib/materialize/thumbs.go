package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// defaultThumbMax bounds thumbnails to a dimension that embeds cleanly in
// generated report documents.
const defaultThumbMax = 300

// generateThumbnails writes resized copies of every materialized image
// under OutDir/thumbs. Unsupported or corrupt images are skipped with a
// warning; the byte-identical originals are the authoritative output.
func (m *Materializer) generateThumbnails(entries []models.MappingEntry) error {
	max := m.ThumbMax
	if max <= 0 {
		max = defaultThumbMax
	}
	thumbDir := filepath.Join(m.OutDir, "thumbs")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return err
	}

	for _, e := range entries {
		if e.MaterializedPath == "" {
			continue
		}
		img, err := imaging.Open(e.MaterializedPath)
		if err != nil {
			m.logger().Warn("thumbnail decode failed",
				"file", e.MaterializedPath, "err", err)
			continue
		}
		thumb := imaging.Fit(img, max, max, imaging.Lanczos)
		dst := filepath.Join(thumbDir, thumbName(e.MaterializedPath))
		if err := imaging.Save(thumb, dst); err != nil {
			m.logger().Warn("thumbnail save failed", "file", dst, "err", err)
		}
	}
	return nil
}

// thumbName keeps the base name but forces a png extension so exotic source
// formats still encode.
func thumbName(path string) string {
	base := filepath.Base(path)
	return fmt.Sprintf("%s.png", strings.TrimSuffix(base, filepath.Ext(base)))
}
