package materialize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// Materializer copies resolved media into the output directory, one file
// per product identifier. A prior run's outputs are disposable cache:
// Run clears the directory first, last run wins.
type Materializer struct {
	// OutDir is the output image directory.
	OutDir string
	// Thumbnails enables resized thumbnail generation alongside the
	// byte-identical copies.
	Thumbnails bool
	// ThumbMax is the maximum thumbnail dimension in pixels.
	ThumbMax int
	// Logger receives per-entry warnings. Defaults to slog.Default.
	Logger *slog.Logger
}

func (m *Materializer) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Run materializes every resolvable entry and returns a new entry slice
// with materialized paths filled in. Entries sharing one media file get
// independent byte-identical copies: downstream consumers expect a
// self-contained folder, so files are duplicated, never linked.
func (m *Materializer) Run(entries []models.MappingEntry) ([]models.MappingEntry, error) {
	if err := os.RemoveAll(m.OutDir); err != nil {
		return nil, fmt.Errorf("clear output dir %s: %w", m.OutDir, err)
	}
	if err := os.MkdirAll(m.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", m.OutDir, err)
	}

	out := make([]models.MappingEntry, len(entries))
	copy(out, entries)
	for i := range out {
		e := &out[i]
		if e.MediaPath == "" || e.PDID == "" {
			continue
		}
		name := FileName(e.PDID, e.DeviceName, filepath.Ext(e.MediaPath))
		dst := filepath.Join(m.OutDir, name)
		if err := copyFile(e.MediaPath, dst); err != nil {
			m.logger().Warn("materialize copy failed",
				"row", e.Row, "pdid", e.PDID, "err", err)
			continue
		}
		e.MaterializedPath = dst
	}

	if m.Thumbnails {
		if err := m.generateThumbnails(out); err != nil {
			// Thumbnails are a convenience layer; failures degrade, the
			// materialized copies stand on their own.
			m.logger().Warn("thumbnail generation failed", "err", err)
		}
	}
	return out, nil
}

// FileName builds the stable output name
// <product-identifier>_<transliterated-short-name>.<original-extension>.
func FileName(pdid, deviceName, ext string) string {
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("%s_%s%s", sanitizePDID(pdid), Transliterate(deviceName), ext)
}

// sanitizePDID strips filesystem-hostile characters from the identifier.
func sanitizePDID(pdid string) string {
	var b strings.Builder
	for _, r := range pdid {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := collapse(b.String())
	if out == "" {
		return "unknown"
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
