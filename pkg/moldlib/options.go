// Package moldlib converts between a mold-library spreadsheet and a
// slide-deck design: it recovers the row-to-image binding from the
// spreadsheet's embedded-image extension and recovers product identifiers
// from a deck's shape tree.
package moldlib

import "log/slog"

// Options configures a pipeline run.
type Options struct {
	// OutDir is the materialized image output directory.
	OutDir string
	// Thumbnails enables thumbnail generation alongside the image copies.
	Thumbnails bool
	// ThumbMax is the maximum thumbnail dimension in pixels (0 = default).
	ThumbMax int
	// Logger receives warnings and progress. Nil means slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns the default run configuration.
func DefaultOptions() Options {
	return Options{OutDir: "images"}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
