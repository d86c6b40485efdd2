// Package parser implements the identity-resolution parsers: image-reference
// formula recognition, the cellimages relationship chain, the legacy
// anchored-picture fallback, and slide shape-tree label extraction.
package parser

// EMUPerPixel is the number of EMUs (English Metric Units) per pixel at 96
// DPI: 914400 EMU per inch / 96 pixels per inch.
const EMUPerPixel = 9525

// EMUToPixels converts EMU offsets from drawing XML to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}
