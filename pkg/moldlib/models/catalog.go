// Package models defines data structures shared across the mold-library
// pipelines.
package models

import "github.com/shopspring/decimal"

// CatalogRow represents one logical product from the mold-library sheet.
type CatalogRow struct {
	// Row is the 1-based source row number in the sheet.
	Row int `json:"row"`
	// PDID is the numeric product identifier (0 if the cell was empty).
	PDID int `json:"pdid"`
	// Category is the device category column value.
	Category string `json:"category,omitempty"`
	// Name is the full device name.
	Name string `json:"name"`
	// ShortName is the short device name used for materialized filenames.
	ShortName string `json:"short_name,omitempty"`
	// Brand is the device brand.
	Brand string `json:"brand,omitempty"`
	// UnitPrice is the per-unit price.
	UnitPrice decimal.Decimal `json:"unit_price"`
	// Specification is the main specification column value.
	Specification string `json:"specification,omitempty"`
	// Enabled reports whether the row is marked enabled (true when the
	// sheet has no enabled column).
	Enabled bool `json:"enabled"`
	// RawImage is the raw text of the image-column cell (formula or value).
	RawImage string `json:"-"`
	// ImageCellRef is the A1-style reference of the image-column cell.
	ImageCellRef string `json:"-"`
}

// DisplayShortName returns the short name, falling back to the full name.
func (r CatalogRow) DisplayShortName() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	return r.Name
}
