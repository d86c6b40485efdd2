package models

// ValidationStatus classifies one mapping entry.
type ValidationStatus string

const (
	// StatusComplete means the entry has a product identifier and an
	// existing physical image file.
	StatusComplete ValidationStatus = "complete"
	// StatusMissingPDID means no product identifier was present on the row.
	StatusMissingPDID ValidationStatus = "missing_pdid"
	// StatusMissingImage means the identifier did not resolve to an
	// existing media file.
	StatusMissingImage ValidationStatus = "missing_image"
)

// Confidence tags which resolution strategy produced a mapping entry.
type Confidence string

const (
	// MappingDirect is the full formula → registry → rels → media chain.
	MappingDirect Confidence = "direct"
	// MappingAnchorFallback is the legacy per-cell anchored-picture path,
	// used when the spreadsheet has no cellimages registry.
	MappingAnchorFallback Confidence = "anchor_fallback"
	// MappingFilename is the lowest-confidence filename heuristic.
	MappingFilename Confidence = "filename"
)

// ImageFormula is one recognized image-reference formula from the catalog's
// image column.
type ImageFormula struct {
	// Row is the 1-based source row number.
	Row int `json:"row"`
	// CellRef is the A1-style cell reference.
	CellRef string `json:"cell_reference"`
	// ImageID is the opaque image identifier carried by the formula.
	ImageID string `json:"image_id"`
	// Formula is the raw formula text.
	Formula string `json:"formula"`
	// Method names the attempt that recognized the formula
	// (token, strict, loose).
	Method string `json:"method"`
}

// RegistryEntry is one image registered in the cellimages part, joined with
// its relationship target.
type RegistryEntry struct {
	// ImageID is the declared image name (may carry an ID_ prefix).
	ImageID string `json:"image_id"`
	// RelID is the drawing relationship id (rId).
	RelID string `json:"r_id"`
	// Target is the declared relationship target path within the container.
	Target string `json:"target"`
	// PartName is the resolved container part name (e.g. xl/media/image1.png).
	PartName string `json:"part_name"`
	// MediaPath is the extracted media file path on disk, valid only while
	// the container is open.
	MediaPath string `json:"-"`
	// TargetExists reports whether the declared media file actually exists.
	TargetExists bool `json:"target_exists"`
}

// MappingEntry is the terminal per-row artifact of the spreadsheet pipeline.
type MappingEntry struct {
	// Row is the 1-based source row number.
	Row int `json:"row_number"`
	// PDID is the product identifier as written on the row ("" if absent).
	PDID string `json:"pdid"`
	// DeviceName is the short device name for the row.
	DeviceName string `json:"device_name"`
	// Formula is the source formula text ("" on fallback paths).
	Formula string `json:"dispimg_formula,omitempty"`
	// ImageID is the matched image identifier (prefixed form if the
	// prefixed lookup won).
	ImageID string `json:"image_id,omitempty"`
	// MatchedForm records which identifier form matched
	// (verbatim, prefixed, "" when unmatched).
	MatchedForm string `json:"matched_form,omitempty"`
	// RelID is the resolved relationship id.
	RelID string `json:"r_id,omitempty"`
	// MediaPart is the source media part name inside the container. Part
	// names are stable across runs, unlike extraction paths, which keeps
	// rerun mapping files byte-identical.
	MediaPart string `json:"file_path,omitempty"`
	// MediaPath is the extracted media file path on disk, valid only while
	// the container is open.
	MediaPath string `json:"-"`
	// MaterializedPath is the stable output file written by the
	// materializer.
	MaterializedPath string `json:"materialized_path,omitempty"`
	// CellRef is the image cell reference.
	CellRef string `json:"cell_reference"`
	// Status is the validation classification.
	Status ValidationStatus `json:"validation_status"`
	// Mapping tags the resolution strategy that produced the entry.
	Mapping Confidence `json:"mapping_type"`
}

// ValidationSummary is the completeness roll-up over all mapping entries.
type ValidationSummary struct {
	TotalMappings    int `json:"total_mappings"`
	CompleteMappings int `json:"complete_mappings"`
	MissingPDID      int `json:"missing_pdid"`
	MissingImages    int `json:"missing_images"`
	// CompletenessRate is complete/total*100, rounded to two decimals,
	// 0 when total is 0.
	CompletenessRate float64 `json:"completeness_rate"`
}
