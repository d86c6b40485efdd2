package parser

import (
	"bytes"
	"encoding/xml"
	"log/slog"
	"strconv"
	"strings"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/container"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// Parts of the non-standard cell-image extension. cellimages.xml registers
// cell-anchored images; its companion rels part maps rIds to media files.
const (
	cellImagesPart     = "xl/cellimages.xml"
	cellImagesRelsPart = "xl/_rels/cellimages.xml.rels"
)

// idPrefix is the fixed prefix some registry variants prepend to image
// identifiers that formulas reference without it.
const idPrefix = "ID_"

// ParseRegistry reads the custom image-registry part and resolves every
// registered image through the rels part to its media file. A container
// without the registry part returns (nil, nil): the spreadsheet simply does
// not use the extension, and the caller falls back to anchored-picture
// extraction.
func ParseRegistry(c *container.Container, logger *slog.Logger) ([]models.RegistryEntry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !c.PartExists(cellImagesPart) {
		return nil, nil
	}
	data, err := c.Part(cellImagesPart)
	if err != nil {
		return nil, err
	}

	idToRel := parseCellImagesXML(data)
	if len(idToRel) == 0 {
		logger.Warn("cellimages part present but no image nodes recognized",
			"container", c.SourcePath())
		return nil, nil
	}

	relToTarget := make(map[string]string)
	if relsData, err := c.Part(cellImagesRelsPart); err == nil {
		relToTarget = parseRelationships(relsData)
	} else {
		logger.Warn("cellimages rels part missing, relationships unresolvable",
			"container", c.SourcePath())
	}

	var out []models.RegistryEntry
	for _, reg := range idToRel {
		entry := models.RegistryEntry{ImageID: reg.id, RelID: reg.rel}
		if target, ok := relToTarget[reg.rel]; ok {
			partName := resolveRelativePath(target, "xl")
			entry.Target = target
			entry.PartName = partName
			entry.TargetExists = c.PartExists(partName)
			entry.MediaPath = c.PartPath(partName)
			if !entry.TargetExists {
				// Declared but missing media is recorded, not fatal.
				logger.Warn("registry target missing from media store",
					"image_id", reg.id, "target", target)
			}
		} else {
			logger.Warn("registry image has no relationship record",
				"image_id", reg.id, "r_id", reg.rel)
		}
		out = append(out, entry)
	}
	return out, nil
}

type registeredImage struct {
	id  string
	rel string
}

// parseCellImagesXML extracts (image id, rId) pairs from the registry part.
// The WPS variant nests an xdr:pic carrying the id in cNvPr@name and the
// rId in a:blip@r:embed; the plain variant puts both on the cellImage
// element itself. The walk is namespace-agnostic, keyed on local names,
// because the three known dialects differ only in namespacing.
func parseCellImagesXML(data []byte) []registeredImage {
	var out []registeredImage
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "cellImage" {
			continue
		}

		var img registeredImage
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "id":
				img.id = attr.Value
			case "embed":
				img.rel = attr.Value
			}
		}

		// WPS variant: descend into the element for cNvPr/blip.
		depth := 1
		for depth > 0 {
			token, err := decoder.Token()
			if err != nil {
				break
			}
			switch t := token.(type) {
			case xml.StartElement:
				depth++
				switch t.Name.Local {
				case "cNvPr":
					for _, attr := range t.Attr {
						if attr.Name.Local == "name" && attr.Value != "" {
							img.id = attr.Value
						}
					}
				case "blip":
					for _, attr := range t.Attr {
						if attr.Name.Local == "embed" && attr.Value != "" {
							img.rel = attr.Value
						}
					}
				}
			case xml.EndElement:
				depth--
			}
		}

		if img.id != "" && img.rel != "" {
			out = append(out, img)
		}
	}
	return out
}

// ResolveChain matches every parsed formula against the registry and builds
// exactly one mapping entry per input row. The verbatim identifier is tried
// first, then the ID_-prefixed and ID_-stripped forms; verbatim wins when
// several exist. Unmatched identifiers become missing_image entries, never
// dropped.
func ResolveChain(formulas []models.ImageFormula, registry []models.RegistryEntry, rows map[int]models.CatalogRow) []models.MappingEntry {
	index := make(map[string]models.RegistryEntry, len(registry))
	for _, r := range registry {
		if _, ok := index[r.ImageID]; !ok {
			index[r.ImageID] = r
		}
	}
	return resolveEntries(index, formulas, rows, models.MappingDirect)
}

// resolveEntries runs the identifier lookup for every formula against an
// image index and tags the produced entries with the given confidence.
func resolveEntries(index map[string]models.RegistryEntry, formulas []models.ImageFormula, rows map[int]models.CatalogRow, confidence models.Confidence) []models.MappingEntry {
	out := make([]models.MappingEntry, 0, len(formulas))
	for _, f := range formulas {
		entry := models.MappingEntry{
			Row:     f.Row,
			Formula: f.Formula,
			ImageID: f.ImageID,
			CellRef: f.CellRef,
			Mapping: confidence,
		}
		if row, ok := rows[f.Row]; ok {
			if row.PDID != 0 {
				entry.PDID = strconv.Itoa(row.PDID)
			}
			entry.DeviceName = row.DisplayShortName()
		}

		reg, form := lookupRegistry(index, f.ImageID)
		if form != "" && reg.TargetExists {
			entry.ImageID = reg.ImageID
			entry.MatchedForm = form
			entry.RelID = reg.RelID
			entry.MediaPart = reg.PartName
			entry.MediaPath = reg.MediaPath
		}
		entry.Status = classify(entry)
		out = append(out, entry)
	}
	return out
}

// lookupRegistry tries the identifier verbatim, then with the fixed prefix
// added, then with it stripped. Formulas and registries disagree about the
// prefix in both directions, so both retries are needed; verbatim wins ties.
func lookupRegistry(index map[string]models.RegistryEntry, id string) (models.RegistryEntry, string) {
	if reg, ok := index[id]; ok {
		return reg, "verbatim"
	}
	if reg, ok := index[idPrefix+id]; ok {
		return reg, "prefixed"
	}
	if stripped := strings.TrimPrefix(id, idPrefix); stripped != id {
		if reg, ok := index[stripped]; ok {
			return reg, "stripped"
		}
	}
	return models.RegistryEntry{}, ""
}

// classify applies the validation invariant: complete iff a product
// identifier is present and the media file resolved; missing pdid takes
// precedence over missing image.
func classify(e models.MappingEntry) models.ValidationStatus {
	if e.PDID == "" {
		return models.StatusMissingPDID
	}
	if e.MediaPath == "" {
		return models.StatusMissingImage
	}
	return models.StatusComplete
}
