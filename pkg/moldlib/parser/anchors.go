package parser

import (
	"bytes"
	"encoding/xml"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/container"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

var drawingPartPattern = regexp.MustCompile(`^xl/drawings/drawing\d+\.xml$`)

// anchoredPicture is one picture anchored to a sheet cell.
type anchoredPicture struct {
	row       int // 1-based sheet row
	relID     string
	partName  string
	mediaPath string
}

// ResolveAnchors is the legacy fallback for spreadsheets without the
// cellimages registry: pictures are anchored per cell in the sheet's
// drawing parts. Each catalog row is joined to the picture anchored at its
// row, and the resulting entries carry anchor-fallback confidence.
func ResolveAnchors(c *container.Container, rows map[int]models.CatalogRow, logger *slog.Logger) []models.MappingEntry {
	if logger == nil {
		logger = slog.Default()
	}

	byRow := make(map[int]anchoredPicture)
	for _, part := range c.Parts("xl/drawings/") {
		if !drawingPartPattern.MatchString(part) {
			continue
		}
		data, err := c.Part(part)
		if err != nil {
			continue
		}
		relToTarget := drawingRels(c, part)
		for _, pic := range parseAnchoredPictures(data) {
			target, ok := relToTarget[pic.relID]
			if !ok {
				logger.Warn("anchored picture has no relationship record",
					"part", part, "r_id", pic.relID)
				continue
			}
			partName := resolveRelativePath(target, "xl/drawings")
			if !c.PartExists(partName) {
				logger.Warn("anchored picture target missing from media store",
					"part", part, "target", target)
				continue
			}
			pic.partName = partName
			pic.mediaPath = c.PartPath(partName)
			if _, seen := byRow[pic.row]; !seen {
				byRow[pic.row] = pic
			}
		}
	}
	if len(byRow) == 0 {
		return nil
	}

	var out []models.MappingEntry
	for _, row := range sortedRows(rows) {
		pic, ok := byRow[row.Row]
		if !ok {
			continue
		}
		entry := models.MappingEntry{
			Row:        row.Row,
			DeviceName: row.DisplayShortName(),
			RelID:      pic.relID,
			MediaPart:  pic.partName,
			MediaPath:  pic.mediaPath,
			CellRef:    row.ImageCellRef,
			Mapping:    models.MappingAnchorFallback,
		}
		if row.PDID != 0 {
			entry.PDID = strconv.Itoa(row.PDID)
		}
		entry.Status = classify(entry)
		out = append(out, entry)
	}
	return out
}

// drawingRels loads the rels part accompanying a drawing part.
func drawingRels(c *container.Container, drawingPart string) map[string]string {
	relsPart := strings.Replace(drawingPart, "drawings/", "drawings/_rels/", 1) + ".rels"
	data, err := c.Part(relsPart)
	if err != nil {
		return nil
	}
	return parseRelationships(data)
}

// parseAnchoredPictures extracts (anchor row, blip rId) pairs from a
// drawing part. Anchor rows in the XML are 0-based.
func parseAnchoredPictures(data []byte) []anchoredPicture {
	var out []anchoredPicture
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
			if pic, ok := parseAnchor(decoder); ok {
				out = append(out, pic)
			}
		}
	}
	return out
}

func parseAnchor(decoder *xml.Decoder) (anchoredPicture, bool) {
	var pic anchoredPicture
	inFrom := false
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
			case "from":
				inFrom = true
			case "row":
				if inFrom {
					if text, err := readElementText(decoder); err == nil {
						if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
							pic.row = n + 1
						}
					}
					depth--
				}
			case "blip":
				for _, attr := range t.Attr {
					if attr.Name.Local == "embed" {
						pic.relID = attr.Value
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "from" {
				inFrom = false
			}
			depth--
		}
	}
	return pic, pic.row > 0 && pic.relID != ""
}

func sortedRows(rows map[int]models.CatalogRow) []models.CatalogRow {
	out := make([]models.CatalogRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}
