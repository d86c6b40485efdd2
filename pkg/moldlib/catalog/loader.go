package catalog

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// Catalog is the loaded product table plus its discovered schema.
type Catalog struct {
	// Path is the source spreadsheet path.
	Path string
	// SheetName is the sheet the rows were read from.
	SheetName string
	// Schema is the discovered column layout.
	Schema Schema
	// Rows holds the data rows in sheet order.
	Rows []models.CatalogRow
}

// ByPDID indexes enabled rows by product identifier. When two rows carry
// the same identifier the first one wins.
func (c *Catalog) ByPDID() map[int]models.CatalogRow {
	out := make(map[int]models.CatalogRow, len(c.Rows))
	for _, r := range c.Rows {
		if r.PDID == 0 || !r.Enabled {
			continue
		}
		if _, ok := out[r.PDID]; !ok {
			out[r.PDID] = r
		}
	}
	return out
}

// Load reads the catalog spreadsheet at path. Legacy .xls workbooks are
// handled by the BIFF reader; everything else goes through excelize.
func Load(path string) (*Catalog, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return loadLegacy(path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog %s: no sheets", path)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &Catalog{Path: path, SheetName: sheetName}, nil
	}

	schema := DiscoverSchema(rows[0])
	cat := &Catalog{Path: path, SheetName: sheetName, Schema: schema}

	for i, row := range rows[1:] {
		rowNum := i + 2
		cr := buildRow(rowNum, row, schema)
		if schema.Image != 0 {
			cell, _ := excelize.CoordinatesToCellName(schema.Image, rowNum)
			cr.ImageCellRef = cell
			// The image cell usually holds a formula; fall back to the
			// stored value for sheets saved with the formula as text.
			if formula, err := f.GetCellFormula(sheetName, cell); err == nil && formula != "" {
				cr.RawImage = formula
			} else {
				cr.RawImage = cellAt(row, schema.Image)
			}
		}
		if isEmptyRow(cr, row) {
			continue
		}
		cat.Rows = append(cat.Rows, cr)
	}
	return cat, nil
}

// buildRow maps one sheet row onto a CatalogRow through the schema.
func buildRow(rowNum int, row []string, schema Schema) models.CatalogRow {
	cr := models.CatalogRow{
		Row:           rowNum,
		Category:      cellAt(row, schema.Category),
		Name:          cellAt(row, schema.Name),
		ShortName:     cellAt(row, schema.ShortName),
		Brand:         cellAt(row, schema.Brand),
		Specification: cellAt(row, schema.Spec),
		Enabled:       true,
	}
	if v := cellAt(row, schema.PDID); v != "" {
		if id, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cr.PDID = id
		}
	}
	if v := cellAt(row, schema.Price); v != "" {
		if price, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			cr.UnitPrice = price
		}
	}
	if schema.Enabled != 0 {
		cr.Enabled = parseEnabled(cellAt(row, schema.Enabled))
	}
	return cr
}

func cellAt(row []string, col int) string {
	if col <= 0 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func parseEnabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "1", "true", "yes", "y", "是", "启用":
		return true
	}
	return false
}

func isEmptyRow(cr models.CatalogRow, row []string) bool {
	if cr.PDID != 0 || cr.Name != "" || cr.ShortName != "" || cr.RawImage != "" {
		return false
	}
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
