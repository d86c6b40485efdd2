package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shakinm/xlsReader/xls"
)

// loadLegacy reads a legacy BIFF .xls catalog. The reader panics on some
// malformed workbooks, so the whole parse runs under a recover guard.
func loadLegacy(path string) (cat *Catalog, err error) {
	defer func() {
		if r := recover(); r != nil {
			cat = nil
			err = fmt.Errorf("parse legacy catalog %s: %v", path, r)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse legacy catalog %s: %w", path, err)
	}
	if wb.GetNumberSheets() == 0 {
		return nil, fmt.Errorf("catalog %s: no sheets", path)
	}
	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	var rows [][]string
	for i := 0; i < sheet.GetNumberRows(); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			rows = append(rows, nil)
			continue
		}
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return &Catalog{Path: path, SheetName: sheet.GetName()}, nil
	}

	schema := DiscoverSchema(rows[0])
	cat = &Catalog{Path: path, SheetName: sheet.GetName(), Schema: schema}
	for i, row := range rows[1:] {
		rowNum := i + 2
		cr := buildRow(rowNum, row, schema)
		// BIFF cells expose values only, so the raw image text is whatever
		// string the cell stored.
		cr.RawImage = cellAt(row, schema.Image)
		if isEmptyRow(cr, row) {
			continue
		}
		cat.Rows = append(cat.Rows, cr)
	}
	return cat, nil
}
