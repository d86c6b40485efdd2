package moldlib

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// injectParts rewrites the workbook archive with extra parts appended, the
// way WPS adds its embedded-image registry next to the standard parts.
func injectParts(t *testing.T, path string, extra map[string][]byte) {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open workbook for injection: %v", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range r.File {
		pw, err := w.Create(f.Name)
		if err != nil {
			t.Fatal(err)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.Copy(pw, rc); err != nil {
			t.Fatal(err)
		}
		rc.Close()
	}
	r.Close()

	for name, content := range extra {
		pw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeLibraryFixture builds a workbook with eight data rows, five of which
// carry image formulas, plus the embedded-image registry. One formula row
// has no product identifier and one registry target has no media bytes.
func writeLibraryFixture(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{"产品ID", "设备名称", "设备简称", "品牌", "单价", "设备图片"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	type fixtureRow struct {
		pdid    int
		name    string
		short   string
		brand   string
		price   float64
		imageID string
	}
	rows := []fixtureRow{
		{101, "智能开关三键", "开关3", "米家", 129.5, "ID_A"},
		{102, "人体传感器", "传感器A", "米家", 59, "ID_B"},
		{0, "无编号设备", "", "", 0, "ID_C"},
		{104, "多模网关", "网关", "绿米", 249, "ID_D"},
		{105, "墙壁插座", "插座", "米家", 45, "ID_E"},
		{106, "窗帘电机", "", "杜亚", 399, ""},
		{107, "场景面板", "", "米家", 199, ""},
		{108, "温湿度计", "", "米家", 69, ""},
	}
	for i, row := range rows {
		n := i + 2
		if row.pdid != 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row.pdid)
		}
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), row.name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", n), row.short)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", n), row.brand)
		if row.price != 0 {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", n), row.price)
		}
		if row.imageID != "" {
			f.SetCellFormula(sheet, fmt.Sprintf("F%d", n),
				fmt.Sprintf(`_xlfn.DISPIMG("%s",1)`, row.imageID))
		}
	}

	path := filepath.Join(dir, "mold.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}

	cellImages := `<etc:cellImages xmlns:etc="http://www.wps.cn/officeDocument/2017/etCustomData"
 xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
 xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
 xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`
	rels := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`
	extra := map[string][]byte{}
	for i, id := range []string{"ID_A", "ID_B", "ID_C", "ID_D", "ID_E"} {
		relID := fmt.Sprintf("rId%d", i+1)
		cellImages += fmt.Sprintf(`<etc:cellImage><xdr:pic>
 <xdr:nvPicPr><xdr:cNvPr id="%d" name="%s"/></xdr:nvPicPr>
 <xdr:blipFill><a:blip r:embed="%s"/></xdr:blipFill>
</xdr:pic></etc:cellImage>`, i+1, id, relID)
		rels += fmt.Sprintf(`<Relationship Id="%s" Target="media/imagefx%d.png"/>`, relID, i+1)
		// ID_D's media bytes are deliberately absent.
		if id != "ID_D" {
			extra[fmt.Sprintf("xl/media/imagefx%d.png", i+1)] = []byte("png-" + id)
		}
	}
	cellImages += `</etc:cellImages>`
	rels += `</Relationships>`
	extra["xl/cellimages.xml"] = []byte(cellImages)
	extra["xl/_rels/cellimages.xml.rels"] = []byte(rels)

	injectParts(t, path, extra)
	return path
}

func TestExtractImagesEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeLibraryFixture(t, dir)

	opts := DefaultOptions()
	opts.OutDir = filepath.Join(dir, "images")

	res, err := ExtractImages(path, opts)
	if err != nil {
		t.Fatalf("ExtractImages failed: %v", err)
	}

	// Only formula-bearing rows enter the mapping.
	if len(res.Catalog.Rows) != 8 {
		t.Fatalf("expected 8 catalog rows, got %d", len(res.Catalog.Rows))
	}
	if res.Summary.TotalMappings != 5 {
		t.Fatalf("total mappings = %d, expected 5", res.Summary.TotalMappings)
	}
	if res.Summary.CompleteMappings != 3 || res.Summary.MissingPDID != 1 || res.Summary.MissingImages != 1 {
		t.Errorf("summary = %+v, expected 3 complete, 1 missing_pdid, 1 missing_image", res.Summary)
	}
	if res.Summary.CompletenessRate != 60.0 {
		t.Errorf("rate = %v, expected 60.0", res.Summary.CompletenessRate)
	}

	byRow := map[int]models.MappingEntry{}
	for _, e := range res.Entries {
		byRow[e.Row] = e
	}
	if e := byRow[2]; e.Status != models.StatusComplete || e.MediaPart != "xl/media/imagefx1.png" {
		t.Errorf("row 2 entry: %+v", e)
	}
	if e := byRow[4]; e.Status != models.StatusMissingPDID {
		t.Errorf("row 4 entry: %+v", e)
	}
	if e := byRow[5]; e.Status != models.StatusMissingImage {
		t.Errorf("row 5 entry: %+v", e)
	}

	// Materialized copies carry the product identifier in the name.
	want := filepath.Join(opts.OutDir, "101_kaiguan3.png")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("materialized image missing: %v", err)
	}
	if string(data) != "png-ID_A" {
		t.Errorf("materialized bytes = %q", data)
	}

	for _, out := range []string{res.MappingJSON, res.MappingCSV} {
		if _, err := os.Stat(out); err != nil {
			t.Errorf("mapping file not written: %v", err)
		}
	}
}

func TestExtractImagesRerunIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	path := writeLibraryFixture(t, dir)

	opts := DefaultOptions()
	opts.OutDir = filepath.Join(dir, "images")

	first, err := ExtractImages(path, opts)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstJSON, err := os.ReadFile(first.MappingJSON)
	if err != nil {
		t.Fatal(err)
	}
	firstCSV, err := os.ReadFile(first.MappingCSV)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ExtractImages(path, opts)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	secondJSON, err := os.ReadFile(second.MappingJSON)
	if err != nil {
		t.Fatal(err)
	}
	secondCSV, err := os.ReadFile(second.MappingCSV)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("mapping JSON differs across reruns over an unmodified catalog")
	}
	if !bytes.Equal(firstCSV, secondCSV) {
		t.Error("mapping CSV differs across reruns over an unmodified catalog")
	}
}

func TestExtractImagesFilenameFallback(t *testing.T) {
	// No cellimages registry and no drawing anchors: the pipeline falls
	// through to matching formula ids against prefixed media filenames.
	dir := t.TempDir()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	for i, h := range []string{"产品ID", "设备名称", "设备简称", "设备图片"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellValue(sheet, "A2", 101)
	f.SetCellValue(sheet, "B2", "智能开关三键")
	f.SetCellValue(sheet, "C2", "开关3")
	f.SetCellFormula(sheet, "D2", `_xlfn.DISPIMG("ID_A",1)`)
	f.SetCellValue(sheet, "A3", 102)
	f.SetCellValue(sheet, "B3", "人体传感器")
	f.SetCellFormula(sheet, "D3", `_xlfn.DISPIMG("ID_B",1)`)

	path := filepath.Join(dir, "mold.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	injectParts(t, path, map[string][]byte{
		"xl/media/ID_A.png": []byte("png-A"),
	})

	opts := DefaultOptions()
	opts.OutDir = filepath.Join(dir, "images")

	res, err := ExtractImages(path, opts)
	if err != nil {
		t.Fatalf("ExtractImages failed: %v", err)
	}
	if res.Summary.TotalMappings != 2 || res.Summary.CompleteMappings != 1 {
		t.Fatalf("summary = %+v, expected 2 mappings with 1 complete", res.Summary)
	}

	byRow := map[int]models.MappingEntry{}
	for _, e := range res.Entries {
		byRow[e.Row] = e
	}
	if e := byRow[2]; e.Mapping != models.MappingFilename || e.Status != models.StatusComplete {
		t.Errorf("row 2 entry: %+v", e)
	}
	if e := byRow[3]; e.Status != models.StatusMissingImage {
		t.Errorf("row 3 entry: %+v", e)
	}

	data, err := os.ReadFile(filepath.Join(opts.OutDir, "101_kaiguan3.png"))
	if err != nil {
		t.Fatalf("materialized image missing: %v", err)
	}
	if string(data) != "png-A" {
		t.Errorf("materialized bytes = %q", data)
	}
}

func writeDeckFixture(t *testing.T, dir string) string {
	t.Helper()
	slide := func(body string) string {
		return `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
 xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
 <p:cSld><p:spTree>` + body + `</p:spTree></p:cSld></p:sld>`
	}
	shape := func(text string) string {
		return `<p:sp><p:nvSpPr><p:cNvPr id="1" name="标签"/></p:nvSpPr>
 <p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp>`
	}

	path := filepath.Join(dir, "design.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	parts := map[string]string{
		"ppt/slides/slide1.xml": slide(shape("pdid: 101") + shape("pdid: 102") + shape("客厅方案")),
		"ppt/slides/slide2.xml": slide(shape("pdid: 101") + shape("pdid: 999")),
	}
	for name, content := range parts {
		pw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeDeckEndToEnd(t *testing.T) {
	dir := t.TempDir()
	libraryPath := writeLibraryFixture(t, dir)
	deckPath := writeDeckFixture(t, dir)

	res, err := AnalyzeDeck(deckPath, libraryPath, DefaultOptions())
	if err != nil {
		t.Fatalf("AnalyzeDeck failed: %v", err)
	}

	if res.Labels.TotalSlides != 2 || res.Labels.TotalLabelsFound != 4 {
		t.Fatalf("labels = %+v, expected 4 labels on 2 slides", res.Labels)
	}
	agg := res.Aggregate
	if agg.SuccessfulMatches != 3 || agg.UniquePDIDs != 2 {
		t.Errorf("matches=%d unique=%d, expected 3 and 2", agg.SuccessfulMatches, agg.UniquePDIDs)
	}
	if agg.DeviceCounts[101] != 2 || agg.DeviceCounts[102] != 1 {
		t.Errorf("unexpected counts: %v", agg.DeviceCounts)
	}
	if len(agg.UnmatchedLabels) != 1 || agg.UnmatchedLabels[0].PDID != 999 {
		t.Errorf("unexpected unmatched labels: %+v", agg.UnmatchedLabels)
	}
	if agg.SuccessfulMatches+len(agg.UnmatchedLabels) != res.Labels.TotalLabelsFound {
		t.Error("matched plus unmatched must equal the labels found")
	}
	// 129.50 * 2 + 59.00.
	if agg.TotalPrice.StringFixed(2) != "318.00" {
		t.Errorf("total price = %s, expected 318.00", agg.TotalPrice)
	}
}
