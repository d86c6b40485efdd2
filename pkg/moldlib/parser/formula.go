package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/xuri/efp"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/catalog"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// formulaMarker is the token that flags an image-reference formula. Cells
// without it are ordinary cells, not parse failures.
const formulaMarker = "DISPIMG"

// Strict pattern: optional =, optional _xlfn./__xlfn. namespace prefix,
// quoted identifier, mandatory trailing display-mode argument. Covers the
// three known WPS dialects.
var dispimgStrict = regexp.MustCompile(`(?:=_?_?xlfn\.)?DISPIMG\s*\(\s*"([^"]+)"\s*,\s*\d+\s*\)`)

// Loose pattern: only the function name and the quoted identifier. Tried
// last, for hand-edited cells missing the display-mode argument.
var dispimgLoose = regexp.MustCompile(`DISPIMG\s*\(\s*"([^"]+)"`)

// formulaAttempt is one recognition strategy. Attempts run in order and the
// first success tags the result with its name.
type formulaAttempt struct {
	name string
	fn   func(string) (string, bool)
}

var formulaAttempts = []formulaAttempt{
	{"token", extractByTokens},
	{"strict", extractByPattern(dispimgStrict)},
	{"loose", extractByPattern(dispimgLoose)},
}

// extractByTokens tokenizes the formula and pulls the first text operand of
// a DISPIMG call, namespace prefix or not.
func extractByTokens(formula string) (string, bool) {
	ps := efp.ExcelParser()
	tokens := ps.Parse(strings.TrimPrefix(formula, "="))
	inDispimg := false
	for _, t := range tokens {
		if t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart {
			name := strings.ToUpper(t.TValue)
			inDispimg = strings.HasSuffix(name, formulaMarker)
			continue
		}
		if inDispimg && t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeText {
			id := strings.Trim(t.TValue, `"`)
			if id != "" {
				return id, true
			}
		}
	}
	return "", false
}

func extractByPattern(re *regexp.Regexp) func(string) (string, bool) {
	return func(formula string) (string, bool) {
		m := re.FindStringSubmatch(formula)
		if len(m) == 2 {
			return m[1], true
		}
		return "", false
	}
}

// ParseImageFormula recognizes a single image-reference formula and returns
// its image identifier plus the attempt that matched.
func ParseImageFormula(formula string) (id, method string, ok bool) {
	for _, attempt := range formulaAttempts {
		if id, ok := attempt.fn(formula); ok {
			return id, attempt.name, true
		}
	}
	return "", "", false
}

// ExtractImageFormulas scans the catalog's image column and returns one
// recognized formula per row. Rows whose cell carries the marker but no
// parseable pattern are logged and skipped, never fatal. A catalog without
// an image column yields an empty result.
func ExtractImageFormulas(cat *catalog.Catalog, logger *slog.Logger) []models.ImageFormula {
	if logger == nil {
		logger = slog.Default()
	}
	if !cat.Schema.HasImage() {
		logger.Info("catalog has no image column, skipping formula scan",
			"catalog", cat.Path)
		return nil
	}

	var out []models.ImageFormula
	for _, row := range cat.Rows {
		raw := strings.TrimSpace(row.RawImage)
		if raw == "" || !strings.Contains(raw, formulaMarker) {
			continue
		}
		id, method, ok := ParseImageFormula(raw)
		if !ok {
			logger.Warn("unparseable image formula, row skipped",
				"row", row.Row, "formula", raw)
			continue
		}
		out = append(out, models.ImageFormula{
			Row:     row.Row,
			CellRef: row.ImageCellRef,
			ImageID: id,
			Formula: raw,
			Method:  method,
		})
	}
	return out
}
