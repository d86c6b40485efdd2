package parser

import (
	"bytes"
	"encoding/xml"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/container"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Strict label pattern: the literal pdid token, a colon, optional
// whitespace, digits. The loose variant also allows whitespace before the
// colon and is tried only when the strict pattern fails, so one shape can
// never yield two labels.
var (
	pdidStrict = regexp.MustCompile(`(?i)pdid:\s*(\d+)`)
	pdidLoose  = regexp.MustCompile(`(?i)pdid\s*:\s*(\d+)`)
)

// MatchLabel tests a shape's trimmed text against the label patterns and
// reports the numeric value plus which pattern matched.
func MatchLabel(text string) (pdid int, pattern string, ok bool) {
	if m := pdidStrict.FindStringSubmatch(text); len(m) == 2 {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, "strict", true
		}
	}
	if m := pdidLoose.FindStringSubmatch(text); len(m) == 2 {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, "loose", true
		}
	}
	return 0, "", false
}

// ExtractLabels walks every slide's shape tree, recursing into groups of
// any depth, and returns all pdid label occurrences with slide and shape
// context. Shapes without text or without a matching label produce no
// entry and no error.
func ExtractLabels(c *container.Container) (*models.LabelReport, error) {
	report := &models.LabelReport{DeckFile: filepath.Base(c.SourcePath())}

	for _, part := range sortedSlideParts(c) {
		data, err := c.Part(part)
		if err != nil {
			return nil, err
		}
		detail := models.SlideDetail{SlideIndex: report.TotalSlides}
		detail.Labels = parseSlideLabels(data, detail.SlideIndex)
		report.Slides = append(report.Slides, detail)
		report.TotalSlides++
		report.TotalLabelsFound += len(detail.Labels)
	}
	return report, nil
}

// sortedSlideParts orders slide parts by slide number, not lexically, so
// slide10 follows slide9.
func sortedSlideParts(c *container.Container) []string {
	var parts []string
	for _, name := range c.Parts("ppt/slides/slide") {
		if slidePartPattern.MatchString(name) {
			parts = append(parts, name)
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		return slideNumber(parts[i]) < slideNumber(parts[j])
	})
	return parts
}

func slideNumber(part string) int {
	m := slidePartPattern.FindStringSubmatch(part)
	if len(m) != 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// parseSlideLabels token-walks one slide part. Group shapes recurse with
// the enclosing group names carried on a stack.
func parseSlideLabels(data []byte, slideIndex int) []models.ShapeLabel {
	var labels []models.ShapeLabel
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "spTree" {
			labels = append(labels, walkShapeTree(decoder, slideIndex, nil)...)
		}
	}
	return labels
}

// walkShapeTree visits every child of the current container element.
// groupPath holds the enclosing group names, outermost first.
func walkShapeTree(decoder *xml.Decoder, slideIndex int, groupPath []string) []models.ShapeLabel {
	var labels []models.ShapeLabel
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
			case "sp":
				if label, ok := parseShape(decoder, slideIndex, groupPath); ok {
					labels = append(labels, label)
				}
				depth--
			case "grpSp":
				labels = append(labels, parseGroup(decoder, slideIndex, groupPath)...)
				depth--
			case "pic", "graphicFrame", "cxnSp":
				skipElement(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	return labels
}

// parseGroup reads the group's own name, pushes it onto the path and
// recurses into the group's children.
func parseGroup(decoder *xml.Decoder, slideIndex int, groupPath []string) []models.ShapeLabel {
	var labels []models.ShapeLabel
	groupName := ""
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
				// The first cNvPr inside the group header is the group's own.
				if groupName == "" {
					for _, attr := range t.Attr {
						if attr.Name.Local == "name" {
							groupName = attr.Value
						}
					}
				}
			case "sp":
				path := append(append([]string(nil), groupPath...), groupName)
				if label, ok := parseShape(decoder, slideIndex, path); ok {
					labels = append(labels, label)
				}
				depth--
			case "grpSp":
				path := append(append([]string(nil), groupPath...), groupName)
				labels = append(labels, parseGroup(decoder, slideIndex, path)...)
				depth--
			case "pic", "graphicFrame", "cxnSp":
				skipElement(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	return labels
}

// parseShape reads one sp element: its name, geometry and accumulated text
// runs. The shape yields at most one label.
func parseShape(decoder *xml.Decoder, slideIndex int, groupPath []string) (models.ShapeLabel, bool) {
	var (
		shapeName string
		text      strings.Builder
		geom      models.Rect
	)
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
				if shapeName == "" {
					for _, attr := range t.Attr {
						if attr.Name.Local == "name" {
							shapeName = attr.Value
						}
					}
				}
			case "off":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "x":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							geom.L = EMUToPixels(v)
						}
					case "y":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							geom.T = EMUToPixels(v)
						}
					}
				}
			case "ext":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "cx":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							geom.W = EMUToPixels(v)
						}
					case "cy":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							geom.H = EMUToPixels(v)
						}
					}
				}
			case "t":
				if txt, err := readElementText(decoder); err == nil {
					text.WriteString(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	trimmed := strings.TrimSpace(text.String())
	if trimmed == "" {
		return models.ShapeLabel{}, false
	}
	pdid, pattern, ok := MatchLabel(trimmed)
	if !ok {
		return models.ShapeLabel{}, false
	}
	label := models.ShapeLabel{
		PDID:       pdid,
		Text:       trimmed,
		ShapeName:  shapeName,
		SlideIndex: slideIndex,
		Pattern:    pattern,
		Geometry:   geom,
	}
	if len(groupPath) > 0 {
		label.ParentGroup = groupPath[len(groupPath)-1]
		label.GroupPath = append([]string(nil), groupPath...)
	}
	return label, true
}
