package parser

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// parseRelationships reads a relationship-declarations part into an
// rId → target map.
func parseRelationships(data []byte) map[string]string {
	out := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Id":
				id = attr.Value
			case "Target":
				target = attr.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
	return out
}

// resolveRelativePath resolves a relationship target against its base part
// directory ("media/image1.png" under "xl" becomes "xl/media/image1.png").
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return baseDir + "/" + target
}

// readElementText collects character data until the matching end element.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// skipElement consumes tokens until the current element closes.
func skipElement(decoder *xml.Decoder) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		switch token.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
}
