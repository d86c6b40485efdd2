package container

import (
	"bytes"
	"fmt"
	"os"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// ole2Magic is the compound-file (OLE2) signature carried by legacy .xls,
// .doc and .ppt documents.
var ole2Magic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// describeLegacy returns a human-readable description when the file is a
// legacy OLE2 compound document, "" otherwise. The description includes
// the document title from the summary-information stream when readable, so
// the unreadable-container error names the document rather than just
// "not a zip".
func describeLegacy(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	magic := make([]byte, len(ole2Magic))
	if _, err := f.Read(magic); err != nil || !bytes.Equal(magic, ole2Magic) {
		return ""
	}
	if _, err := f.Seek(0, 0); err != nil {
		return ""
	}

	desc := "legacy OLE2 compound document (convert to xlsx/pptx first)"
	doc, err := mscfb.New(f)
	if err != nil {
		return desc
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if !msoleps.IsMSOLEPS(entry.Initial) {
			continue
		}
		props := msoleps.New()
		if err := props.Reset(doc); err != nil {
			continue
		}
		for _, p := range props.Property {
			if p.Name == "Title" {
				if title := fmt.Sprint(p.T); title != "" {
					return fmt.Sprintf("%s, title %q", desc, title)
				}
			}
		}
	}
	return desc
}
