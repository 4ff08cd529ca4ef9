package roll

import (
	"fmt"

	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/a3tai/roll-extractor/internal/pdf/wrapper"
)

// Header holds the identifiers printed at the top of the first page. Only
// keys that produced text are present.
type Header map[string]string

// Complete reports whether region, province and area are all known.
func (h Header) Complete() bool {
	for _, k := range layout.HeaderFields {
		if h[k] == "" {
			return false
		}
	}
	return true
}

// ReadHeader extracts the header regions of the template from page 0. An
// empty document or blank header yields an empty Header, not an error.
func ReadHeader(doc wrapper.PDFDocument, tmpl *layout.Template) (Header, error) {
	header := Header{}
	if doc.GetPageCount() == 0 || len(tmpl.Header) == 0 {
		return header, nil
	}

	page, err := doc.GetPage(0)
	if err != nil {
		return header, fmt.Errorf("failed to read header page: %w", err)
	}

	texts, err := page.ExtractRegions(tmpl.Header)
	if err != nil {
		return header, fmt.Errorf("failed to read header regions: %w", err)
	}

	for name, text := range texts {
		if text != "" {
			header[name] = text
		}
	}
	return header, nil
}
