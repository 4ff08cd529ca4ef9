package roll

import (
	"fmt"

	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/a3tai/roll-extractor/internal/pdf/wrapper"
)

// Engine walks the row grid of a template over document pages.
type Engine struct {
	tmpl *layout.Template
}

// NewEngine returns an engine for a validated template.
func NewEngine(tmpl *layout.Template) (*Engine, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", tmpl, err)
	}
	return &Engine{tmpl: tmpl}, nil
}

// Template returns the layout the engine reads.
func (e *Engine) Template() *layout.Template {
	return e.tmpl
}

// ExtractPage reads every row slot of a page and returns the rows that had
// at least one non-empty field, in top to bottom order. The cursor moves a
// full pitch after every slot whether or not the slot was blank, so the
// result never holds more than MaxRowsPerPage rows.
func (e *Engine) ExtractPage(doc wrapper.PDFDocument, index int) ([]Partial, error) {
	page, err := doc.GetPage(index)
	if err != nil {
		return nil, err
	}

	rows := e.tmpl.Rows
	var (
		out    []Partial
		offset float64
	)
	for r := 0; r < rows.MaxRowsPerPage; r++ {
		texts, err := page.ExtractRegions(e.tmpl.RowRegions(rows.StartY + offset))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+1, err)
		}

		row := Partial{}
		for name, text := range texts {
			if text != "" {
				row[name] = text
			}
		}
		if len(row) > 0 {
			out = append(out, row)
		}

		offset += rows.Advance(r)
	}

	return out, nil
}
