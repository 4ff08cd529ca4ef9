// Package layout describes where text lives on a fixed-layout roll page.
//
// A Template is the whole visual grid for one document template: the header
// rectangles read from the first page, the horizontal position of every row
// field and the vertical pitch between rows. Coordinates are PDF points with
// the origin at the top-left corner of the page and y growing downward.
package layout

import (
	"errors"
	"fmt"
)

// Canonical record fields, in output order.
const (
	FieldName            = "name"
	FieldNIN             = "nin"
	FieldSex             = "sex"
	FieldAddress         = "address"
	FieldCircumscription = "circumscription"
	FieldPlace           = "place"
)

// Header region names.
const (
	HeaderRegion   = "region"
	HeaderProvince = "province"
	HeaderArea     = "area"
)

// CanonicalFields lists the record fields in the order they are written.
var CanonicalFields = []string{
	FieldName,
	FieldNIN,
	FieldSex,
	FieldAddress,
	FieldCircumscription,
	FieldPlace,
}

// HeaderFields lists the header keys used to name output files.
var HeaderFields = []string{HeaderRegion, HeaderProvince, HeaderArea}

// Region is a named rectangle in page space.
type Region struct {
	Name   string  `yaml:"name" json:"name"`
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Contains reports whether the point lies inside the region. The rectangle is
// half-open: the right and bottom edges belong to the neighbouring region.
func (r Region) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// RowLayout is the vertical grid of data rows on each page.
type RowLayout struct {
	MaxRowsPerPage int     `yaml:"max_rows_per_page" json:"max_rows_per_page"`
	StartY         float64 `yaml:"start_y" json:"start_y"`
	TextHeight     float64 `yaml:"text_height" json:"text_height"`
	EvenOffset     float64 `yaml:"even_offset" json:"even_offset"`
	OddOffset      float64 `yaml:"odd_offset" json:"odd_offset"`
}

// Advance returns how far the row cursor moves after row r (zero-based).
func (l RowLayout) Advance(r int) float64 {
	if r%2 == 0 {
		return l.TextHeight + l.EvenOffset
	}
	return l.TextHeight + l.OddOffset
}

// Column is the horizontal extent of one row field.
type Column struct {
	Name  string  `yaml:"name" json:"name"`
	X     float64 `yaml:"x" json:"x"`
	Width float64 `yaml:"width" json:"width"`
}

// Template is a complete, versioned page layout.
type Template struct {
	Name    string    `yaml:"name" json:"name"`
	Version int       `yaml:"version" json:"version"`
	Header  []Region  `yaml:"header" json:"header"`
	Rows    RowLayout `yaml:"rows" json:"rows"`
	Columns []Column  `yaml:"columns" json:"columns"`
}

// RowRegions builds the field rectangles of a row whose top edge is at y.
func (t *Template) RowRegions(y float64) []Region {
	regions := make([]Region, 0, len(t.Columns))
	for _, c := range t.Columns {
		regions = append(regions, Region{
			Name:   c.Name,
			X:      c.X,
			Y:      y,
			Width:  c.Width,
			Height: t.Rows.TextHeight,
		})
	}
	return regions
}

// String returns the template identifier, e.g. "electoral-roll/v1".
func (t *Template) String() string {
	return fmt.Sprintf("%s/v%d", t.Name, t.Version)
}

// Validate checks that the template can produce canonical records.
func (t *Template) Validate() error {
	if t.Name == "" {
		return errors.New("template name cannot be empty")
	}
	if t.Rows.MaxRowsPerPage <= 0 {
		return errors.New("max_rows_per_page must be positive")
	}
	if t.Rows.TextHeight <= 0 {
		return errors.New("text_height must be positive")
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if !isCanonical(c.Name) {
			return fmt.Errorf("unknown column %q", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		if c.Width <= 0 {
			return fmt.Errorf("column %q: width must be positive", c.Name)
		}
		seen[c.Name] = true
	}
	for _, name := range CanonicalFields {
		if !seen[name] {
			return fmt.Errorf("missing column %q", name)
		}
	}

	headers := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		if !isHeader(h.Name) {
			return fmt.Errorf("unknown header region %q", h.Name)
		}
		if headers[h.Name] {
			return fmt.Errorf("duplicate header region %q", h.Name)
		}
		if h.Width <= 0 || h.Height <= 0 {
			return fmt.Errorf("header region %q: size must be positive", h.Name)
		}
		headers[h.Name] = true
	}

	return nil
}

func isCanonical(name string) bool {
	for _, f := range CanonicalFields {
		if f == name {
			return true
		}
	}
	return false
}

func isHeader(name string) bool {
	for _, f := range HeaderFields {
		if f == name {
			return true
		}
	}
	return false
}
