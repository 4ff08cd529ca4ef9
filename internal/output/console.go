package output

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/a3tai/roll-extractor/internal/roll"
)

// Minimum column widths of the console table
const (
	nameWidth            = 60
	ninWidth             = 12
	sexWidth             = 3
	addressWidth         = 80
	circumscriptionWidth = 30
	placeWidth           = 5
)

// Console prints one fixed-width line per record
type Console struct {
	w io.Writer
}

// NewConsole returns a console sink writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// WritePage prints the records of a page
func (c *Console) WritePage(records []roll.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(c.w, FormatLine(r)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

// FormatLine lays out a record as a table line. Name and address are left
// aligned, the other columns right aligned. Values longer than their column
// are not cut.
func FormatLine(r roll.Record) string {
	return fmt.Sprintf("%s %s %s %s %s %s",
		runewidth.FillRight(r.Name, nameWidth),
		runewidth.FillLeft(r.NIN, ninWidth),
		runewidth.FillLeft(r.Sex, sexWidth),
		runewidth.FillRight(r.Address, addressWidth),
		runewidth.FillLeft(r.Circumscription, circumscriptionWidth),
		runewidth.FillLeft(r.Place, placeWidth),
	)
}
