package wrapper

import (
	"fmt"

	"github.com/a3tai/roll-extractor/internal/layout"
)

// PDFLibrary opens documents from disk
type PDFLibrary interface {
	OpenFile(path string) (PDFDocument, error)
	GetLibraryType() LibraryType
}

// PDFDocument is an open document handle. Pages are addressed by zero-based
// index. The handle must be closed by whoever opened it.
type PDFDocument interface {
	GetPageCount() int
	GetPage(index int) (PDFPage, error)
	Close() error
}

// PDFPage is a read-only view of one page
type PDFPage interface {
	GetIndex() int
	GetSize() PageSize
	GetText() ([]TextElement, error)

	// ExtractRegions returns the trimmed text inside every region, keyed by
	// region name. Regions without text map to "".
	ExtractRegions(regions []layout.Region) (map[string]string, error)
}

// LibraryType represents the underlying PDF library being used
type LibraryType string

const (
	LibraryLedongthuc LibraryType = "ledongthuc"
	LibraryMemory     LibraryType = "memory"
)

// PageSize is the page MediaBox in PDF user space
type PageSize struct {
	LowerLeft  Point   `json:"lower_left"`
	UpperRight Point   `json:"upper_right"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// LetterSize is used when a page carries no usable MediaBox
var LetterSize = PageSize{
	UpperRight: Point{X: 612, Y: 792},
	Width:      612,
	Height:     792,
}

// NewPageSize builds a PageSize from MediaBox corners
func NewPageSize(llx, lly, urx, ury float64) PageSize {
	return PageSize{
		LowerLeft:  Point{X: llx, Y: lly},
		UpperRight: Point{X: urx, Y: ury},
		Width:      urx - llx,
		Height:     ury - lly,
	}
}

// Point represents a coordinate point
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextElement is a run of glyphs at a position in PDF user space (origin at
// the bottom-left corner, Y is the baseline)
type TextElement struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	FontSize float64 `json:"font_size"`
}

// Error types for wrapper operations
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrDocumentClosed = &WrapperError{Op: "document", Err: fmt.Errorf("document is closed")}
	ErrInvalidPage    = &WrapperError{Op: "page", Err: fmt.Errorf("invalid page number")}
)
