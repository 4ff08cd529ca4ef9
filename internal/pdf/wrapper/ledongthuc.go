package wrapper

import (
	"fmt"
	"os"

	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/ledongthuc/pdf"
)

// LedongthucLibrary implements PDFLibrary interface using ledongthuc/pdf
type LedongthucLibrary struct{}

// NewLedongthucLibrary creates a new ledongthuc library wrapper
func NewLedongthucLibrary() *LedongthucLibrary {
	return &LedongthucLibrary{}
}

// OpenFile opens a PDF from a file path
func (l *LedongthucLibrary) OpenFile(path string) (PDFDocument, error) {
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		// pdf.Open hands back the file even when parsing fails
		if f != nil {
			_ = f.Close()
		}
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open PDF: %w", err),
		}
	}

	return &LedongthucDocument{
		reader:   pdfReader,
		filePath: path,
		file:     f,
	}, nil
}

// GetLibraryType returns the library type
func (l *LedongthucLibrary) GetLibraryType() LibraryType {
	return LibraryLedongthuc
}

// LedongthucDocument implements PDFDocument interface using ledongthuc/pdf
type LedongthucDocument struct {
	reader   *pdf.Reader
	closed   bool
	filePath string
	file     *os.File
}

// GetPageCount returns the number of pages in the document
func (d *LedongthucDocument) GetPageCount() int {
	if d.closed {
		return 0
	}
	return d.reader.NumPage()
}

// GetPage returns the page at a zero-based index
func (d *LedongthucDocument) GetPage(index int) (PDFPage, error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "get_page", Err: ErrDocumentClosed.Err}
	}

	if index < 0 || index >= d.reader.NumPage() {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "get_page",
			Err:     fmt.Errorf("%w %d (document has %d pages)", ErrInvalidPage.Err, index+1, d.reader.NumPage()),
		}
	}

	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "get_page",
			Err:     fmt.Errorf("%w %d: page object not found", ErrInvalidPage.Err, index+1),
		}
	}

	return &LedongthucPage{
		page:  page,
		index: index,
		size:  mediaBox(page),
	}, nil
}

// Close closes the document
func (d *LedongthucDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// LedongthucPage implements PDFPage interface using ledongthuc/pdf
type LedongthucPage struct {
	page  pdf.Page
	index int
	size  PageSize

	// text is decoded once; every row of the page reads from it
	text    []TextElement
	decoded bool
}

// GetIndex returns the zero-based page index
func (p *LedongthucPage) GetIndex() int {
	return p.index
}

// GetSize returns the page MediaBox
func (p *LedongthucPage) GetSize() PageSize {
	return p.size
}

// GetText returns every glyph on the page with its position
func (p *LedongthucPage) GetText() (elements []TextElement, err error) {
	if p.decoded {
		return p.text, nil
	}

	// Malformed content streams make the parser panic
	defer func() {
		if r := recover(); r != nil {
			elements = nil
			err = &WrapperError{
				Library: LibraryLedongthuc,
				Op:      "get_text",
				Err:     fmt.Errorf("failed to decode page %d content: %v", p.index+1, r),
			}
		}
	}()

	content := p.page.Content()
	elements = make([]TextElement, 0, len(content.Text))
	for _, text := range content.Text {
		elements = append(elements, TextElement{
			Text:     text.S,
			X:        text.X,
			Y:        text.Y,
			Width:    text.W,
			FontSize: text.FontSize,
		})
	}

	p.text = elements
	p.decoded = true
	return elements, nil
}

// ExtractRegions returns the trimmed text inside each region
func (p *LedongthucPage) ExtractRegions(regions []layout.Region) (map[string]string, error) {
	elements, err := p.GetText()
	if err != nil {
		return nil, err
	}
	return ExtractRegions(elements, p.size, regions), nil
}

// mediaBox reads the page MediaBox, following the page tree upwards when the
// page inherits it. Pages without a usable box are treated as US Letter.
func mediaBox(page pdf.Page) (size PageSize) {
	defer func() {
		if r := recover(); r != nil {
			size = LetterSize
		}
	}()

	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() != pdf.Array || box.Len() != 4 {
			continue
		}

		var coords [4]float64
		valid := true
		for i := 0; i < 4; i++ {
			c := box.Index(i)
			switch c.Kind() {
			case pdf.Integer:
				coords[i] = float64(c.Int64())
			case pdf.Real:
				coords[i] = c.Float64()
			default:
				valid = false
			}
		}
		if valid && coords[2] > coords[0] && coords[3] > coords[1] {
			return NewPageSize(coords[0], coords[1], coords[2], coords[3])
		}
	}

	return LetterSize
}
