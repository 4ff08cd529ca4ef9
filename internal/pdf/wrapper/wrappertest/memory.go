// Package wrappertest provides in-memory documents for tests of code that
// consumes the wrapper interfaces.
package wrappertest

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/a3tai/roll-extractor/internal/pdf/wrapper"
)

// A4Landscape is the page size of the electoral roll template
var A4Landscape = wrapper.NewPageSize(0, 0, 842, 595)

// Page is an in-memory page. Text is placed in top-left page space and
// converted to PDF user space, so region extraction runs the real code path.
type Page struct {
	Size     wrapper.PageSize
	Elements []wrapper.TextElement

	// Err, when set, is returned by GetText and ExtractRegions
	Err error

	// Panic, when set, makes ExtractRegions panic with this value
	Panic any
}

// NewPage returns an empty A4 landscape page
func NewPage() *Page {
	return &Page{Size: A4Landscape}
}

// Place puts text whose origin is at (x, y) in top-left page space.
func (p *Page) Place(text string, x, y float64) *Page {
	p.Elements = append(p.Elements, wrapper.TextElement{
		Text:     text,
		X:        x + p.Size.LowerLeft.X,
		Y:        p.Size.UpperRight.Y - y,
		Width:    float64(len([]rune(text))) * 4,
		FontSize: 6,
	})
	return p
}

// PlaceIn puts text near the left edge of a region, vertically centred
func (p *Page) PlaceIn(text string, r layout.Region) *Page {
	return p.Place(text, r.X+1, r.Y+r.Height/2)
}

// Document is an in-memory document
type Document struct {
	Pages []*Page

	mu     sync.Mutex
	open   bool
	closed int
	opened []int
}

// NewDocument returns a document over the given pages
func NewDocument(pages ...*Page) *Document {
	return &Document{Pages: pages, open: true}
}

// GetPageCount returns the number of pages
func (d *Document) GetPageCount() int {
	return len(d.Pages)
}

// GetPage returns the page at a zero-based index
func (d *Document) GetPage(index int) (wrapper.PDFPage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return nil, &wrapper.WrapperError{Library: wrapper.LibraryMemory, Op: "get_page", Err: wrapper.ErrDocumentClosed.Err}
	}
	if index < 0 || index >= len(d.Pages) {
		return nil, &wrapper.WrapperError{
			Library: wrapper.LibraryMemory,
			Op:      "get_page",
			Err:     fmt.Errorf("%w %d", wrapper.ErrInvalidPage.Err, index+1),
		}
	}

	d.opened = append(d.opened, index)
	return &memoryPage{Page: d.Pages[index], index: index}, nil
}

// Close records that the document was released
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.closed++
	return nil
}

func (d *Document) reopen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
}

// CloseCount reports how many times Close was called
func (d *Document) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// OpenedPages lists the page indexes requested, in order
func (d *Document) OpenedPages() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.opened...)
}

type memoryPage struct {
	*Page
	index int
}

func (p *memoryPage) GetIndex() int {
	return p.index
}

func (p *memoryPage) GetSize() wrapper.PageSize {
	return p.Size
}

func (p *memoryPage) GetText() ([]wrapper.TextElement, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Elements, nil
}

func (p *memoryPage) ExtractRegions(regions []layout.Region) (map[string]string, error) {
	if p.Panic != nil {
		panic(p.Panic)
	}
	elements, err := p.GetText()
	if err != nil {
		return nil, err
	}
	return wrapper.ExtractRegions(elements, p.Size, regions), nil
}

// Library serves in-memory documents by path
type Library struct {
	Documents map[string]*Document
}

// NewLibrary returns an empty library
func NewLibrary() *Library {
	return &Library{Documents: make(map[string]*Document)}
}

// Add registers a document under a path
func (l *Library) Add(path string, doc *Document) *Library {
	l.Documents[path] = doc
	return l
}

// OpenFile returns the document registered under path
func (l *Library) OpenFile(path string) (wrapper.PDFDocument, error) {
	doc, ok := l.Documents[path]
	if !ok {
		return nil, &wrapper.WrapperError{
			Library: wrapper.LibraryMemory,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open PDF: %w", &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}),
		}
	}
	doc.reopen()
	return doc, nil
}

// GetLibraryType returns the library type
func (l *Library) GetLibraryType() wrapper.LibraryType {
	return wrapper.LibraryMemory
}

// ErrBroken is a convenience error for pages that fail to decode
var ErrBroken = errors.New("broken content stream")
