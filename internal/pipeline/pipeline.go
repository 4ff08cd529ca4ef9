// Package pipeline drives a document from open to close: header, output
// name, row extraction per page and the output sink.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/a3tai/roll-extractor/internal/output"
	"github.com/a3tai/roll-extractor/internal/pdf"
	"github.com/a3tai/roll-extractor/internal/pdf/wrapper"
	"github.com/a3tai/roll-extractor/internal/roll"
)

// PageRange selects pages with 1-based numbers, both inclusive. Zero means
// "not given" for both.
type PageRange struct {
	Start int `json:"start,omitempty"`
	End   int `json:"end,omitempty"`
}

// Bounds converts the range into zero-based [start, end) indexes for a
// document with pageCount pages. Missing or out-of-range values are clamped.
func (r PageRange) Bounds(pageCount int) (start, end int) {
	if r.Start >= 1 {
		start = r.Start - 1
	}

	end = pageCount
	if r.End > 0 && r.End < pageCount {
		end = r.End
	}

	if start > end {
		start = end
	}
	return start, end
}

// SinkFactory opens the sink for a document once its output name is known
type SinkFactory func(baseName string) (output.Sink, error)

// Result summarizes one processed document
type Result struct {
	Path     string      `json:"path"`
	BaseName string      `json:"base_name"`
	Header   roll.Header `json:"header"`
	Pages    int         `json:"pages"`
	Records  int         `json:"records"`
}

// Pipeline extracts records from documents of one layout template
type Pipeline struct {
	library   wrapper.PDFLibrary
	validator *pdf.Validator
	search    *pdf.Search
	engine    *roll.Engine
	logger    *slog.Logger
}

// Options configures a Pipeline
type Options struct {
	Library   wrapper.PDFLibrary
	Validator *pdf.Validator
	Template  *layout.Template
	Logger    *slog.Logger
}

// New creates a pipeline. A nil Validator skips pre-open checks, a nil
// Template selects the built-in layout and a nil Logger uses slog.Default.
func New(opts Options) (*Pipeline, error) {
	if opts.Library == nil {
		return nil, errors.New("library cannot be nil")
	}

	tmpl := opts.Template
	if tmpl == nil {
		tmpl = layout.Default()
	}
	engine, err := roll.NewEngine(tmpl)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		library:   opts.Library,
		validator: opts.Validator,
		search:    pdf.NewSearch(),
		engine:    engine,
		logger:    logger,
	}, nil
}

// Template returns the layout the pipeline reads
func (p *Pipeline) Template() *layout.Template {
	return p.engine.Template()
}

// Run processes one document into the given output target
func (p *Pipeline) Run(path string, pages PageRange, target output.Target) (*Result, error) {
	return p.Process(path, pages, func(baseName string) (output.Sink, error) {
		return output.Open(target, baseName)
	})
}

// Process opens the document at path, derives its output name, and feeds the
// normalized records of every selected page to the sink returned by newSink.
// The document is closed on every return path.
func (p *Pipeline) Process(path string, pages PageRange, newSink SinkFactory) (result *Result, err error) {
	if err := p.validate(path); err != nil {
		return nil, err
	}

	doc, err := p.library.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	header, baseName := p.describe(doc, path)
	result = &Result{
		Path:     path,
		BaseName: baseName,
		Header:   header,
	}

	sink, err := newSink(baseName)
	if err != nil {
		return result, err
	}

	start, end := pages.Bounds(doc.GetPageCount())
	for i := start; i < end; i++ {
		rows, err := p.engine.ExtractPage(doc, i)
		if err != nil {
			return result, fmt.Errorf("page %d of %s: %w", i+1, path, err)
		}

		records := roll.NormalizeAll(rows)
		if err := sink.WritePage(records); err != nil {
			return result, fmt.Errorf("page %d of %s: %w", i+1, path, err)
		}

		result.Pages++
		result.Records += len(records)
		p.logger.Debug("page extracted", "path", path, "page", i+1, "records", len(records))
	}

	p.logger.Info("document extracted",
		"path", path, "output", baseName, "pages", result.Pages, "records", result.Records)
	return result, nil
}

// Describe reads the header of the document at path and the output name it
// would be written under, without extracting rows.
func (p *Pipeline) Describe(path string) (result *Result, err error) {
	if err := p.validate(path); err != nil {
		return nil, err
	}

	doc, err := p.library.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	header, baseName := p.describe(doc, path)
	return &Result{
		Path:     path,
		BaseName: baseName,
		Header:   header,
	}, nil
}

// validate runs the pre-open checks when a validator is configured
func (p *Pipeline) validate(path string) error {
	if p.validator == nil {
		return nil
	}

	report, err := p.validator.ValidateFile(path)
	if err != nil {
		return err
	}
	if report.Warning != "" {
		p.logger.Warn("structural check failed, continuing", "path", path, "warning", report.Warning)
	}
	return nil
}

func (p *Pipeline) describe(doc wrapper.PDFDocument, path string) (roll.Header, string) {
	header, err := roll.ReadHeader(doc, p.engine.Template())
	if err != nil {
		p.logger.Warn("header unreadable, naming output after file", "path", path, "error", err)
		header = roll.Header{}
	} else if !header.Complete() {
		p.logger.Debug("header incomplete, naming output after file", "path", path, "header", header)
	}
	return header, roll.DeriveBaseName(header, path)
}
