package pipeline

import (
	"github.com/a3tai/roll-extractor/internal/output"
	"github.com/a3tai/roll-extractor/internal/pdf"
)

// FileError records a document that could not be processed
type FileError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// BatchResult summarizes a directory run
type BatchResult struct {
	Directory string      `json:"directory"`
	Processed []*Result   `json:"processed"`
	Failed    []FileError `json:"failed,omitempty"`
}

// Records returns the total number of records written
func (b *BatchResult) Records() int {
	total := 0
	for _, r := range b.Processed {
		total += r.Records
	}
	return total
}

// ListDirectory returns the documents RunDir would process
func (p *Pipeline) ListDirectory(dir string) ([]pdf.FileInfo, error) {
	return p.search.ListDirectory(dir)
}

// RunDir processes every PDF directly inside dir, one after another. A
// document that fails is logged and recorded; the remaining documents are
// still processed. Only a directory that cannot be listed is an error.
func (p *Pipeline) RunDir(dir string, pages PageRange, target output.Target) (*BatchResult, error) {
	files, err := p.search.ListDirectory(dir)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{Directory: dir}
	for _, f := range files {
		p.logger.Info("parsing file", "file", f.Name)

		result, err := p.Run(f.Path, pages, target)
		if err != nil {
			p.logger.Error("failed to process file", "path", f.Path, "error", err)
			batch.Failed = append(batch.Failed, FileError{Path: f.Path, Err: err})
			continue
		}
		batch.Processed = append(batch.Processed, result)
	}

	return batch, nil
}
