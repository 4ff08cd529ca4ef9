package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/roll-extractor/internal/roll"
)

// FileExtension is appended to the base name of delimited files
const FileExtension = ".csv"

// Delimited appends records to a delimited text file. The file is opened in
// append mode for each page and closed again; existing content is never
// truncated and no header row is written.
type Delimited struct {
	path      string
	delimiter rune
}

// NewDelimited returns a sink for dir/baseName.csv
func NewDelimited(dir, baseName string, delimiter rune) *Delimited {
	return &Delimited{
		path:      filepath.Join(dir, baseName+FileExtension),
		delimiter: delimiter,
	}
}

// Path returns the file the sink appends to
func (d *Delimited) Path() string {
	return d.path
}

// WritePage appends one row per record
func (d *Delimited) WritePage(records []roll.Record) (err error) {
	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", d.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", d.path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = d.delimiter
	for _, r := range records {
		if err := w.Write(encodeRow(r)); err != nil {
			return fmt.Errorf("failed to write %s: %w", d.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	return nil
}

// encodeRow returns the record fields as valid UTF-8 in canonical order
func encodeRow(r roll.Record) []string {
	values := r.Values()
	for i, v := range values {
		values[i] = strings.ToValidUTF8(v, "\uFFFD")
	}
	return values
}
