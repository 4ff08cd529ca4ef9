package pdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
	strict      bool
}

// NewValidator creates a new PDF validator. In strict mode a file that fails
// the structural check is rejected; otherwise the failure is reported as a
// warning and left to the text extractor.
func NewValidator(maxFileSize int64, strict bool) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		strict:      strict,
	}
}

// ValidateFile checks that path is a readable, reasonably sized file and runs
// a relaxed structural check over it.
func (v *Validator) ValidateFile(filePath string) (*ValidationReport, error) {
	if filePath == "" {
		return nil, errors.New("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return nil, err
	}

	report := &ValidationReport{
		Path: filePath,
		Size: fileInfo.Size(),
	}

	pages, err := v.checkStructure(filePath)
	if err != nil {
		if v.strict {
			return nil, fmt.Errorf("invalid PDF file: %w", err)
		}
		report.Warning = err.Error()
		return report, nil
	}

	report.Pages = pages
	return report, nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if v.maxFileSize > 0 && fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// checkStructure reads the cross-reference data and page tree with pdfcpu
func (v *Validator) checkStructure(filePath string) (pages int, err error) {
	// pdfcpu panics on some damaged inputs
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("structural check failed: %v", r)
		}
	}()

	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx.PageCount, nil
}
