package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search handles PDF discovery for batch runs
type Search struct{}

// NewSearch creates a new PDF search handler
func NewSearch() *Search {
	return &Search{}
}

// ListDirectory returns the PDF files directly inside directory, sorted by
// name. Subdirectories are not descended into.
func (s *Search) ListDirectory(directory string) ([]FileInfo, error) {
	if directory == "" {
		return nil, errors.New("directory cannot be empty")
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", directory, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !s.isPDFFile(entry.Name()) {
			continue
		}

		path := filepath.Join(directory, entry.Name())

		// Stat follows symlinks; entries that vanished since listing are skipped
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// isPDFFile checks if a filename has a PDF extension
func (s *Search) isPDFFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
