package pdf

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// ValidationReport is the outcome of validating a file before it is opened
type ValidationReport struct {
	Path string `json:"path"`
	Size int64  `json:"size"`

	// Pages is the page count seen by the structural check, 0 when the check
	// did not complete
	Pages int `json:"pages"`

	// Warning holds a structural problem that was tolerated
	Warning string `json:"warning,omitempty"`
}
