// Package pdftest writes small, well-formed PDF files with text at known
// positions.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Page size of generated documents (A4 landscape)
const (
	PageWidth  = 842
	PageHeight = 595
)

// Text is a string drawn with its baseline origin at (X, Y) in top-left page
// space.
type Text struct {
	S    string
	X, Y float64
}

// Page is the text drawn on one page
type Page []Text

// Build renders the pages into a PDF. The MediaBox lives on the page tree
// root so pages inherit it.
func Build(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 %d %d] >>",
		strings.Join(kids, " "), len(pages), PageWidth, PageHeight))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, page := range pages {
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))

		var content strings.Builder
		for _, t := range page {
			fmt.Fprintf(&content, "BT /F1 6 Tf 1 0 0 1 %.2f %.2f Tm (%s) Tj ET\n", t.X, PageHeight-t.Y, escape(t.S))
		}
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// WriteFile builds a PDF into dir/name and returns its path
func WriteFile(tb testing.TB, dir, name string, pages ...Page) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(pages...), 0o644); err != nil {
		tb.Fatalf("failed to write PDF %s: %v", path, err)
	}
	return path
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
