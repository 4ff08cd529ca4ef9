// Package output writes normalized records to the console or to delimited
// files.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/a3tai/roll-extractor/internal/roll"
)

// Kind selects where records go
type Kind string

const (
	KindConsole   Kind = "console"
	KindDelimited Kind = "delimited"
)

// DefaultDelimiter separates fields in delimited output
const DefaultDelimiter = ','

// Sink receives the records of one page at a time
type Sink interface {
	WritePage(records []roll.Record) error
}

// Target describes an output destination
type Target struct {
	Kind Kind

	// Delimiter separates fields in delimited files; zero means DefaultDelimiter
	Delimiter rune

	// Dir is where delimited files are written; empty means the working directory
	Dir string

	// Writer receives console output; nil means os.Stdout
	Writer io.Writer
}

// ParseKind accepts the output names and their short aliases
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console", "cli":
		return KindConsole, nil
	case "delimited", "csv":
		return KindDelimited, nil
	default:
		return "", fmt.Errorf("unknown output %q (must be one of: console, delimited)", s)
	}
}

// ParseDelimiter checks that s is a single character usable as a field
// separator
func ParseDelimiter(s string) (rune, error) {
	if s == "" {
		return DefaultDelimiter, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}

	r, _ := utf8.DecodeRuneInString(s)
	if !validDelimiter(r) {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Open returns the sink for a target. baseName names the delimited file and
// is ignored for console output.
func Open(t Target, baseName string) (Sink, error) {
	switch t.Kind {
	case KindConsole, "":
		w := t.Writer
		if w == nil {
			w = os.Stdout
		}
		return NewConsole(w), nil
	case KindDelimited:
		delim := t.Delimiter
		if delim == 0 {
			delim = DefaultDelimiter
		}
		if !validDelimiter(delim) {
			return nil, fmt.Errorf("invalid delimiter %q", delim)
		}
		return NewDelimited(t.Dir, baseName, delim), nil
	default:
		return nil, fmt.Errorf("unknown output kind %q", t.Kind)
	}
}
