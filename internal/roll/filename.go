package roll

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/roll-extractor/internal/layout"
)

// FallbackBaseName is used when nothing printable survives sanitizing.
const FallbackBaseName = "records"

// transliterations maps the accented letters of the roll alphabet to ASCII.
var transliterations = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ü", "u",
	"ñ", "ni",
	"'", "",
)

// DeriveBaseName returns the output file name, without extension, for a
// document. A complete header wins; otherwise the source file name is used.
func DeriveBaseName(h Header, sourcePath string) string {
	var candidate string
	if h.Complete() {
		candidate = fmt.Sprintf("%s-%s-%s",
			h[layout.HeaderRegion], h[layout.HeaderProvince], h[layout.HeaderArea])
	} else {
		candidate = BaseNameFromPath(sourcePath)
	}

	if name := SafeFilename(candidate); name != "" {
		return name
	}
	return FallbackBaseName
}

// BaseNameFromPath returns the last path element, lower-cased, without its
// final extension. Only one extension is removed.
func BaseNameFromPath(path string) string {
	if path == "" {
		return ""
	}

	name := strings.ToLower(filepath.Base(path))
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

// SafeFilename lower-cases name, transliterates the accented letters of the
// table and drops every character outside [a-z0-9-_.() %]. Other accented
// letters are dropped, not substituted.
func SafeFilename(name string) string {
	name = norm.NFC.String(strings.ToLower(name))
	name = transliterations.Replace(name)

	var b strings.Builder
	for _, r := range name {
		if allowedInFilename(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowedInFilename(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_.() %", r)
}
