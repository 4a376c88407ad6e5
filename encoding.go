package textenc

import "strings"

// Canonical identifiers for the encodings this package treats
// specially. Any other name is passed through to the Registry as-is.
const (
	UTF8        = "utf8"
	UTF8WithBOM = "utf8-with-bom"
	UTF16LE     = "utf16le"
	UTF16BE     = "utf16be"
)

// byte order marks, keyed by canonical name. Only 2- and 3-byte marks
// are supported.
var boms = map[string][]byte{
	UTF8WithBOM: {0xEF, 0xBB, 0xBF},
	UTF16LE:     {0xFF, 0xFE},
	UTF16BE:     {0xFE, 0xFF},
}

// BOM returns the byte order mark for a BOM-bearing encoding, or nil
// if the encoding does not define one. The returned slice is a copy.
func BOM(name string) []byte {
	mark, ok := boms[NormalizeEncoding(name)]
	if !ok {
		return nil
	}
	out := make([]byte, len(mark))
	copy(out, mark)
	return out
}

// HasBOM reports whether the named encoding defines a byte order mark.
func HasBOM(name string) bool {
	_, ok := boms[NormalizeEncoding(name)]
	return ok
}

// aliases maps the spellings accepted at public entry points onto the
// canonical identifiers. Lookup keys are lower-cased with separators
// removed, so "UTF-8", "utf_8" and "utf8" all normalize the same way.
var aliases = map[string]string{
	"utf8":        UTF8,
	"utf8sig":     UTF8WithBOM,
	"utf8bom":     UTF8WithBOM,
	"utf8withbom": UTF8WithBOM,
	"utf16le":     UTF16LE,
	"utf16be":     UTF16BE,
	"ucs2le":      UTF16LE,
	"ucs2be":      UTF16BE,
}

// NormalizeEncoding maps a charset label onto its canonical identifier.
// Labels that do not alias one of the canonical encodings are returned
// trimmed and lower-cased, ready for a registry lookup.
func NormalizeEncoding(name string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	key := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, trimmed)
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return trimmed
}
