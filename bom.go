package textenc

import (
	"io"
	"os"
)

// bomProbeBytes is the longest supported byte order mark.
const bomProbeBytes = 3

// DetectBOM classifies a short byte prefix into a BOM-marked encoding.
// The caller supplies up to 3 bytes; fewer than 2 can never match.
// The 2-byte UTF-16 patterns are checked before the 3-byte UTF-8 one
// so a UTF-16 mark is recognized without a third byte being available.
func DetectBOM(prefix []byte) string {
	if len(prefix) < 2 {
		return ""
	}
	switch {
	case prefix[0] == 0xFF && prefix[1] == 0xFE:
		return UTF16LE
	case prefix[0] == 0xFE && prefix[1] == 0xFF:
		return UTF16BE
	case len(prefix) >= 3 && prefix[0] == 0xEF && prefix[1] == 0xBB && prefix[2] == 0xBF:
		return UTF8WithBOM
	}
	return ""
}

// DetectBOMFile probes a file for a byte order mark, reading at most 3
// bytes. Detection is best-effort: a missing or unreadable file means
// "no BOM", not an error. The one exception is a directory, which is
// surfaced as ErrIsDirectory so callers can tell "empty or missing"
// apart from "not a file at all".
func DetectBOMFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return "", ErrIsDirectory
	}

	var prefix [bomProbeBytes]byte
	n, err := io.ReadFull(f, prefix[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil
	}
	return DetectBOM(prefix[:n]), nil
}
