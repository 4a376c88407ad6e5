package textenc

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Registry is the charset capability consumed by the pipelines: name
// lookup plus encode/decode between bytes and UTF-8 text.
type Registry interface {
	// Exists reports whether the named charset can be resolved.
	Exists(name string) bool

	// NewDecoder returns an incremental transformer from the named
	// charset to UTF-8. Transformers carry partial multi-byte
	// sequences across chunk boundaries and flush a replacement for a
	// truncated tail at EOF.
	NewDecoder(name string) (transform.Transformer, error)

	// NewEncoder returns an incremental transformer from UTF-8 to the
	// named charset.
	NewEncoder(name string) (transform.Transformer, error)

	// Decode converts a whole byte buffer to UTF-8 text.
	Decode(b []byte, name string) (string, error)

	// Encode converts UTF-8 text to a complete byte sequence in the
	// named charset.
	Encode(s string, name string) ([]byte, error)
}

// DefaultRegistry resolves the canonical unicode encodings directly
// and every other label through the WHATWG index.
var DefaultRegistry Registry = NewRegistry()

var (
	utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

// registry implements Registry on top of golang.org/x/text.
type registry struct {
	// lookupCache avoids the repeated label parsing in htmlindex on
	// every stream. Using xsync.MapOf makes it concurrent-safe.
	lookupCache *xsync.Map[string, encoding.Encoding]
}

// NewRegistry creates a Registry backed by the x/text charset tables.
func NewRegistry() Registry {
	return &registry{lookupCache: xsync.NewMap[string, encoding.Encoding]()}
}

// lookup resolves a charset label to its x/text encoding. The UTF-16
// variants are constructed with IgnoreBOM: the pipelines strip and
// emit marks themselves, the transformer must never second-guess.
func (r *registry) lookup(name string) (encoding.Encoding, error) {
	canonical := NormalizeEncoding(name)
	switch canonical {
	case UTF8, UTF8WithBOM:
		return unicode.UTF8, nil
	case UTF16LE:
		return utf16le, nil
	case UTF16BE:
		return utf16be, nil
	}

	if enc, ok := r.lookupCache.Load(canonical); ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	r.lookupCache.Store(canonical, enc)
	return enc, nil
}

func (r *registry) Exists(name string) bool {
	_, err := r.lookup(name)
	return err == nil
}

func (r *registry) NewDecoder(name string) (transform.Transformer, error) {
	enc, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder(), nil
}

func (r *registry) NewEncoder(name string) (transform.Transformer, error) {
	enc, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder(), nil
}

func (r *registry) Decode(b []byte, name string) (string, error) {
	enc, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func (r *registry) Encode(s string, name string) ([]byte, error) {
	enc, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder().Bytes([]byte(s))
}
