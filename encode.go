package textenc

import (
	"io"
	"unicode/utf8"
)

// TextSource is a pull source of whole text units. Each unit is
// complete decoded text: the encoder may process units independently
// without carrying state between them. ReadText returns io.EOF when
// the source is exhausted; a unit may accompany the final error.
type TextSource interface {
	ReadText() (string, error)
}

// StringSource returns a TextSource delivering the given units in
// order.
func StringSource(units ...string) TextSource {
	return &stringSource{units: units}
}

type stringSource struct {
	units []string
}

func (s *stringSource) ReadText() (string, error) {
	if len(s.units) == 0 {
		return "", io.EOF
	}
	unit := s.units[0]
	s.units = s.units[1:]
	return unit, nil
}

// TextReader adapts a UTF-8 byte stream into a TextSource. Read
// boundaries are arbitrary, so a trailing incomplete rune is held back
// and prepended to the next unit; units therefore always contain whole
// runes. At EOF any held-back invalid tail is emitted as-is and left
// to the encoder's replacement policy.
func TextReader(r io.Reader) TextSource {
	return &textReader{r: r}
}

type textReader struct {
	r     io.Reader
	carry []byte
	eof   bool
}

func (t *textReader) ReadText() (string, error) {
	bufPtr := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(bufPtr)
	buf := *bufPtr

	for {
		if t.eof {
			if len(t.carry) == 0 {
				return "", io.EOF
			}
			unit := string(t.carry)
			t.carry = nil
			return unit, nil
		}

		n, err := t.r.Read(buf)
		chunk := append(t.carry, buf[:n]...)
		t.carry = nil
		if err == io.EOF {
			t.eof = true
			if len(chunk) > 0 {
				return string(chunk), nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}

		cut := splitCompleteRunes(chunk)
		if cut < len(chunk) {
			t.carry = append(t.carry, chunk[cut:]...)
		}
		if cut > 0 {
			return string(chunk[:cut]), nil
		}
		// Nothing but a partial rune so far; keep reading.
	}
}

// splitCompleteRunes returns the largest prefix length of b that does
// not end in an incomplete UTF-8 sequence.
func splitCompleteRunes(b []byte) int {
	for i := len(b) - 1; i >= 0 && len(b)-i <= utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return i
			}
			break
		}
	}
	return len(b)
}

// EncodeOptions configures an encode pipeline.
type EncodeOptions struct {
	// AddBOM emits the encoding's byte order mark before any text is
	// pulled from the source. Requesting it for an encoding with no
	// registered mark fails with ErrBOMNotSupported.
	AddBOM bool

	// Registry supplies charset lookups; nil means DefaultRegistry.
	Registry Registry
}

// Encoded is one encode pipeline invocation: a byte stream produced by
// encoding text units in the chosen encoding. Not safe for concurrent
// use.
type Encoded struct {
	source   TextSource
	encoding string
	registry Registry

	pending []byte // bytes produced but not yet consumed
	done    bool
	closed  bool
	err     error // first error; later reads are no-ops
}

// EncodeStream creates an encode pipeline over a text source. The
// encoding name and the AddBOM request are validated up front so a
// caller error fails before any unit is pulled.
func EncodeStream(src TextSource, encoding string, opts EncodeOptions) (*Encoded, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry
	}
	canonical := NormalizeEncoding(encoding)
	if !opts.Registry.Exists(canonical) {
		return nil, ErrUnknownEncoding
	}

	e := &Encoded{source: src, encoding: canonical, registry: opts.Registry}
	if opts.AddBOM {
		mark := BOM(canonical)
		if mark == nil {
			return nil, ErrBOMNotSupported
		}
		e.pending = mark
	}
	return e, nil
}

// Read implements io.Reader. The byte order mark, if requested, is the
// very first output; afterwards each pulled unit is encoded through
// the registry into a complete, independently valid byte sequence.
func (e *Encoded) Read(p []byte) (int, error) {
	if e.closed {
		return 0, ErrClosed
	}
	if e.err != nil {
		return 0, e.err
	}

	for len(e.pending) == 0 && !e.done {
		unit, err := e.source.ReadText()
		if err != nil && err != io.EOF {
			e.err = err
			return 0, err
		}
		if err == io.EOF {
			e.done = true
		}
		if unit != "" {
			encoded, encErr := e.registry.Encode(unit, e.encoding)
			if encErr != nil {
				e.err = encErr
				return 0, encErr
			}
			e.pending = encoded
		}
	}
	if len(e.pending) == 0 {
		return 0, io.EOF
	}

	n := copy(p, e.pending)
	e.pending = e.pending[n:]
	return n, nil
}

// Close releases the underlying text source if it implements
// io.Closer.
func (e *Encoded) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if c, ok := e.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// EncodeString encodes a whole string through the same pipeline.
func EncodeString(s string, encoding string, opts EncodeOptions) ([]byte, error) {
	e, err := EncodeStream(StringSource(s), encoding, opts)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(e)
}
