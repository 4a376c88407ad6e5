package textenc

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/text/transform"
)

// DefaultMinBytesRequiredForDetection is the number of bytes buffered
// before classification runs, unless the source ends earlier. It also
// bounds the memory held by a pipeline before its decode decision.
const DefaultMinBytesRequiredForDetection = 4096

// OverrideEncodingFunc is the single authority for the encoding used
// to decode a stream. It receives the detection outcome and returns
// the final encoding name; it is invoked exactly once per stream and
// may block (for example to consult external policy).
type OverrideEncodingFunc func(ctx context.Context, detected DetectionResult) (string, error)

// DecodeOptions configures a decode pipeline. The zero value is
// usable: no binary rejection, no guessing, default detection bound,
// detected-or-UTF-8 as the final encoding.
type DecodeOptions struct {
	// AcceptTextOnly rejects streams the classifier flags as binary
	// with ErrStreamIsBinary before any text is produced.
	AcceptTextOnly bool

	// GuessEncoding consults the statistical guesser when the sample
	// carries no BOM, no UTF-16 pattern and no binary flag.
	GuessEncoding bool

	// MinBytesRequiredForDetection caps the buffered prefix; zero or
	// negative means DefaultMinBytesRequiredForDetection.
	MinBytesRequiredForDetection int

	// OverrideEncoding resolves the final decode encoding from the
	// detection result. Nil means: use the detected encoding, falling
	// back to UTF-8 when nothing was detected.
	OverrideEncoding OverrideEncodingFunc

	// Registry supplies charset lookups; nil means DefaultRegistry.
	Registry Registry

	// Guesser supplies statistical detection; nil means DefaultGuesser.
	Guesser Guesser
}

type decodeState int8

const (
	stateCollecting decodeState = iota
	stateDecoding
	stateErrored
	stateClosed
)

// Decoded is one decode pipeline invocation: a text stream over a byte
// source plus the detection outcome, available as soon as the decision
// phase completes and independently of decode progress. It owns its
// cursor state exclusively and must not be shared across goroutines.
type Decoded struct {
	ctx  context.Context
	src  io.Reader
	opts DecodeOptions

	state  decodeState
	prefix []byte
	srcEOF bool

	detection  DetectionResult
	decideDone bool
	decideErr  error

	text io.Reader // incremental decoder, set on entry to decoding
	err  error     // first stream-level error; later reads are no-ops
}

// DecodeStream creates a decode pipeline over a byte source. The
// heavy lifting is lazy: collection and the decode decision run on
// the first call to Detection or Read, whichever comes first.
func DecodeStream(ctx context.Context, src io.Reader, opts DecodeOptions) (*Decoded, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.MinBytesRequiredForDetection <= 0 {
		opts.MinBytesRequiredForDetection = DefaultMinBytesRequiredForDetection
	}
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry
	}
	if opts.Guesser == nil {
		opts.Guesser = DefaultGuesser
	}
	return &Decoded{ctx: ctx, src: src, opts: opts}, nil
}

// Detection returns the classification outcome, driving collection and
// the decision phase if they have not run yet. Source errors occurring
// before the decision completes surface here; a binary rejection does
// not — the result is still resolved, only reading fails.
func (d *Decoded) Detection() (DetectionResult, error) {
	if d.state == stateClosed {
		return DetectionResult{}, ErrClosed
	}
	if err := d.ensureDecided(); err != nil {
		return DetectionResult{}, err
	}
	return d.detection, nil
}

// Read implements io.Reader, producing decoded UTF-8 text. The first
// call drives collection and the decision phase if Detection has not
// already done so.
func (d *Decoded) Read(p []byte) (int, error) {
	if d.state == stateClosed {
		return 0, ErrClosed
	}
	if err := d.ensureDecided(); err != nil {
		return 0, err
	}
	if d.err != nil {
		return 0, d.err
	}
	if err := d.ctx.Err(); err != nil {
		d.err = err
		return 0, err
	}
	n, err := d.text.Read(p)
	if err != nil && err != io.EOF {
		d.err = err
	}
	return n, err
}

// Close releases the underlying source if it implements io.Closer.
func (d *Decoded) Close() error {
	if d.state == stateClosed {
		return nil
	}
	d.state = stateClosed
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ensureDecided runs the collect and decide phases exactly once. On
// return either decideErr is set (the detection itself failed) or the
// detection result is resolved — possibly alongside a latched stream
// error such as ErrStreamIsBinary.
func (d *Decoded) ensureDecided() error {
	if d.decideDone || d.decideErr != nil {
		return d.decideErr
	}
	if err := d.ctx.Err(); err != nil {
		d.decideErr = err
		d.state = stateErrored
		return err
	}
	if err := d.collect(); err != nil {
		d.decideErr = err
		d.state = stateErrored
		return err
	}
	return d.decide()
}

// collect buffers source bytes until the detection threshold is
// reached or the source ends, bounding memory to the threshold.
func (d *Decoded) collect() error {
	bufPtr := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(bufPtr)
	buf := *bufPtr

	for len(d.prefix) < d.opts.MinBytesRequiredForDetection && !d.srcEOF {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		limit := d.opts.MinBytesRequiredForDetection - len(d.prefix)
		if limit > len(buf) {
			limit = len(buf)
		}
		n, err := d.src.Read(buf[:limit])
		d.prefix = append(d.prefix, buf[:n]...)
		if err == io.EOF {
			d.srcEOF = true
			break
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// decide classifies the collected prefix, resolves the final encoding
// through the override strategy and arms the incremental decoder. A
// detected BOM is authoritative: it sets the encoding, its bytes are
// stripped from the payload, and binary-ness is not re-evaluated on
// the stripped content.
func (d *Decoded) decide() error {
	var detected DetectionResult
	payload := d.prefix
	if enc := DetectBOM(d.prefix); enc != "" {
		detected.Encoding = enc
		payload = d.prefix[len(boms[enc]):]
	} else {
		detected = classify(d.prefix, d.opts.GuessEncoding, d.opts.Guesser)
	}

	final := detected.Encoding
	if d.opts.OverrideEncoding != nil {
		resolved, err := d.opts.OverrideEncoding(d.ctx, detected)
		if err != nil {
			d.decideErr = fmt.Errorf("%w: %v", ErrOverrideFailed, err)
			d.state = stateErrored
			return d.decideErr
		}
		final = resolved
	}
	if final == "" {
		final = UTF8
	}

	// The detection future resolves here, decoupled from decoding.
	d.detection = detected
	d.decideDone = true

	if d.opts.AcceptTextOnly && detected.SeemsBinary {
		d.state = stateErrored
		d.err = ErrStreamIsBinary
		return nil
	}

	decoder, err := d.opts.Registry.NewDecoder(final)
	if err != nil {
		d.state = stateErrored
		d.err = err
		return nil
	}

	// The transform.Reader retains a trailing incomplete multi-byte
	// sequence at each chunk boundary and flushes the encoding's
	// replacement for a truncated tail at EOF, which is exactly the
	// chunk-boundary invariance the pipeline needs.
	d.text = transform.NewReader(io.MultiReader(bytes.NewReader(payload), d.src), decoder)
	d.state = stateDecoding
	d.prefix = nil
	return nil
}

// DecodeBytes decodes a whole in-memory buffer through the same
// pipeline, returning the text together with the detection result.
func DecodeBytes(ctx context.Context, b []byte, opts DecodeOptions) (string, DetectionResult, error) {
	d, err := DecodeStream(ctx, bytes.NewReader(b), opts)
	if err != nil {
		return "", DetectionResult{}, err
	}
	detected, err := d.Detection()
	if err != nil {
		return "", DetectionResult{}, err
	}
	text, err := io.ReadAll(d)
	if err != nil {
		return "", detected, err
	}
	return string(text), detected, nil
}
