package textenc

import (
	"github.com/saintfish/chardet"
)

// DetectionResult is the outcome of classifying a byte sample. An
// empty Encoding means "no BOM and no confident guess": the content is
// treated as default ASCII-compatible text. Immutable once produced.
type DetectionResult struct {
	Encoding    string
	SeemsBinary bool
}

// Guesser proposes a likely encoding from a byte sample without a BOM.
// An empty return means no confident answer. The classifier accepts
// the answer verbatim and never second-guesses the guesser's
// confidence policy.
type Guesser interface {
	Guess(sample []byte) string
}

// DefaultGuesser is the statistical detector used when DecodeOptions
// does not supply one.
var DefaultGuesser Guesser = NewChardetGuesser()

// ChardetGuesser adapts the chardet text detector to the Guesser
// contract.
type ChardetGuesser struct {
	detector *chardet.Detector
}

func NewChardetGuesser() *ChardetGuesser {
	return &ChardetGuesser{detector: chardet.NewTextDetector()}
}

// Guess runs chardet over the sample and maps its IANA-style charset
// name onto this package's canonical spelling.
func (g *ChardetGuesser) Guess(sample []byte) string {
	if len(sample) == 0 {
		return ""
	}
	result, err := g.detector.DetectBest(sample)
	if err != nil || result == nil {
		return ""
	}
	return NormalizeEncoding(result.Charset)
}

const (
	// binarySampleBytes bounds the zero-byte scan. Classification cost
	// must stay constant no matter how large the collected prefix is.
	binarySampleBytes = 512

	// One offset parity must carry more than half zero bytes while the
	// other carries at most a tenth for the sample to pass as UTF-16
	// text without a mark.
	utf16ZeroFractionHigh = 0.5
	utf16ZeroFractionLow  = 0.1
)

// Classify judges whether a bounded byte sample is binary and, when
// guessEncoding is set, proposes an encoding via the default guesser.
// It never fails for a well-formed sample.
func Classify(sample []byte, guessEncoding bool) DetectionResult {
	return classify(sample, guessEncoding, DefaultGuesser)
}

func classify(sample []byte, guessEncoding bool, guesser Guesser) DetectionResult {
	// A mark is authoritative over every heuristic below.
	if enc := DetectBOM(sample); enc != "" {
		return DetectionResult{Encoding: enc}
	}

	scan := sample
	if len(scan) > binarySampleBytes {
		scan = scan[:binarySampleBytes]
	}

	var zeroEven, zeroOdd int
	for i, b := range scan {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			zeroEven++
		} else {
			zeroOdd++
		}
	}

	// UTF-16 text of mostly single-byte code points puts a zero in
	// every other byte: the high byte sits at odd offsets for little
	// endian and at even offsets for big endian. A strong skew toward
	// one parity means UTF-16 without a mark, not binary.
	evenSlots := ceilDiv(len(scan), 2)
	oddSlots := len(scan) / 2
	if oddSlots > 0 {
		evenFraction := float64(zeroEven) / float64(evenSlots)
		oddFraction := float64(zeroOdd) / float64(oddSlots)
		switch {
		case oddFraction > utf16ZeroFractionHigh && evenFraction <= utf16ZeroFractionLow:
			return DetectionResult{Encoding: UTF16LE}
		case evenFraction > utf16ZeroFractionHigh && oddFraction <= utf16ZeroFractionLow:
			return DetectionResult{Encoding: UTF16BE}
		}
	}

	if zeroEven+zeroOdd > 0 {
		return DetectionResult{SeemsBinary: true}
	}

	if guessEncoding && guesser != nil {
		return DetectionResult{Encoding: guesser.Guess(scan)}
	}
	return DetectionResult{}
}
