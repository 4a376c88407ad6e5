package textenc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBinary(t *testing.T) {
	t.Run("NULByteFlagsBinary", func(t *testing.T) {
		sample := append([]byte("some text"), 0x00)
		sample = append(sample, "more text"...)
		result := Classify(sample, false)
		assert.True(t, result.SeemsBinary)
		assert.Empty(t, result.Encoding)
	})

	t.Run("AllZeros", func(t *testing.T) {
		// Every parity is saturated with zeros, so neither UTF-16
		// pattern qualifies.
		result := Classify(make([]byte, 64), false)
		assert.True(t, result.SeemsBinary)
	})

	t.Run("PlainASCIIIsNotBinary", func(t *testing.T) {
		result := Classify([]byte("just some plain text"), false)
		assert.False(t, result.SeemsBinary)
		assert.Empty(t, result.Encoding)
	})

	t.Run("EmptySample", func(t *testing.T) {
		assert.Equal(t, DetectionResult{}, Classify(nil, false))
	})
}

func TestClassifyUTF16WithoutBOM(t *testing.T) {
	ascii := "The quick brown fox jumps over the lazy dog"

	t.Run("LittleEndian", func(t *testing.T) {
		var sample []byte
		for _, c := range []byte(ascii) {
			sample = append(sample, c, 0x00)
		}
		result := Classify(sample, false)
		assert.Equal(t, UTF16LE, result.Encoding)
		assert.False(t, result.SeemsBinary, "UTF-16 text is full of NULs but is not binary")
	})

	t.Run("BigEndian", func(t *testing.T) {
		var sample []byte
		for _, c := range []byte(ascii) {
			sample = append(sample, 0x00, c)
		}
		result := Classify(sample, false)
		assert.Equal(t, UTF16BE, result.Encoding)
		assert.False(t, result.SeemsBinary)
	})

	t.Run("BOMMarkedSampleIsNeverBinary", func(t *testing.T) {
		sample := []byte{0xFF, 0xFE, 'A', 0x00}
		result := Classify(sample, false)
		assert.Equal(t, UTF16LE, result.Encoding)
		assert.False(t, result.SeemsBinary)
	})
}

func TestClassifyScanIsBounded(t *testing.T) {
	// A NUL beyond the scan bound must not affect classification.
	sample := append(bytes.Repeat([]byte{'a'}, binarySampleBytes), 0x00)
	result := Classify(sample, false)
	assert.False(t, result.SeemsBinary)
}

func TestClassifyGuesserDelegation(t *testing.T) {
	t.Run("BinarySampleSkipsGuesser", func(t *testing.T) {
		g := &fixedGuesser{answer: "windows-1252"}
		result := classify([]byte{'a', 0x00, 'b', 'c'}, true, g)
		assert.True(t, result.SeemsBinary)
		assert.Zero(t, g.calls)
	})

	t.Run("AnswerAcceptedVerbatim", func(t *testing.T) {
		g := &fixedGuesser{answer: "shift_jis"}
		result := classify([]byte("plain"), true, g)
		assert.Equal(t, "shift_jis", result.Encoding)
	})
}

func TestChardetGuesser(t *testing.T) {
	g := NewChardetGuesser()

	t.Run("EmptySample", func(t *testing.T) {
		assert.Empty(t, g.Guess(nil))
	})

	t.Run("UTF8MultiByteText", func(t *testing.T) {
		sample := []byte("日本語のテキストです。エンコーディングの推測に使います。")
		assert.Equal(t, UTF8, g.Guess(sample))
	})
}
