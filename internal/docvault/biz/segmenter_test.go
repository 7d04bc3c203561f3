package biz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentEmpty(t *testing.T) {
	s := NewSegmenter(500, 50)

	assert.Nil(t, s.Segment(""))
	assert.Nil(t, s.Segment("   \n\t  "))
}

func TestSegmentShortInput(t *testing.T) {
	s := NewSegmenter(500, 50)

	chunks := s.Segment("a b c")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a b c", chunks[0])
}

func TestSegmentNormalizesWhitespace(t *testing.T) {
	s := NewSegmenter(500, 50)

	chunks := s.Segment("  a \t b\n\nc  ")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a b c", chunks[0])
}

func TestSegmentExactWindow(t *testing.T) {
	s := NewSegmenter(5, 2)

	chunks := s.Segment("w1 w2 w3 w4 w5")
	require.Len(t, chunks, 1)
	assert.Equal(t, "w1 w2 w3 w4 w5", chunks[0])
}

func TestSegmentOverlappingWindows(t *testing.T) {
	// 100 words, window 10, overlap 2: stride 8, windows start at
	// 0, 8, ..., 96; the last window covers words 96-99.
	words := make([]string, 100)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	s := NewSegmenter(10, 2)

	chunks := s.Segment(strings.Join(words, " "))
	require.Len(t, chunks, 13)

	assert.Equal(t, strings.Join(words[0:10], " "), chunks[0])
	assert.Equal(t, strings.Join(words[8:18], " "), chunks[1])
	assert.Equal(t, strings.Join(words[96:100], " "), chunks[12])

	// Consecutive windows share the overlap words.
	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	assert.Equal(t, first[8:10], second[0:2])
}

func TestSegmentNoTrailingEmptyWindow(t *testing.T) {
	// 16 words, window 8, overlap 0: exactly two full windows, the
	// stride landing on the end must not emit a third empty chunk.
	words := make([]string, 16)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	s := NewSegmenter(8, 0)

	chunks := s.Segment(strings.Join(words, " "))
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Join(words[0:8], " "), chunks[0])
	assert.Equal(t, strings.Join(words[8:16], " "), chunks[1])
}

func TestSegmentEveryWordCovered(t *testing.T) {
	words := make([]string, 57)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	s := NewSegmenter(10, 3)

	chunks := s.Segment(strings.Join(words, " "))
	require.NotEmpty(t, chunks)

	seen := make(map[string]bool)
	for _, chunk := range chunks {
		for _, w := range strings.Fields(chunk) {
			seen[w] = true
		}
	}
	for _, w := range words {
		assert.True(t, seen[w], "word %s missing from all chunks", w)
	}

	// Last chunk ends with the final word.
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "w56"))
}
