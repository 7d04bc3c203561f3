package biz

import "strings"

// Segmenter splits text into overlapping word windows.
type Segmenter struct {
	windowSize int
	overlap    int
}

// NewSegmenter creates a segmenter. windowSize must be positive and
// overlap must be smaller than windowSize; the options layer validates
// both.
func NewSegmenter(windowSize, overlap int) *Segmenter {
	return &Segmenter{
		windowSize: windowSize,
		overlap:    overlap,
	}
}

// Segment tokenizes text on whitespace and emits windows of windowSize
// words joined by single spaces, advancing by windowSize-overlap words
// per step. The final window is emitted once when it reaches or exceeds
// the end of the text. Empty or whitespace-only input yields no chunks;
// input shorter than one window yields a single chunk.
func (s *Segmenter) Segment(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if len(words) <= s.windowSize {
		return []string{strings.Join(words, " ")}
	}

	stride := s.windowSize - s.overlap

	var chunks []string
	for i := 0; ; i += stride {
		end := i + s.windowSize
		if end >= len(words) {
			chunks = append(chunks, strings.Join(words[i:], " "))
			break
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	return chunks
}
