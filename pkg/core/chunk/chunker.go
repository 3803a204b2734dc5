// Package chunk splits extracted filing text into fixed-size windows
// for embedding.
package chunk

import "fmt"

const (
	// DefaultSize and DefaultOverlap are tuned for embedding models
	// with a few-thousand-token context.
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Chunker produces overlapping fixed-size text windows. Sizes are in
// runes so multi-byte text splits cleanly.
type Chunker struct {
	Size    int
	Overlap int
}

// New builds a chunker, validating that the overlap leaves forward
// progress on every step.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	return &Chunker{Size: size, Overlap: overlap}, nil
}

// NewDefault builds a chunker with the standard size and overlap.
func NewDefault() *Chunker {
	return &Chunker{Size: DefaultSize, Overlap: DefaultOverlap}
}

// Split windows the text. Consecutive chunks share Overlap runes; the
// final chunk may be shorter. Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.Size {
		return []string{text}
	}

	step := c.Size - c.Overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
