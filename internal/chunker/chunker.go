// Package chunker groups consecutive transcript entries into size-bounded
// chunks.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/tokenizer"
)

// Separator joins the entries of a chunk.
const Separator = "\n"

var ErrInvalidMaxSize = errors.New("max chunk size must be positive")

// Chunk is a non-empty run of consecutive entries.
type Chunk struct {
	Index   int
	Entries []string
	Size    int
}

// Text is the chunk as sent to the completion service.
func (c Chunk) Text() string {
	return strings.Join(c.Entries, Separator)
}

// Oversized reports a single entry that alone exceeds maxSize.
func (c Chunk) Oversized(maxSize int) bool {
	return len(c.Entries) == 1 && c.Size > maxSize
}

// Pack greedily fills chunks in order. A chunk is closed when the next entry
// would push it past maxSize. An entry larger than maxSize is never split; it
// becomes a chunk of its own.
func Pack(entries []string, maxSize int, est tokenizer.Estimator) ([]Chunk, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("pack %d entries: %w", len(entries), ErrInvalidMaxSize)
	}

	var chunks []Chunk
	var current []string
	size := 0

	flush := func() {
		chunks = append(chunks, Chunk{Index: len(chunks), Entries: current, Size: size})
	}

	for _, entry := range entries {
		n := est.Size(entry)
		if size+n > maxSize && len(current) > 0 {
			flush()
			current = []string{entry}
			size = n
			continue
		}
		current = append(current, entry)
		size += n
	}

	if len(current) > 0 {
		flush()
	}

	return chunks, nil
}

// Flatten returns the entries of chunks in order.
func Flatten(chunks []Chunk) []string {
	var out []string
	for _, c := range chunks {
		out = append(out, c.Entries...)
	}
	return out
}
