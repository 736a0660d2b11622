package chunker

import (
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits page or segment text into bounded, overlapping units using
// a recursive character splitter: larger semantic boundaries (paragraphs,
// lines, words) are preferred before falling back to hard cuts.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// Split returns the ordered chunks of text. Ordinal assignment is the
// caller's job so a single counter can span every page of a document.
func (c *Chunker) Split(text string) ([]string, error) {
	return c.splitter.SplitText(text)
}
