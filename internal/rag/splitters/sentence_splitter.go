package splitters

import (
	"regexp"
	"strings"

	"docuquery/internal/rag/interfaces"
)

// sentenceBoundary matches a sentence-ending punctuation mark followed by
// whitespace. This is a heuristic, not grammar-aware: abbreviations like
// "e.g. " mis-split. Accepted as a known limitation.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// SplitSentences splits raw text into trimmed sentences at punctuation
// boundaries. Empty results are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// loc[0] is the punctuation mark; the sentence ends just after it.
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// SplitChunk is one bounded piece of a content unit produced by the splitter.
type SplitChunk struct {
	// Text is the chunk content.
	Text string

	// HasOverlap is true for every chunk after the first produced by one
	// Split call. The flag is positional: it stays true even when no
	// sentence fit the overlap budget and the carried-over text is empty.
	HasOverlap bool
}

// TokenSplitter splits a content unit into token-bounded chunks at sentence
// boundaries, seeding each new chunk with trailing sentences of the previous
// one to preserve context across the cut.
type TokenSplitter struct {
	// ChunkSize is the maximum token count per chunk.
	ChunkSize int
	// ChunkOverlap is the token budget for the overlap carried into the
	// next chunk.
	ChunkOverlap int

	counter interfaces.TokenCounter
}

// NewTokenSplitter creates a TokenSplitter with the given token budgets.
func NewTokenSplitter(counter interfaces.TokenCounter, chunkSize, chunkOverlap int) *TokenSplitter {
	return &TokenSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		counter:      counter,
	}
}

// Split breaks text into an ordered sequence of chunks. Sentences are
// accumulated greedily until the next one would push the buffer past
// ChunkSize; the buffer is then closed and a new one is seeded with the
// overlap sentences plus the sentence that triggered the overflow.
//
// A single sentence whose own token count exceeds ChunkSize is emitted as
// one oversized chunk: the splitter never cuts inside a sentence.
func (s *TokenSplitter) Split(text string) []SplitChunk {
	sentences := SplitSentences(text)

	var chunks []SplitChunk
	var current string
	var currentSentences []string

	for _, sentence := range sentences {
		test := sentence
		if current != "" {
			test = current + " " + sentence
		}

		if s.counter.CountTokens(test) <= s.ChunkSize {
			current = test
			currentSentences = append(currentSentences, sentence)
			continue
		}

		// The buffer is full. Close it and seed the next one.
		if current != "" {
			chunks = append(chunks, SplitChunk{
				Text:       strings.TrimSpace(current),
				HasOverlap: len(chunks) > 0,
			})
		}

		overlap := s.overlapSentences(currentSentences)
		currentSentences = append(overlap[:len(overlap):len(overlap)], sentence)
		current = strings.Join(currentSentences, " ")
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, SplitChunk{
			Text:       strings.TrimSpace(current),
			HasOverlap: len(chunks) > 0,
		})
	}

	return chunks
}

// overlapSentences walks the just-closed buffer in reverse, collecting the
// trailing sentences that together stay within the overlap budget. It stops
// at the first sentence that would exceed it, so the most recent sentences
// always win.
func (s *TokenSplitter) overlapSentences(sentences []string) []string {
	if s.ChunkOverlap <= 0 || len(sentences) == 0 {
		return nil
	}

	var overlap []string
	var overlapText string
	for i := len(sentences) - 1; i >= 0; i-- {
		test := sentences[i]
		if overlapText != "" {
			test = sentences[i] + " " + overlapText
		}
		if s.counter.CountTokens(test) > s.ChunkOverlap {
			break
		}
		overlapText = test
		overlap = append([]string{sentences[i]}, overlap...)
	}
	return overlap
}
