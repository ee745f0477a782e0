package splitters

import (
	"fmt"
	"strings"
	"testing"
)

// wordCounter counts whitespace-separated words, standing in for the real
// tokenizer so the tests stay deterministic and offline.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "basic",
			text: "First sentence. Second sentence! Third sentence?",
			want: []string{"First sentence.", "Second sentence!", "Third sentence?"},
		},
		{
			name: "no trailing punctuation",
			text: "Complete sentence. Trailing fragment",
			want: []string{"Complete sentence.", "Trailing fragment"},
		},
		{
			name: "extra whitespace",
			text: "One.   Two.\n\nThree.",
			want: []string{"One.", "Two.", "Three."},
		},
		{
			name: "empty",
			text: "   \n  ",
			want: nil,
		},
		{
			name: "single sentence",
			text: "Just one sentence with no boundary",
			want: []string{"Just one sentence with no boundary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSentences() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// sentenceText builds a text of n sentences, each with wordsPer words.
func sentenceText(n, wordsPer int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		for w := 0; w < wordsPer-1; w++ {
			fmt.Fprintf(&sb, "word%d_%d ", i, w)
		}
		fmt.Fprintf(&sb, "end%d. ", i)
	}
	return sb.String()
}

func TestTokenSplitter_NoSentenceDropped(t *testing.T) {
	s := NewTokenSplitter(wordCounter{}, 25, 5)
	text := sentenceText(20, 8)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var all strings.Builder
	for _, chunk := range chunks {
		all.WriteString(chunk.Text)
		all.WriteString(" ")
	}
	joined := all.String()

	for _, sentence := range SplitSentences(text) {
		if !strings.Contains(joined, sentence) {
			t.Errorf("sentence %q missing from emitted chunks", sentence)
		}
	}
}

func TestTokenSplitter_RespectsBudget(t *testing.T) {
	counter := wordCounter{}
	s := NewTokenSplitter(counter, 25, 5)

	chunks := s.Split(sentenceText(20, 8))
	for i, chunk := range chunks {
		if got := counter.CountTokens(chunk.Text); got > 25 {
			t.Errorf("chunk %d has %d tokens, budget is 25", i, got)
		}
	}
}

func TestTokenSplitter_OverlapFlags(t *testing.T) {
	s := NewTokenSplitter(wordCounter{}, 25, 5)

	chunks := s.Split(sentenceText(20, 8))
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	if chunks[0].HasOverlap {
		t.Error("first chunk must not be flagged as overlapping")
	}
	for i := 1; i < len(chunks); i++ {
		if !chunks[i].HasOverlap {
			t.Errorf("chunk %d should be flagged as overlapping", i)
		}
	}
}

func TestTokenSplitter_OverlapSeedsNextChunk(t *testing.T) {
	s := NewTokenSplitter(wordCounter{}, 25, 10)

	chunks := s.Split(sentenceText(20, 8))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// The last sentence of each chunk fits the 10-token overlap budget, so
	// it must reappear at the start of the following chunk.
	for i := 1; i < len(chunks); i++ {
		prev := SplitSentences(chunks[i-1].Text)
		tail := prev[len(prev)-1]
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("chunk %d does not start with the tail sentence %q of chunk %d", i, tail, i-1)
		}
	}
}

func TestTokenSplitter_ZeroOverlapBudget(t *testing.T) {
	s := NewTokenSplitter(wordCounter{}, 25, 0)

	chunks := s.Split(sentenceText(20, 8))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// No sentence fits a zero budget, so no text is carried over, yet the
	// positional flag still marks every chunk after the first.
	for i := 1; i < len(chunks); i++ {
		if !chunks[i].HasOverlap {
			t.Errorf("chunk %d should keep the positional overlap flag", i)
		}
		prev := SplitSentences(chunks[i-1].Text)
		tail := prev[len(prev)-1]
		if strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("chunk %d unexpectedly carries overlap text with a zero budget", i)
		}
	}
}

func TestTokenSplitter_OversizedSentence(t *testing.T) {
	counter := wordCounter{}
	s := NewTokenSplitter(counter, 5, 2)

	oversized := "this single sentence is far longer than the whole chunk budget allows."
	chunks := s.Split(oversized)
	if len(chunks) != 1 {
		t.Fatalf("expected one oversized chunk, got %d", len(chunks))
	}
	if counter.CountTokens(chunks[0].Text) <= 5 {
		t.Error("expected the chunk to exceed the budget rather than cut mid-sentence")
	}
	if chunks[0].Text != oversized {
		t.Errorf("oversized sentence was altered: %q", chunks[0].Text)
	}
}

func TestTokenSplitter_LargeUnit(t *testing.T) {
	counter := wordCounter{}
	s := NewTokenSplitter(counter, 1000, 200)

	// 300 sentences x 10 words = 3000 tokens under the word counter.
	text := sentenceText(300, 10)
	chunks := s.Split(text)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if got := counter.CountTokens(chunk.Text); got > 1000 {
			t.Errorf("chunk %d has %d tokens, budget is 1000", i, got)
		}
		if i > 0 && !chunks[i].HasOverlap {
			t.Errorf("chunk %d should be flagged as overlapping", i)
		}
	}
}

func TestTokenSplitter_EmptyText(t *testing.T) {
	s := NewTokenSplitter(wordCounter{}, 25, 5)
	if chunks := s.Split("   "); len(chunks) != 0 {
		t.Errorf("expected no chunks for blank input, got %d", len(chunks))
	}
}
