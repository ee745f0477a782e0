package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"docuquery/internal/rag/interfaces"
)

// Tokenizer counts tokens using the cl100k_base encoding, which matches
// gpt-4, gpt-3.5-turbo and the text-embedding-3 model family.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a Tokenizer backed by the cl100k_base encoding.
func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// compile-time check to ensure Tokenizer implements the TokenCounter interface
var _ interfaces.TokenCounter = (*Tokenizer)(nil)
