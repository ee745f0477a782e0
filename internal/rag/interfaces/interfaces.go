package interfaces

import (
	"context"

	"docuquery/internal/rag/schema"
)

// TokenCounter reports the token count of a text span under a fixed tokenizer.
type TokenCounter interface {
	CountTokens(text string) int
}

// Extractor is the interface for reading a file from disk and converting it
// into content units plus document-level metadata.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]schema.ContentUnit, schema.DocumentMetadata, error)
}

// Embedder is the interface for a text embedding model. Embed must return
// one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LLM is the interface for a large language model that can generate text.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
