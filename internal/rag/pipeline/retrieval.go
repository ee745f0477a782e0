package pipeline

import (
	"context"
	"fmt"

	"docuquery/internal/rag/storages/vectorstore"
	"docuquery/pkg/logger"
)

// RetrievalPipeline retrieves the stored chunks most relevant to a query.
type RetrievalPipeline struct {
	store *vectorstore.MemoryStore
	log   *logger.Logger
}

// NewRetrievalPipeline creates a RetrievalPipeline.
func NewRetrievalPipeline(store *vectorstore.MemoryStore, log *logger.Logger) *RetrievalPipeline {
	return &RetrievalPipeline{store: store, log: log}
}

// Run embeds the query and returns the topK nearest chunks with their
// similarity scores. An empty store yields an empty result.
func (p *RetrievalPipeline) Run(ctx context.Context, query string, topK int) ([]vectorstore.SearchResult, error) {
	p.log.Info(fmt.Sprintf("Starting retrieval for query: '%s'", query))

	results, err := p.store.Query(ctx, query, topK)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to query vector store: %v", err))
		return nil, err
	}

	p.log.Info(fmt.Sprintf("Retrieved %d chunks from vector store", len(results)))
	return results, nil
}
