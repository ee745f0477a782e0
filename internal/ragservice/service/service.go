package service

import (
	"context"
	"sync"

	"docuquery/internal/config"
	"docuquery/internal/rag/chunker"
	"docuquery/internal/rag/interfaces"
	"docuquery/internal/rag/pipeline"
	"docuquery/internal/rag/schema"
	"docuquery/internal/rag/storages/vectorstore"
	"docuquery/pkg/logger"
)

// Service is the orchestration facade over the chunking and retrieval
// pipelines. It owns the vector store and serializes every store access
// behind one mutex, since the store itself is single-owner by contract and
// HTTP handlers run concurrently.
type Service struct {
	mu sync.Mutex

	cfg   config.ChunkingConfig
	log   *logger.Logger
	store *vectorstore.MemoryStore

	indexing  *pipeline.IndexingPipeline
	retrieval *pipeline.RetrievalPipeline
	qa        *pipeline.QAPipeline
}

// New wires the pipelines around a shared vector store.
func New(
	cfg config.ChunkingConfig,
	log *logger.Logger,
	extractor interfaces.Extractor,
	counter interfaces.TokenCounter,
	embedder interfaces.Embedder,
	model interfaces.LLM,
) *Service {
	store := vectorstore.NewMemoryStore(embedder)
	chunkService := chunker.NewService(counter, cfg.ChunkSize, cfg.ChunkOverlap)

	return &Service{
		cfg:       cfg,
		log:       log,
		store:     store,
		indexing:  pipeline.NewIndexingPipeline(extractor, chunkService, store, log),
		retrieval: pipeline.NewRetrievalPipeline(store, log),
		qa:        pipeline.NewQAPipeline(model, log),
	}
}

// IngestTexts stores raw text snippets without document context.
func (s *Service) IngestTexts(ctx context.Context, texts []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Ingest(ctx, texts)
}

// IndexFile extracts, chunks and ingests one file from disk.
func (s *Service) IndexFile(ctx context.Context, path string) (pipeline.IndexResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexing.Run(ctx, path, s.cfg.PreserveStructure)
}

// Query retrieves the topK most relevant chunks and generates an answer
// from them. Answer generation runs outside the store lock; only retrieval
// touches the index.
func (s *Service) Query(ctx context.Context, query string, topK int) ([]vectorstore.SearchResult, string, error) {
	s.mu.Lock()
	results, err := s.retrieval.Run(ctx, query, topK)
	s.mu.Unlock()
	if err != nil {
		return nil, "", err
	}

	contexts := make([]string, len(results))
	for i, result := range results {
		contexts[i] = result.Text
	}

	answer, err := s.qa.Run(ctx, query, contexts)
	if err != nil {
		return nil, "", err
	}
	return results, answer, nil
}

// Documents lists the registry records of all ingested documents.
func (s *Service) Documents() []*schema.DocumentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Documents()
}

// DeleteDocument removes a document and all its chunks, returning the number
// of chunks deleted. Unknown document IDs delete nothing.
func (s *Service) DeleteDocument(docID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteDocument(docID)
}

// Stats reports aggregate counts for the knowledge base.
func (s *Service) Stats() vectorstore.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DocumentStats()
}
