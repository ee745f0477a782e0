package pipeline

import (
	"context"
	"fmt"

	"docuquery/internal/rag/chunker"
	"docuquery/internal/rag/interfaces"
	"docuquery/internal/rag/storages/vectorstore"
	"docuquery/pkg/logger"
)

// IndexResult summarizes one finished indexing run.
type IndexResult struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Chunks   int    `json:"chunks"`
}

// IndexingPipeline orchestrates extracting a document, chunking its content
// and ingesting the chunks into the vector store.
type IndexingPipeline struct {
	extractor interfaces.Extractor
	chunker   *chunker.Service
	store     *vectorstore.MemoryStore
	log       *logger.Logger
}

// NewIndexingPipeline creates an IndexingPipeline.
func NewIndexingPipeline(
	extractor interfaces.Extractor,
	chunkService *chunker.Service,
	store *vectorstore.MemoryStore,
	log *logger.Logger,
) *IndexingPipeline {
	return &IndexingPipeline{
		extractor: extractor,
		chunker:   chunkService,
		store:     store,
		log:       log,
	}
}

// Run executes the indexing pipeline for one file. Extraction failures and
// embedding failures abort the run; a failed embedding call leaves the store
// unchanged.
func (p *IndexingPipeline) Run(ctx context.Context, path string, preserveStructure bool) (IndexResult, error) {
	p.log.Info(fmt.Sprintf("Starting indexing for path: %s", path))

	units, meta, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to extract content: %v", err))
		return IndexResult{}, err
	}
	p.log.Info(fmt.Sprintf("Extracted %d content units from %s", len(units), meta.Filename))

	chunks := p.chunker.CreateChunks(units, meta, preserveStructure)
	p.log.Info(fmt.Sprintf("Split %s into %d chunks", meta.Filename, len(chunks)))

	count, err := p.store.IngestWithMetadata(ctx, chunks)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to ingest chunks: %v", err))
		return IndexResult{}, err
	}

	result := IndexResult{
		DocID:    chunker.DocID(meta.Filename),
		Filename: meta.Filename,
		FileType: meta.FileType,
		Chunks:   count,
	}
	p.log.Info(fmt.Sprintf("Successfully indexed %s as %s (%d chunks)", meta.Filename, result.DocID, count))
	return result, nil
}
