package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"

	"docuquery/internal/rag/interfaces"
	"docuquery/internal/rag/schema"
)

// SearchResult is one retrieval hit: the stored chunk text and its cosine
// similarity to the query.
type SearchResult struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Stats summarizes the current contents of the store.
type Stats struct {
	TotalDocuments  int            `json:"total_documents"`
	TotalChunks     int            `json:"total_chunks"`
	TotalEmbeddings int            `json:"total_embeddings"`
	DocumentsByType map[string]int `json:"documents_by_type"`
}

// MemoryStore is an in-memory vector index over three parallel collections:
// chunk texts, embedding vectors and chunk metadata, plus a per-document
// registry. Retrieval is an exact linear scan with cosine similarity.
//
// The store performs no internal locking: it assumes a single logical owner.
// Callers that share one store across goroutines must serialize access
// themselves (the HTTP service guards it with one mutex).
type MemoryStore struct {
	embedder interfaces.Embedder

	texts     []string
	vectors   [][]float32
	chunkMeta []map[string]interface{}

	documents      map[string]*schema.DocumentRecord
	docToPositions map[string][]int
}

// NewMemoryStore creates an empty MemoryStore that embeds via the given model.
func NewMemoryStore(embedder interfaces.Embedder) *MemoryStore {
	return &MemoryStore{
		embedder:       embedder,
		documents:      make(map[string]*schema.DocumentRecord),
		docToPositions: make(map[string][]int),
	}
}

// Ingest stores raw texts without document context, embedding them in a
// single batched call. Each entry gets placeholder metadata so later
// retrieval stays uniform.
func (s *MemoryStore) Ingest(ctx context.Context, texts []string) (int, error) {
	if len(texts) == 0 {
		return 0, nil
	}

	embeddings, err := s.embed(ctx, texts)
	if err != nil {
		return 0, err
	}

	for i, text := range texts {
		s.texts = append(s.texts, text)
		s.vectors = append(s.vectors, embeddings[i])
		s.chunkMeta = append(s.chunkMeta, map[string]interface{}{
			schema.MetadataKeySourceFile: "unknown",
			schema.MetadataKeyFileType:   "text",
			"chunk_id":                   fmt.Sprintf("legacy_%d", len(s.chunkMeta)),
		})
	}

	return len(texts), nil
}

// IngestWithMetadata stores chunks with their metadata and maintains the
// document registry. The embedding call covers the whole batch in one
// request; if it fails, the store is left untouched.
func (s *MemoryStore) IngestWithMetadata(ctx context.Context, chunks []schema.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := s.embed(ctx, texts)
	if err != nil {
		return 0, err
	}

	touched := make(map[string]struct{}, 1)
	for i, chunk := range chunks {
		position := len(s.texts)
		s.texts = append(s.texts, chunk.Text)
		s.vectors = append(s.vectors, embeddings[i])
		s.chunkMeta = append(s.chunkMeta, copyMetadata(chunk.Metadata))
		s.docToPositions[chunk.ParentDocID] = append(s.docToPositions[chunk.ParentDocID], position)
		touched[chunk.ParentDocID] = struct{}{}

		if _, ok := s.documents[chunk.ParentDocID]; !ok {
			s.documents[chunk.ParentDocID] = recordFromChunk(chunk)
		}
	}

	for docID := range touched {
		s.documents[docID].TotalChunks = len(s.docToPositions[docID])
	}

	return len(chunks), nil
}

// Query embeds the query text and returns the topK most similar stored
// chunks, descending by cosine similarity with ties broken by insertion
// order. An empty store yields an empty result, never an error.
func (s *MemoryStore) Query(ctx context.Context, text string, topK int) ([]SearchResult, error) {
	if len(s.texts) == 0 {
		return []SearchResult{}, nil
	}

	embeddings, err := s.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	query := embeddings[0]

	scores := make([]float64, len(s.vectors))
	for i, vector := range s.vectors {
		scores[i] = cosineSimilarity(query, vector)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	results := make([]SearchResult, 0, topK)
	for _, i := range order[:topK] {
		results = append(results, SearchResult{Text: s.texts[i], Score: scores[i]})
	}
	return results, nil
}

// ChunkMetadata returns the metadata of the first stored chunk whose text
// equals the given string. When chunk texts repeat, only the earliest ingest
// is reachable this way; callers should treat the result as best-effort.
func (s *MemoryStore) ChunkMetadata(text string) (map[string]interface{}, bool) {
	for i, stored := range s.texts {
		if stored == text {
			return s.chunkMeta[i], true
		}
	}
	return nil, false
}

// Documents returns the registry records for all ingested documents.
func (s *MemoryStore) Documents() []*schema.DocumentRecord {
	records := make([]*schema.DocumentRecord, 0, len(s.documents))
	for _, record := range s.documents {
		copied := *record
		records = append(records, &copied)
	}
	sort.Slice(records, func(a, b int) bool { return records[a].DocID < records[b].DocID })
	return records
}

// DeleteDocument removes every chunk belonging to docID from the parallel
// collections and renumbers the recorded positions of all remaining
// documents to match the compacted layout. Deleting an unknown docID is a
// no-op returning 0.
func (s *MemoryStore) DeleteDocument(docID string) int {
	positions, ok := s.docToPositions[docID]
	if !ok {
		return 0
	}

	// Delete from the highest position down so earlier removals do not
	// shift the ones still pending.
	deleted := append([]int(nil), positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(deleted)))

	count := 0
	for _, position := range deleted {
		if position >= len(s.texts) {
			continue
		}
		s.texts = append(s.texts[:position], s.texts[position+1:]...)
		s.vectors = append(s.vectors[:position], s.vectors[position+1:]...)
		s.chunkMeta = append(s.chunkMeta[:position], s.chunkMeta[position+1:]...)
		count++
	}

	delete(s.docToPositions, docID)
	delete(s.documents, docID)

	// Every retained position shifts down by the number of deleted
	// positions below it.
	for remaining, indices := range s.docToPositions {
		updated := make([]int, len(indices))
		for i, index := range indices {
			shift := 0
			for _, position := range deleted {
				if position < index {
					shift++
				}
			}
			updated[i] = index - shift
		}
		s.docToPositions[remaining] = updated
	}

	return count
}

// DocumentStats reports aggregate counts for the store contents.
func (s *MemoryStore) DocumentStats() Stats {
	byType := make(map[string]int)
	for _, record := range s.documents {
		fileType := record.FileType
		if fileType == "" {
			fileType = "unknown"
		}
		byType[fileType]++
	}
	return Stats{
		TotalDocuments:  len(s.documents),
		TotalChunks:     len(s.texts),
		TotalEmbeddings: len(s.vectors),
		DocumentsByType: byType,
	}
}

// embed calls the embedding model and verifies the response shape.
func (s *MemoryStore) embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d texts", len(embeddings), len(texts))
	}
	return embeddings, nil
}

// recordFromChunk builds the initial registry row for a document from the
// merged metadata of its first ingested chunk.
func recordFromChunk(chunk schema.Chunk) *schema.DocumentRecord {
	meta := chunk.Metadata
	return &schema.DocumentRecord{
		DocID:       chunk.ParentDocID,
		Filename:    metaString(meta, schema.MetadataKeySourceFile),
		FileType:    metaString(meta, schema.MetadataKeyFileType),
		Title:       metaString(meta, schema.MetadataKeyDocTitle),
		Author:      metaString(meta, schema.MetadataKeyDocAuthor),
		CreatedDate: metaString(meta, schema.MetadataKeyDocCreatedDate),
		FileSize:    metaInt64(meta, schema.MetadataKeyDocFileSize),
		TotalPages:  int(metaInt64(meta, schema.MetadataKeyTotalPages)),
	}
}

func metaString(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaInt64(meta map[string]interface{}, key string) int64 {
	switch v := meta[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func copyMetadata(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return make(map[string]interface{})
	}
	copied := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}

// cosineSimilarity computes dot(a,b) / (norm(a) * norm(b)) in float64.
// A zero-magnitude vector scores 0 against everything.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
