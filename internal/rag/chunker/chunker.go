package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"docuquery/internal/rag/interfaces"
	"docuquery/internal/rag/schema"
	"docuquery/internal/rag/splitters"
)

var (
	nonDocIDChars  = regexp.MustCompile(`[^a-z0-9_-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// DocID derives a stable document identifier from a filename: lowercased,
// disallowed characters replaced by underscores, underscore runs collapsed,
// leading and trailing underscores trimmed.
func DocID(filename string) string {
	id := nonDocIDChars.ReplaceAllString(strings.ToLower(filename), "_")
	id = underscoreRuns.ReplaceAllString(id, "_")
	return strings.Trim(id, "_")
}

// Service turns extracted content units into identified, metadata-enriched
// chunks ready for ingestion.
type Service struct {
	// ChunkSize is the maximum token count per chunk.
	ChunkSize int
	// ChunkOverlap is the token budget carried between consecutive chunks.
	ChunkOverlap int

	counter  interfaces.TokenCounter
	splitter *splitters.TokenSplitter
}

// NewService creates a chunking Service with the given token budgets.
func NewService(counter interfaces.TokenCounter, chunkSize, chunkOverlap int) *Service {
	return &Service{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		counter:      counter,
		splitter:     splitters.NewTokenSplitter(counter, chunkSize, chunkOverlap),
	}
}

// CreateChunks converts content units into chunks, keeping one globally
// increasing ordinal counter across all units of the document.
//
// With preserveStructure enabled, a unit from a structured file type
// (markdown, docx) that carries a section title is kept whole when it fits
// the budget; when it does not, the section title is prefixed to the text so
// every sub-chunk retains its section context.
func (s *Service) CreateChunks(units []schema.ContentUnit, meta schema.DocumentMetadata, preserveStructure bool) []schema.Chunk {
	var chunks []schema.Chunk
	docID := DocID(meta.Filename)
	index := 0

	for _, unit := range units {
		if strings.TrimSpace(unit.Text) == "" {
			continue
		}

		text := unit.Text
		if preserveStructure && unit.SectionTitle != "" && isStructuredType(meta.FileType) {
			if s.counter.CountTokens(text) > s.ChunkSize {
				// The section spans multiple chunks; carry the heading
				// into each of them.
				text = fmt.Sprintf("Section: %s\n\n%s", unit.SectionTitle, text)
			}
		}

		if s.counter.CountTokens(text) <= s.ChunkSize {
			chunks = append(chunks, s.assemble(text, unit, docID, index, meta, false))
			index++
			continue
		}

		for _, piece := range s.splitter.Split(text) {
			chunks = append(chunks, s.assemble(piece.Text, unit, docID, index, meta, piece.HasOverlap))
			index++
		}
	}

	return chunks
}

func isStructuredType(fileType string) bool {
	return fileType == "markdown" || fileType == "docx"
}

// assemble wraps one finished chunk text with identity and merged metadata.
// Content-unit metadata keys are preserved verbatim; document-level fields
// are added under namespaced keys so the two never collide.
func (s *Service) assemble(text string, unit schema.ContentUnit, docID string, index int, meta schema.DocumentMetadata, hasOverlap bool) schema.Chunk {
	tokenCount := s.counter.CountTokens(text)

	merged := make(map[string]interface{}, len(unit.Metadata)+8)
	for k, v := range unit.Metadata {
		merged[k] = v
	}
	merged[schema.MetadataKeyDocTitle] = meta.Title
	merged[schema.MetadataKeyDocAuthor] = meta.Author
	if meta.CreatedDate != nil {
		merged[schema.MetadataKeyDocCreatedDate] = meta.CreatedDate.Format(time.RFC3339)
	} else {
		merged[schema.MetadataKeyDocCreatedDate] = nil
	}
	merged[schema.MetadataKeyDocFileSize] = meta.FileSize
	merged[schema.MetadataKeyTotalPages] = meta.Pages
	merged[schema.MetadataKeyChunkTokenCount] = tokenCount
	merged[schema.MetadataKeyChunkCharacterCount] = utf8.RuneCountInString(text)
	merged[schema.MetadataKeyHasOverlap] = hasOverlap

	return schema.Chunk{
		Text:                 text,
		Metadata:             merged,
		TokenCount:           tokenCount,
		ChunkID:              fmt.Sprintf("%s_chunk_%d", docID, index),
		ParentDocID:          docID,
		PageNumber:           unit.PageNumber,
		SectionTitle:         unit.SectionTitle,
		Index:                index,
		OverlapsWithPrevious: hasOverlap,
	}
}
