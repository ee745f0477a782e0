package schema

import "time"

const (
	// MetadataKeySourceFile is the key for the originating file name.
	MetadataKeySourceFile = "source_file"
	// MetadataKeyFileType is the key for the detected file type tag.
	MetadataKeyFileType = "file_type"
	// MetadataKeyPageNumber is the key for the 1-based page number of a content unit.
	MetadataKeyPageNumber = "page_number"
	// MetadataKeySectionTitle is the key for the section heading a unit belongs to.
	MetadataKeySectionTitle = "section_title"
	// MetadataKeyTotalPages is the key for the page count of the source document.
	MetadataKeyTotalPages = "total_pages"

	// Document-level keys are namespaced with doc_ so they never shadow
	// content-unit metadata when the two are merged into a chunk.
	MetadataKeyDocTitle       = "doc_title"
	MetadataKeyDocAuthor      = "doc_author"
	MetadataKeyDocCreatedDate = "doc_created_date"
	MetadataKeyDocFileSize    = "doc_file_size"

	// Derived chunk-level keys.
	MetadataKeyChunkTokenCount     = "chunk_token_count"
	MetadataKeyChunkCharacterCount = "chunk_character_count"
	MetadataKeyHasOverlap          = "has_overlap"
)

// ContentUnit is one logically coherent piece of extracted document content
// (a PDF page, a merged DOCX body, or a markdown section) before chunking.
// Units are immutable once produced by extraction.
type ContentUnit struct {
	// Text is the raw extracted text span.
	Text string

	// Metadata holds extraction-time data about the unit (source file,
	// file type, page number, section title).
	Metadata map[string]interface{}

	// PageNumber is the 1-based page the unit came from; 0 when the
	// format has no page concept.
	PageNumber int

	// SectionTitle is the heading the unit belongs to, when known.
	SectionTitle string

	// Index is the ordinal position of the unit within its source.
	Index int
}

// DocumentMetadata describes one ingested document as a whole.
type DocumentMetadata struct {
	Filename     string
	FileType     string
	FileSize     int64
	Pages        int
	Author       string
	Title        string
	Subject      string
	Creator      string
	CreatedDate  *time.Time
	ModifiedDate *time.Time
	Language     string
}

// Chunk is the unit of embedding and retrieval: a bounded, token-counted
// span of text carrying identity and merged metadata.
type Chunk struct {
	// Text is the bounded text span.
	Text string

	// Metadata merges the originating unit's metadata with namespaced
	// document fields and derived chunk fields.
	Metadata map[string]interface{}

	// TokenCount is the token count of Text under the configured tokenizer.
	TokenCount int

	// ChunkID is derived as "{docID}_chunk_{index}" and is unique within
	// a document.
	ChunkID string

	// ParentDocID identifies the owning document, derived from its filename.
	ParentDocID string

	// PageNumber and SectionTitle are inherited from the originating unit.
	PageNumber   int
	SectionTitle string

	// Index is the zero-based position among all chunks of the document,
	// contiguous in emission order.
	Index int

	// OverlapsWithPrevious is true for every chunk after the first one
	// produced by a single splitter invocation on one content unit.
	OverlapsWithPrevious bool
}

// DocumentRecord aggregates document-level information inside the vector
// store, one row per parent document ID.
type DocumentRecord struct {
	DocID       string `json:"doc_id"`
	Filename    string `json:"filename"`
	FileType    string `json:"file_type"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	CreatedDate string `json:"created_date,omitempty"`
	FileSize    int64  `json:"file_size"`
	TotalPages  int    `json:"total_pages"`
	TotalChunks int    `json:"total_chunks"`
}
