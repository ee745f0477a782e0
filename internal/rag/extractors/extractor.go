package extractors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/gabriel-vasile/mimetype"

	"docuquery/internal/rag/interfaces"
	"docuquery/internal/rag/schema"
)

// ErrUnsupportedFormat is returned when a file's type cannot be determined
// or is not one of the supported document formats.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// extensionTypes maps known file extensions to their type tag.
var extensionTypes = map[string]string{
	".pdf":      "pdf",
	".md":       "markdown",
	".markdown": "markdown",
	".docx":     "docx",
	".txt":      "text",
}

// DetectFileType returns the type tag for a file, preferring the extension
// for known suffixes and falling back to MIME sniffing of the content.
// Unknown files yield "unknown".
func DetectFileType(path string) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "unknown"
	}
	switch {
	case mtype.Is("application/pdf"):
		return "pdf"
	case mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return "docx"
	case mtype.Is("text/markdown"):
		return "markdown"
	case mtype.Is("text/plain"):
		return "text"
	}
	return "unknown"
}

// FileProcessor extracts content units and document metadata from supported
// file formats: PDF page by page, DOCX paragraph-merged with a heading
// heuristic, Markdown split into header-delimited sections, plain text as a
// single unit.
type FileProcessor struct{}

// NewFileProcessor creates a FileProcessor.
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// Extract detects the file type and runs the matching extractor.
func (p *FileProcessor) Extract(ctx context.Context, path string) ([]schema.ContentUnit, schema.DocumentMetadata, error) {
	switch fileType := DetectFileType(path); fileType {
	case "pdf":
		return p.extractPDF(path)
	case "docx":
		return p.extractDOCX(path)
	case "markdown":
		return p.extractMarkdown(path)
	case "text":
		return p.extractText(path)
	default:
		return nil, schema.DocumentMetadata{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// baseMetadata fills the fields every format shares: filename, size and
// filesystem timestamps. Formats with embedded properties (PDF info
// dictionary, DOCX core properties) overwrite the timestamps afterwards.
func baseMetadata(path, fileType string) schema.DocumentMetadata {
	meta := schema.DocumentMetadata{
		Filename: filepath.Base(path),
		FileType: fileType,
	}

	if info, err := os.Stat(path); err == nil {
		meta.FileSize = info.Size()
	}

	if spec, err := times.Stat(path); err == nil {
		modified := spec.ModTime()
		meta.ModifiedDate = &modified
		if spec.HasBirthTime() {
			created := spec.BirthTime()
			meta.CreatedDate = &created
		}
	}

	return meta
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// compile-time check to ensure FileProcessor implements the Extractor interface
var _ interfaces.Extractor = (*FileProcessor)(nil)
