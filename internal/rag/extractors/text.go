package extractors

import (
	"fmt"
	"os"
	"strings"

	"docuquery/internal/rag/schema"
)

// extractText reads a plain text file as a single content unit.
func (p *FileProcessor) extractText(path string) ([]schema.ContentUnit, schema.DocumentMetadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.DocumentMetadata{}, fmt.Errorf("failed to read text file %s: %w", path, err)
	}

	meta := baseMetadata(path, "text")

	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, meta, nil
	}

	unit := schema.ContentUnit{
		Text: text,
		Metadata: map[string]interface{}{
			schema.MetadataKeySourceFile: meta.Filename,
			schema.MetadataKeyFileType:   "text",
		},
	}
	return []schema.ContentUnit{unit}, meta, nil
}
