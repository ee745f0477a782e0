package extractors

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"docuquery/internal/rag/schema"
)

// markdownHeader matches an ATX heading line: one to six # marks, a space,
// then the title.
var markdownHeader = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// extractMarkdown reads a markdown file and splits it into header-delimited
// sections, each becoming one content unit carrying its section title.
// Content before the first header forms an untitled leading unit.
func (p *FileProcessor) extractMarkdown(path string) ([]schema.ContentUnit, schema.DocumentMetadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.DocumentMetadata{}, fmt.Errorf("failed to read markdown %s: %w", path, err)
	}

	meta := baseMetadata(path, "markdown")
	units := parseMarkdownSections(string(content), meta.Filename)
	return units, meta, nil
}

func parseMarkdownSections(content, filename string) []schema.ContentUnit {
	var units []schema.ContentUnit
	var currentSection string
	var currentLines []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if text == "" {
			return
		}
		units = append(units, schema.ContentUnit{
			Text: text,
			Metadata: map[string]interface{}{
				schema.MetadataKeySourceFile:   filename,
				schema.MetadataKeyFileType:     "markdown",
				schema.MetadataKeySectionTitle: currentSection,
			},
			SectionTitle: currentSection,
			Index:        len(units),
		})
	}

	for _, line := range strings.Split(content, "\n") {
		if match := markdownHeader.FindStringSubmatch(line); match != nil {
			flush()
			currentSection = strings.TrimSpace(match[2])
			currentLines = []string{line}
			continue
		}
		currentLines = append(currentLines, line)
	}
	flush()

	return units
}
