package extractors

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"docuquery/internal/rag/schema"
)

// extractPDF reads a PDF file page by page, producing one content unit per
// non-empty page, and pulls document properties from the Info dictionary.
func (p *FileProcessor) extractPDF(path string) ([]schema.ContentUnit, schema.DocumentMetadata, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, schema.DocumentMetadata{}, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	meta := baseMetadata(path, "pdf")
	meta.Pages = reader.NumPage()

	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		meta.Author = info.Key("Author").Text()
		meta.Title = info.Key("Title").Text()
		meta.Subject = info.Key("Subject").Text()
		meta.Creator = info.Key("Creator").Text()
		if created := parsePDFDate(info.Key("CreationDate").Text()); created != nil {
			meta.CreatedDate = created
		}
		if modified := parsePDFDate(info.Key("ModDate").Text()); modified != nil {
			meta.ModifiedDate = modified
		}
	}

	var units []schema.ContentUnit
	for pageNum := 1; pageNum <= meta.Pages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		units = append(units, schema.ContentUnit{
			Text: text,
			Metadata: map[string]interface{}{
				schema.MetadataKeySourceFile: meta.Filename,
				schema.MetadataKeyFileType:   "pdf",
				schema.MetadataKeyPageNumber: pageNum,
				schema.MetadataKeyTotalPages: meta.Pages,
			},
			PageNumber: pageNum,
			Index:      len(units),
		})
	}

	return units, meta, nil
}

// parsePDFDate parses the PDF date format "D:YYYYMMDDHHMMSS..." used by the
// CreationDate and ModDate entries. Returns nil when the value is absent or
// malformed.
func parsePDFDate(value string) *time.Time {
	if !strings.HasPrefix(value, "D:") {
		return nil
	}
	value = value[2:]
	if len(value) > 14 {
		value = value[:14]
	}
	t, err := time.Parse("20060102150405", value)
	if err != nil {
		return nil
	}
	return &t
}
