package extractors

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"docuquery/internal/rag/schema"
)

// documentXML mirrors the parts of word/document.xml we read: paragraphs,
// their style and their text runs.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []struct {
		Text []struct {
			Content string `xml:",chardata"`
		} `xml:"t"`
	} `xml:"r"`
}

func (p paragraphXML) text() string {
	var b strings.Builder
	for _, run := range p.Runs {
		for _, t := range run.Text {
			b.WriteString(t.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// coreXML mirrors docProps/core.xml; namespace prefixes are ignored so the
// local element names are enough.
type coreXML struct {
	Title    string `xml:"title"`
	Subject  string `xml:"subject"`
	Creator  string `xml:"creator"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
	Language string `xml:"language"`
}

// extractDOCX reads a .docx archive, merges its paragraphs into a single
// content unit and records the last detected heading as the section title.
// Document properties come from docProps/core.xml.
func (p *FileProcessor) extractDOCX(path string) ([]schema.ContentUnit, schema.DocumentMetadata, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, schema.DocumentMetadata{}, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer reader.Close()

	meta := baseMetadata(path, "docx")
	applyCoreProperties(&reader.Reader, &meta)

	document, err := parseDocumentXML(&reader.Reader)
	if err != nil {
		return nil, schema.DocumentMetadata{}, fmt.Errorf("failed to parse docx %s: %w", path, err)
	}

	var paragraphs []string
	var currentSection string
	for _, paragraph := range document.Body.Paragraphs {
		text := paragraph.text()
		if text == "" {
			continue
		}
		if isHeading(paragraph.Props.Style.Val, text) {
			currentSection = text
		}
		paragraphs = append(paragraphs, text)
	}

	if len(paragraphs) == 0 {
		return nil, meta, nil
	}

	unit := schema.ContentUnit{
		Text: strings.Join(paragraphs, "\n\n"),
		Metadata: map[string]interface{}{
			schema.MetadataKeySourceFile:   meta.Filename,
			schema.MetadataKeyFileType:     "docx",
			schema.MetadataKeySectionTitle: currentSection,
		},
		SectionTitle: currentSection,
	}
	return []schema.ContentUnit{unit}, meta, nil
}

func parseDocumentXML(reader *zip.Reader) (*documentXML, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		var document documentXML
		if err := xml.Unmarshal(content, &document); err != nil {
			return nil, err
		}
		return &document, nil
	}
	return &documentXML{}, nil
}

// applyCoreProperties copies author/title/subject and timestamps out of
// docProps/core.xml when present.
func applyCoreProperties(reader *zip.Reader, meta *schema.DocumentMetadata) {
	for _, file := range reader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return
		}
		var core coreXML
		if err := xml.Unmarshal(content, &core); err != nil {
			return
		}
		meta.Title = strings.TrimSpace(core.Title)
		meta.Subject = strings.TrimSpace(core.Subject)
		meta.Author = strings.TrimSpace(core.Creator)
		meta.Creator = meta.Author
		meta.Language = strings.TrimSpace(core.Language)
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(core.Created)); err == nil {
			meta.CreatedDate = timePtr(t)
		}
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(core.Modified)); err == nil {
			meta.ModifiedDate = timePtr(t)
		}
		return
	}
}

// isHeading reports whether a paragraph looks like a section heading: either
// it carries a Heading style, or it is short and written in all caps or
// title case.
func isHeading(styleVal, text string) bool {
	if strings.HasPrefix(styleVal, "Heading") {
		return true
	}
	if len(text) >= 100 || len(strings.Fields(text)) >= 10 {
		return false
	}
	return isAllUpper(text) || isTitleCase(text)
}

func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitleCase(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		first, _ := firstLetter(word)
		if first == 0 || !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}

func firstLetter(word string) (rune, bool) {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return r, true
		}
	}
	return 0, false
}
