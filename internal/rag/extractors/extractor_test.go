package extractors

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDetectFileType(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"report.pdf", "%PDF-1.4", "pdf"},
		{"notes.md", "# Title", "markdown"},
		{"notes.markdown", "# Title", "markdown"},
		{"plain.txt", "hello", "text"},
		{"UPPER.TXT", "hello", "text"},
		// No known extension, but the content sniffs as plain text.
		{"noext", "just words here", "text"},
	}
	for _, tt := range tests {
		path := writeFile(t, dir, tt.name, tt.content)
		if got := DetectFileType(path); got != tt.want {
			t.Errorf("DetectFileType(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "image.bin", "\x89PNG\r\n\x1a\n000000")

	p := NewFileProcessor()
	_, _, err := p.Extract(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.txt", "  Hello world. Second sentence.  \n")

	p := NewFileProcessor()
	units, meta, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if units[0].Text != "Hello world. Second sentence." {
		t.Errorf("unit text = %q", units[0].Text)
	}
	if meta.Filename != "plain.txt" || meta.FileType != "text" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.FileSize == 0 {
		t.Error("expected a non-zero file size")
	}
	if meta.ModifiedDate == nil {
		t.Error("expected a modified date from the filesystem")
	}
}

func TestExtractTextEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "   \n ")

	p := NewFileProcessor()
	units, meta, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("got %d units from a blank file, want 0", len(units))
	}
	if meta.Filename != "empty.txt" {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestExtractMarkdownSections(t *testing.T) {
	content := `Intro paragraph before any header.

# Getting Started

Install the binary.

## Configuration

Edit the config file.
Set the API key.

# FAQ

Nothing yet.
`
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.md", content)

	p := NewFileProcessor()
	units, meta, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if meta.FileType != "markdown" {
		t.Errorf("file type = %q", meta.FileType)
	}
	if len(units) != 4 {
		t.Fatalf("got %d units, want 4", len(units))
	}

	if units[0].SectionTitle != "" {
		t.Errorf("leading unit should be untitled, got %q", units[0].SectionTitle)
	}
	if units[0].Text != "Intro paragraph before any header." {
		t.Errorf("leading unit text = %q", units[0].Text)
	}

	wantTitles := []string{"", "Getting Started", "Configuration", "FAQ"}
	for i, unit := range units {
		if unit.SectionTitle != wantTitles[i] {
			t.Errorf("unit %d title = %q, want %q", i, unit.SectionTitle, wantTitles[i])
		}
		if unit.Index != i {
			t.Errorf("unit %d index = %d", i, unit.Index)
		}
	}

	// The header line itself stays in the section body.
	if got := units[1].Text; got[:17] != "# Getting Started" {
		t.Errorf("section body should keep its header line, got %q", got)
	}
	if units[2].Metadata["section_title"] != "Configuration" {
		t.Errorf("section_title metadata = %v", units[2].Metadata["section_title"])
	}
}

func TestParseMarkdownSectionsEmpty(t *testing.T) {
	units := parseMarkdownSections("   \n\n   ", "empty.md")
	if len(units) != 0 {
		t.Errorf("got %d units from blank content, want 0", len(units))
	}
}

// writeDocx builds a minimal .docx archive with the given document body and
// core properties.
func writeDocx(t *testing.T, dir, name, documentXML, coreXML string) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range []struct{ name, content string }{
		{"word/document.xml", documentXML},
		{"docProps/core.xml", coreXML},
	} {
		if entry.content == "" {
			continue
		}
		f, err := w.Create(entry.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", entry.name, err)
		}
		if _, err := f.Write([]byte(entry.content)); err != nil {
			t.Fatalf("zip write %s: %v", entry.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractDOCX(t *testing.T) {
	document := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p>
      <pPr><pStyle val="Heading1"/></pPr>
      <r><t>Quarterly Review</t></r>
    </p>
    <p><r><t>Revenue grew in the first quarter. </t><t>Costs were flat.</t></r></p>
    <p><r><t></t></r></p>
    <p><r><t>Outlook remains positive.</t></r></p>
  </body>
</document>`
	core := `<?xml version="1.0"?>
<coreProperties xmlns:dc="http://purl.org/dc/elements/1.1/">
  <title>Q1 Report</title>
  <creator>Finance Team</creator>
  <created>2024-04-01T09:00:00Z</created>
  <modified>2024-04-02T10:30:00Z</modified>
  <language>en-US</language>
</coreProperties>`

	dir := t.TempDir()
	path := writeDocx(t, dir, "report.docx", document, core)

	p := NewFileProcessor()
	units, meta, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}

	want := "Quarterly Review\n\nRevenue grew in the first quarter. Costs were flat.\n\nOutlook remains positive."
	if units[0].Text != want {
		t.Errorf("unit text = %q, want %q", units[0].Text, want)
	}
	if units[0].SectionTitle != "Quarterly Review" {
		t.Errorf("section title = %q", units[0].SectionTitle)
	}

	if meta.Title != "Q1 Report" || meta.Author != "Finance Team" || meta.Language != "en-US" {
		t.Errorf("core properties not applied: %+v", meta)
	}
	if meta.CreatedDate == nil || meta.CreatedDate.Format("2006-01-02") != "2024-04-01" {
		t.Errorf("created date = %v", meta.CreatedDate)
	}
	if meta.ModifiedDate == nil || meta.ModifiedDate.Format("2006-01-02") != "2024-04-02" {
		t.Errorf("modified date = %v", meta.ModifiedDate)
	}
}

func TestExtractDOCXEmptyBody(t *testing.T) {
	document := `<?xml version="1.0"?><document><body></body></document>`

	dir := t.TempDir()
	path := writeDocx(t, dir, "empty.docx", document, "")

	p := NewFileProcessor()
	units, _, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("got %d units from an empty body, want 0", len(units))
	}
}

func TestIsHeading(t *testing.T) {
	tests := []struct {
		style string
		text  string
		want  bool
	}{
		{"Heading1", "anything at all, even long lowercase text that runs on", true},
		{"", "INTRODUCTION", true},
		{"", "Getting Started With The Service", true},
		{"", "a plain lowercase sentence", false},
		{"", "This is a long title-cased sentence with more than ten separate capitalized-looking words in it Overall", false},
		{"Normal", "regular body text goes here", false},
	}
	for _, tt := range tests {
		if got := isHeading(tt.style, tt.text); got != tt.want {
			t.Errorf("isHeading(%q, %q) = %v, want %v", tt.style, tt.text, got, tt.want)
		}
	}
}
