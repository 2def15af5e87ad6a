// Package export serializes an assembled markdown book into downloadable
// PDF, DOCX, HTML, and Markdown files. Every exporter is a pure function
// from (document, metadata) to an in-memory file; nothing is written until
// the whole output is built, so a failing collaborator never leaves a
// partial file behind.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opd-ai/bookforge/paginate"
)

// Format selects an output serialization.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// Metadata carries the title block embedded in exports and used for the
// output filename.
type Metadata struct {
	Title    string
	Subtitle string
	Author   string
}

// File is a fully built export ready to be written to disk or served as an
// HTTP attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export builds the document in the requested format. Pages are optional:
// when supplied, the PDF exporter preserves the on-screen page boundaries
// and cover images exactly; without them it falls back to reflowed text.
func Export(format Format, document string, meta Metadata, pages []paginate.Page) (File, error) {
	switch format {
	case FormatMarkdown:
		return exportMarkdown(document, meta)
	case FormatHTML:
		return exportHTML(document, meta)
	case FormatDOCX:
		return exportDOCX(document, meta)
	case FormatPDF:
		if len(pages) > 0 {
			return exportPDFPages(meta, pages)
		}
		return exportPDF(document, meta)
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes f into dir and returns the full path.
func WriteFile(f File, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// Slug derives a filesystem-safe filename stem from a title: lowercased,
// with every run of non-alphanumeric characters collapsed to a single
// underscore. An empty or fully symbolic title slugs to "book".
func Slug(title string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	if b.Len() == 0 {
		return "book"
	}
	return b.String()
}

func filename(meta Metadata, format Format) string {
	return Slug(meta.Title) + "." + string(format)
}
