package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Run sizes are half-points.
const (
	docxTitleSize    = "48"
	docxSubtitleSize = "32"
	docxHeadingSize  = "32"
	docxAuthorSize   = "24"
)

// exportDOCX builds a word-processing document: a centered title block, then
// a line walk over the markdown where "## " lines become bold headings with
// the marker stripped and other non-blank lines become body paragraphs.
func exportDOCX(document string, meta Metadata) (File, error) {
	w := docx.New().WithDefaultTheme()

	if meta.Title != "" {
		p := w.AddParagraph().Justification("center")
		p.AddText(meta.Title).Size(docxTitleSize).Bold()
	}
	if meta.Subtitle != "" {
		p := w.AddParagraph().Justification("center")
		p.AddText(meta.Subtitle).Size(docxSubtitleSize)
	}
	if meta.Author != "" {
		p := w.AddParagraph().Justification("center")
		p.AddText("by " + meta.Author).Size(docxAuthorSize).Italic()
	}

	for _, line := range strings.Split(document, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			p := w.AddParagraph()
			p.AddText(strings.TrimPrefix(line, "## ")).Size(docxHeadingSize).Bold()
		case strings.TrimSpace(line) != "":
			w.AddParagraph().AddText(line)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return File{}, fmt.Errorf("building docx package: %w", err)
	}

	return File{
		Name:        filename(meta, FormatDOCX),
		ContentType: docxContentType,
		Data:        buf.Bytes(),
	}, nil
}
