package export

import "strings"

// exportMarkdown emits the raw document prefixed with a synthesized metadata
// header block. The document text itself is passed through unchanged.
func exportMarkdown(document string, meta Metadata) (File, error) {
	var b strings.Builder
	if meta.Title != "" {
		b.WriteString("# " + meta.Title + "\n")
	}
	if meta.Subtitle != "" {
		b.WriteString("## " + meta.Subtitle + "\n")
	}
	if meta.Author != "" {
		b.WriteString("### by " + meta.Author + "\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(document)

	return File{
		Name:        filename(meta, FormatMarkdown),
		ContentType: "text/markdown; charset=utf-8",
		Data:        []byte(b.String()),
	}, nil
}
