package bookforge

import (
	"fmt"
	"strings"
)

// AssembleDocument flattens a book into the single markdown document the
// paginator and exporters consume. Section roles are explicit here: the
// preface and table of contents are always the first two sections, chapters
// follow in order, each opened by a level-2 heading. Downstream code never
// has to guess which leading sections are metadata.
func AssembleDocument(b *Book) string {
	var doc strings.Builder

	doc.WriteString("## Preface\n\n")
	doc.WriteString(strings.TrimSpace(b.Preface))
	doc.WriteString("\n\n")

	doc.WriteString("## Table of Contents\n\n")
	if toc := tocListing(b); toc != "" {
		doc.WriteString(toc)
	} else {
		doc.WriteString(strings.TrimSpace(b.TableOfContents))
		doc.WriteString("\n")
	}
	doc.WriteString("\n")

	for i := range b.Chapters {
		c := &b.Chapters[i]
		doc.WriteString("## " + c.Title + "\n\n")
		doc.WriteString(strings.TrimSpace(c.Text))
		doc.WriteString("\n\n")
	}

	return doc.String()
}

// tocListing renders a plain numbered listing of chapter titles. It avoids
// re-embedding the raw outline response, which contains its own `## ` lines
// that would read as extra sections.
func tocListing(b *Book) string {
	if len(b.Chapters) == 0 {
		return ""
	}
	var s strings.Builder
	for i := range b.Chapters {
		fmt.Fprintf(&s, "%d. %s\n", i+1, b.Chapters[i].Title)
	}
	return s.String()
}
