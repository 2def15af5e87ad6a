// Package paginate splits an assembled markdown book into display-sized
// pages. Level-2 headings delimit sections; the first two sections (preface
// and table of contents, as produced by the assembler) each get a dedicated
// page, remaining sections are split on a fixed character window that never
// breaks inside a word when a whitespace break point is available.
package paginate

import (
	"strings"
	"unicode/utf8"
)

// DefaultPageSize is the target number of characters per text page.
const DefaultPageSize = 2000

// FallbackText fills the single page returned for an empty document.
const FallbackText = "Nothing to show yet. Generate a book to read it here."

// PageKind discriminates text pages from cover-image sentinel pages.
type PageKind int

const (
	KindText PageKind = iota
	KindCover
)

func (k PageKind) String() string {
	if k == KindCover {
		return "cover"
	}
	return "text"
}

// Page is one display unit: either a contiguous slice of the document or a
// base64-encoded cover image.
type Page struct {
	Kind  PageKind `json:"kind"`
	Text  string   `json:"text,omitempty"`
	Image string   `json:"image,omitempty"`
}

// Options controls pagination.
type Options struct {
	// PageSize is the character window per page. Zero means DefaultPageSize.
	PageSize int
	// FrontCover and BackCover are base64-encoded images. When non-empty a
	// cover sentinel page is prepended/appended.
	FrontCover string
	BackCover  string
}

// Paginate splits document into an ordered page sequence. It is total: an
// empty document yields exactly one fallback page. Concatenating the text of
// all non-cover pages reproduces document byte for byte.
func Paginate(document string, opts Options) []Page {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	var pages []Page
	sections := splitSections(document)

	// The assembler emits preface and table of contents as the first two
	// sections ahead of the chapters. Only when all three roles are present
	// do the leading sections get dedicated unsplit pages; shorter documents
	// carry no such guarantee and every section is windowed.
	if len(sections) >= 3 {
		pages = append(pages,
			Page{Kind: KindText, Text: sections[0]},
			Page{Kind: KindText, Text: sections[1]},
		)
		sections = sections[2:]
	}

	for _, section := range sections {
		for _, chunk := range splitWindow(section, size) {
			pages = append(pages, Page{Kind: KindText, Text: chunk})
		}
	}

	if len(pages) == 0 {
		pages = append(pages, Page{Kind: KindText, Text: FallbackText})
	}

	if opts.FrontCover != "" {
		pages = append([]Page{{Kind: KindCover, Image: opts.FrontCover}}, pages...)
	}
	if opts.BackCover != "" {
		pages = append(pages, Page{Kind: KindCover, Image: opts.BackCover})
	}

	return pages
}

// splitSections cuts document at every line beginning with "## ". The heading
// line belongs to the section it opens. Text before the first heading, if
// any, forms a leading section so no byte is lost.
func splitSections(document string) []string {
	if document == "" {
		return nil
	}

	var bounds []int
	for i := 0; i < len(document); i++ {
		if (i == 0 || document[i-1] == '\n') && strings.HasPrefix(document[i:], "## ") {
			bounds = append(bounds, i)
		}
	}

	if len(bounds) == 0 {
		return []string{document}
	}

	var sections []string
	if bounds[0] > 0 {
		sections = append(sections, document[:bounds[0]])
	}
	for i, start := range bounds {
		end := len(document)
		if i+1 < len(bounds) {
			end = bounds[i+1]
		}
		sections = append(sections, document[start:end])
	}
	return sections
}

// splitWindow cuts text into chunks of at most size characters. When the
// window edge falls inside a word the break moves back to just after the
// nearest space or newline, provided that point is strictly after the window
// start. A single word longer than the window takes the hard cut, moved back
// to a rune boundary so spaceless multi-byte prose never yields invalid
// UTF-8 pages.
func splitWindow(text string, size int) []string {
	var chunks []string
	for cursor := 0; cursor < len(text); {
		end := cursor + size
		if end >= len(text) {
			chunks = append(chunks, text[cursor:])
			break
		}
		if !isBreak(text[end-1]) && !isBreak(text[end]) {
			if at := lastBreak(text, cursor, end); at > cursor {
				end = at + 1
			} else {
				for end > cursor+1 && !utf8.RuneStart(text[end]) {
					end--
				}
			}
		}
		chunks = append(chunks, text[cursor:end])
		cursor = end
	}
	return chunks
}

func isBreak(c byte) bool {
	return c == ' ' || c == '\n'
}

// lastBreak returns the index of the last break character in text[from:to),
// or -1 when none exists.
func lastBreak(text string, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if isBreak(text[i]) {
			return i
		}
	}
	return -1
}
