package bookforge

import (
	"strings"
	"testing"
)

func TestAssembleDocument(t *testing.T) {
	b := &Book{
		Title:           "Test Book",
		Preface:         "This is the preface.",
		TableOfContents: "## Chapter: 1 - One\nSummary: first.\n",
		Chapters: []Chapter{
			{Title: "Chapter: 1 - One", Text: "Chapter one prose.", Done: true},
			{Title: "Chapter: 2 - Two", Text: "Chapter two prose.", Done: true},
		},
	}

	doc := AssembleDocument(b)

	if !strings.HasPrefix(doc, "## Preface\n\n") {
		t.Error("document must open with the preface section")
	}
	prefaceAt := strings.Index(doc, "## Preface")
	tocAt := strings.Index(doc, "## Table of Contents")
	ch1At := strings.Index(doc, "## Chapter: 1 - One")
	ch2At := strings.Index(doc, "## Chapter: 2 - Two")
	if !(prefaceAt < tocAt && tocAt < ch1At && ch1At < ch2At) {
		t.Errorf("sections out of order: preface=%d toc=%d ch1=%d ch2=%d",
			prefaceAt, tocAt, ch1At, ch2At)
	}

	if !strings.Contains(doc, "1. Chapter: 1 - One\n") {
		t.Error("table of contents should list chapters as a numbered listing")
	}
	if strings.Contains(doc, "Summary: first.") {
		t.Error("raw outline should not leak into the document when chapters exist")
	}
	if !strings.Contains(doc, "Chapter one prose.") || !strings.Contains(doc, "Chapter two prose.") {
		t.Error("chapter prose missing from document")
	}
}

func TestAssembleDocumentFallsBackToRawOutline(t *testing.T) {
	b := &Book{
		Preface:         "Preface text.",
		TableOfContents: "raw outline text",
	}
	doc := AssembleDocument(b)
	if !strings.Contains(doc, "raw outline text") {
		t.Error("with no chapters the raw outline should stand in for the listing")
	}
}

func TestTailExcerpt(t *testing.T) {
	short := "short text"
	if got := tailExcerpt(short); got != short {
		t.Errorf("tailExcerpt(short) = %q, want unchanged", got)
	}

	long := strings.Repeat("word ", 1000) // 5000 chars
	got := tailExcerpt(long)
	if len(got) > excerptLimit {
		t.Errorf("excerpt length %d exceeds limit %d", len(got), excerptLimit)
	}
	if strings.HasPrefix(got, "ord ") || strings.HasPrefix(got, "rd ") {
		t.Errorf("excerpt starts mid-word: %q", got[:10])
	}
	if !strings.HasSuffix(long, got) {
		t.Error("excerpt must be a suffix of the source text")
	}
}
