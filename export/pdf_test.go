package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/opd-ai/bookforge/paginate"
)

func TestExportPDF_Reflowed(t *testing.T) {
	doc := "## Chapter One\n\nSome *emphasized* text and **bold** text.\n\n- a list item\n- another\n"
	meta := Metadata{Title: "My Book", Author: "A. Writer"}

	file, err := exportPDF(doc, meta)
	if err != nil {
		t.Fatalf("exportPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(file.Data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
	if file.Name != "my_book.pdf" {
		t.Errorf("Name = %q, want %q", file.Name, "my_book.pdf")
	}
}

func TestExportPDF_Paged(t *testing.T) {
	pages := []paginate.Page{
		{Kind: paginate.KindText, Text: "## Preface\n\nwords on page one"},
		{Kind: paginate.KindText, Text: "words on page two"},
	}

	file, err := exportPDFPages(Metadata{Title: "Paged"}, pages)
	if err != nil {
		t.Fatalf("exportPDFPages returned error: %v", err)
	}
	if !bytes.HasPrefix(file.Data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestExportPDF_PagedWithCover(t *testing.T) {
	pages := []paginate.Page{
		{Kind: paginate.KindCover, Image: tinyPNG(t)},
		{Kind: paginate.KindText, Text: "body"},
	}

	file, err := exportPDFPages(Metadata{Title: "Covered"}, pages)
	if err != nil {
		t.Fatalf("exportPDFPages returned error: %v", err)
	}
	if !bytes.HasPrefix(file.Data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestExportPDF_PagedBadCover(t *testing.T) {
	pages := []paginate.Page{
		{Kind: paginate.KindCover, Image: "not base64 at all!"},
	}

	_, err := exportPDFPages(Metadata{Title: "Broken"}, pages)
	if err == nil {
		t.Fatal("expected error for undecodable cover")
	}
}

func TestCleanText(t *testing.T) {
	in := "“quoted” ‘single’ dots… dash—here"
	got := cleanText(in)
	if strings.ContainsAny(got, "“”‘’…—") {
		t.Errorf("cleanText left typographic characters: %q", got)
	}
}

// tinyPNG returns a small valid PNG, base64 encoded.
func tinyPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 6))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
