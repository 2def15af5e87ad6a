package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/russross/blackfriday/v2"
	"golang.org/x/net/html"
)

// A4 geometry in millimeters, shared by both PDF strategies.
const (
	pdfPageWidth  = 210.0
	pdfPageHeight = 297.0
	pdfMargin     = 20.0
)

const (
	pdfHeadingFont = "Arial"
	pdfTextFont    = "Times"
)

// exportPDF is the reflowed-text strategy: strip the markdown through an
// HTML pass and flow the result into a single continuous text block. Fast
// and selectable, but page boundaries will not match the on-screen pager.
func exportPDF(document string, meta Metadata) (File, error) {
	pdf := newBookPDF()
	pdf.AddPage()
	writeTitleBlock(pdf, meta)

	htmlBytes := blackfriday.Run([]byte(document))
	doc, err := html.Parse(bytes.NewReader(htmlBytes))
	if err != nil {
		return File{}, fmt.Errorf("parsing rendered markdown: %w", err)
	}

	r := &pdfRenderer{pdf: pdf}
	r.renderNode(doc)

	return finishPDF(pdf, meta)
}

func newBookPDF() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfHeadingFont, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf
}

func writeTitleBlock(pdf *gofpdf.Fpdf, meta Metadata) {
	if meta.Title != "" {
		pdf.SetFont(pdfHeadingFont, "B", 28)
		pdf.MultiCell(0, 12, cleanText(meta.Title), "", "C", false)
		pdf.Ln(4)
	}
	if meta.Subtitle != "" {
		pdf.SetFont(pdfHeadingFont, "", 16)
		pdf.MultiCell(0, 8, cleanText(meta.Subtitle), "", "C", false)
		pdf.Ln(2)
	}
	if meta.Author != "" {
		pdf.SetFont(pdfTextFont, "I", 12)
		pdf.MultiCell(0, 6, cleanText("by "+meta.Author), "", "C", false)
	}
	if meta.Title != "" || meta.Subtitle != "" || meta.Author != "" {
		pdf.Ln(12)
	}
}

func finishPDF(pdf *gofpdf.Fpdf, meta Metadata) (File, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return File{}, fmt.Errorf("generating pdf: %w", err)
	}
	return File{
		Name:        filename(meta, FormatPDF),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

// pdfRenderer walks the parsed HTML tree and maps elements onto gofpdf
// primitives. Formatting resets to body text after each styled element so a
// stray tag cannot leak its font into the rest of the document.
type pdfRenderer struct {
	pdf *gofpdf.Fpdf
}

func (r *pdfRenderer) renderNode(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := cleanText(n.Data); strings.TrimSpace(text) != "" {
			r.pdf.Write(5, text)
		}
	case html.ElementNode:
		switch n.Data {
		case "h1":
			r.pdf.Ln(16)
			r.pdf.SetFont(pdfHeadingFont, "B", 22)
			r.renderChildren(n)
			r.pdf.Ln(12)
		case "h2":
			r.pdf.Ln(12)
			r.pdf.SetFont(pdfHeadingFont, "B", 18)
			r.renderChildren(n)
			r.pdf.Ln(9)
		case "h3", "h4":
			r.pdf.Ln(8)
			r.pdf.SetFont(pdfHeadingFont, "B", 14)
			r.renderChildren(n)
			r.pdf.Ln(6)
		case "p":
			r.pdf.SetFont(pdfTextFont, "", 12)
			r.renderChildren(n)
			r.pdf.Ln(8)
		case "em", "i":
			r.pdf.SetFont(pdfTextFont, "I", 12)
			r.renderChildren(n)
			r.pdf.SetFont(pdfTextFont, "", 12)
		case "strong", "b":
			r.pdf.SetFont(pdfTextFont, "B", 12)
			r.renderChildren(n)
			r.pdf.SetFont(pdfTextFont, "", 12)
		case "code", "pre":
			r.pdf.SetFont("Courier", "", 10)
			r.renderChildren(n)
			r.pdf.SetFont(pdfTextFont, "", 12)
		case "ul", "ol":
			r.pdf.Ln(4)
			r.renderChildren(n)
			r.pdf.Ln(4)
		case "li":
			r.pdf.Write(5, "• ")
			r.pdf.SetFont(pdfTextFont, "", 12)
			r.renderChildren(n)
			r.pdf.Ln(5)
		case "br":
			r.pdf.Ln(5)
		default:
			r.renderChildren(n)
		}
	default:
		r.renderChildren(n)
	}
}

func (r *pdfRenderer) renderChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.renderNode(c)
	}
}

// cleanText replaces characters outside the core PDF font encodings with
// plain ASCII equivalents.
func cleanText(text string) string {
	replacer := strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
		"…", "...",
		"—", "-",
		"–", "-",
	)
	return replacer.Replace(text)
}
