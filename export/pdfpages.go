package export

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/opd-ai/bookforge/paginate"
)

// Cover images are normalized to fit this pixel box (A4 at ~150dpi) before
// being embedded, which keeps oversized generations from bloating the file.
const (
	coverFitWidth  = 1240
	coverFitHeight = 1754
)

// exportPDFPages is the page-faithful strategy: one A4 PDF page per computed
// pager page, cover sentinels included. The loop is strictly sequential and
// all render state lives in this call, so a failure part way through only
// discards in-memory work.
func exportPDFPages(meta Metadata, pages []paginate.Page) (File, error) {
	pdf := newBookPDF()
	pdf.SetAutoPageBreak(false, 0)

	for i, page := range pages {
		pdf.AddPage()
		switch page.Kind {
		case paginate.KindCover:
			if err := placeCover(pdf, fmt.Sprintf("cover-%d", i), page.Image); err != nil {
				return File{}, fmt.Errorf("page %d: %w", i+1, err)
			}
		default:
			pdf.SetFont(pdfTextFont, "", 12)
			pdf.MultiCell(0, 6, cleanText(page.Text), "", "L", false)
		}
	}

	return finishPDF(pdf, meta)
}

// placeCover decodes a base64 image, resizes it to fit the embed box, and
// centers it inside the page margins preserving aspect ratio.
func placeCover(pdf *gofpdf.Fpdf, name, encoded string) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadCoverImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadCoverImage, err)
	}
	img = imaging.Fit(img, coverFitWidth, coverFitHeight, imaging.Lanczos)

	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return fmt.Errorf("encoding cover: %w", err)
	}

	bounds := img.Bounds()
	boxW := pdfPageWidth - 2*pdfMargin
	boxH := pdfPageHeight - 2*pdfMargin
	w := boxW
	h := w * float64(bounds.Dy()) / float64(bounds.Dx())
	if h > boxH {
		h = boxH
		w = h * float64(bounds.Dx()) / float64(bounds.Dy())
	}
	x := (pdfPageWidth - w) / 2
	y := (pdfPageHeight - h) / 2

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &png)
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("embedding cover: %v", pdf.Error())
	}
	return nil
}
